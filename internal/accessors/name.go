package accessors

import "strings"

// NameBuilder accumulates ordered name fragments into one synthesized
// identifier. Fragments are concatenated exactly as contributed: no
// deduplication, no reordering. Changing the order of contributions changes
// emitted names and therefore breaks binary compatibility.
type NameBuilder struct {
	fragments []string
	built     bool
}

// Contribute appends one fragment.
func (b *NameBuilder) Contribute(fragment string) {
	if b.built {
		panic("accessors.NameBuilder: contribute after build")
	}
	b.fragments = append(b.fragments, fragment)
}

// Build concatenates all contributed fragments in contribution order. It must
// be called at most once per builder.
func (b *NameBuilder) Build() string {
	if b.built {
		panic("accessors.NameBuilder: build called twice")
	}
	b.built = true
	return strings.Join(b.fragments, "")
}

// JavaNameHash is Java's String.hashCode over s: h = 31*h + c for each UTF-16
// code unit, wrapping in int32. Used for the super-qualifier suffix; the
// collision risk of a 32-bit non-cryptographic hash over simple class names is
// accepted and intentionally not solved, matching the emitted-name scheme
// existing artifacts already depend on.
func JavaNameHash(s string) int32 {
	var h int32
	for _, u := range utf16Units(s) {
		h = 31*h + int32(u)
	}
	return h
}

func utf16Units(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		if r < 0x10000 {
			units = append(units, uint16(r))
			continue
		}
		r -= 0x10000
		units = append(units, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
	}
	return units
}
