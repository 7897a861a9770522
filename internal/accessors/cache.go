package accessors

import (
	"fmt"
	"sort"

	"kiln/internal/ir"
)

// AccessorKey identifies one synthesized accessor: the original declaration
// plus the accessor kind. At most one declaration is ever registered under a
// given key for the lifetime of a compilation unit.
type AccessorKey struct {
	Decl ir.DeclID
	Kind AccessorKind
}

// Cache memoizes synthesized accessors per compilation unit. It is owned by
// one Lowerer, lives for one compilation, and is not safe for concurrent use:
// the lowering is single-threaded within a unit.
type Cache struct {
	entries map[AccessorKey]ir.DeclID
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[AccessorKey]ir.DeclID)}
}

// Lookup returns the cached accessor for key, if any.
func (c *Cache) Lookup(key AccessorKey) (ir.DeclID, bool) {
	id, ok := c.entries[key]
	return id, ok
}

// Len reports the number of cached accessors.
func (c *Cache) Len() int { return len(c.entries) }

// Keys returns all cached keys in deterministic order.
func (c *Cache) Keys() []AccessorKey {
	keys := make([]AccessorKey, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Decl != keys[j].Decl {
			return keys[i].Decl < keys[j].Decl
		}
		return keys[i].Kind < keys[j].Kind
	})
	return keys
}

// GetOrCreate returns the cached accessor for key, or invokes factory exactly
// once to synthesize it.
//
// Insert-before-complete contract: factory receives a put callback and must
// call it with the freshly allocated declaration before triggering any nested
// synthesis. A re-entrant GetOrCreate for the same key then sees the partial
// entry instead of invoking the factory again, which is what keeps cyclic
// synthesis requests from diverging. The declaration's body may still be
// under construction when the partial entry becomes visible; this is safe
// only because a unit is lowered by a single goroutine.
func (c *Cache) GetOrCreate(key AccessorKey, factory func(put func(ir.DeclID)) (ir.DeclID, error)) (ir.DeclID, error) {
	if id, ok := c.entries[key]; ok {
		return id, nil
	}
	stored := ir.NoDeclID
	put := func(id ir.DeclID) {
		stored = id
		c.entries[key] = id
	}
	id, err := factory(put)
	if err != nil {
		delete(c.entries, key)
		return ir.NoDeclID, err
	}
	if !stored.IsValid() {
		return ir.NoDeclID, fmt.Errorf("accessors: factory for %v returned without storing its accessor", key)
	}
	if stored != id {
		return ir.NoDeclID, fmt.Errorf("accessors: factory for %v stored %d but returned %d", key, stored, id)
	}
	return id, nil
}
