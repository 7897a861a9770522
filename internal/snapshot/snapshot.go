// Package snapshot serializes ir modules to msgpack, both as the CLI's
// interchange format and as a digest-keyed on-disk cache of lowering results.
package snapshot

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"kiln/internal/ir"
)

// Schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// Digest is a sha256 content hash used as the cache key.
type Digest [sha256.Size]byte

// Payload is the flat serialized form of one ir.Module.
type Payload struct {
	Schema uint16 `msgpack:"schema"`
	Name   string `msgpack:"name"`

	Decls []ir.Decl     `msgpack:"decls"`
	Exprs []ir.Expr     `msgpack:"exprs"`
	Roots []ir.DeclID   `msgpack:"roots"`
	Sites []ir.CallSite `msgpack:"sites"`

	ValueClassReplacements map[ir.DeclID]ir.DeclID `msgpack:"value_class_replacements,omitempty"`
}

// Encode serializes a module.
func Encode(m *ir.Module) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("snapshot: nil module")
	}
	payload := Payload{
		Schema:                 schemaVersion,
		Name:                   m.Name,
		Decls:                  m.Decls.Data(),
		Exprs:                  m.Exprs.Data(),
		Roots:                  m.Roots,
		Sites:                  m.Sites,
		ValueClassReplacements: m.ValueClassReplacements,
	}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&payload); err != nil {
		return nil, fmt.Errorf("snapshot: encode %q: %w", m.Name, err)
	}
	return buf.Bytes(), nil
}

// Decode reconstructs a module from its serialized form.
func Decode(data []byte) (*ir.Module, error) {
	var payload Payload
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if payload.Schema != schemaVersion {
		return nil, fmt.Errorf("snapshot: unsupported schema %d (want %d)", payload.Schema, schemaVersion)
	}
	m := ir.NewModule(payload.Name)
	for i := range payload.Decls {
		m.Decls.New(&payload.Decls[i])
	}
	for i := range payload.Exprs {
		m.Exprs.New(&payload.Exprs[i])
	}
	m.Roots = payload.Roots
	m.Sites = payload.Sites
	if payload.ValueClassReplacements != nil {
		m.ValueClassReplacements = payload.ValueClassReplacements
	}
	return m, nil
}

// ReadFile loads a module snapshot from disk.
func ReadFile(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %q: %w", path, err)
	}
	return Decode(data)
}

// WriteFile stores a module snapshot to disk.
func WriteFile(path string, m *ir.Module) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", path, err)
	}
	return nil
}

// DigestOf hashes serialized module bytes.
func DigestOf(data []byte) Digest {
	return sha256.Sum256(data)
}
