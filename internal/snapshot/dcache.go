package snapshot

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// DiskCache stores lowered-module snapshots keyed by the digest of their
// pre-lowering input, so re-lowering an unchanged unit is a file read.
type DiskCache struct {
	dir string
}

// CacheEntry is the persisted record for one lowered unit.
type CacheEntry struct {
	Schema uint16 `msgpack:"schema"`
	Name   string `msgpack:"name"`
	// Lowered is the encoded post-lowering snapshot.
	Lowered []byte `msgpack:"lowered"`
	// Accessors counts the synthesized declarations, for reporting.
	Accessors int `msgpack:"accessors"`
}

// OpenDiskCache initializes a disk cache at the standard user cache location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("snapshot: resolve cache dir: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "units", hexKey+".mp")
}

// Put serializes and writes an entry, atomically replacing any previous one.
func (c *DiskCache) Put(key Digest, entry *CacheEntry) error {
	if c == nil {
		return nil
	}
	entry.Schema = schemaVersion

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("snapshot: cache put: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return fmt.Errorf("snapshot: cache put: %w", err)
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: cache put: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: cache put: %w", err)
	}
	return os.Rename(f.Name(), p)
}

// Get reads an entry; the second return reports whether the key was present.
func (c *DiskCache) Get(key Digest, out *CacheEntry) (bool, error) {
	if c == nil {
		return false, nil
	}
	data, err := os.ReadFile(c.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("snapshot: cache get: %w", err)
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("snapshot: cache get: %w", err)
	}
	if out.Schema != schemaVersion {
		// Stale format; treat as a miss so the entry gets rewritten.
		return false, nil
	}
	return true, nil
}
