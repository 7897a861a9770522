// Package driver runs accessor lowering over whole builds: many compilation
// units, each lowered sequentially by its own Lowerer, fanned out across
// goroutines.
package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"kiln/internal/accessors"
	"kiln/internal/ir"
	"kiln/internal/observ"
	"kiln/internal/snapshot"
)

// Options controls a lowering run.
type Options struct {
	// Jobs caps concurrent units; 0 means GOMAXPROCS.
	Jobs int
	// Platform specializes naming and placement; required.
	Platform accessors.Platform
	// Cache, when set, is consulted by input digest before lowering a unit
	// and updated afterwards.
	Cache *snapshot.DiskCache
}

// UnitResult is the outcome for one compilation unit.
type UnitResult struct {
	Module *ir.Module
	// Accessors lists the synthesized declarations; empty on a cache hit,
	// which only persists the count.
	Accessors []accessors.Synthesized
	// AccessorCount is populated on both paths.
	AccessorCount int
	FromCache     bool
	InputBytes    int
}

// LowerModules lowers every module and returns results in input order. Each
// unit gets a private accessor cache, so units are independent and safe to
// run concurrently; within a unit everything stays single-threaded.
func LowerModules(ctx context.Context, mods []*ir.Module, opts Options, timer *observ.Timer) ([]*UnitResult, error) {
	if opts.Platform == nil {
		return nil, fmt.Errorf("driver: no platform configured")
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var phase int
	if timer != nil {
		phase = timer.Begin("lower")
	}

	results := make([]*UnitResult, len(mods))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, mod := range mods {
		if mod == nil {
			continue
		}
		i, mod := i, mod
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := lowerUnit(mod, opts)
			if err != nil {
				return fmt.Errorf("driver: unit %q: %w", mod.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	if timer != nil {
		timer.End(phase, fmt.Sprintf("%d units", len(mods)))
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func lowerUnit(mod *ir.Module, opts Options) (*UnitResult, error) {
	var digest snapshot.Digest
	var encoded []byte
	if opts.Cache != nil {
		data, err := snapshot.Encode(mod)
		if err != nil {
			return nil, err
		}
		encoded = data
		digest = snapshot.DigestOf(data)

		var entry snapshot.CacheEntry
		hit, err := opts.Cache.Get(digest, &entry)
		if err != nil {
			return nil, err
		}
		if hit {
			lowered, err := snapshot.Decode(entry.Lowered)
			if err == nil {
				return &UnitResult{
					Module:        lowered,
					AccessorCount: entry.Accessors,
					FromCache:     true,
					InputBytes:    len(data),
				}, nil
			}
			// Corrupt entry: fall through and re-lower.
		}
	}

	lowerer := accessors.NewLowerer(mod, opts.Platform)
	if err := lowerer.LowerModule(); err != nil {
		return nil, err
	}
	res := &UnitResult{
		Module:     mod,
		Accessors:  lowerer.SynthesizedAccessors(),
		InputBytes: len(encoded),
	}
	res.AccessorCount = len(res.Accessors)

	if opts.Cache != nil {
		lowered, err := snapshot.Encode(mod)
		if err != nil {
			return nil, err
		}
		entry := snapshot.CacheEntry{
			Name:      mod.Name,
			Lowered:   lowered,
			Accessors: len(res.Accessors),
		}
		if err := opts.Cache.Put(digest, &entry); err != nil {
			return nil, err
		}
	}
	return res, nil
}
