package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"kiln/internal/accessors"
	"kiln/internal/driver"
	"kiln/internal/ir"
	"kiln/internal/observ"
	"kiln/internal/snapshot"
	"kiln/internal/target"
)

var lowerOutput string

func init() {
	lowerCmd.Flags().StringVarP(&lowerOutput, "output", "o", "", "output snapshot path (default: <input>.lowered.mp)")
	lowerCmd.Flags().Bool("disk-cache", false, "reuse lowered snapshots from the user cache by input digest")
	lowerCmd.Flags().String("cache-dir", "", "disk cache location (default: user cache dir)")
}

var lowerCmd = &cobra.Command{
	Use:   "lower <snapshot.mp>...",
	Short: "Run accessor lowering over module snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configureColor(cmd)
		quiet, _ := cmd.Flags().GetBool("quiet")
		timings, _ := cmd.Flags().GetBool("timings")
		jobs, _ := cmd.Flags().GetInt("jobs")

		if lowerOutput != "" && len(args) > 1 {
			return fmt.Errorf("--output is only valid with a single input")
		}

		platform, err := loadPlatform()
		if err != nil {
			return err
		}

		mods, err := readSnapshots(args)
		if err != nil {
			return err
		}

		cache, err := openDiskCache(cmd)
		if err != nil {
			return err
		}

		timer := observ.NewTimer()
		results, err := driver.LowerModules(cmd.Context(), mods, driver.Options{
			Jobs:     jobs,
			Platform: platform,
			Cache:    cache,
		}, timer)
		if err != nil {
			return err
		}

		for i, res := range results {
			out := lowerOutput
			if out == "" {
				out = strings.TrimSuffix(args[i], ".mp") + ".lowered.mp"
			}
			if err := snapshot.WriteFile(out, res.Module); err != nil {
				return err
			}
			if !quiet {
				note := ""
				if res.FromCache {
					note = " (cached)"
				}
				fmt.Printf("%s: %d accessor(s)%s -> %s\n", res.Module.Name, res.AccessorCount, note, out)
			}
		}
		if timings {
			fmt.Fprint(os.Stderr, timer.Summary())
		}
		return nil
	},
}

func openDiskCache(cmd *cobra.Command) (*snapshot.DiskCache, error) {
	enabled, _ := cmd.Flags().GetBool("disk-cache")
	if !enabled {
		return nil, nil
	}
	if dir, _ := cmd.Flags().GetString("cache-dir"); dir != "" {
		return snapshot.OpenDiskCacheAt(dir)
	}
	return snapshot.OpenDiskCache("kiln")
}

func loadPlatform() (accessors.Platform, error) {
	cfg, err := target.LoadOrDefault(".")
	if err != nil {
		return nil, err
	}
	return accessors.NewJVMPlatform(cfg.PlatformMarkers()), nil
}

func readSnapshots(paths []string) ([]*ir.Module, error) {
	mods := make([]*ir.Module, 0, len(paths))
	for _, path := range paths {
		mod, err := snapshot.ReadFile(path)
		if err != nil {
			return nil, err
		}
		mods = append(mods, mod)
	}
	return mods, nil
}
