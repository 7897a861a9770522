package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kiln/internal/driver"
	"kiln/internal/ir"
	"kiln/internal/observ"
)

var accessorsDumpTree bool

func init() {
	accessorsCmd.Flags().BoolVar(&accessorsDumpTree, "tree", false, "also dump the lowered declaration tree")
}

var accessorsCmd = &cobra.Command{
	Use:   "accessors <snapshot.mp>...",
	Short: "Lower snapshots and print the synthesized accessor table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configureColor(cmd)
		timings, _ := cmd.Flags().GetBool("timings")
		jobs, _ := cmd.Flags().GetInt("jobs")

		platform, err := loadPlatform()
		if err != nil {
			return err
		}
		mods, err := readSnapshots(args)
		if err != nil {
			return err
		}

		timer := observ.NewTimer()
		results, err := driver.LowerModules(cmd.Context(), mods, driver.Options{
			Jobs:     jobs,
			Platform: platform,
		}, timer)
		if err != nil {
			return err
		}

		heading := color.New(color.FgCyan, color.Bold)
		kindColor := color.New(color.FgYellow)
		nameColor := color.New(color.FgGreen)
		for _, res := range results {
			heading.Printf("module %s\n", res.Module.Name)
			if len(res.Accessors) == 0 {
				fmt.Println("  (no accessors needed)")
			}
			for _, acc := range res.Accessors {
				original := declName(res.Module, acc.Original)
				synthesized := declName(res.Module, acc.Accessor)
				container := declName(res.Module, containerOf(res.Module, acc.Accessor))
				fmt.Printf("  %-20s %s -> %s  in %s\n",
					kindColor.Sprint(acc.Kind), original, nameColor.Sprint(synthesized), container)
			}
			if accessorsDumpTree {
				if err := ir.Fprint(os.Stdout, res.Module); err != nil {
					return err
				}
			}
		}
		if timings {
			fmt.Fprint(os.Stderr, timer.Summary())
		}
		return nil
	},
}

func declName(m *ir.Module, id ir.DeclID) string {
	if decl := m.Decls.Get(id); decl != nil {
		return decl.Name
	}
	return "?"
}

func containerOf(m *ir.Module, id ir.DeclID) ir.DeclID {
	if decl := m.Decls.Get(id); decl != nil {
		return decl.Parent
	}
	return ir.NoDeclID
}
