package cmd

import (
	"context"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mapforge/levelsweep/internal/controller"
	"github.com/mapforge/levelsweep/internal/domain"
)

var shiftDxFlag, shiftDyFlag, shiftDzFlag string
var shiftDryRunFlag bool

// shiftCmd represents the shift command.
var shiftCmd = newShiftCmd()

func newShiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift <level-root>",
		Short: "Shift every position field by a global offset",
		Long: `Apply a 3-axis offset to the position fields of every mission-group
document. Offsets are decimal: repeated shifts never accumulate binary
rounding drift, and shifting by an offset and back restores the original
values exactly.

A file in which any position field cannot be safely rewritten is left
completely untouched and recorded as an error. With --dry-run the
planned changes are shown as unified diffs instead of being written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absPath(args[0])
			if err != nil {
				return err
			}

			offset, err := domain.ParseOffset(shiftDxFlag, shiftDyFlag, shiftDzFlag)
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd, viper.GetBool(verboseFlagName))

			var plan *domain.ShiftPlan

			changed := 0

			err = runOperation(cmd, root, func(ctx context.Context, w domain.Workflow) error {
				tree, err := w.ReadLevel(ctx, root)
				if err != nil {
					return err
				}

				if shiftDryRunFlag {
					plan, err = w.PlanShift(ctx, tree, offset)
					return err
				}

				changed, err = w.Shift(ctx, tree, offset)

				return err
			})
			if err != nil {
				return err
			}

			if shiftDryRunFlag {
				return displayPlan(ui, plan)
			}

			return ui.DisplaySummary(fmt.Sprintf("shifted %d position fields", changed))
		},
	}

	cmd.Flags().StringVar(&shiftDxFlag, "dx", "0", "x-axis offset")
	cmd.Flags().StringVar(&shiftDyFlag, "dy", "0", "y-axis offset")
	cmd.Flags().StringVar(&shiftDzFlag, "dz", "0", "z-axis offset")
	cmd.Flags().BoolVar(&shiftDryRunFlag, "dry-run", false, "show the planned changes without writing")

	return cmd
}

func displayPlan(ui controller.UI, plan *domain.ShiftPlan) error {
	for _, file := range plan.Files {
		if file.FieldsChanged == 0 {
			continue
		}

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(file.Before)),
			B:        difflib.SplitLines(string(file.After)),
			FromFile: string(file.Rel),
			ToFile:   string(file.Rel),
			Context:  1,
		})
		if err != nil {
			return err
		}

		if err := ui.DisplayDiff(diff); err != nil {
			return err
		}
	}

	return ui.DisplaySummary(fmt.Sprintf("would shift %d position fields", plan.Changed))
}

func init() {
	rootCmd.AddCommand(shiftCmd)
}
