package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mapforge/levelsweep/internal/controller"
	"github.com/mapforge/levelsweep/internal/domain"
	m "github.com/mapforge/levelsweep/internal/model"
)

var cleanMissingLogFlag string
var cleanAllFlag bool
var cleanYesFlag bool

// cleanCmd represents the clean command.
var cleanCmd = newCleanCmd()

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <level-root>",
		Short: "Delete orphaned files from a level",
		Long: `Read the level tree, resolve the delete candidates and remove the chosen
subset. On a terminal an interactive picker opens, pre-selecting every
candidate not present in the missing-files log; with --yes the
pre-selection is deleted without asking, and --all selects every
candidate first.

Deletion is best-effort per file: a file that cannot be removed is
recorded as an error and the rest is still processed. Every run writes a
warnings and an errors log file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absPath(args[0])
			if err != nil {
				return err
			}

			missingLog, err := absOptionalPath(cleanMissingLogFlag)
			if err != nil {
				return err
			}

			var diag *m.DiagnosticLog

			deleted := 0

			err = runOperation(cmd, root, func(ctx context.Context, w domain.Workflow) error {
				tree, err := w.ReadLevel(ctx, root)
				if err != nil {
					return err
				}

				candidates, err := w.Resolve(ctx, tree, missingLog)
				if err != nil {
					return err
				}

				if cleanAllFlag {
					for i := range candidates {
						candidates[i].PreSelected = true
					}
				}

				selected, ok, err := chooseCandidates(candidates)
				if err != nil {
					return err
				}

				if !ok {
					return fmt.Errorf("aborted, nothing deleted")
				}

				deleted = len(selected)
				diag, err = w.Delete(ctx, tree, selected)

				return err
			})
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd, viper.GetBool(verboseFlagName))

			return ui.DisplaySummary(fmt.Sprintf("processed %d selected candidates (%d warnings, %d errors logged)",
				deleted, len(diag.Filter(m.SeverityWarning)), len(diag.Filter(m.SeverityError))))
		},
	}

	cmd.Flags().StringVarP(&cleanMissingLogFlag, missingLogFlagName, "m", "",
		"path of the game-produced missing-files log")
	cmd.Flags().BoolVar(&cleanAllFlag, "all", false, "select every candidate, including missing-log hits")
	cmd.Flags().BoolVarP(&cleanYesFlag, "yes", "y", false, "skip the interactive picker, delete the selection")

	return cmd
}

// chooseCandidates returns the subset to delete. Interactive on a terminal
// unless --yes; otherwise the pre-selection is taken as is.
func chooseCandidates(candidates []m.DeleteCandidate) ([]m.DeleteCandidate, bool, error) {
	if len(candidates) == 0 {
		return nil, true, nil
	}

	if !cleanYesFlag && isatty.IsTerminal(os.Stdout.Fd()) {
		return controller.PickCandidates(candidates)
	}

	var selected []m.DeleteCandidate

	for _, candidate := range candidates {
		if candidate.PreSelected {
			selected = append(selected, candidate)
		}
	}

	return selected, true, nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
