package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mapforge/levelsweep/internal/controller"
	"github.com/mapforge/levelsweep/internal/domain"
	m "github.com/mapforge/levelsweep/internal/model"
)

var scanMissingLogFlag string

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <level-root>",
		Short: "Read a level and list its delete candidates",
		Long: `Read the level tree under the given root, build the dependency graph and
list every file with no reachable reference. Nothing is deleted.

Candidates also present in the missing-files log are listed but not
pre-selected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absPath(args[0])
			if err != nil {
				return err
			}

			missingLog, err := absOptionalPath(scanMissingLogFlag)
			if err != nil {
				return err
			}

			var candidates []m.DeleteCandidate

			err = runOperation(cmd, root, func(ctx context.Context, w domain.Workflow) error {
				tree, err := w.ReadLevel(ctx, root)
				if err != nil {
					return err
				}

				candidates, err = w.Resolve(ctx, tree, missingLog)

				return err
			})
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd, viper.GetBool(verboseFlagName))

			return ui.DisplayCandidates(candidates)
		},
	}

	cmd.Flags().StringVarP(&scanMissingLogFlag, missingLogFlagName, "m", "",
		"path of the game-produced missing-files log")

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
