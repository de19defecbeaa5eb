package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mapforge/levelsweep/internal/adapter"
	"github.com/mapforge/levelsweep/internal/domain"
)

var packNameFlag string

// packCmd represents the pack command.
var packCmd = newPackCmd()

func newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <level-root>",
		Short: "Package a level tree into a deployable archive",
		Long: `Build a zip archive from the level tree, named after the level. The
level name is taken from the descriptor unless overridden with --name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absPath(args[0])
			if err != nil {
				return err
			}

			level, err := adapter.ParseCompressionLevel(viper.GetString(compressionConfigKey))
			if err != nil {
				return err
			}

			name := packNameFlag
			if name == "" {
				err := runOperation(cmd, root, func(ctx context.Context, w domain.Workflow) error {
					tree, err := w.ReadLevel(ctx, root)
					if err != nil {
						return err
					}

					name = tree.Name

					return nil
				})
				if err != nil {
					return err
				}
			}

			archive, err := archiveService.Pack(root, name, level)
			if err != nil {
				return err
			}

			cmd.Println(fmt.Sprintf("packed %s", archive))

			return nil
		},
	}

	cmd.Flags().String("compression", viper.GetString(compressionConfigKey),
		"compression level: none, fastest, optimal or smallest")
	bindFlagToConfig(cmd.Flags().Lookup("compression"), compressionConfigKey)
	cmd.Flags().StringVar(&packNameFlag, "name", "", "archive name override")

	return cmd
}

func init() {
	rootCmd.AddCommand(packCmd)
}
