package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unpackSuffixFlag string

// unpackCmd represents the unpack command.
var unpackCmd = newUnpackCmd()

func newUnpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack <archive>",
		Short: "Extract a packaged level next to the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := absPath(args[0])
			if err != nil {
				return err
			}

			root, err := archiveService.Unpack(archive, unpackSuffixFlag)
			if err != nil {
				return err
			}

			cmd.Println(fmt.Sprintf("unpacked to %s", root))

			return nil
		},
	}

	cmd.Flags().StringVar(&unpackSuffixFlag, "suffix", "_unpacked", "suffix of the extraction directory")

	return cmd
}

func init() {
	rootCmd.AddCommand(unpackCmd)
}
