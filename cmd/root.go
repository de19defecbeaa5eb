// Package cmd provides the root command and CLI setup for levelsweep.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/mapforge/levelsweep/internal/adapter"
	"github.com/mapforge/levelsweep/internal/controller"
	"github.com/mapforge/levelsweep/internal/domain"
	m "github.com/mapforge/levelsweep/internal/model"
)

var fsAdapter adapter.LevelFSAdapter
var logStore adapter.LogStore
var archiveService adapter.ArchiveService

// outputDirFlag is a root-level flag shared by commands that write log files.
var outputDirFlag string

// verboseFlag also prints info-level notifications.
var verboseFlag bool

// excludeDirs lists directory names that are never scanned.
var excludeDirs []string

// keepPatterns lists extra always-keep glob patterns.
var keepPatterns []string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalFSAdapter()
	logStore = adapter.NewFileLogStore(fsAdapter)
	archiveService = adapter.NewZipArchiveService()
}

const rootLongDescription = `Levelsweep maintains unpacked level packages: it parses the scene,
material and mission-group files of a level, builds the cross-file
dependency graph, proposes orphaned assets for deletion, shifts every
position field by a global offset, and re-packages the result.

Cleanup never deletes on its own: candidates are listed with their size
and a pre-selection, and files the game reported as missing are never
pre-selected.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levelsweep",
		Short: "Level package cleanup and coordinate-shift tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetBool(verboseFlagName))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(
		&outputDirFlag, outputFlagName, "o",
		viper.GetString(outputFlagName),
		"directory for the warning/error log files",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludeDirs, excludeFlagName, "x",
		viper.GetStringSlice(excludeConfigKey), "directory name never scanned (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&keepPatterns, keepFlagName, "k",
		viper.GetStringSlice(keepConfigKey), "glob pattern always kept (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(keepFlagName), keepConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v",
		viper.GetBool(verboseFlagName), "also print info-level notifications")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), verboseFlagName)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// absPath resolves a CLI path argument against the working directory. The
// billy adapter resolves relative paths against its own base directory, not
// the process working directory, so every path crossing the engine boundary
// is absolutized here first.
func absPath(value string) (m.Path, error) {
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", value, err)
	}

	return m.Path(abs), nil
}

// absOptionalPath absolutizes a path flag, keeping "unset" unset.
func absOptionalPath(value string) (m.Path, error) {
	if value == "" {
		return "", nil
	}

	return absPath(value)
}

// runOperation builds a workflow for one engine operation and runs op on a
// worker goroutine while the command goroutine drains live notifications.
// Cancellation propagates through the context; the engine honors it between
// stages only.
func runOperation(cmd *cobra.Command, root m.Path, op func(ctx context.Context, w domain.Workflow) error) error {
	ui := controller.NewSimpleUI(cmd, viper.GetBool(verboseFlagName))
	notifier := controller.NewChannelNotifier(256)

	rules, err := domain.LoadKeepRules(fsAdapter, root,
		viper.GetStringSlice(keepConfigKey), viper.GetStringSlice(excludeConfigKey))
	if err != nil {
		return err
	}

	output, err := absPath(viper.GetString(outputFlagName))
	if err != nil {
		return err
	}

	workflow := domain.NewWorkflow(fsAdapter, logStore, notifier, rules, output)

	group, ctx := errgroup.WithContext(cmd.Context())

	group.Go(func() error {
		defer notifier.Close()

		return op(ctx, workflow)
	})

	for diag := range notifier.C() {
		ui.Notify(diag.Severity, diag.Message)
	}

	return group.Wait()
}
