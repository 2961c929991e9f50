package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	analysistools "github.com/rtxi/analysis-tools"
	"github.com/rtxi/analysis-tools/internal/cli"
	"github.com/rtxi/analysis-tools/internal/config"
	"github.com/rtxi/analysis-tools/pkg/observability"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "analysis-tools",
	Short: "Browse trials and channels of RTXI HDF5 recordings",
	Long: `analysis-tools classifies the groups and datasets of an RTXI HDF5 recording
into trials and channels, and serves the result to terminals, HTTP clients
and MCP agents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		if cmd.Flags().Changed("store") {
			cfg.Store.Backend, _ = cmd.Flags().GetString("store")
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
		}
		debug, _ := cmd.Flags().GetBool("debug")
		logger = cli.NewLogger(cfg, debug)
		return nil
	},
}

// Execute adds all child commands to the root command and exits with a code
// derived from the returned error.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("store", "", "Session store: "+strings.Join(cli.Backends, "|"))
	rootCmd.PersistentFlags().String("data-dir", "", "Directory relative file names resolve against (default $HOME)")
}

// openPanel builds the panel described by the loaded config. The returned
// persistence must be closed by the caller.
func openPanel(ctx context.Context, metrics *observability.Metrics, extra ...analysistools.Option) (*analysistools.Panel, *cli.Persistence, error) {
	persistence, err := cli.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, err
	}
	opts := append(cli.PanelOptions(cfg, logger, persistence, metrics), extra...)
	panel, err := analysistools.New(opts...)
	if err != nil {
		persistence.Close()
		return nil, nil, err
	}
	return panel, persistence, nil
}
