package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	analysistools "github.com/rtxi/analysis-tools"
	"github.com/rtxi/analysis-tools/internal/cli"
	"github.com/rtxi/analysis-tools/internal/presentation/tui"
	"github.com/rtxi/analysis-tools/internal/watch"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Print the trial/channel tree of a recording",
	Long: `Opens an HDF5 recording, classifies it and prints its trials and channels.
The first channel found is marked as selected. With --watch the tree is printed
again whenever the file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		watchMode, _ := cmd.Flags().GetBool("watch")
		sessionID, _ := cmd.Flags().GetString("session")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		var extra []analysistools.Option
		if sessionID != "" {
			extra = append(extra, analysistools.WithSessionID(sessionID))
		}
		panel, persistence, err := openPanel(ctx, nil, extra...)
		if err != nil {
			return err
		}
		defer persistence.Close()

		fd := int(os.Stdout.Fd())
		pretty := !asJSON && term.IsTerminal(fd)
		width := 0
		if pretty {
			if w, _, err := term.GetSize(fd); err == nil {
				width = w
			}
			tui.PrintBanner(os.Stdout, analysistools.Version)
		}

		err = cli.RunTree(ctx, panel, cli.TreeOptions{
			File:    args[0],
			JSON:    asJSON,
			Pretty:  pretty,
			Width:   width,
			Watch:   watchMode,
			Watcher: watch.New(watch.WithDebounce(cfg.Watch.Debounce), watch.WithLogger(logger)),
			Out:     os.Stdout,
		})
		if watchMode && ctx.Signal() != nil {
			return nil
		}
		return err
	},
}

var channelCmd = &cobra.Command{
	Use:   "channel <file> <channel-path>",
	Short: "Print the samples of one channel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		panel, persistence, err := openPanel(ctx, nil)
		if err != nil {
			return err
		}
		defer persistence.Close()

		return cli.RunChannel(ctx, panel, args[0], args[1], asJSON, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Bool("json", false, "Print the tree as JSON")
	treeCmd.Flags().Bool("watch", false, "Print the tree again when the file changes")
	treeCmd.Flags().String("session", "", "Persist the panel state under this session ID")

	rootCmd.AddCommand(channelCmd)
	channelCmd.Flags().Bool("json", false, "Print the samples as a JSON array")
}
