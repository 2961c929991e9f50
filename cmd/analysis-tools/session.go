package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtxi/analysis-tools/internal/cli"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted panel sessions",
	Long:  `List, inspect, and remove panel sessions held by the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		persistence, err := cli.OpenStore(cmd.Context(), cfg.Store, logger)
		if err != nil {
			return err
		}
		defer persistence.Close()

		ids, err := persistence.Manager(logger).List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Sessions:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		persistence, err := cli.OpenStore(cmd.Context(), cfg.Store, logger)
		if err != nil {
			return err
		}
		defer persistence.Close()

		sess, err := persistence.Manager(logger).Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load session '%s': %w", args[0], err)
		}
		data, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		persistence, err := cli.OpenStore(cmd.Context(), cfg.Store, logger)
		if err != nil {
			return err
		}
		defer persistence.Close()
		manager := persistence.Manager(logger)

		if all, _ := cmd.Flags().GetBool("all"); all {
			if args, err = manager.List(cmd.Context()); err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
		}

		var errs []error
		for _, id := range args {
			if err := manager.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("remove '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionRmCmd.Flags().Bool("all", false, "Remove every session in the store")
}
