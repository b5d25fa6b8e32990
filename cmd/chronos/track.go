package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/chronos-cli/chronos/pkg/commitment"
	"github.com/chronos-cli/chronos/pkg/ledger"
	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/spf13/cobra"
)

func newCompleteCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <type> <name>",
		Short: "Record a completion and update streaks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return fatal(err)
			}
			now := time.Now()
			if err := ledger.Complete(s, args[0], args[1], now); err != nil {
				return err
			}
			fmt.Printf("Completed: %s\n", args[1])
			evaluateRules(s, now)
			return nil
		},
	}
}

func newMissCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "miss <type> <name>",
		Short: "Record a missed block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return fatal(err)
			}
			now := time.Now()
			if err := ledger.Miss(s, args[0], args[1], now); err != nil {
				return err
			}
			fmt.Printf("Missed: %s\n", args[1])
			evaluateRules(s, now)
			return nil
		},
	}
}

func newMarkCmd(open openFunc) *cobra.Command {
	var quality, note string

	cmd := &cobra.Command{
		Use:   "mark <name>:<status>",
		Short: "Mark a block in the ledger without touching the item",
		Long: `Mark writes a ledger entry only. Status is one of
completed, skipped, partial, no_show.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, status, ok := strings.Cut(args[0], ":")
			if !ok || name == "" || status == "" {
				return fmt.Errorf("expected <name>:<status>, got %q", args[0])
			}
			s, err := open()
			if err != nil {
				return fatal(err)
			}
			opts := ledger.MarkOptions{Quality: quality, Note: note}
			if err := ledger.Mark(s.Root, name, status, time.Now(), opts); err != nil {
				return err
			}
			fmt.Printf("Marked %s: %s\n", name, status)
			return nil
		},
	}
	cmd.Flags().StringVar(&quality, "quality", "", "quality label for the entry")
	cmd.Flags().StringVar(&note, "note", "", "free-form note for the entry")
	return cmd
}

// evaluateRules runs the commitment and milestone scans that follow
// every completion event. Trigger failures are reported but never
// change the exit code.
func evaluateRules(s *store.Store, now time.Time) {
	d := newDispatcher()
	if err := commitment.EvaluateCommitments(s, d, now); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}
	if err := commitment.EvaluateMilestones(s, d, now); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}
}
