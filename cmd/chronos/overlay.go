package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/chronos-cli/chronos/pkg/schedule"
	"github.com/chronos-cli/chronos/pkg/timeparse"
	"github.com/spf13/cobra"
)

func newTrimCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "trim <name> <minutes>",
		Short: "Shorten a block; the edit persists across reschedules",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil || amount <= 0 {
				return fmt.Errorf("trim amount must be a positive number of minutes, got %q", args[1])
			}
			return appendAndRecompile(open, schedule.OverlayEntry{
				Action:   schedule.ActionTrim,
				ItemName: args[0],
				Amount:   amount,
			})
		},
	}
}

func newCutCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "cut <name>",
		Short: "Remove a block from today's schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return appendAndRecompile(open, schedule.OverlayEntry{
				Action:   schedule.ActionCut,
				ItemName: args[0],
			})
		},
	}
}

func newChangeCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "change <name> <HH:MM>",
		Short: "Move a block to a new start time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := timeparse.Clock(args[1]); !ok {
				return fmt.Errorf("expected a 24-hour HH:MM time, got %q", args[1])
			}
			return appendAndRecompile(open, schedule.OverlayEntry{
				Action:       schedule.ActionChange,
				ItemName:     args[0],
				NewStartTime: args[1],
			})
		},
	}
}

// appendAndRecompile records one manual edit and recompiles so the
// printed schedule reflects it immediately.
func appendAndRecompile(open openFunc, entry schedule.OverlayEntry) error {
	s, err := open()
	if err != nil {
		return fatal(err)
	}
	if err := schedule.AppendOverlay(s.Root, entry); err != nil {
		return fatal(err)
	}
	return compileAndShow(s, time.Now())
}
