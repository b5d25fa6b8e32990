package main

import (
	"fmt"
	"time"

	"github.com/chronos-cli/chronos/pkg/schedule"
	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/spf13/cobra"
)

func newTodayCmd(open openFunc) *cobra.Command {
	var reschedule bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's schedule, compiling it if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return fatal(err)
			}
			now := time.Now()

			if !reschedule {
				comp, err := schedule.ReadFile(s.Root, now)
				if err != nil {
					return fatal(err)
				}
				if comp != nil {
					fmt.Print(renderSchedule(comp))
					return nil
				}
			}
			return compileAndShow(s, now)
		},
	}
	cmd.Flags().BoolVar(&reschedule, "reschedule", false, "recompile even if a schedule already exists")
	return cmd
}

func newRescheduleCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule",
		Short: "Recompile today's schedule from the current templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return fatal(err)
			}
			return compileAndShow(s, time.Now())
		},
	}
}

// compileAndShow runs the full pipeline, persists the schedule file,
// and prints the result. Template and write failures are the two
// critical exits the compiler has.
func compileAndShow(s *store.Store, date time.Time) error {
	settings, err := s.LoadSettings()
	if err != nil {
		return fatal(err)
	}
	comp, err := schedule.Compile(s, settings, date)
	if err != nil {
		return fatal(err)
	}
	if err := schedule.WriteFile(s.Root, comp); err != nil {
		return fatal(err)
	}
	fmt.Print(renderSchedule(comp))
	return nil
}
