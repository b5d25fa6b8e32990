// Command chronos compiles and tracks personal day schedules.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

// fatalError marks failures that warrant a non-zero exit: critical file
// I/O only. Everything else is reported and exits clean.
type fatalError struct{ err error }

func (f fatalError) Error() string { return f.err.Error() }
func (f fatalError) Unwrap() error { return f.err }

func fatal(err error) error {
	if err == nil {
		return nil
	}
	return fatalError{err: err}
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var f fatalError
		if errors.As(err, &f) {
			os.Exit(1)
		}
	}
}

func newRootCmd() *cobra.Command {
	var dirFlag string

	root := &cobra.Command{
		Use:     "chronos",
		Short:   "Compile and track a conflict-free daily schedule",
		Version: version,
		Long: `Chronos compiles weekday templates and a library of routines, tasks,
habits and appointments into a concrete, time-stamped daily schedule,
then tracks completion and adherence against it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dirFlag, "dir", "", "data directory (default $CHRONOS_DIR or OS data dir)")

	open := func() (*store.Store, error) {
		return store.NewStore(dataDir(dirFlag))
	}

	root.AddCommand(
		newTodayCmd(open),
		newRescheduleCmd(open),
		newCompleteCmd(open),
		newMissCmd(open),
		newMarkCmd(open),
		newTrimCmd(open),
		newCutCmd(open),
		newChangeCmd(open),
		newListCmd(open),
		newShowCmd(open),
		newStatusCmd(open),
		newListenCmd(open),
	)
	return root
}

func dataDir(flag string) string {
	if flag != "" {
		return flag
	}
	if dir := os.Getenv("CHRONOS_DIR"); dir != "" {
		return dir
	}
	return store.DefaultDataDir()
}

// openFunc defers store construction until a command actually runs, so
// --dir is parsed first.
type openFunc func() (*store.Store, error)
