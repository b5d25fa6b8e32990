package main

import (
	"fmt"
	"os"
	"os/exec"
)

// cliDispatcher executes trigger invocations. Argv that names one of
// our own subcommands re-invokes this binary; anything else runs as an
// external command (commitment script actions).
type cliDispatcher struct {
	self string
}

var ownCommands = map[string]bool{
	"complete": true,
	"miss":     true,
	"mark":     true,
	"status":   true,
	"edit":     true,
}

func newDispatcher() *cliDispatcher {
	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}
	return &cliDispatcher{self: self}
}

func (d *cliDispatcher) Dispatch(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty invocation")
	}

	var cmd *exec.Cmd
	if ownCommands[argv[0]] {
		cmd = exec.Command(d.self, argv...)
	} else {
		cmd = exec.Command(argv[0], argv[1:]...)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
