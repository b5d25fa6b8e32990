package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chronos-cli/chronos/pkg/listener"
	"github.com/spf13/cobra"
)

func newListenCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Run the alarm and reminder loop in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return fatal(err)
			}

			logger := log.New(os.Stderr, "chronos: ", log.LstdFlags)
			l := listener.New(s, newDispatcher(), logger)

			shutdown := make(chan struct{})
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigs
				logger.Println("shutting down")
				close(shutdown)
			}()

			logger.Printf("listening (data dir %s)", s.Root)
			return l.Loop(shutdown)
		},
	}
}
