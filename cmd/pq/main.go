package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "pq",
		Short:         "Parallel queue service",
		Long:          "pq runs named parallel queues, each drained by its own worker, and exposes them over HTTP.",
		SilenceUsage: true,
	}
	root.AddCommand(NewRunCommand())
	root.AddCommand(NewStatusCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
