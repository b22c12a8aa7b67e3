package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/probe"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of probe",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "probe version %s\n", probe.Version)
		},
	}
}
