package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/probe"
)

func newLogCmd(a *app) *cobra.Command {
	var (
		pairs []string
		stack bool
	)
	cmd := &cobra.Command{
		Use:   "log [values...]",
		Short: "Append values to the probe log",
		Long:  `Append one record to the probe log: each argument on its own line, followed by the --kv pairs. With --stack the command's own stack is appended too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, shutdown, err := probe.FromConfig(cmd.Context(), a.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = shutdown(context.WithoutCancel(cmd.Context())) }()

			values := make([]any, 0, len(args)+len(pairs))
			for _, arg := range args {
				values = append(values, arg)
			}
			for _, pair := range pairs {
				key, value, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid --kv %q: want key=value", pair)
				}
				values = append(values, probe.KV{Key: key, Value: value})
			}

			if err := p.Log(values...); err != nil {
				return err
			}
			if stack {
				if err := p.Stack(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Writer().Path())
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "kv", nil, "keyword value as key=value (repeatable)")
	cmd.Flags().BoolVar(&stack, "stack", false, "also append the current stack")
	return cmd
}
