package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/probe/coderender"
	"github.com/jonwraymond/probe/health"
)

// errUnhealthy makes doctor exit non-zero once the table is printed.
var errUnhealthy = errors.New("probe is unhealthy")

func newDoctorCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the probe log and code introspection",
		Long:  `Check that the configured probe log can be appended to and that function source can be read for code views. Exits non-zero when a check is unhealthy.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.cfg.Writer()
			if err != nil {
				return err
			}
			agg := health.NewAggregator(health.AggregatorConfig{Timeout: timeout})
			for _, c := range []health.Checker{
				health.NewSinkChecker(w),
				health.NewSourceChecker(coderender.Default()),
			} {
				if err := agg.Register(c); err != nil {
					return err
				}
			}

			reports := agg.CheckAll(cmd.Context())
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range reports {
				line := fmt.Sprintf("%s\t%s\t%s", r.Name, r.Result.Status, r.Result.Message)
				if r.Result.Error != nil {
					line += ": " + r.Result.Error.Error()
				}
				fmt.Fprintln(tw, line)
			}
			overall := health.Overall(reports)
			fmt.Fprintf(tw, "overall\t%s\t\n", overall)
			if err := tw.Flush(); err != nil {
				return err
			}
			if overall == health.StatusUnhealthy {
				return errUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", health.DefaultTimeout, "time allowed for all checks")
	return cmd
}
