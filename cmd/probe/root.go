package main

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jonwraymond/probe/annotate"
	"github.com/jonwraymond/probe/config"
)

// app carries the settings shared by every subcommand.
type app struct {
	configPath string
	envFiles   []string
	color      string
	maxDepth   int
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "probe",
		Short:         "Render values and write probe trace logs",
		Long:          `probe renders JSON and YAML documents as annotated, depth-bounded trees and appends values to the append-only probe log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "env files loaded before the config (default .env)")
	flags.StringVar(&a.color, "color", "", "color mode: auto, always or never")
	flags.IntVar(&a.maxDepth, "max-depth", -1, "deepest level rendered")

	cmd.AddCommand(newRenderCmd(a), newLogCmd(a), newDoctorCmd(a), newVersionCmd())
	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.envFiles...)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("color") {
		cfg.Render.Color = a.color
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.Render.MaxDepth = a.maxDepth
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// styler picks colors for out according to the color mode.
func styler(mode string, out io.Writer) annotate.Styler {
	switch mode {
	case config.ColorNever:
		return annotate.Plain{}
	case config.ColorAlways:
		profile := termenv.EnvColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI256
		}
		return annotate.NewTermStyler(profile)
	}
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return annotate.Plain{}
	}
	return annotate.NewTermStyler(termenv.EnvColorProfile())
}
