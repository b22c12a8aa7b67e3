package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/probe/annotate"
	"github.com/jonwraymond/probe/render"
)

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render [file]",
		Short: "Render JSON or YAML documents",
		Long:  `Render each document of a JSON or YAML file (or standard input when the file is omitted or "-") as an annotated tree.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			opts, err := a.cfg.RenderOptions()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fcfg := annotate.DefaultConfig()
			fcfg.Styler = styler(a.cfg.Render.Color, out)
			return renderDocuments(in, out, opts, annotate.New(fcfg))
		},
	}
}

// renderDocuments renders every document of a YAML stream. JSON is a
// subset of YAML, so JSON input needs no separate path.
func renderDocuments(in io.Reader, out io.Writer, opts render.Options, f *annotate.Formatter) error {
	dec := yaml.NewDecoder(in)
	for i := 0; ; i++ {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if err := f.Fprint(out, render.Render(doc, opts)); err != nil {
			return err
		}
	}
}
