package main

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"boxlayout/pkg/layout"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// dumpResult is one laid out pass as written by the dump command.
type dumpResult struct {
	Viewport layout.Viewport `json:"viewport"`
	Builds   int             `json:"builds"`
	Root     layout.Snapshot `json:"root"`
}

func newDumpCmd(a *app) *cobra.Command {
	var resize []float64
	cmd := &cobra.Command{
		Use:   "dump <input.html>",
		Short: "Print the positioned box tree",
		Long: "Print the positioned box tree as JSON or as an indented outline. " +
			"With --resize the document is laid out again at each extra width, " +
			"reusing the box tree built for the first pass.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			vp := a.cfg.LayoutViewport()
			viewports := []layout.Viewport{vp}
			for _, w := range resize {
				viewports = append(viewports, layout.Viewport{Width: w, Height: vp.Height})
			}

			var results []dumpResult
			for _, v := range viewports {
				root, err := p.engine.Layout(v)
				if err != nil {
					return err
				}
				results = append(results, dumpResult{Viewport: v, Builds: p.engine.Builds(), Root: root.Snapshot()})
			}
			a.logger.Debug("dumped", zap.Int("passes", len(results)), zap.Int("builds", p.engine.Builds()))

			out := cmd.OutOrStdout()
			if a.cfg.Output.Format == "text" {
				for _, r := range results {
					fmt.Fprintf(out, "viewport %gx%g\n", r.Viewport.Width, r.Viewport.Height)
					writeOutline(out, r.Root, 1)
				}
				return nil
			}
			return writeJSON(out, results, a.cfg.Output.Indent)
		},
	}
	cmd.Flags().Float64SliceVar(&resize, "resize", nil, "extra viewport widths to lay out at")
	return cmd
}

func writeJSON(w io.Writer, results []dumpResult, indent bool) error {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(results, "", "  ")
	} else {
		data, err = json.Marshal(results)
	}
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeOutline(w io.Writer, s layout.Snapshot, depth int) {
	label := s.Type
	if s.Tag != "" && s.Tag != "#text" {
		label += " <" + s.Tag + ">"
	}
	if s.Text != "" {
		label += fmt.Sprintf(" %q", s.Text)
	}
	fmt.Fprintf(w, "%s%s at (%g, %g) size %gx%g\n", strings.Repeat("  ", depth), label, s.X, s.Y, s.Width, s.Height)
	for _, c := range s.Children {
		writeOutline(w, c, depth+1)
	}
}
