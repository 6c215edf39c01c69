package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"boxlayout/pkg/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var output string
	var fullPage bool
	cmd := &cobra.Command{
		Use:   "render <input.html>",
		Short: "Lay out a document and paint it to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			vp := a.cfg.LayoutViewport()
			root, err := p.engine.Layout(vp)
			if err != nil {
				return err
			}

			height := vp.Height
			if fullPage {
				height = max(height, root.Dims.MarginBox().Height.Px())
			}
			var faces render.FaceSource
			if p.faces != nil {
				faces = p.faces
			}
			r := render.NewRenderer(int(math.Ceil(vp.Width)), int(math.Ceil(height)), faces,
				render.WithImages(p.loader),
				render.WithLogger(a.logger.Named("render")),
			)
			r.Render(root)
			if err := r.SavePNG(output); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			a.logger.Info("rendered",
				zap.String("input", args[0]),
				zap.String("output", output),
				zap.Int("boxes", root.Count()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "rendered %s to %s (%d boxes)\n", args[0], output, root.Count())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "out.png", "output PNG file")
	cmd.Flags().BoolVar(&fullPage, "full-page", false, "grow the canvas to the document height")
	return cmd
}
