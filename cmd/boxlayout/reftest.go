package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"boxlayout/pkg/visualtest"
)

var errReftestsFailed = errors.New("reftests failed")

func newReftestCmd(a *app) *cobra.Command {
	var diffDir string
	opts := visualtest.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "reftest <test.html|dir>...",
		Short: "Render reftest pages and their <link rel=\"match\"> references and compare the images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tests []string
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return err
				}
				if !info.IsDir() {
					tests = append(tests, arg)
					continue
				}
				found, err := visualtest.Discover(arg)
				if err != nil {
					return fmt.Errorf("discovering reftests in %s: %w", arg, err)
				}
				tests = append(tests, found...)
			}
			if diffDir != "" {
				if err := os.MkdirAll(diffDir, 0o755); err != nil {
					return err
				}
				opts.Diff = true
			}

			run := visualtest.RunOptions{
				Width:   int(math.Ceil(a.cfg.Viewport.Width)),
				Height:  int(math.Ceil(a.cfg.Viewport.Height)),
				Compare: opts,
			}
			out := cmd.OutOrStdout()
			var failed int
			for _, test := range tests {
				result, err := visualtest.Run(test, run)
				if err != nil {
					failed++
					a.logger.Warn("reftest error", zap.String("test", test), zap.Error(err))
					fmt.Fprintf(out, "ERROR %s: %v\n", test, err)
					continue
				}
				if result.Match {
					fmt.Fprintf(out, "PASS %s\n", test)
					continue
				}
				failed++
				fmt.Fprintf(out, "FAIL %s: %d/%d pixels differ (%.2f%%, max diff %d)\n",
					test, result.DifferentPixels, result.TotalPixels, result.DifferentPercent(), result.MaxDifference)
				if diffDir != "" {
					base := strings.TrimSuffix(filepath.Base(test), filepath.Ext(test))
					if err := visualtest.SavePNG(result.Diff, filepath.Join(diffDir, base+"_diff.png")); err != nil {
						return err
					}
				}
			}
			a.logger.Info("reftests done", zap.Int("total", len(tests)), zap.Int("failed", failed))
			fmt.Fprintf(out, "%d/%d passed\n", len(tests)-failed, len(tests))
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errReftestsFailed, failed, len(tests))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.Tolerance, "tolerance", opts.Tolerance, "largest per-channel difference counted as equal")
	flags.IntVar(&opts.FuzzyRadius, "fuzzy", 0, "let pixels match within this radius")
	flags.Float64Var(&opts.MaxDifferentPercent, "max-diff-percent", 0, "pass when at most this percentage of pixels differ")
	flags.StringVar(&diffDir, "diff-dir", "", "write diff images of failing tests to this directory")
	return cmd
}
