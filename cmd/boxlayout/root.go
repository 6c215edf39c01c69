package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"boxlayout/pkg/config"
	"boxlayout/pkg/css"
	"boxlayout/pkg/html"
	"boxlayout/pkg/images"
	"boxlayout/pkg/layout"
	"boxlayout/pkg/observability"
	"boxlayout/pkg/text"
)

// app carries the settings resolved by the root command to its
// subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func execute(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		observability.Sync()
		return 1
	}
	observability.Sync()
	return 0
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:           "boxlayout",
		Short:         "Lay out and paint HTML documents with CSS 2 block, inline and float layout.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./boxlayout.yaml if present)")
	flags.Float64P("width", "w", 0, "viewport width in pixels")
	flags.Float64P("height", "H", 0, "viewport height in pixels")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("ahem", false, "measure every glyph as 1em wide")

	root.AddCommand(newRenderCmd(a), newDumpCmd(a), newReftestCmd(a), newVersionCmd())
	return root
}

// initialize loads configuration from defaults, the config file,
// BOXLAYOUT_* environment variables and flags, in increasing priority,
// then sets up logging.
func (a *app) initialize(cmd *cobra.Command) error {
	v := a.v
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("boxlayout")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	config.BindEnv(v)

	flags := cmd.Flags()
	for key, name := range map[string]string{
		"viewport.width":  "width",
		"viewport.height": "height",
		"logger.level":    "log-level",
		"fonts.ahem":      "ahem",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	observability.InitializeLogger(cfg.Logger)
	a.logger = observability.GetLogger()
	a.logger.Debug("configuration loaded",
		zap.String("file", v.ConfigFileUsed()),
		zap.Float64("width", cfg.Viewport.Width),
		zap.Float64("height", cfg.Viewport.Height),
	)
	return nil
}

// pipeline is a loaded document with the collaborators that lay it out and
// paint it.
type pipeline struct {
	engine *layout.LayoutEngine
	faces  *text.FaceMeasurer // nil when measuring with Ahem metrics
	loader *images.Loader
}

func (p *pipeline) Close() error {
	if p.faces != nil {
		return p.faces.Close()
	}
	return nil
}

func (a *app) load(path string) (*pipeline, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := html.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	styled := css.ApplyStyles(doc)

	p := &pipeline{}
	var metrics text.Measurer = text.AhemMeasurer{}
	if !a.cfg.Fonts.Ahem {
		p.faces, err = text.NewFaceMeasurer(a.cfg.FontConfig())
		if err != nil {
			return nil, fmt.Errorf("loading fonts: %w", err)
		}
		metrics = p.faces
	}

	baseDir := a.cfg.Images.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(path)
	}
	p.loader = images.NewLoader(baseDir)

	p.engine = layout.NewLayoutEngine(
		text.NewCachedMeasurer(metrics, a.cfg.Fonts.CacheSize),
		layout.WithLogger(a.logger.Named("layout")),
		layout.WithImageSizer(p.loader),
	)
	p.engine.SetDocument(styled)
	return p, nil
}
