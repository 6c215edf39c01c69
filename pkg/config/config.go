package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"boxlayout/pkg/layout"
	"boxlayout/pkg/text"
)

// ErrInvalidViewport is returned when the configured viewport is not
// positive or exceeds layout.MaxPx.
var ErrInvalidViewport = errors.New("config: invalid viewport")

// EnvPrefix prefixes the environment variables that override settings,
// e.g. BOXLAYOUT_VIEWPORT_WIDTH.
const EnvPrefix = "BOXLAYOUT"

type Config struct {
	Viewport ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	Fonts    FontsConfig    `mapstructure:"fonts" yaml:"fonts"`
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Images   ImagesConfig   `mapstructure:"images" yaml:"images"`
}

type ViewportConfig struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
}

// FontsConfig holds font file paths. Empty paths use the embedded Go fonts.
type FontsConfig struct {
	Regular    string `mapstructure:"regular" yaml:"regular"`
	Bold       string `mapstructure:"bold" yaml:"bold"`
	Italic     string `mapstructure:"italic" yaml:"italic"`
	BoldItalic string `mapstructure:"bold_italic" yaml:"bold_italic"`
	// CacheSize bounds the text width cache; 0 uses the default size.
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
	// Ahem measures every glyph as 1em wide, for output independent of
	// font files.
	Ahem bool `mapstructure:"ahem" yaml:"ahem"`
}

type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color of each log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

type OutputConfig struct {
	// Format of the dump command: "json" or "text".
	Format string `mapstructure:"format" yaml:"format"`
	Indent bool   `mapstructure:"indent" yaml:"indent"`
}

type ImagesConfig struct {
	// BaseDir resolves relative <img> sources. Empty means the input
	// document's directory.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("viewport.width", 800)
	v.SetDefault("viewport.height", 600)

	v.SetDefault("fonts.regular", "")
	v.SetDefault("fonts.bold", "")
	v.SetDefault("fonts.italic", "")
	v.SetDefault("fonts.bold_italic", "")
	v.SetDefault("fonts.cache_size", 4096)
	v.SetDefault("fonts.ahem", false)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "boxlayout")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	v.SetDefault("output.format", "json")
	v.SetDefault("output.indent", true)

	v.SetDefault("images.base_dir", "")
}

// BindEnv makes BOXLAYOUT_* environment variables override settings.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewDefaultConfig returns the configuration with every default applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 ||
		c.Viewport.Width > layout.MaxPx || c.Viewport.Height > layout.MaxPx {
		return fmt.Errorf("%w: %gx%g", ErrInvalidViewport, c.Viewport.Width, c.Viewport.Height)
	}
	switch c.Output.Format {
	case "json", "text":
	default:
		return fmt.Errorf("output.format must be json or text, got %q", c.Output.Format)
	}
	if c.Fonts.CacheSize < 0 {
		return fmt.Errorf("fonts.cache_size must not be negative")
	}
	return nil
}

func (c *Config) LayoutViewport() layout.Viewport {
	return layout.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

func (c *Config) FontConfig() text.FontConfig {
	return text.FontConfig{
		Regular:    c.Fonts.Regular,
		Bold:       c.Fonts.Bold,
		Italic:     c.Fonts.Italic,
		BoldItalic: c.Fonts.BoldItalic,
	}
}
