package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded tally.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of tally.toml. Keys that are absent keep the
// values from Defaults.
type Config struct {
	Output OutputConfig `toml:"output"`
	Lexer  LexerConfig  `toml:"lexer"`
	Trace  TraceConfig  `toml:"trace"`
	Cache  CacheConfig  `toml:"cache"`
}

type OutputConfig struct {
	Color          string `toml:"color"`
	Format         string `toml:"format"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type LexerConfig struct {
	KeepComments bool `toml:"keep_comments"`
}

type TraceConfig struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Output: OutputConfig{Color: "auto", Format: "pretty", MaxDiagnostics: 100},
		Trace:  TraceConfig{Level: "off", Mode: "stream", Output: "-", RingSize: 4096},
	}
}

var (
	colorModes   = []string{"auto", "on", "off"}
	outputFormat = []string{"pretty", "json"}
	traceLevels  = []string{"off", "error", "phase", "detail", "debug"}
	traceModes   = []string{"stream", "ring", "both"}
)

// LoadManifest finds tally.toml above startDir and loads it.
// ok is false when no manifest exists; cfg is then the defaults.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes one tally.toml on top of Defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if err := validate(cfg, meta); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if meta.IsDefined("cache", "dir") && cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	return cfg, nil
}

func validate(cfg Config, meta toml.MetaData) error {
	check := func(section, key, value string, allowed []string) error {
		if !meta.IsDefined(section, key) {
			return nil
		}
		if !slices.Contains(allowed, strings.ToLower(value)) {
			return fmt.Errorf("[%s].%s: %q is not one of %s", section, key, value, strings.Join(allowed, "|"))
		}
		return nil
	}
	if err := check("output", "color", cfg.Output.Color, colorModes); err != nil {
		return err
	}
	if err := check("output", "format", cfg.Output.Format, outputFormat); err != nil {
		return err
	}
	if err := check("trace", "level", cfg.Trace.Level, traceLevels); err != nil {
		return err
	}
	if err := check("trace", "mode", cfg.Trace.Mode, traceModes); err != nil {
		return err
	}
	if meta.IsDefined("output", "max_diagnostics") && cfg.Output.MaxDiagnostics < 0 {
		return fmt.Errorf("[output].max_diagnostics must not be negative")
	}
	if meta.IsDefined("trace", "ring_size") && cfg.Trace.RingSize <= 0 {
		return fmt.Errorf("[trace].ring_size must be positive")
	}
	return nil
}

// CacheDir returns the effective cache directory: the configured one, or
// $XDG_CACHE_HOME/tally (platform equivalent).
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cache dir: %w", err)
	}
	return filepath.Join(base, "tally"), nil
}
