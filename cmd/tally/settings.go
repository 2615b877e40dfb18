package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/project"
	"tally/internal/trace"
)

// runSettings is the configuration of one invocation: tally.toml values
// overridden by explicitly set flags.
type runSettings struct {
	cfg      project.Config
	manifest string // путь к tally.toml, пусто если не найден
	quiet    bool
	timings  bool
}

// settings is filled by setupRun before any command runs.
var settings = runSettings{cfg: project.Defaults()}

func loadSettings(cmd *cobra.Command) (runSettings, error) {
	pf := cmd.Root().PersistentFlags()
	out := runSettings{cfg: project.Defaults()}

	configPath, err := pf.GetString("config")
	if err != nil {
		return out, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		cfg, err := project.LoadConfig(configPath)
		if err != nil {
			return out, err
		}
		out.cfg, out.manifest = cfg, configPath
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return out, err
		}
		manifest, ok, err := project.LoadManifest(wd)
		if err != nil {
			return out, err
		}
		if ok {
			out.cfg, out.manifest = manifest.Config, manifest.Path
		}
	}

	if out.quiet, err = pf.GetBool("quiet"); err != nil {
		return out, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if out.timings, err = pf.GetBool("timings"); err != nil {
		return out, fmt.Errorf("failed to get timings flag: %w", err)
	}

	// флаги, заданные явно, перекрывают tally.toml
	overrides := []struct {
		flag string
		dst  *string
	}{
		{"color", &out.cfg.Output.Color},
		{"trace", &out.cfg.Trace.Output},
		{"trace-level", &out.cfg.Trace.Level},
		{"trace-mode", &out.cfg.Trace.Mode},
	}
	for _, o := range overrides {
		if !pf.Changed(o.flag) {
			continue
		}
		if *o.dst, err = pf.GetString(o.flag); err != nil {
			return out, fmt.Errorf("failed to get %s flag: %w", o.flag, err)
		}
	}
	if pf.Changed("max-diagnostics") {
		if out.cfg.Output.MaxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
			return out, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if pf.Changed("trace-ring-size") {
		if out.cfg.Trace.RingSize, err = pf.GetInt("trace-ring-size"); err != nil {
			return out, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
	}
	// --trace без уровня включает фазы
	if pf.Changed("trace") && !pf.Changed("trace-level") && out.cfg.Trace.Level == "off" {
		out.cfg.Trace.Level = trace.LevelPhase.String()
	}

	switch out.cfg.Output.Color {
	case "auto", "on", "off":
	default:
		return out, fmt.Errorf("invalid --color value %q (expected auto|on|off)", out.cfg.Output.Color)
	}
	return out, nil
}

// useColor resolves the color setting for the given stream.
func (s runSettings) useColor(f *os.File) bool {
	switch s.cfg.Output.Color {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(f) && os.Getenv("NO_COLOR") == ""
}

// formatFlag returns the --format value, falling back to tally.toml when the
// flag was not set and the configured format is one of allowed.
func (s runSettings) formatFlag(cmd *cobra.Command, allowed ...string) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	if !cmd.Flags().Changed("format") {
		for _, a := range allowed {
			if a == s.cfg.Output.Format {
				return a, nil
			}
		}
	}
	for _, a := range allowed {
		if a == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format: %s", format)
}
