package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent
// use: a directory check emits from several goroutines.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled is Level() > LevelOff.
	Enabled() bool
}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // сразу в вывод
	ModeRing                          // в память, печать при падении
	ModeBoth
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode parses stream, ring or both, ignoring case.
func ParseMode(s string) (StorageMode, error) {
	want := strings.ToLower(s)
	for m, name := range modeNames {
		if name == want {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer of one run. Output wins over OutputPath;
// an empty path or "-" means stderr.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format // FormatAuto: NDJSON for .ndjson/.jsonl paths, text otherwise
	Output     io.Writer
	OutputPath string
	RingSize   int // 0 - defaultRingSize
}

func (cfg Config) format() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch filepath.Ext(cfg.OutputPath) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

// New builds the tracer cfg describes; LevelOff always yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == ModeRing {
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}
	if cfg.Mode != ModeStream && cfg.Mode != ModeBoth {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	w, err := cfg.open()
	if err != nil {
		return nil, err
	}
	stream := NewStreamTracer(w, cfg.Level, cfg.format())
	if cfg.Mode == ModeStream {
		return stream, nil
	}
	return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
}

func (cfg Config) open() (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

func isStdStream(w io.Writer) bool {
	return w == os.Stderr || w == os.Stdout
}

// RingOf returns the ring buffer behind t, if t keeps one.
func RingOf(t Tracer) (*RingTracer, bool) {
	switch t := t.(type) {
	case *RingTracer:
		return t, true
	case *MultiTracer:
		return t.Ring()
	}
	return nil, false
}
