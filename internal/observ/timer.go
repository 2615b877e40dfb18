package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of a pipeline phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of pipeline phases (lex, parse, sema).
// It is safe for concurrent use so directory checks can share one Timer.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Track starts a phase and returns the function that ends it.
func (t *Timer) Track(name string) func(note string) {
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// Merge appends the phases of other, e.g. a per-file timer in directory mode.
func (t *Timer) Merge(other *Timer) {
	if t == nil || other == nil {
		return
	}
	other.mu.Lock()
	phases := append([]Phase(nil), other.phases...)
	other.mu.Unlock()

	t.mu.Lock()
	t.phases = append(t.phases, phases...)
	t.mu.Unlock()
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var out strings.Builder
	out.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&out, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&out, "  (x%d)", p.Count)
		}
		if p.Note != "" {
			out.WriteString("  // " + p.Note)
		}
		out.WriteString("\n")
	}
	fmt.Fprintf(&out, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	return out.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report агрегирует фазы по имени в порядке первого появления.
// Заметка берётся от последней фазы с непустой заметкой.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{}
	index := make(map[string]int, len(t.phases))
	var total time.Duration
	for _, phase := range t.phases {
		total += phase.Dur
		i, ok := index[phase.Name]
		if !ok {
			i = len(report.Phases)
			index[phase.Name] = i
			report.Phases = append(report.Phases, PhaseReport{Name: phase.Name})
		}
		pr := &report.Phases[i]
		pr.DurationMS += durationToMillis(phase.Dur)
		pr.Count++
		if phase.Note != "" {
			pr.Note = phase.Note
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
