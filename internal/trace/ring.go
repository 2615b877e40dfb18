package trace

import (
	"fmt"
	"io"
	"sync"
)

const defaultRingSize = 4096

// RingTracer держит последние события в памяти. Его содержимое
// печатается, только когда проверка упала.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int // куда пишется следующее событие
	count int // сколько слотов занято, не больше len(buf)
	level Level
}

// NewRingTracer creates a ring of the given capacity; capacity <= 0 means 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores ev, overwriting the oldest event once the ring is full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.next] = *ev
	t.next = (t.next + 1) % len(t.buf)
	t.count = min(t.count+1, len(t.buf))
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, t.count)
	first := (t.next - t.count + len(t.buf)) % len(t.buf)
	for i := range t.count {
		out = append(out, t.buf[(first+i)%len(t.buf)])
	}
	return out
}

// FailedFiles returns the end events of file spans that ended with an
// error, oldest first.
func (t *RingTracer) FailedFiles() []Event {
	var out []Event
	for _, ev := range t.Snapshot() {
		if ev.Scope == ScopeFile && ev.Failed() {
			out = append(out, ev)
		}
	}
	return out
}

// Subtree returns the events of span id and of everything nested under it,
// in the order they were recorded.
func (t *RingTracer) Subtree(id uint64) []Event {
	return subtree(t.Snapshot(), id)
}

func subtree(events []Event, id uint64) []Event {
	if id == 0 {
		return nil
	}
	// begin вытесняется раньше end, поэтому родителей берём из обоих
	parents := make(map[uint64]uint64)
	for i := range events {
		if events[i].SpanID != 0 {
			parents[events[i].SpanID] = events[i].ParentID
		}
	}
	under := func(ev *Event) bool {
		if ev.SpanID == id {
			return true
		}
		seen := 0
		for p := ev.ParentID; p != 0 && seen <= len(parents); seen++ {
			if p == id {
				return true
			}
			p = parents[p]
		}
		return false
	}
	var out []Event
	for i := range events {
		if under(&events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}

// Dump writes every stored event to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return writeEvents(w, t.Snapshot(), format)
}

// DumpFailures writes, for each file span that ended with an error, a
// header and the events recorded inside that span. It reports false and
// writes nothing when the ring holds no failed file span, which is the case
// below LevelDetail.
func (t *RingTracer) DumpFailures(w io.Writer, format Format) (bool, error) {
	events := t.Snapshot()
	found := false
	for i := range events {
		ev := &events[i]
		if ev.Scope != ScopeFile || !ev.Failed() {
			continue
		}
		found = true
		if _, err := fmt.Fprintf(w, "== trace: %s ==\n", ev.Name); err != nil {
			return found, err
		}
		if err := writeEvents(w, subtree(events, ev.SpanID), format); err != nil {
			return found, err
		}
	}
	return found, nil
}

func writeEvents(w io.Writer, events []Event, format Format) error {
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
