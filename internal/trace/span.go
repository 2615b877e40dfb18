package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

// detailError is the end detail EndErr writes for a failed span.
const detailError = "error"

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID читает номер горутины из заголовка стека
// ("goroutine 123 [running]:"). Нужен, чтобы развести события
// параллельной проверки каталога; 0 если формат не распознан.
func goroutineID() uint64 {
	var buf [64]byte
	head := buf[:runtime.Stack(buf[:], false)]
	head, ok := bytes.CutPrefix(head, []byte("goroutine "))
	if !ok {
		return 0
	}
	num, _, ok := bytes.Cut(head, []byte(" "))
	if !ok {
		return 0
	}
	gid, err := strconv.ParseUint(string(num), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is one traced region: Begin emits the begin event, End or EndErr the
// end event. A span from a disabled tracer is a no-op.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

var noSpan = Span{tracer: Nop}

// Begin opens a span under parent (0 for a root span). Nothing is emitted
// when t is disabled or filters scope out.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		s := noSpan
		return &s
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		gid:     goroutineID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, "", nil, s.started)
	return s
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled()
}

func (s *Span) emit(kind Kind, detail string, extra map[string]string, at time.Time) {
	s.tracer.Emit(&Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
		Extra:    extra,
	})
}

// End closes the span with detail and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, detail, s.extra, now)
	return now.Sub(s.started)
}

// EndErr ends the span with detail "error" and the error text under "err";
// a nil err is a plain End("").
func (s *Span) EndErr(err error) time.Duration {
	if err == nil {
		return s.End("")
	}
	return s.WithExtra("err", err.Error()).End(detailError)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 1)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for a no-op span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event inside span parent.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
