package trace

import "time"

// Kind is what an event marks: the two ends of a span or a single point.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Smaller values are coarser, and
// Level.ShouldEmit cuts the scale from the fine end.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // команда CLI целиком
	ScopePass                    // lex, parse, sema
	ScopeFile                    // один файл в конвейере
	ScopeNode                    // инструкция верхнего уровня
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeFile:   "file",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record of the trace. Points carry no SpanID, only the
// span they happened in as ParentID.
type Event struct {
	Time     time.Time
	Seq      uint64 // глобальный, монотонный
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 у корня
	GID      uint64 // горутина, для параллельной проверки каталога
	Name     string // "parse", "sema", путь файла
	Detail   string
	Extra    map[string]string
}

// Failed reports whether ev closes a span ended by Span.EndErr with an error.
func (ev *Event) Failed() bool {
	return ev.Kind == KindSpanEnd && ev.Detail == detailError
}
