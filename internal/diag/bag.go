package diag

import (
	"errors"
	"fmt"
	"sort"
)

type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag that keeps at most max diagnostics (0 means 1).
func NewBag(max int) *Bag {
	if max <= 0 {
		max = 1
	}
	if max > int(^uint16(0)) {
		max = int(^uint16(0))
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 16)),
		max:   uint16(max),
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddError converts a stage error into a diagnostic. Errors that do not
// carry diagnostic information are recorded under fallback with an empty span.
func (b *Bag) AddError(err error, fallback Code) bool {
	if err == nil {
		return false
	}
	var d Diagnosable
	if errors.As(err, &d) {
		return b.Add(d.Diagnostic())
	}
	return b.Add(Diagnostic{Severity: SevError, Code: fallback, Message: err.Error()})
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag, расширяя лимит при необходимости.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) && newTotal <= int(^uint16(0)) {
		b.max = uint16(newTotal)
	}
	for _, d := range other.items {
		b.Add(d)
	}
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		// severity по убыванию: Error > Warning > Info
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
