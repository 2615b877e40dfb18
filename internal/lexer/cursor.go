package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"tally/internal/source"
)

// Cursor iterates over the characters of a file and tracks the
// zero-based position of the next character.
type Cursor struct {
	File *source.File
	Off  uint32 // байтовое смещение следующего символа
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32

	pos     source.Position
	last    rune // последний символ, отданный Advance
	hasLast bool
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Pos returns the position of the next character.
func (c *Cursor) Pos() source.Position {
	return c.pos
}

func (c *Cursor) decode() (r rune, size uint32) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	b := c.File.Content[c.Off]
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	return r, usz
}

// Peek returns the next character without consuming it.
func (c *Cursor) Peek() (rune, bool) {
	r, sz := c.decode()
	return r, sz != 0
}

// Advance consumes the next character and returns it together with its
// position. At end of input it returns false and the position stays put.
func (c *Cursor) Advance() (rune, source.Position, bool) {
	r, sz := c.decode()
	if sz == 0 {
		return 0, c.pos, false
	}
	at := c.pos
	c.Off += sz
	c.pos = c.pos.Advance(r)
	c.last, c.hasLast = r, true
	return r, at, true
}

// Eat consumes the next character if it equals r.
func (c *Cursor) Eat(r rune) bool {
	if got, ok := c.Peek(); ok && got == r {
		c.Advance()
		return true
	}
	return false
}

// Mark это метка, чтобы быстро получать Span читаемого фрагмента
type Mark struct {
	Off uint32
	Pos source.Position
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{Off: c.Off, Pos: c.pos}
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: m.Off, End: c.Off}
}

// Reset возвращает курсор назад к метке. Retake после Reset ничего не берёт.
func (c *Cursor) Reset(m Mark) {
	c.Off, c.pos = m.Off, m.Pos
	c.last, c.hasLast = 0, false
}

// Action tells TakeWhileConfig what to do with the character it is looking at.
type Action uint8

const (
	// Take collects the character and continues.
	Take Action = iota
	// Skip consumes the character without collecting it and continues.
	Skip
	// Stop leaves the character unconsumed and ends the run.
	Stop
	// TakeAndStop collects the character and ends the run.
	TakeAndStop
	// SkipAndStop consumes the character without collecting it and ends the run.
	SkipAndStop
)

// TakeIf maps a predicate result onto Take or Stop.
func TakeIf(ok bool) Action {
	if ok {
		return Take
	}
	return Stop
}

// TakeWhileConfig consumes characters driven by the state machine step,
// which maps (character, state) to an Action and the next state.
// With retake set, the character most recently returned by Advance is
// included first. The run ends at Stop, *AndStop or end of input.
func TakeWhileConfig[S any](c *Cursor, state S, retake bool, step func(rune, S) (Action, S)) []rune {
	var out []rune
	if retake && c.hasLast {
		out = append(out, c.last)
	}
	for {
		r, ok := c.Peek()
		if !ok {
			return out
		}
		action, next := step(r, state)
		switch action {
		case Take:
			out = append(out, r)
			c.Advance()
		case Skip:
			c.Advance()
		case TakeAndStop:
			out = append(out, r)
			c.Advance()
			return out
		case SkipAndStop:
			c.Advance()
			return out
		default:
			return out
		}
		state = next
	}
}

func predicateStep(pred func(rune) bool) func(rune, struct{}) (Action, struct{}) {
	return func(r rune, s struct{}) (Action, struct{}) {
		return TakeIf(pred(r)), s
	}
}

// TakeWhile collects characters while pred holds, stopping without
// consuming at the first mismatch.
func (c *Cursor) TakeWhile(pred func(rune) bool) []rune {
	return TakeWhileConfig(c, struct{}{}, false, predicateStep(pred))
}

// RetakeWhile is TakeWhile that first re-includes the last advanced character.
func (c *Cursor) RetakeWhile(pred func(rune) bool) []rune {
	return TakeWhileConfig(c, struct{}{}, true, predicateStep(pred))
}

// SkipWhile consumes characters while pred holds.
func (c *Cursor) SkipWhile(pred func(rune) bool) {
	c.TakeWhile(pred)
}
