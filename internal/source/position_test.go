package source

import "testing"

func TestPositionAdvance(t *testing.T) {
	var p Position
	for _, r := range "ab\ncd" {
		p = p.Advance(r)
	}
	if want := (Position{Line: 1, Column: 2}); p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
	if got := p.String(); got != "2:3" {
		t.Errorf("String() = %q, want 1-based %q", got, "2:3")
	}
}

func TestPositionBefore(t *testing.T) {
	a := Position{Line: 0, Column: 5}
	b := Position{Line: 1, Column: 0}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Fatal("Before ordering is broken")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 1, End: 5}
	if got, want := a.Cover(b), (Span{File: 1, Start: 1, End: 6}); got != want {
		t.Errorf("Cover = %v, want %v", got, want)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 10}); got != a {
		t.Errorf("cross-file cover must be a no-op, got %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Error("cover must contain its input")
	}
}
