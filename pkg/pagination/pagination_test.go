package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 1); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := NormalizeLimit(25); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
}

func TestCursorLifecycle(t *testing.T) {
	c := NewCursor(2)
	if c.Done() {
		t.Fatal("cursor with unknown total must not be done")
	}

	c.FixTotal(5)
	c.Advance(2)
	if c.Done() {
		t.Fatal("offset 2 of 5 is not done")
	}

	// A later, different total report does not move the fixed total.
	c.FixTotal(100)
	c.Advance(2)
	c.Advance(1)
	if !c.Done() {
		t.Fatal("offset 5 of 5 should be done")
	}
	if total, known := c.Total(); !known || total != 5 {
		t.Fatalf("expected fixed total 5, got %d known=%v", total, known)
	}
}

func TestCursorZeroTotal(t *testing.T) {
	c := NewCursor(10)
	c.FixTotal(0)
	if !c.Done() {
		t.Fatal("zero total terminates immediately")
	}
}

func TestCursorIgnoresNegativeAdvance(t *testing.T) {
	c := NewCursor(10)
	c.Advance(-3)
	if c.Offset != 0 {
		t.Fatalf("offset must only increase, got %d", c.Offset)
	}
}
