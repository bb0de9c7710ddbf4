// Copyright 2025 Certen Protocol

package epoch

import "testing"

func TestFromTimestamp(t *testing.T) {
	e := FromTimestamp(3601)
	if e.Value() != 1 {
		t.Errorf("got %d, want 1", e.Value())
	}
}

func TestNextOverflow(t *testing.T) {
	e := New(Max)
	if _, err := e.Next(); err == nil {
		t.Error("expected error advancing past Max")
	}
}

func TestPrevUnderflow(t *testing.T) {
	e := New(0)
	if _, err := e.Prev(); err == nil {
		t.Error("expected error going before 0")
	}
}

func TestAdvanceChecked(t *testing.T) {
	e := New(100)
	got, err := e.Advance(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value() != 105 {
		t.Errorf("got %d, want 105", got.Value())
	}
}

func TestAdvanceOverflow(t *testing.T) {
	e := New(Max - 1)
	if _, err := e.Advance(5); err == nil {
		t.Error("expected overflow error")
	}
}

func TestStartEndTimestamps(t *testing.T) {
	e := New(1)
	if e.StartTimestamp() != 3600 {
		t.Errorf("start = %d, want 3600", e.StartTimestamp())
	}
	if e.EndTimestamp() != 7199 {
		t.Errorf("end = %d, want 7199", e.EndTimestamp())
	}
}

func TestContainsTimestamp(t *testing.T) {
	e := New(2)
	if !e.ContainsTimestamp(e.StartTimestamp()) {
		t.Error("expected epoch to contain its own start timestamp")
	}
	if e.ContainsTimestamp(e.EndTimestamp() + 1) {
		t.Error("expected epoch to not contain the next epoch's start")
	}
}

func TestValidateTimestampTolerance(t *testing.T) {
	e := New(10)
	if !e.ValidateTimestamp(e.StartTimestamp() - Tolerance) {
		t.Error("expected timestamp at -tolerance boundary to validate")
	}
	if e.ValidateTimestamp(e.StartTimestamp() - Tolerance - 1) {
		t.Error("expected timestamp beyond -tolerance boundary to fail")
	}
	if !e.ValidateTimestamp(e.EndTimestamp() + Tolerance) {
		t.Error("expected timestamp at +tolerance boundary to validate")
	}
}

func TestDistance(t *testing.T) {
	a := New(10)
	b := New(3)
	if a.Distance(b) != 7 {
		t.Errorf("got %d, want 7", a.Distance(b))
	}
	if b.Distance(a) != 7 {
		t.Errorf("got %d, want 7", b.Distance(a))
	}
}

func TestBytesRoundTrip(t *testing.T) {
	e := New(123456789)
	b := e.ToBytes()
	got := FromBytes(b)
	if got != e {
		t.Errorf("round trip mismatch: got %v, want %v", got, e)
	}
}

func TestTryNewRejectsOverflow(t *testing.T) {
	if _, err := TryNew(Max + 1); err == nil {
		t.Error("expected error for value beyond Max")
	}
}
