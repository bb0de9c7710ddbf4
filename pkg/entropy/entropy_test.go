// Copyright 2025 Certen Protocol

package entropy

import "testing"

func TestOSSourceSecure(t *testing.T) {
	s := NewOSSource()
	if !s.IsCryptographicallySecure() {
		t.Error("OS source must report secure")
	}
	buf := make([]byte, 32)
	if err := s.FillBytes(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChainSlotSourceSecure(t *testing.T) {
	var slot, program [32]byte
	slot[0] = 1
	program[0] = 2
	s := NewChainSlotSource(slot, program)
	if !s.IsCryptographicallySecure() {
		t.Error("chain slot source must report secure")
	}
	buf := make([]byte, 32)
	if err := s.FillBytes(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChainSlotSourceAdvancesCounter(t *testing.T) {
	var slot, program [32]byte
	s := NewChainSlotSource(slot, program)
	a := make([]byte, 32)
	b := make([]byte, 32)
	s.FillBytes(a)
	s.FillBytes(b)
	equal := true
	for i := range a {
		if a[i] != b[i] {
			equal = false
			break
		}
	}
	if equal {
		t.Error("expected successive FillBytes calls to differ (counter must advance)")
	}
}

func TestDeterministicSourceInsecure(t *testing.T) {
	s := NewDeterministicSource(42)
	if s.IsCryptographicallySecure() {
		t.Error("deterministic source must report insecure")
	}
}

func TestDeterministicSourceReproducible(t *testing.T) {
	a := NewDeterministicSource(7)
	b := NewDeterministicSource(7)
	bufA := make([]byte, 16)
	bufB := make([]byte, 16)
	a.FillBytes(bufA)
	b.FillBytes(bufB)
	for i := range bufA {
		if bufA[i] != bufB[i] {
			t.Fatalf("same-seed sources diverged at byte %d", i)
		}
	}
}
