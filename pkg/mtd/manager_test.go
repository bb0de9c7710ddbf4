// Copyright 2025 Certen Protocol

package mtd

import (
	"testing"

	"github.com/certen/zkmtd/pkg/entropy"
	"github.com/certen/zkmtd/pkg/epoch"
)

func TestNewRejectsInsecureEntropy(t *testing.T) {
	if _, err := New([]byte("seed"), entropy.NewDeterministicSource(1)); err == nil {
		t.Error("expected New to reject an insecure entropy source")
	}
}

func TestNewAcceptsSecureEntropy(t *testing.T) {
	m, err := New([]byte("seed"), entropy.NewOSSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.AutoAdvance() {
		t.Error("New must enable auto-advance")
	}
}

func TestWithEpochDisablesAutoAdvance(t *testing.T) {
	m, err := WithEpoch([]byte("seed"), epoch.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.AutoAdvance() {
		t.Error("WithEpoch must disable auto-advance")
	}
	if m.CurrentEpoch() != epoch.New(1) {
		t.Error("expected pinned epoch")
	}
}

func TestGetParamsCurrentEpochFastPath(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(5))
	p, err := m.GetParams(epoch.New(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Equal(m.CurrentParams()) {
		t.Error("expected current-epoch fast path to return current params")
	}
	if m.CacheStats() != 0 {
		t.Error("fast path must not touch the cache")
	}
}

func TestGetParamsCachesOnMiss(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(5))
	p1, err := m.GetParams(epoch.New(9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CacheStats() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", m.CacheStats())
	}
	p2, err := m.GetParams(epoch.New(9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p1.Equal(p2) {
		t.Error("repeated lookup of a cached epoch must return identical params")
	}
	if m.CacheStats() != 1 {
		t.Error("a cache hit must not grow the cache")
	}
}

func TestGetParamsCacheEvictsFIFO(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(0))
	for i := uint64(1); i <= ParamCacheSize+4; i++ {
		if _, err := m.GetParams(epoch.New(i)); err != nil {
			t.Fatalf("unexpected error at epoch %d: %v", i, err)
		}
	}
	if m.CacheStats() != ParamCacheSize {
		t.Fatalf("expected cache to stay bounded at %d, got %d", ParamCacheSize, m.CacheStats())
	}
	// The oldest entries (epoch 1..4) should have been evicted.
	p, err := m.GetParams(epoch.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CacheStats() != ParamCacheSize {
		t.Error("re-deriving an evicted epoch must still respect the cache bound")
	}
	if p.Epoch != epoch.New(1) {
		t.Error("expected re-derivation to still target epoch 1")
	}
}

func TestClearCache(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(0))
	m.GetParams(epoch.New(1))
	m.GetParams(epoch.New(2))
	if m.CacheStats() == 0 {
		t.Fatal("expected non-empty cache before ClearCache")
	}
	m.ClearCache()
	if m.CacheStats() != 0 {
		t.Error("expected empty cache after ClearCache")
	}
}

func TestAdvanceMovesEpochAndCachesPrevious(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(10))
	prevParams := m.CurrentParams()
	if err := m.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CurrentEpoch() != epoch.New(11) {
		t.Errorf("expected epoch 11, got %d", m.CurrentEpoch().Value())
	}
	cached, err := m.GetParams(epoch.New(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached.Equal(prevParams) {
		t.Error("expected the pre-advance params to be recoverable from the cache")
	}
}

func TestAdvanceRejectsAtMax(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(epoch.Max))
	if err := m.Advance(); err == nil {
		t.Error("expected error advancing past the maximum epoch")
	}
}

func TestSyncForwardJumpClearsCache(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(0))
	m.GetParams(epoch.New(1))
	if m.CacheStats() == 0 {
		t.Fatal("expected populated cache before sync")
	}
	futureTimestamp := epoch.New(50).StartTimestamp()
	if err := m.Sync(futureTimestamp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CurrentEpoch() != epoch.New(50) {
		t.Errorf("expected epoch 50 after sync, got %d", m.CurrentEpoch().Value())
	}
	if m.CacheStats() != 0 {
		t.Error("forward sync must clear the cache")
	}
}

func TestSyncRejectsClockRollback(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(10))
	pastTimestamp := epoch.New(5).StartTimestamp()
	if err := m.Sync(pastTimestamp); err == nil {
		t.Error("expected error when system epoch precedes current epoch")
	}
}

func TestSyncNoOpWhenEpochUnchanged(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(10))
	before := m.CurrentParams()
	sameTimestamp := epoch.New(10).StartTimestamp()
	if err := m.Sync(sameTimestamp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.CurrentParams().Equal(before) {
		t.Error("no-op sync must not change current params")
	}
}

func TestValidateTimestamp(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(20))
	if !m.ValidateTimestamp(epoch.New(20).StartTimestamp()) {
		t.Error("expected current epoch's start timestamp to validate")
	}
	if m.ValidateTimestamp(epoch.New(20).StartTimestamp() - epoch.Tolerance - 1) {
		t.Error("expected timestamp well outside tolerance to fail")
	}
}

func TestParamsMatch(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(3))
	if !m.ParamsMatch(m.CurrentParams()) {
		t.Error("expected current params to match themselves")
	}
	other, _ := GenerateWarpingParams([]byte("different-seed"), epoch.New(3))
	if m.ParamsMatch(other) {
		t.Error("expected params derived from a different seed to not match")
	}
}

func TestDerivePVSaltDeterministic(t *testing.T) {
	m, _ := WithEpoch([]byte("seed"), epoch.New(1))
	a := m.DerivePVSalt("ctx")
	b := m.DerivePVSalt("ctx")
	if a != b {
		t.Error("expected DerivePVSalt to be deterministic for the same context")
	}
	c := m.DerivePVSalt("other-ctx")
	if a == c {
		t.Error("expected distinct contexts to derive distinct salts")
	}
}
