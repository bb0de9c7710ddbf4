// Copyright 2025 Certen Protocol

package mtd

import (
	"io"
	"log"
	"time"

	"github.com/certen/zkmtd/pkg/entropy"
	"github.com/certen/zkmtd/pkg/epoch"
	"github.com/certen/zkmtd/pkg/poseidon"
	"github.com/certen/zkmtd/pkg/zkerrors"
)

// ParamCacheSize is the maximum number of cached WarpingParams entries;
// eviction is FIFO (oldest-inserted evicted first) once full.
const ParamCacheSize = 16

type cacheEntry struct {
	params WarpingParams
}

// Manager owns a long-lived seed and the current epoch's WarpingParams,
// with a bounded FIFO cache of recently-used params for other epochs.
type Manager struct {
	seed         []byte
	currentEpoch epoch.Epoch
	currentP     WarpingParams
	cache        []cacheEntry
	autoAdvance  bool
	logger       *log.Logger
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// New constructs a Manager seeded from wall-clock time, requiring a
// cryptographically secure entropy source. auto-advance is enabled.
func New(seed []byte, src entropy.Source) (*Manager, error) {
	if !src.IsCryptographicallySecure() {
		return nil, zkerrors.EntropyError("MTDManager requires a cryptographically secure entropy source")
	}
	e := epoch.FromTimestamp(uint64(time.Now().Unix()))
	return newWithEpoch(seed, e, true)
}

// WithEpoch constructs a Manager pinned to an explicit epoch, with
// auto-advance disabled (the caller drives epoch transitions).
func WithEpoch(seed []byte, e epoch.Epoch) (*Manager, error) {
	return newWithEpoch(seed, e, false)
}

func newWithEpoch(seed []byte, e epoch.Epoch, autoAdvance bool) (*Manager, error) {
	params, err := GenerateWarpingParams(seed, e)
	if err != nil {
		return nil, err
	}
	return &Manager{
		seed:         seed,
		currentEpoch: e,
		currentP:     params,
		autoAdvance:  autoAdvance,
		logger:       discardLogger(),
	}, nil
}

// SetLogger installs a logger for ambient diagnostics (epoch
// transitions, cache evictions). A nil logger restores the discard
// logger. Never logs seed, salt, or witness material.
func (m *Manager) SetLogger(l *log.Logger) {
	if l == nil {
		l = discardLogger()
	}
	m.logger = l
}

// CurrentEpoch returns the manager's current epoch.
func (m *Manager) CurrentEpoch() epoch.Epoch { return m.currentEpoch }

// CurrentParams returns a by-value copy of the current WarpingParams.
func (m *Manager) CurrentParams() WarpingParams { return m.currentP }

// GetParams returns the WarpingParams for e: O(1) for the current
// epoch, otherwise a linear cache scan; on a miss, params are derived
// and inserted, evicting the oldest entry once the cache is full.
func (m *Manager) GetParams(e epoch.Epoch) (WarpingParams, error) {
	if e == m.currentEpoch {
		return m.currentP, nil
	}
	for _, entry := range m.cache {
		if entry.params.Epoch == e {
			return entry.params, nil
		}
	}
	params, err := GenerateWarpingParams(m.seed, e)
	if err != nil {
		return WarpingParams{}, err
	}
	m.insertCache(params)
	return params, nil
}

func (m *Manager) insertCache(p WarpingParams) {
	if len(m.cache) >= ParamCacheSize {
		evicted := m.cache[0]
		m.cache = m.cache[1:]
		m.logger.Printf("mtd: evicted cached params for epoch %d", evicted.params.Epoch.Value())
	}
	m.cache = append(m.cache, cacheEntry{params: p})
}

// Advance pushes the current params into the cache and moves to the
// next epoch, failing if the current epoch is already at its maximum.
func (m *Manager) Advance() error {
	next, err := m.currentEpoch.Next()
	if err != nil {
		return err
	}
	m.insertCache(m.currentP)
	params, err := GenerateWarpingParams(m.seed, next)
	if err != nil {
		return err
	}
	m.currentEpoch = next
	m.currentP = params
	m.logger.Printf("mtd: advanced to epoch %d", next.Value())
	return nil
}

// Sync reads the wall clock (via now, UTC seconds since epoch) and
// reconciles it against the manager's current epoch: a forward jump
// clears the cache and adopts the new epoch; a backward jump is a
// clock anomaly and fails; no change is a no-op.
func (m *Manager) Sync(now uint64) error {
	systemEpoch := epoch.FromTimestamp(now)
	switch {
	case systemEpoch.Value() > m.currentEpoch.Value():
		params, err := GenerateWarpingParams(m.seed, systemEpoch)
		if err != nil {
			return err
		}
		m.cache = nil
		m.currentEpoch = systemEpoch
		m.currentP = params
		m.logger.Printf("mtd: synced forward to epoch %d", systemEpoch.Value())
		return nil
	case systemEpoch.Value() < m.currentEpoch.Value():
		return zkerrors.MTDError("clock anomaly: system epoch %d precedes current epoch %d", systemEpoch.Value(), m.currentEpoch.Value())
	default:
		return nil
	}
}

// ValidateTimestamp reports whether t falls within the current epoch's
// window, widened by the standard tolerance.
func (m *Manager) ValidateTimestamp(t uint64) bool {
	return m.currentEpoch.ValidateTimestamp(t)
}

// CacheStats reports the number of cached (non-current) param entries.
func (m *Manager) CacheStats() int { return len(m.cache) }

// ClearCache drops all cached (non-current) param entries.
func (m *Manager) ClearCache() { m.cache = nil }

// ParamsMatch reports, in constant time, whether candidate equals the
// params this manager currently considers authoritative for its epoch.
func (m *Manager) ParamsMatch(candidate WarpingParams) bool {
	if candidate.Epoch != m.currentEpoch {
		return false
	}
	ours := m.currentP.ToBytes()
	theirs := candidate.ToBytes()
	return poseidon.ConstantTimeEq(ours[:], theirs[:])
}

// AutoAdvance reports whether this manager was constructed with
// wall-clock auto-advance semantics (New) rather than pinned epoch
// semantics (WithEpoch).
func (m *Manager) AutoAdvance() bool { return m.autoAdvance }

// DerivePVSalt deterministically derives a reproducible public-values
// salt from the manager's seed and a caller-supplied context string,
// for callers who want stable (rather than random) salts across runs.
func (m *Manager) DerivePVSalt(context string) [32]byte {
	input := make([]byte, 0, len(m.seed)+len("PV_SALT")+len(context))
	input = append(input, m.seed...)
	input = append(input, "PV_SALT"...)
	input = append(input, context...)
	return poseidon.Hash(input, poseidon.DomainPVSalt)
}
