// Copyright 2025 Certen Protocol
//
// Package stark implements the FRI-based STARK prover and verifier
// that run on top of the AIR constraint systems in pkg/air.
package stark

import (
	"os"

	"github.com/certen/zkmtd/pkg/zkerrors"
	"gopkg.in/yaml.v3"
)

// Config holds the cryptographic parameters governing proof size,
// proving time, and soundness for every STARK produced by this
// package.
type Config struct {
	SecurityBits     int `yaml:"security_bits"`
	FRIFoldingFactor int `yaml:"fri_folding_factor"`
	FRIQueries       int `yaml:"fri_queries"`
	GrindingBits     int `yaml:"grinding_bits"`
	BlowupFactor     int `yaml:"blowup_factor"`
	TraceHeight      int `yaml:"trace_height"`
}

// DefaultConfig matches production defaults: 100-bit security, 4-way
// FRI folding, 100 queries, 10 grinding bits, 4x blowup, 1024-row
// traces.
func DefaultConfig() Config {
	return Config{
		SecurityBits:     100,
		FRIFoldingFactor: 4,
		FRIQueries:       100,
		GrindingBits:     10,
		BlowupFactor:     4,
		TraceHeight:      1024,
	}
}

// TestingConfig trades security for speed: use only in tests.
func TestingConfig() Config {
	return Config{
		SecurityBits:     80,
		FRIFoldingFactor: 2,
		FRIQueries:       50,
		GrindingBits:     0,
		BlowupFactor:     2,
		TraceHeight:      256,
	}
}

// HighSecurityConfig raises every parameter for long-lived or
// high-value proofs.
func HighSecurityConfig() Config {
	return Config{
		SecurityBits:     128,
		FRIFoldingFactor: 8,
		FRIQueries:       128,
		GrindingBits:     15,
		BlowupFactor:     8,
		TraceHeight:      2048,
	}
}

// Validate checks every field against its allowed range, mirroring the
// bounds enforced at proof-generation time.
func (c Config) Validate() error {
	if c.SecurityBits < 80 {
		return zkerrors.ConfigurationError("security level too low: %d < 80", c.SecurityBits)
	}
	if c.SecurityBits > 256 {
		return zkerrors.ConfigurationError("security level too high: %d > 256", c.SecurityBits)
	}
	if !isOneOf(c.FRIFoldingFactor, 2, 4, 8, 16) {
		return zkerrors.ConfigurationError("invalid FRI folding factor: %d (must be one of 2, 4, 8, 16)", c.FRIFoldingFactor)
	}
	if c.FRIQueries < 20 {
		return zkerrors.ConfigurationError("too few FRI queries: %d < 20", c.FRIQueries)
	}
	if c.FRIQueries > 500 {
		return zkerrors.ConfigurationError("too many FRI queries: %d > 500", c.FRIQueries)
	}
	if c.GrindingBits > 30 {
		return zkerrors.ConfigurationError("too many grinding bits: %d > 30", c.GrindingBits)
	}
	if !isOneOf(c.BlowupFactor, 2, 4, 8, 16) {
		return zkerrors.ConfigurationError("invalid blowup factor: %d (must be one of 2, 4, 8, 16)", c.BlowupFactor)
	}
	if !isPowerOfTwo(c.TraceHeight) {
		return zkerrors.ConfigurationError("trace height is not a power of 2: %d", c.TraceHeight)
	}
	if c.TraceHeight < 64 {
		return zkerrors.ConfigurationError("trace height too small: %d < 64", c.TraceHeight)
	}
	return nil
}

func isOneOf(v int, options ...int) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

func log2(n int) int {
	bits := 0
	for n > 1 {
		n >>= 1
		bits++
	}
	return bits
}

// EstimatedProofSize returns a rough proof-size estimate in bytes,
// useful for sizing transport buffers ahead of time.
func (c Config) EstimatedProofSize() int {
	baseSize := 1000
	friSize := c.FRIQueries * 32 * log2(c.FRIFoldingFactor)
	traceCommitmentSize := 32
	return baseSize + friSize + traceCommitmentSize
}

// EstimatedProvingTimeMs returns a rough proving-time estimate in
// milliseconds.
func (c Config) EstimatedProvingTimeMs() uint64 {
	baseTime := uint64(50)
	grindingTime := (uint64(1) << uint(c.GrindingBits)) / 1000
	traceTime := uint64(c.TraceHeight) / 10
	return baseTime + grindingTime + traceTime
}

// ConfigBuilder fluently assembles a Config, starting from
// DefaultConfig, validating only at Build.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: DefaultConfig()}
}

func (b *ConfigBuilder) SecurityBits(bits int) *ConfigBuilder {
	b.config.SecurityBits = bits
	return b
}

func (b *ConfigBuilder) FRIFoldingFactor(factor int) *ConfigBuilder {
	b.config.FRIFoldingFactor = factor
	return b
}

func (b *ConfigBuilder) FRIQueries(queries int) *ConfigBuilder {
	b.config.FRIQueries = queries
	return b
}

func (b *ConfigBuilder) GrindingBits(bits int) *ConfigBuilder {
	b.config.GrindingBits = bits
	return b
}

func (b *ConfigBuilder) BlowupFactor(factor int) *ConfigBuilder {
	b.config.BlowupFactor = factor
	return b
}

func (b *ConfigBuilder) TraceHeight(height int) *ConfigBuilder {
	b.config.TraceHeight = height
	return b
}

func (b *ConfigBuilder) Build() (Config, error) {
	if err := b.config.Validate(); err != nil {
		return Config{}, err
	}
	return b.config, nil
}

// LoadConfigFile reads an optional on-disk YAML profile (e.g. for
// operators who want to pin a non-default Config without a rebuild)
// and validates the result. A missing file is not an error: the
// default Config is returned unchanged.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, zkerrors.ConfigurationError("reading stark config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, zkerrors.ConfigurationError("parsing stark config file: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
