// Copyright 2025 Certen Protocol
//
// Package zkerrors defines the closed error-kind taxonomy shared across
// the zkmtd proving and verification pipeline.
package zkerrors

import "fmt"

// Kind enumerates the closed set of structural/procedural failure
// categories a caller may need to branch on. Adversarial verification
// outcomes (tampering, wrong epoch, stale params) are never represented
// as a Kind — those surface as a plain bool, never an error.
type Kind string

const (
	KindProofGenerationFailed Kind = "proof_generation_failed"
	KindVerificationFailed    Kind = "verification_failed"
	KindInvalidProof          Kind = "invalid_proof"
	KindInvalidWitness        Kind = "invalid_witness"
	KindInvalidPublicInputs   Kind = "invalid_public_inputs"
	KindMTDError              Kind = "mtd_error"
	KindInvalidEpoch          Kind = "invalid_epoch"
	KindEntropyError          Kind = "entropy_error"
	KindBatchError            Kind = "batch_error"
	KindMerkleError           Kind = "merkle_error"
	KindConfigurationError    Kind = "configuration_error"
	KindSerializationError    Kind = "serialization_error"
	KindUnsupportedFeature    Kind = "unsupported_feature"
	KindResourceLimitExceeded Kind = "resource_limit_exceeded"
	KindInternalError         Kind = "internal_error"
)

// Error is the single error type used across the module. Current is only
// meaningful for KindInvalidEpoch, mirroring the reference
// InvalidEpoch{current, reason} variant.
type Error struct {
	Kind    Kind
	Reason  string
	Current uint64
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidProof:
		return "invalid proof"
	case KindInvalidEpoch:
		return fmt.Sprintf("invalid epoch (current: %d): %s", e.Current, e.Reason)
	case KindUnsupportedFeature:
		return fmt.Sprintf("unsupported feature: %s", e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
}

// Is reports whether target is a *Error of the same Kind, so
// errors.Is(err, &zkerrors.Error{Kind: zkerrors.KindX}) matches by kind
// without callers type-asserting (IsKind does the same for a bare Kind).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func ProofGenerationFailed(format string, args ...any) *Error {
	return newf(KindProofGenerationFailed, format, args...)
}

func VerificationFailed(format string, args ...any) *Error {
	return newf(KindVerificationFailed, format, args...)
}

func InvalidProof() *Error {
	return &Error{Kind: KindInvalidProof}
}

func InvalidWitness(format string, args ...any) *Error {
	return newf(KindInvalidWitness, format, args...)
}

func InvalidPublicInputs(format string, args ...any) *Error {
	return newf(KindInvalidPublicInputs, format, args...)
}

func MTDError(format string, args ...any) *Error {
	return newf(KindMTDError, format, args...)
}

func InvalidEpoch(current uint64, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidEpoch, Current: current, Reason: fmt.Sprintf(format, args...)}
}

func EntropyError(format string, args ...any) *Error {
	return newf(KindEntropyError, format, args...)
}

func BatchError(format string, args ...any) *Error {
	return newf(KindBatchError, format, args...)
}

func MerkleError(format string, args ...any) *Error {
	return newf(KindMerkleError, format, args...)
}

func ConfigurationError(format string, args ...any) *Error {
	return newf(KindConfigurationError, format, args...)
}

func SerializationError(format string, args ...any) *Error {
	return newf(KindSerializationError, format, args...)
}

func UnsupportedFeature(feature string) *Error {
	return &Error{Kind: KindUnsupportedFeature, Reason: feature}
}

func ResourceLimitExceeded(format string, args ...any) *Error {
	return newf(KindResourceLimitExceeded, format, args...)
}

func InternalError(format string, args ...any) *Error {
	return newf(KindInternalError, format, args...)
}
