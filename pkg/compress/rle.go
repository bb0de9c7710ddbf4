// Copyright 2025 Certen Protocol
//
// Package compress implements the transport-size-reduction codec
// (C9): a length-preserving run-length encoding with a checksummed
// wrapper, used purely to shrink proof payloads for transport — never
// part of any cryptographic computation.
package compress

import "github.com/certen/zkmtd/pkg/poseidon"

// Algorithm identifies the compression scheme a Wrapper was produced
// with. RLE is currently the only one.
type Algorithm uint8

const RLE Algorithm = 1

// MaxDecompressedSize bounds decompression output to prevent
// amplification denial-of-service from a maliciously crafted payload.
const MaxDecompressedSize = 10 * 1024 * 1024 // 10 MiB

// maxRunLength is the largest run a single (value, run_length) pair
// can encode; longer runs are split across multiple pairs.
const maxRunLength = 255

// Wrapper is the serializable compressed-payload envelope: the
// compressed bytes plus enough metadata to validate decompression
// without trusting the payload.
type Wrapper struct {
	Algorithm    Algorithm
	OriginalSize int
	Checksum     [32]byte
	Epoch        uint64
	Version      uint8
	Data         []byte
}

const wrapperVersion uint8 = 1

// Compress RLE-encodes data and wraps it with a checksum over the
// uncompressed bytes, an epoch tag, and a self-test: the codec
// immediately decompresses its own output and compares it to data,
// surfacing any mismatch as an error rather than shipping a payload
// that cannot round-trip.
func Compress(data []byte, e uint64) (*Wrapper, error) {
	encoded := rleEncode(data)
	w := &Wrapper{
		Algorithm:    RLE,
		OriginalSize: len(data),
		Checksum:     poseidon.Hash(data, poseidon.DomainCompressionCksum),
		Epoch:        e,
		Version:      wrapperVersion,
		Data:         encoded,
	}

	roundTripped, err := Decompress(w)
	if err != nil {
		return nil, internalSelfTestError("decompression self-test failed", err)
	}
	if !bytesEqual(roundTripped, data) {
		return nil, internalSelfTestError("decompression self-test mismatch", nil)
	}
	return w, nil
}

// Decompress reconstructs the original bytes from w, validating the
// recovered length against w.OriginalSize and the checksum (constant
// time) against w.Checksum before returning.
func Decompress(w *Wrapper) ([]byte, error) {
	if w == nil {
		return nil, serializationError("nil compression wrapper")
	}
	if w.OriginalSize > MaxDecompressedSize {
		return nil, resourceLimitError(w.OriginalSize)
	}
	if w.Algorithm != RLE {
		return nil, unsupportedAlgorithmError(w.Algorithm)
	}

	decoded, err := rleDecode(w.Data, w.OriginalSize)
	if err != nil {
		return nil, err
	}
	if len(decoded) != w.OriginalSize {
		return nil, serializationError("recovered length does not match original size")
	}

	checksum := poseidon.Hash(decoded, poseidon.DomainCompressionCksum)
	if !poseidon.ConstantTimeEqFixed(checksum, w.Checksum) {
		return nil, serializationError("checksum mismatch: payload tampered")
	}
	return decoded, nil
}

// rleEncode emits (value, run_length) pairs with run_length in
// [1, 255]; runs longer than 255 are split across multiple pairs.
func rleEncode(data []byte) []byte {
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		v := data[i]
		run := 1
		for i+run < len(data) && data[i+run] == v && run < maxRunLength {
			run++
		}
		out = append(out, v, byte(run))
		i += run
	}
	return out
}

// rleDecode reconstructs the original bytes from (value, run_length)
// pairs, bounding total output at both expectedLen and
// MaxDecompressedSize.
func rleDecode(encoded []byte, expectedLen int) ([]byte, error) {
	if expectedLen > MaxDecompressedSize {
		return nil, resourceLimitError(expectedLen)
	}
	if len(encoded)%2 != 0 {
		return nil, serializationError("malformed RLE stream: odd number of bytes")
	}

	out := make([]byte, 0, expectedLen)
	for i := 0; i < len(encoded); i += 2 {
		value := encoded[i]
		run := int(encoded[i+1])
		if run == 0 {
			return nil, serializationError("malformed RLE stream: zero-length run")
		}
		if len(out)+run > MaxDecompressedSize {
			return nil, resourceLimitError(len(out) + run)
		}
		if len(out)+run > expectedLen {
			return nil, serializationError("malformed RLE stream: output exceeds original size")
		}
		for j := 0; j < run; j++ {
			out = append(out, value)
		}
	}
	return out, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
