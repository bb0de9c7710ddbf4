// Copyright 2025 Certen Protocol

package poseidon

import "github.com/certen/zkmtd/pkg/field"

func newState() [Width]field.Element {
	var s [Width]field.Element
	for i := range s {
		s[i] = field.Zero()
	}
	return s
}

// bytesToRateElements chunks b into 8-byte little-endian field
// elements, zero-padding the final chunk if necessary. It returns one
// element per chunk; absorbDomainTag uses at most Rate of them (every
// fixed tag in this system fits within Rate*8 bytes).
func bytesToRateElements(b []byte) []field.Element {
	var elems []field.Element
	for i := 0; i < len(b); i += 8 {
		end := i + 8
		var chunk [8]byte
		if end > len(b) {
			copy(chunk[:], b[i:])
		} else {
			copy(chunk[:], b[i:end])
		}
		elems = append(elems, field.FromBytesLE(chunk[:]))
	}
	return elems
}

func absorbDomainTag(state *[Width]field.Element, tag []byte) {
	elems := bytesToRateElements(tag)
	for i, e := range elems {
		if i >= Rate {
			break
		}
		state[i] = e
	}
	spongePermutation().permute(state)
}

func absorbMessage(state *[Width]field.Element, data []byte) {
	const chunkBytes = Rate * 8
	numChunks := (len(data) + chunkBytes - 1) / chunkBytes
	if numChunks == 0 {
		numChunks = 1 // absorb a single all-zero chunk for empty messages
	}
	for c := 0; c < numChunks; c++ {
		offset := c * chunkBytes
		end := offset + chunkBytes
		if end > len(data) {
			end = len(data)
		}
		var chunk []byte
		if offset < len(data) {
			chunk = data[offset:end]
		}
		for sub := 0; sub < Rate; sub++ {
			lo := sub * 8
			hi := lo + 8
			var buf [8]byte
			if lo < len(chunk) {
				if hi > len(chunk) {
					hi = len(chunk)
				}
				copy(buf[:], chunk[lo:hi])
			}
			state[sub] = state[sub].Add(field.FromBytesLE(buf[:]))
		}
		spongePermutation().permute(state)
	}
}

func squeeze(state *[Width]field.Element) [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		b := state[i].ToBytesLE()
		copy(out[i*8:(i+1)*8], b[:])
	}
	return out
}

// Hash computes the Poseidon2 sponge digest of data under domainTag:
// absorb the domain tag and permute, then absorb the message in
// Rate*8-byte chunks (permuting after each), then squeeze 32 bytes
// from the first 4 state cells.
func Hash(data []byte, domainTag []byte) [32]byte {
	state := newState()
	absorbDomainTag(&state, domainTag)
	absorbMessage(&state, data)
	return squeeze(&state)
}

// Combine hashes left||right (64 bytes total) under domainTag — the
// exact contract used by Merkle internal-node combination.
func Combine(left, right [32]byte, domainTag []byte) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return Hash(buf, domainTag)
}

// ConstantTimeEqFixed compares two 32-byte digests in constant time.
func ConstantTimeEqFixed(a, b [32]byte) bool {
	var v byte
	for i := 0; i < 32; i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

// ConstantTimeEq compares two variable-length byte slices in constant
// time, folding the length-equality check into the final result so
// that timing does not leak where (or whether) lengths differ.
func ConstantTimeEq(a, b []byte) bool {
	lenEqual := byte(0)
	if len(a) != len(b) {
		lenEqual = 1
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var v byte
	for i := 0; i < n; i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0 && lenEqual == 0
}
