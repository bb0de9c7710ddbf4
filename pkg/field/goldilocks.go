// Copyright 2025 Certen Protocol
//
// Package field implements arithmetic over the Goldilocks prime field
// p = 2^64 - 2^32 + 1, the field used throughout the AIR/STARK pipeline
// and the Poseidon2 permutation.
package field

import "math/big"

// Modulus is the Goldilocks prime p = 2^64 - 2^32 + 1.
const Modulus uint64 = 0xFFFFFFFF00000001

var modulusBig = new(big.Int).SetUint64(Modulus)

// Element is a canonical field element, always held in [0, Modulus).
type Element uint64

// New reduces v into a canonical Element.
func New(v uint64) Element {
	if v >= Modulus {
		return Element(v - Modulus)
	}
	return Element(v)
}

// Zero and One are the additive and multiplicative identities.
func Zero() Element { return Element(0) }
func One() Element  { return Element(1) }

// Uint64 returns the canonical uint64 representation.
func (e Element) Uint64() uint64 { return uint64(e) }

// Add returns e+f mod p.
func (e Element) Add(f Element) Element {
	var sum big.Int
	sum.Add(new(big.Int).SetUint64(uint64(e)), new(big.Int).SetUint64(uint64(f)))
	sum.Mod(&sum, modulusBig)
	return Element(sum.Uint64())
}

// Sub returns e-f mod p.
func (e Element) Sub(f Element) Element {
	if uint64(e) >= uint64(f) {
		return Element(uint64(e) - uint64(f))
	}
	return Element(Modulus - uint64(f) + uint64(e))
}

// Neg returns -e mod p.
func (e Element) Neg() Element {
	if e == 0 {
		return 0
	}
	return Element(Modulus - uint64(e))
}

// Mul returns e*f mod p, via a 128-bit product reduced against the
// Goldilocks modulus.
func (e Element) Mul(f Element) Element {
	var prod big.Int
	prod.Mul(new(big.Int).SetUint64(uint64(e)), new(big.Int).SetUint64(uint64(f)))
	prod.Mod(&prod, modulusBig)
	return Element(prod.Uint64())
}

// Exp returns e^n mod p via square-and-multiply.
func (e Element) Exp(n uint64) Element {
	result := One()
	base := e
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return result
}

// Inv returns the multiplicative inverse of e via Fermat's little
// theorem (e^(p-2)). Panics on zero, matching the field-theoretic
// invariant that callers must never invert zero.
func (e Element) Inv() Element {
	if e == 0 {
		panic("field: inverse of zero")
	}
	return e.Exp(Modulus - 2)
}

// Sq7 evaluates the degree-7 S-box x^7 used by Poseidon2's full rounds.
func (e Element) Sq7() Element {
	x2 := e.Mul(e)
	x4 := x2.Mul(x2)
	x6 := x4.Mul(x2)
	return x6.Mul(e)
}

// FromBytesLE decodes 8 little-endian bytes into a canonical Element,
// reducing if the raw value is >= Modulus.
func FromBytesLE(b []byte) Element {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return New(v)
}

// ToBytesLE encodes e as 8 little-endian bytes.
func (e Element) ToBytesLE() [8]byte {
	var out [8]byte
	v := uint64(e)
	for i := 0; i < 8; i++ {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}
