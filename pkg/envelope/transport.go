// Copyright 2025 Certen Protocol

package envelope

import "github.com/certen/zkmtd/pkg/zkerrors"

// TransportVersion is the only wire version this module emits or
// accepts.
const TransportVersion uint8 = 1

// MaxTransportDataLen bounds the opaque data payload of a transport
// frame, per §6.
const MaxTransportDataLen = 100_000

// EncodeTransport serializes an on-chain submission envelope:
// version:u8 || epoch_le8 || data_len_le4 || data[data_len].
func EncodeTransport(e uint64, data []byte) ([]byte, error) {
	if len(data) > MaxTransportDataLen {
		return nil, zkerrors.SerializationError("transport payload of %d bytes exceeds maximum %d", len(data), MaxTransportDataLen)
	}
	out := make([]byte, 0, 13+len(data))
	out = append(out, TransportVersion)

	var eb [8]byte
	v := e
	for i := 0; i < 8; i++ {
		eb[i] = byte(v)
		v >>= 8
	}
	out = append(out, eb[:]...)

	var lb [4]byte
	l := uint32(len(data))
	for i := 0; i < 4; i++ {
		lb[i] = byte(l)
		l >>= 8
	}
	out = append(out, lb[:]...)
	out = append(out, data...)
	return out, nil
}

// DecodeTransport parses a transport frame produced by EncodeTransport,
// rejecting anything shorter than the 13-byte minimum header, any
// unsupported version, any declared length above the configured
// maximum, and any declared length that differs from the actual
// remaining buffer.
func DecodeTransport(raw []byte) (e uint64, data []byte, err error) {
	if len(raw) < 13 {
		return 0, nil, zkerrors.SerializationError("transport frame too short: %d bytes, minimum 13", len(raw))
	}
	if raw[0] != TransportVersion {
		return 0, nil, zkerrors.SerializationError("unsupported transport version: %d", raw[0])
	}

	for i := 7; i >= 0; i-- {
		e = e<<8 | uint64(raw[1+i])
	}

	var dataLen uint32
	for i := 3; i >= 0; i-- {
		dataLen = dataLen<<8 | uint32(raw[9+i])
	}
	if dataLen > MaxTransportDataLen {
		return 0, nil, zkerrors.SerializationError("declared data length %d exceeds maximum %d", dataLen, MaxTransportDataLen)
	}
	if int(dataLen) != len(raw)-13 {
		return 0, nil, zkerrors.SerializationError("declared data length %d does not match remaining buffer %d", dataLen, len(raw)-13)
	}

	data = make([]byte, dataLen)
	copy(data, raw[13:])
	return e, data, nil
}
