// Copyright 2025 Certen Protocol

package compress

import (
	"fmt"

	"github.com/certen/zkmtd/pkg/zkerrors"
)

func serializationError(reason string) error {
	return zkerrors.SerializationError("%s", reason)
}

func internalSelfTestError(reason string, cause error) error {
	if cause != nil {
		return zkerrors.SerializationError("%s: %v", reason, cause)
	}
	return zkerrors.SerializationError("%s", reason)
}

func resourceLimitError(size int) error {
	return zkerrors.ResourceLimitExceeded("decompressed size %d exceeds maximum %d", size, MaxDecompressedSize)
}

func unsupportedAlgorithmError(a Algorithm) error {
	return zkerrors.UnsupportedFeature(fmt.Sprintf("compression algorithm %d", a))
}
