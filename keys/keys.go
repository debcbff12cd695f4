// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keys encodes the maximum value size of a state key into the key
// itself so that any value written can be checked against it.
package keys

import (
	"encoding/binary"

	"github.com/ava-labs/kittyvm/consts"
)

const chunkSize = 64 // bytes

// Build returns [prefix] + [payload] + [maxChunks].
func Build(prefix byte, payload []byte, maxChunks uint16) []byte {
	k := make([]byte, 0, consts.ByteLen+len(payload)+consts.Uint16Len)
	k = append(k, prefix)
	k = append(k, payload...)
	return binary.BigEndian.AppendUint16(k, maxChunks)
}

// EncodeChunks appends [maxChunks] to an already prefixed [key].
func EncodeChunks(key []byte, maxChunks uint16) []byte {
	k := make([]byte, 0, len(key)+consts.Uint16Len)
	k = append(k, key...)
	return binary.BigEndian.AppendUint16(k, maxChunks)
}

func Valid(key []byte) bool {
	return len(key) > consts.Uint16Len
}

// MaxChunks returns the chunk limit encoded in [key].
func MaxChunks(key []byte) (uint16, bool) {
	l := len(key)
	if l < consts.Uint16Len {
		return 0, false
	}
	return binary.BigEndian.Uint16(key[l-consts.Uint16Len:]), true
}

// NumChunks returns the number of chunks needed to store [value].
func NumChunks(value []byte) (uint16, bool) {
	return ChunksFor(len(value))
}

// ChunksFor returns the number of chunks needed to store [size] bytes.
func ChunksFor(size int) (uint16, bool) {
	if size == 0 {
		return 0, true
	}
	raw := size/chunkSize + 1
	if raw > int(consts.MaxUint16) {
		return 0, false
	}
	return uint16(raw), true
}

// VerifyValue returns true if [value] fits within the limit of [key].
func VerifyValue(key []byte, value []byte) bool {
	valueChunks, ok := NumChunks(value)
	if !ok {
		return false
	}
	keyChunks, ok := MaxChunks(key)
	if !ok {
		return false
	}
	return valueChunks <= keyChunks
}
