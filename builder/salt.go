// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// number of salt bytes appended to each entry
const saltSize = 4

// seeded - deterministic pseudo random stream, every node seeding
// with the same bytes reads the same sequence
type seeded struct {
	stream sha3.ShakeHash
}

func newSeeded(seed []byte) *seeded {
	s := sha3.NewShake256()
	_, _ = s.Write(seed)
	return &seeded{stream: s}
}

// Uint32 - next value of the sequence
func (s *seeded) Uint32() uint32 {
	var b [4]byte
	_, _ = s.stream.Read(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Salt - the first value drawn from a stream seeded with the previous
// delta hash, in little endian byte order
func Salt(previousDeltaHash []byte) []byte {
	salt := make([]byte, saltSize)
	binary.LittleEndian.PutUint32(salt, newSeeded(previousDeltaHash).Uint32())
	return salt
}
