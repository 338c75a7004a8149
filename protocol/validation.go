// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol

import (
	"bytes"
	"time"

	proto "github.com/gogo/protobuf/proto"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
)

// IsValid - both hashes and the producer must be present
func (m *CandidateDeltaBroadcast) IsValid() bool {
	return nil != m &&
		0 != len(m.Hash) &&
		0 != len(m.PreviousDeltaDfsHash) &&
		0 != len(m.ProducerId)
}

// IsValid - a vote needs a valid candidate and a voter
func (m *FavouriteDeltaBroadcast) IsValid() bool {
	return nil != m &&
		m.Candidate.IsValid() &&
		0 != len(m.VoterId)
}

// IsValid - a delta must link to its predecessor and carry its root
func (m *Delta) IsValid() bool {
	return nil != m &&
		0 != len(m.PreviousDeltaDfsHash) &&
		0 != len(m.MerkleRoot)
}

// IsValid - an announcement needs both addresses
func (m *DeltaDfsHashBroadcast) IsValid() bool {
	return nil != m &&
		0 != len(m.DeltaDfsHash) &&
		0 != len(m.PreviousDeltaDfsHash)
}

// IsValid - a transaction must be signed and carry at least one entry
func (m *Transaction) IsValid() bool {
	return nil != m &&
		0 != len(m.Signature) &&
		0 != len(m.Entries)
}

// IsLockedAt - true while the lock time is still in the future
func (m *Transaction) IsLockedAt(now time.Time) bool {
	return m.LockTime > now.Unix()
}

// Hash - digest of the encoded transaction
func (m *Transaction) Hash() []byte {
	packed, err := proto.Marshal(m)
	if nil != err {
		packed = m.Signature
	}
	digest := sha3.Sum256(packed)
	return digest[:]
}

// SameVote - two favourites are the same vote when they name the same
// candidate hash and come from the same voter
func (m *FavouriteDeltaBroadcast) SameVote(other *FavouriteDeltaBroadcast) bool {
	if nil == m || nil == other || nil == m.Candidate || nil == other.Candidate {
		return false
	}
	return bytes.Equal(m.Candidate.Hash, other.Candidate.Hash) &&
		bytes.Equal(m.VoterId, other.VoterId)
}

// PeerString - printable form of a producer or voter id
func PeerString(id []byte) string {
	if 0 == len(id) {
		return "<none>"
	}
	return base58.Encode(id)
}
