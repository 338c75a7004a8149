// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package genesis - the first delta of the chain
//
// the genesis delta has no predecessor and an empty payload; its
// address is fixed and known to every node without a DFS lookup
package genesis

import (
	"bytes"
	"time"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/logger"
)

// Time - validity start of the genesis delta
var Time = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

var genesisHash []byte

func init() {
	packed, err := protocol.PackDelta(Delta())
	if nil != err {
		logger.Panicf("genesis: pack error: %s", err)
	}
	genesisHash, err = address.Compute(packed)
	if nil != err {
		logger.Panicf("genesis: address error: %s", err)
	}
}

// Delta - a fresh copy of the genesis delta
func Delta() *protocol.Delta {
	return &protocol.Delta{
		TimeStamp: Time.UnixNano(),
	}
}

// Hash - address of the genesis delta
func Hash() []byte {
	h := make([]byte, len(genesisHash))
	copy(h, genesisHash)
	return h
}

// IsGenesis - check if a hash is the genesis address
func IsGenesis(hash []byte) bool {
	return bytes.Equal(hash, genesisHash)
}
