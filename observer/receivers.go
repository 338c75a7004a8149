// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package observer

import (
	"github.com/bitmark-inc/deltad/protocol"
)

// CandidateReceiver - consumer of candidate broadcasts
type CandidateReceiver interface {
	OnCandidate(*protocol.CandidateDeltaBroadcast) error
}

// FavouriteReceiver - consumer of favourite broadcasts
type FavouriteReceiver interface {
	OnFavourite(*protocol.FavouriteDeltaBroadcast) error
}

// DeltaHashReceiver - consumer of published delta addresses
type DeltaHashReceiver interface {
	OnDeltaDfsHash(*protocol.DeltaDfsHashBroadcast) error
}

// TransactionReceiver - consumer of gossiped transactions
type TransactionReceiver interface {
	Store(*protocol.Transaction) error
}
