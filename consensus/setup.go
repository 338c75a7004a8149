// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package consensus - drive the delta pipeline from the cycle clock
//
// each cycle this node builds a candidate if it is a producer, votes
// for its favourite, elects the most popular candidate and publishes
// it if the winning delta was built here; deltas published elsewhere
// are followed through their announced addresses
package consensus

import (
	"context"
	"time"

	"github.com/bitmark-inc/deltad/protocol"
)

// Builder - constructs this node's candidate
type Builder interface {
	BuildCandidateDelta(previousDeltaHash []byte) (*protocol.CandidateDeltaBroadcast, error)
}

// Voter - scores candidates and picks a favourite
type Voter interface {
	OnCandidate(*protocol.CandidateDeltaBroadcast) error
	GetFavourite(previousDeltaHash []byte) (*protocol.FavouriteDeltaBroadcast, bool)
}

// Elector - counts favourites
type Elector interface {
	OnFavourite(*protocol.FavouriteDeltaBroadcast) error
	GetMostPopular(previousDeltaHash []byte) (*protocol.CandidateDeltaBroadcast, bool)
}

// Hub - outbound messages and publication
type Hub interface {
	BroadcastCandidate(*protocol.CandidateDeltaBroadcast) error
	BroadcastFavourite(*protocol.FavouriteDeltaBroadcast) error
	PublishDeltaAndBroadcastAddress(ctx context.Context, delta *protocol.Delta) ([]byte, error)
}

// Cache - local and confirmed deltas
type Cache interface {
	TryGetLocal(*protocol.CandidateDeltaBroadcast) (*protocol.Delta, bool)
	TryGetConfirmed(ctx context.Context, hash []byte) (*protocol.Delta, bool)
}

// Heads - the chain head timeline
type Heads interface {
	TryUpdateLatest(previousHash []byte, newHash []byte) bool
	GetLatestHash() []byte
}

// Pool - pending transactions
type Pool interface {
	DeleteIncluded(*protocol.Delta) int
}

// internal constants
const (
	fetchTimeout = 30 * time.Second
)
