// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package elector - collect favourite votes and elect the most
// popular candidate for each round
package elector

import (
	"bytes"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/producers"
	"github.com/bitmark-inc/deltad/protocol"
)

const (
	roundExpiry     = 3 * time.Minute
	cleanupInterval = time.Minute
	lockShards      = 64

	// a candidate needs at least producers/thresholdDivisor votes
	thresholdDivisor = 3
)

// Tally - number of distinct voters backing a candidate
type Tally struct {
	Candidate *protocol.CandidateDeltaBroadcast
	Votes     int
}

// a vote is identified by candidate hash and voter only
type voteKey struct {
	hash  string
	voter string
}

type records map[voteKey]*protocol.CandidateDeltaBroadcast

type electionResult struct {
	highestNumVotes int
	winner          *protocol.CandidateDeltaBroadcast
	draw            bool
}

// Elector - favourite sets per previous delta hash
type Elector struct {
	log       *logger.L
	producers producers.Provider
	rounds    *cache.Cache
	locks     [lockShards]sync.RWMutex
}

// New - create an elector
func New(log *logger.L, provider producers.Provider) *Elector {
	return &Elector{
		log:       log,
		producers: provider,
		rounds:    cache.New(roundExpiry, cleanupInterval),
	}
}

// OnFavourite - record a vote; repeated votes are idempotent and
// votes from non producers are ignored
func (e *Elector) OnFavourite(favourite *protocol.FavouriteDeltaBroadcast) error {
	if nil == favourite {
		return fault.ArgumentNull
	}
	if !favourite.Candidate.IsValid() {
		e.log.Warnf("drop favourite with invalid candidate from: %s", protocol.PeerString(favourite.VoterId))
		return fault.InvalidData
	}

	candidate := favourite.Candidate
	previous := candidate.PreviousDeltaDfsHash
	list := e.producers.GetProducers(previous)
	if producers.IndexOf(list, favourite.VoterId) < 0 {
		e.log.Debugf("ignore favourite from non producer: %s", protocol.PeerString(favourite.VoterId))
		return nil
	}

	lock := e.lock(previous)
	lock.Lock()
	defer lock.Unlock()

	key := roundKey(previous)
	votes := records{}
	if item, ok := e.rounds.Get(key); ok {
		votes = item.(records)
	}

	k := voteKey{hash: address.Key(candidate.Hash), voter: string(favourite.VoterId)}
	if _, ok := votes[k]; ok {
		e.log.Debugf("duplicate vote from: %s  for: %s", protocol.PeerString(favourite.VoterId), address.String(candidate.Hash))
		return nil
	}
	votes[k] = candidate
	e.rounds.Set(key, votes, cache.DefaultExpiration)

	e.log.Debugf("vote from: %s  for: %s", protocol.PeerString(favourite.VoterId), address.String(candidate.Hash))
	return nil
}

// Tally - vote counts for a round, most popular first
func (e *Elector) Tally(previousDeltaHash []byte) []Tally {
	lock := e.lock(previousDeltaHash)
	lock.RLock()
	defer lock.RUnlock()

	item, ok := e.rounds.Get(roundKey(previousDeltaHash))
	if !ok {
		return nil
	}

	counts := make(map[string]*Tally)
	for k, candidate := range item.(records) {
		t, ok := counts[k.hash]
		if !ok {
			t = &Tally{Candidate: candidate}
			counts[k.hash] = t
		}
		t.Votes += 1
	}

	result := make([]Tally, 0, len(counts))
	for _, t := range counts {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Votes != result[j].Votes {
			return result[i].Votes > result[j].Votes
		}
		return bytes.Compare(result[i].Candidate.Hash, result[j].Candidate.Hash) < 0
	})
	return result
}

// GetMostPopular - candidate with the most distinct voters, smallest
// hash wins a draw
func (e *Elector) GetMostPopular(previousDeltaHash []byte) (*protocol.CandidateDeltaBroadcast, bool) {
	tally := e.Tally(previousDeltaHash)
	if 0 == len(tally) {
		e.log.Debugf("no favourite for previous: %s", address.String(previousDeltaHash))
		return nil, false
	}

	threshold := len(e.producers.GetProducers(previousDeltaHash)) / thresholdDivisor
	result := countVotes(tally)
	if result.highestNumVotes < threshold {
		e.log.Infof("most votes: %d below threshold: %d", result.highestNumVotes, threshold)
		return nil, false
	}

	if result.draw {
		e.log.Infof("election in draw with vote counts %d", result.highestNumVotes)
		result.winner = smallerHashWinnerFrom(sameVoteCandidates(tally, result.highestNumVotes))
	}

	e.log.Infof("elected: %s  votes: %d", address.String(result.winner.Hash), result.highestNumVotes)
	return result.winner, true
}

func countVotes(tally []Tally) electionResult {
	result := electionResult{}
	for _, t := range tally {
		if result.highestNumVotes < t.Votes {
			result.highestNumVotes = t.Votes
			result.winner = t.Candidate
			result.draw = false
		} else if result.highestNumVotes == t.Votes {
			result.draw = true
		}
	}
	return result
}

func sameVoteCandidates(tally []Tally, numVote int) []*protocol.CandidateDeltaBroadcast {
	var candidates []*protocol.CandidateDeltaBroadcast
	for _, t := range tally {
		if numVote == t.Votes {
			candidates = append(candidates, t.Candidate)
		}
	}
	return candidates
}

func smallerHashWinnerFrom(candidates []*protocol.CandidateDeltaBroadcast) *protocol.CandidateDeltaBroadcast {
	elected := candidates[0]
	for _, c := range candidates[1:] {
		if address.Less(c.Hash, elected.Hash) {
			elected = c
		}
	}
	return elected
}

func (e *Elector) lock(previous []byte) *sync.RWMutex {
	h := fnv.New32a()
	_, _ = h.Write(previous)
	return &e.locks[h.Sum32()%lockShards]
}

func roundKey(previous []byte) string {
	return address.Key(previous)
}
