// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package voter - score candidate deltas received for each round and
// choose this node's favourite
package voter

import (
	"bytes"
	"fmt"
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
	// base score per rank position
	ScoreMultiplier = 100

	roundExpiry     = 3 * time.Minute
	cleanupInterval = time.Minute
	lockShards      = 64
)

// ScoredCandidateDelta - a candidate and its running score
type ScoredCandidateDelta struct {
	Candidate *protocol.CandidateDeltaBroadcast
	Score     int
}

// set of candidate keys seen for one previous hash
type roundIndex map[string]struct{}

// Voter - scoreboards per previous delta hash
type Voter struct {
	log       *logger.L
	producers producers.Provider
	self      []byte
	scores    *cache.Cache
	locks     [lockShards]sync.RWMutex
}

// New - create a voter; self is the id used when emitting favourites
func New(log *logger.L, provider producers.Provider, self []byte) *Voter {
	return &Voter{
		log:       log,
		producers: provider,
		self:      self,
		scores:    cache.New(roundExpiry, cleanupInterval),
	}
}

// OnCandidate - score one observation of a candidate, the returned
// error only describes why a candidate was dropped
func (v *Voter) OnCandidate(candidate *protocol.CandidateDeltaBroadcast) error {
	if nil == candidate ||
		0 == len(candidate.Hash) ||
		0 == len(candidate.PreviousDeltaDfsHash) {
		v.log.Warnf("drop invalid candidate: %v", candidate)
		return fault.InvalidCandidate
	}

	list := v.producers.GetProducers(candidate.PreviousDeltaDfsHash)
	rank := producers.IndexOf(list, candidate.ProducerId)
	if rank < 0 {
		v.log.Warnf("drop candidate: %s  from unknown producer: %s",
			address.String(candidate.Hash), protocol.PeerString(candidate.ProducerId))
		return fault.UnknownProducer
	}

	previous := candidate.PreviousDeltaDfsHash
	lock := v.lock(previous)
	lock.Lock()
	defer lock.Unlock()

	key := candidateKey(previous, candidate.Hash)
	scored, ok := v.scored(key)
	if !ok {
		scored = &ScoredCandidateDelta{
			Candidate: candidate,
			Score:     ScoreMultiplier * (len(list) - rank),
		}
		v.log.Debugf("new candidate: %s  producer rank: %d of %d",
			address.String(candidate.Hash), rank, len(list))
	}
	scored.Score += 1
	v.scores.Set(key, scored, cache.DefaultExpiration)

	index, ok := v.index(previous)
	if !ok {
		index = make(roundIndex)
	}
	index[key] = struct{}{}
	v.scores.Set(indexKey(previous), index, cache.DefaultExpiration)

	v.log.Debugf("candidate: %s  score: %d", address.String(candidate.Hash), scored.Score)
	return nil
}

// GetFavourite - highest scoring candidate for a round, smallest hash
// wins a tie
func (v *Voter) GetFavourite(previousDeltaHash []byte) (*protocol.FavouriteDeltaBroadcast, bool) {
	s := v.Scores(previousDeltaHash)
	if 0 == len(s) {
		v.log.Debugf("no candidate for previous: %s", address.String(previousDeltaHash))
		return nil, false
	}

	return &protocol.FavouriteDeltaBroadcast{
		Candidate: s[0].Candidate,
		VoterId:   v.self,
	}, true
}

// Scores - copy of a round's scoreboard ordered from favourite down
func (v *Voter) Scores(previousDeltaHash []byte) []ScoredCandidateDelta {
	lock := v.lock(previousDeltaHash)
	lock.RLock()
	defer lock.RUnlock()

	index, ok := v.index(previousDeltaHash)
	if !ok {
		return nil
	}

	result := make([]ScoredCandidateDelta, 0, len(index))
	for key := range index {
		if scored, ok := v.scored(key); ok {
			result = append(result, *scored)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return bytes.Compare(result[i].Candidate.Hash, result[j].Candidate.Hash) < 0
	})
	return result
}

func (v *Voter) scored(key string) (*ScoredCandidateDelta, bool) {
	item, ok := v.scores.Get(key)
	if !ok {
		return nil, false
	}
	return item.(*ScoredCandidateDelta), true
}

func (v *Voter) index(previous []byte) (roundIndex, bool) {
	item, ok := v.scores.Get(indexKey(previous))
	if !ok {
		return nil, false
	}
	return item.(roundIndex), true
}

// rounds are spread over a fixed set of locks so unrelated previous
// hashes do not contend
func (v *Voter) lock(previous []byte) *sync.RWMutex {
	h := fnv.New32a()
	_, _ = h.Write(previous)
	return &v.locks[h.Sum32()%lockShards]
}

// hex keeps the separator out of the encoded hashes
func candidateKey(previous []byte, hash []byte) string {
	return fmt.Sprintf("candidate:%x:%x", previous, hash)
}

func indexKey(previous []byte) string {
	return fmt.Sprintf("round:%x", previous)
}
