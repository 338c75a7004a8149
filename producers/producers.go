// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package producers - the ordered set of nodes allowed to produce and
// vote on the delta following a given previous delta
package producers

import (
	"bytes"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/fault"
)

// number of rounds whose ranking is remembered
const memoSize = 128

// Provider - ordered producer ids for a round, the position in the
// list is the producer's rank
type Provider interface {
	GetProducers(previousDeltaHash []byte) [][]byte
}

// Ranked - static peer list reordered every round by the digest of
// each peer id and the previous delta hash
type Ranked struct {
	sync.RWMutex
	log       *logger.L
	peers     [][]byte
	requested int
	count     int
	memo      *lru.Cache
}

// New - create a provider for a static list; count limits the number
// of producers per round, zero means all peers
func New(log *logger.L, peers [][]byte, count int) (*Ranked, error) {
	if 0 == len(peers) {
		return nil, fault.MissingParameters
	}
	memo, err := lru.New(memoSize)
	if nil != err {
		return nil, err
	}

	r := &Ranked{
		log:       log,
		requested: count,
		memo:      memo,
	}
	r.setPeers(peers)
	return r, nil
}

// Update - replace the peer list, rounds are ranked again from scratch
func (r *Ranked) Update(peers [][]byte) error {
	if 0 == len(peers) {
		return fault.MissingParameters
	}

	r.Lock()
	r.setPeers(peers)
	r.memo.Purge()
	r.Unlock()

	r.log.Infof("producer list updated: %d peers", len(peers))
	return nil
}

// Len - number of peers in the list
func (r *Ranked) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.peers)
}

func (r *Ranked) setPeers(peers [][]byte) {
	p := make([][]byte, len(peers))
	copy(p, peers)
	r.peers = p

	r.count = r.requested
	if r.count <= 0 || r.count > len(p) {
		r.count = len(p)
	}
}

// GetProducers - producers for the round following previousDeltaHash
func (r *Ranked) GetProducers(previousDeltaHash []byte) [][]byte {
	r.RLock()
	defer r.RUnlock()

	key := address.Key(previousDeltaHash)
	if cached, ok := r.memo.Get(key); ok {
		return cached.([][]byte)
	}

	type ranking struct {
		id     []byte
		digest [32]byte
	}
	rankings := make([]ranking, len(r.peers))
	for i, id := range r.peers {
		rankings[i] = ranking{
			id:     id,
			digest: sha3.Sum256(append(append([]byte{}, id...), previousDeltaHash...)),
		}
	}
	sort.Slice(rankings, func(i, j int) bool {
		return bytes.Compare(rankings[i].digest[:], rankings[j].digest[:]) < 0
	})

	selected := make([][]byte, r.count)
	for i := range selected {
		selected[i] = rankings[i].id
	}

	r.memo.Add(key, selected)
	r.log.Debugf("producers for previous: %s  count: %d", address.String(previousDeltaHash), len(selected))
	return selected
}

// IndexOf - rank of an id within a producer list, -1 when absent
func IndexOf(producers [][]byte, id []byte) int {
	for i, p := range producers {
		if bytes.Equal(p, id) {
			return i
		}
	}
	return -1
}
