// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhead - the tip of the delta chain over time
package chainhead

import (
	"bytes"
	"math"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/genesis"
)

// internal constants
const (
	DefaultCapacity  = 10000
	subscriberBuffer = 16
	btreeDegree      = 32
)

// Entry - a chain head and the time it became the head
type Entry struct {
	Hash      []byte
	ValidFrom time.Time
	sequence  uint64
}

func less(a Entry, b Entry) bool {
	if a.ValidFrom.Equal(b.ValidFrom) {
		return a.sequence < b.sequence
	}
	return a.ValidFrom.Before(b.ValidFrom)
}

// Tracker - bounded time ordered window of chain heads
type Tracker struct {
	sync.RWMutex

	log      *logger.L
	now      func() time.Time
	capacity int

	entries  *btree.BTreeG[Entry]
	sequence uint64

	subscribers map[uint64]chan []byte
	nextID      uint64
}

// New - tracker starting at genesis; now may be nil to use the system
// clock
func New(log *logger.L, capacity int, now func() time.Time) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if nil == now {
		now = time.Now
	}

	t := &Tracker{
		log:         log,
		now:         now,
		capacity:    capacity,
		entries:     btree.NewG(btreeDegree, less),
		subscribers: make(map[uint64]chan []byte),
	}
	t.entries.ReplaceOrInsert(Entry{
		Hash:      genesis.Hash(),
		ValidFrom: genesis.Time,
	})
	return t
}

// TryUpdateLatest - move the tip from previousHash to newHash; fails
// without side effects when previousHash is not the current tip
func (t *Tracker) TryUpdateLatest(previousHash []byte, newHash []byte) bool {
	if 0 == len(newHash) {
		return false
	}

	t.Lock()

	tip, _ := t.entries.Max()
	if !bytes.Equal(tip.Hash, previousHash) {
		t.Unlock()
		t.log.Debugf("reject head: %s  previous: %s is not tip: %s", address.String(newHash), address.String(previousHash), address.String(tip.Hash))
		return false
	}

	validFrom := t.now()
	if validFrom.Before(tip.ValidFrom) {
		validFrom = tip.ValidFrom
	}

	t.sequence += 1
	t.entries.ReplaceOrInsert(Entry{
		Hash:      append([]byte{}, newHash...),
		ValidFrom: validFrom,
		sequence:  t.sequence,
	})

	for t.entries.Len() > t.capacity {
		evicted, _ := t.entries.DeleteMin()
		t.log.Infof("evict head: %s  valid from: %s", address.String(evicted.Hash), evicted.ValidFrom.Format(time.RFC3339Nano))
	}

	// sends happen under the lock so cancel cannot close a channel
	// being written
	for _, ch := range t.subscribers {
		select {
		case ch <- append([]byte{}, newHash...):
		default:
			t.log.Warn("subscriber full, head notification dropped")
		}
	}
	t.Unlock()

	t.log.Infof("new head: %s", address.String(newHash))
	return true
}

// GetLatestHash - current tip
func (t *Tracker) GetLatestHash() []byte {
	t.RLock()
	defer t.RUnlock()

	tip, _ := t.entries.Max()
	return append([]byte{}, tip.Hash...)
}

// GetLatestHashAsOf - the tip at a given time; false when the time is
// older than the retained window
func (t *Tracker) GetLatestHashAsOf(at time.Time) ([]byte, bool) {
	t.RLock()
	defer t.RUnlock()

	oldest, _ := t.entries.Min()
	if at.Before(oldest.ValidFrom) {
		return nil, false
	}

	var found []byte
	pivot := Entry{ValidFrom: at, sequence: math.MaxUint64}
	t.entries.DescendLessOrEqual(pivot, func(e Entry) bool {
		found = append([]byte{}, e.Hash...)
		return false
	})
	return found, nil != found
}

// Len - number of retained heads
func (t *Tracker) Len() int {
	t.RLock()
	defer t.RUnlock()
	return t.entries.Len()
}

// Subscribe - receive every new tip; call the returned function to
// unsubscribe
func (t *Tracker) Subscribe() (<-chan []byte, func()) {
	t.Lock()
	defer t.Unlock()

	id := t.nextID
	t.nextID += 1
	ch := make(chan []byte, subscriberBuffer)
	t.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.Lock()
			delete(t.subscribers, id)
			t.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
