// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package limitedset - bounded set of recently seen gossip digests
package limitedset

import (
	"container/ring"
	"sync"
)

// LimitedSet - remembers the most recent n distinct items
type LimitedSet struct {
	sync.Mutex
	size int
	ring *ring.Ring
	hash map[string]*ring.Ring
}

// New - a set that holds up to n items; the oldest is forgotten first
func New(n int) *LimitedSet {
	if n <= 0 {
		n = 1
	}
	return &LimitedSet{
		size: n,
		ring: ring.New(n),
		hash: make(map[string]*ring.Ring),
	}
}

// Add - record an item, refreshing it if already present
func (ls *LimitedSet) Add(item string) {
	ls.Lock()
	defer ls.Unlock()
	ls.add(item)
}

// Exists - check whether an item is currently remembered
func (ls *LimitedSet) Exists(item string) bool {
	ls.Lock()
	defer ls.Unlock()
	_, ok := ls.hash[item]
	return ok
}

// Seen - record a digest and report whether it was already present,
// as a single step so concurrent receivers agree on the first copy
func (ls *LimitedSet) Seen(digest []byte) bool {
	ls.Lock()
	defer ls.Unlock()

	key := string(digest)
	_, ok := ls.hash[key]
	ls.add(key)
	return ok
}

// Len - number of items remembered
func (ls *LimitedSet) Len() int {
	ls.Lock()
	defer ls.Unlock()
	return len(ls.hash)
}

func (ls *LimitedSet) add(item string) {
	if r, ok := ls.hash[item]; ok {
		// the write position holds the oldest item
		if r == ls.ring {
			ls.ring = ls.ring.Next()
			return
		}
		r = r.Prev().Unlink(1)
		ls.ring.Prev().Link(r)
		return
	}
	if oldItem, ok := ls.ring.Value.(string); ok {
		delete(ls.hash, oldItem)
	}
	ls.ring.Value = item
	ls.hash[item] = ls.ring
	ls.ring = ls.ring.Next()
}
