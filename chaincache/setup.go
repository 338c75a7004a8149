// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincache

import (
	"context"
	"io/ioutil"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/background"
	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/dfs"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/genesis"
	"github.com/bitmark-inc/deltad/protocol"
)

// defaults
const (
	DefaultLocalSize        = 64
	DefaultTTL              = 10 * time.Minute
	expirationCheckInterval = time.Minute
)

// EvictionCallback - called once when a confirmed entry leaves the cache
type EvictionCallback func(hash []byte, delta *protocol.Delta)

type item struct {
	object  *protocol.Delta
	token   ChangeToken
	onEvict EvictionCallback
}

type poolData struct {
	sync.RWMutex
	items map[string]item
}

// Stats - cache counters
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Confirmed int
	Local     int
}

// Cache - confirmed and local deltas
type Cache struct {
	log        *logger.L
	store      dfs.Store
	tokens     ChangeTokenProvider
	confirmed  poolData
	local      *lru.Cache
	background *background.T

	hits      counter.Counter
	misses    counter.Counter
	evictions counter.Counter
}

// New - create a cache reading through to store; localSize bounds
// the number of unconfirmed local deltas kept
func New(log *logger.L, store dfs.Store, tokens ChangeTokenProvider, localSize int) (*Cache, error) {
	if nil == store || nil == tokens {
		return nil, fault.ArgumentNull
	}
	if localSize <= 0 {
		localSize = DefaultLocalSize
	}

	c := &Cache{
		log:    log,
		store:  store,
		tokens: tokens,
		confirmed: poolData{
			items: make(map[string]item),
		},
	}

	local, err := lru.NewWithEvict(localSize, func(key interface{}, value interface{}) {
		log.Debugf("local delta evicted: %s", address.String([]byte(key.(string))))
	})
	if nil != err {
		return nil, err
	}
	c.local = local

	return c, nil
}

// Start - run the expiration sweeper
func (c *Cache) Start() {
	c.background = background.Start(background.Processes{&cleaner{cache: c}}, nil)
}

// Stop - stop the expiration sweeper
func (c *Cache) Stop() {
	c.background.Stop()
}

// GenesisHash - address of the first delta, always resolvable
func (c *Cache) GenesisHash() []byte {
	return genesis.Hash()
}

// TryGetConfirmed - confirmed delta for a hash, reading the DFS on a
// miss; failures are reported as not found and are not cached
func (c *Cache) TryGetConfirmed(ctx context.Context, hash []byte) (*protocol.Delta, bool) {
	if genesis.IsGenesis(hash) {
		return genesis.Delta(), true
	}

	key := address.Key(hash)
	if d, ok := c.cached(key); ok {
		c.hits.Increment()
		return d, true
	}
	c.misses.Increment()

	d, err := c.fetch(ctx, hash)
	if nil != err {
		c.log.Warnf("delta: %s  fetch error: %s", address.String(hash), err)
		return nil, false
	}

	c.put(key, d, c.tokens.GetChangeToken(), c.logEviction)
	return d, true
}

// AddLocal - keep a delta built here, keyed by its candidate
func (c *Cache) AddLocal(candidate *protocol.CandidateDeltaBroadcast, delta *protocol.Delta) {
	if nil == candidate || nil == delta || 0 == len(candidate.Hash) {
		c.log.Warn("ignore local delta without candidate")
		return
	}
	c.local.Add(address.Key(candidate.Hash), delta)
	c.log.Debugf("local delta added: %s", address.String(candidate.Hash))
}

// TryGetLocal - the local delta built for a candidate
func (c *Cache) TryGetLocal(candidate *protocol.CandidateDeltaBroadcast) (*protocol.Delta, bool) {
	if nil == candidate {
		return nil, false
	}
	value, ok := c.local.Get(address.Key(candidate.Hash))
	if !ok {
		return nil, false
	}
	return value.(*protocol.Delta), true
}

// Stats - current counters
func (c *Cache) Stats() Stats {
	c.confirmed.RLock()
	confirmed := len(c.confirmed.items)
	c.confirmed.RUnlock()

	return Stats{
		Hits:      c.hits.Uint64(),
		Misses:    c.misses.Uint64(),
		Evictions: c.evictions.Uint64(),
		Confirmed: confirmed,
		Local:     c.local.Len(),
	}
}

func (c *Cache) fetch(ctx context.Context, hash []byte) (*protocol.Delta, error) {
	r, err := c.store.ReadByHash(ctx, hash)
	if nil != err {
		return nil, err
	}
	defer r.Close()

	packed, err := ioutil.ReadAll(r)
	if nil != err {
		return nil, err
	}
	d, err := protocol.UnpackDelta(packed)
	if nil != err {
		return nil, err
	}
	if !d.IsValid() {
		return nil, fault.InvalidData
	}
	return d, nil
}

// lookup honouring the change token
func (c *Cache) cached(key string) (*protocol.Delta, bool) {
	c.confirmed.RLock()
	i, ok := c.confirmed.items[key]
	c.confirmed.RUnlock()

	if !ok {
		return nil, false
	}
	if i.token.HasChanged() {
		c.evict(key)
		return nil, false
	}
	return i.object, true
}

func (c *Cache) put(key string, d *protocol.Delta, token ChangeToken, onEvict EvictionCallback) {
	c.confirmed.Lock()
	defer c.confirmed.Unlock()

	c.confirmed.items[key] = item{
		object:  d,
		token:   token,
		onEvict: onEvict,
	}
}

// remove an expired entry and run its callback outside the lock; an
// entry replaced since the expiry was seen has a fresh token and stays
func (c *Cache) evict(key string) {
	c.confirmed.Lock()
	i, ok := c.confirmed.items[key]
	ok = ok && i.token.HasChanged()
	if ok {
		delete(c.confirmed.items, key)
	}
	c.confirmed.Unlock()

	if ok {
		c.evictions.Increment()
		if nil != i.onEvict {
			i.onEvict([]byte(key), i.object)
		}
	}
}

func (c *Cache) logEviction(hash []byte, _ *protocol.Delta) {
	c.log.Debugf("confirmed delta evicted: %s", address.String(hash))
}
