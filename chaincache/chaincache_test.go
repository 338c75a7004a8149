// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincache_test

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/chaincache"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/fixtures"
	"github.com/bitmark-inc/deltad/genesis"
	"github.com/bitmark-inc/deltad/mocks"
	"github.com/bitmark-inc/deltad/protocol"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

// manually advanced clock
type clock struct {
	sync.Mutex
	t time.Time
}

func (c *clock) now() time.Time {
	c.Lock()
	defer c.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.Lock()
	c.t = c.t.Add(d)
	c.Unlock()
}

func packed(t *testing.T, d *protocol.Delta) []byte {
	b, err := protocol.PackDelta(d)
	assert.Nil(t, err, "wrong pack error")
	return b
}

func sampleDelta() *protocol.Delta {
	return &protocol.Delta{
		PreviousDeltaDfsHash: genesis.Hash(),
		MerkleRoot:           fixtures.Hash("root"),
		TimeStamp:            time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC).UnixNano(),
	}
}

func newCache(t *testing.T, store *mocks.MockStore, c *clock) *chaincache.Cache {
	cache, err := chaincache.New(logger.New(fixtures.LogCategory), store, chaincache.NewTTLTokens(time.Minute, c.now), 2)
	assert.Nil(t, err, "wrong New error")
	return cache
}

func TestNewRejectsMissingStore(t *testing.T) {
	_, err := chaincache.New(logger.New(fixtures.LogCategory), nil, chaincache.NewTTLTokens(time.Minute, nil), 1)
	assert.Equal(t, fault.ArgumentNull, err, "wrong error")
}

func TestGenesisAlwaysResolves(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := mocks.NewMockStore(ctl)
	cache := newCache(t, store, &clock{t: time.Now()})

	d, ok := cache.TryGetConfirmed(context.Background(), cache.GenesisHash())
	assert.True(t, ok, "genesis not found")
	assert.Equal(t, genesis.Delta(), d, "wrong genesis delta")
	assert.Equal(t, genesis.Hash(), cache.GenesisHash(), "wrong genesis hash")
}

func TestMissFetchesOnceThenHits(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	hash := fixtures.Hash("delta-1")
	delta := sampleDelta()
	content := packed(t, delta)

	store := mocks.NewMockStore(ctl)
	store.EXPECT().ReadByHash(gomock.Any(), hash).Return(ioutil.NopCloser(bytes.NewReader(content)), nil).Times(1)

	cache := newCache(t, store, &clock{t: time.Now()})

	for i := 0; i < 3; i += 1 {
		d, ok := cache.TryGetConfirmed(context.Background(), hash)
		assert.True(t, ok, "delta not found")
		assert.Equal(t, delta.MerkleRoot, d.MerkleRoot, "wrong merkle root")
	}

	stats := cache.Stats()
	assert.Equal(t, uint64(1), stats.Misses, "wrong misses")
	assert.Equal(t, uint64(2), stats.Hits, "wrong hits")
	assert.Equal(t, 1, stats.Confirmed, "wrong confirmed count")
}

func TestFailureIsNotCached(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	hash := fixtures.Hash("delta-missing")

	store := mocks.NewMockStore(ctl)
	store.EXPECT().ReadByHash(gomock.Any(), hash).Return(nil, fault.DeltaNotFound).Times(2)

	cache := newCache(t, store, &clock{t: time.Now()})

	_, ok := cache.TryGetConfirmed(context.Background(), hash)
	assert.False(t, ok, "missing delta found")
	_, ok = cache.TryGetConfirmed(context.Background(), hash)
	assert.False(t, ok, "missing delta found on retry")

	assert.Equal(t, 0, cache.Stats().Confirmed, "failure was cached")
}

func TestCorruptContentIsNotFound(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	hash := fixtures.Hash("delta-corrupt")

	store := mocks.NewMockStore(ctl)
	store.EXPECT().ReadByHash(gomock.Any(), hash).Return(ioutil.NopCloser(bytes.NewReader([]byte{0xff, 0xff, 0xff})), nil)

	cache := newCache(t, store, &clock{t: time.Now()})

	_, ok := cache.TryGetConfirmed(context.Background(), hash)
	assert.False(t, ok, "corrupt delta found")
}

func TestChangedTokenEvicts(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	hash := fixtures.Hash("delta-2")
	content := packed(t, sampleDelta())

	store := mocks.NewMockStore(ctl)
	store.EXPECT().ReadByHash(gomock.Any(), hash).DoAndReturn(func(_ context.Context, _ []byte) (io.ReadCloser, error) {
		return ioutil.NopCloser(bytes.NewReader(content)), nil
	}).Times(2)

	c := &clock{t: time.Now()}
	cache := newCache(t, store, c)

	_, ok := cache.TryGetConfirmed(context.Background(), hash)
	assert.True(t, ok, "delta not found")

	c.advance(2 * time.Minute)

	_, ok = cache.TryGetConfirmed(context.Background(), hash)
	assert.True(t, ok, "delta not refetched")

	stats := cache.Stats()
	assert.Equal(t, uint64(1), stats.Evictions, "wrong evictions")
	assert.Equal(t, uint64(2), stats.Misses, "wrong misses")
}

func TestLocalIsNotConfirmed(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	hash := fixtures.Hash("local-candidate")
	candidate := fixtures.Candidate(hash, genesis.Hash(), []byte("self"))
	delta := sampleDelta()

	store := mocks.NewMockStore(ctl)
	store.EXPECT().ReadByHash(gomock.Any(), hash).Return(nil, fault.DeltaNotFound)

	cache := newCache(t, store, &clock{t: time.Now()})
	cache.AddLocal(candidate, delta)

	d, ok := cache.TryGetLocal(candidate)
	assert.True(t, ok, "local delta not found")
	assert.Equal(t, delta, d, "wrong local delta")

	_, ok = cache.TryGetConfirmed(context.Background(), hash)
	assert.False(t, ok, "local delta visible as confirmed")
}

func TestLocalIsBounded(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	cache := newCache(t, mocks.NewMockStore(ctl), &clock{t: time.Now()})

	first := fixtures.Candidate(fixtures.Hash("l1"), genesis.Hash(), []byte("self"))
	cache.AddLocal(first, sampleDelta())
	cache.AddLocal(fixtures.Candidate(fixtures.Hash("l2"), genesis.Hash(), []byte("self")), sampleDelta())
	cache.AddLocal(fixtures.Candidate(fixtures.Hash("l3"), genesis.Hash(), []byte("self")), sampleDelta())

	_, ok := cache.TryGetLocal(first)
	assert.False(t, ok, "oldest local delta kept")
	assert.Equal(t, 2, cache.Stats().Local, "wrong local count")
}

func TestAddLocalIgnoresNil(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	cache := newCache(t, mocks.NewMockStore(ctl), &clock{t: time.Now()})
	cache.AddLocal(nil, sampleDelta())

	_, ok := cache.TryGetLocal(nil)
	assert.False(t, ok, "nil candidate found")
	assert.Equal(t, 0, cache.Stats().Local, "wrong local count")
}

func TestTTLToken(t *testing.T) {
	c := &clock{t: time.Now()}
	token := chaincache.NewTTLTokens(time.Second, c.now).GetChangeToken()

	assert.False(t, token.HasChanged(), "token changed too early")
	c.advance(time.Second)
	assert.True(t, token.HasChanged(), "token did not change")
}
