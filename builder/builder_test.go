// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder_test

import (
	"bytes"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/builder"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/fixtures"
	"github.com/bitmark-inc/deltad/mocks"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/selector"
)

var (
	producer = []byte("producer-self")
	now      = time.Unix(1600000000, 0)
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func clock() time.Time { return now }

func newBuilder(ctl *gomock.Controller, pool []*protocol.Transaction, times int) (*builder.Builder, *mocks.MockLocalCache) {
	mp := mocks.NewMockMempool(ctl)
	mp.EXPECT().GetAll().Return(pool).Times(times)

	cache := mocks.NewMockLocalCache(ctl)
	log := logger.New(fixtures.LogCategory)
	return builder.New(log, selector.New(log, mp), cache, producer, clock), cache
}

func multiEntry(signature string, fee uint64, entries int) *protocol.Transaction {
	tx := fixtures.Transaction(signature, fee, 100, 0)
	for i := 1; i < entries; i += 1 {
		tx.Entries = append(tx.Entries, &protocol.StEntry{
			SenderAddress: []byte{byte(i)},
			Amount:        uint64(i),
		})
	}
	return tx
}

func TestBuildIsDeterministic(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	pool := []*protocol.Transaction{
		multiEntry("a", 3, 4),
		multiEntry("b", 2, 3),
		multiEntry("c", 1, 5),
	}
	b, cache := newBuilder(ctl, pool, 2)
	cache.EXPECT().AddLocal(gomock.Any(), gomock.Any()).Times(2)

	previous := fixtures.Hash("previous")
	c1, err := b.BuildCandidateDelta(previous)
	assert.Nil(t, err, "wrong error")
	c2, err := b.BuildCandidateDelta(previous)
	assert.Nil(t, err, "wrong error")

	assert.Equal(t, c1.Hash, c2.Hash, "same input produced different hashes")
	assert.Equal(t, previous, c1.PreviousDeltaDfsHash, "wrong previous hash")
	assert.Equal(t, producer, c1.ProducerId, "wrong producer")
	assert.Nil(t, address.Validate(c1.Hash), "candidate hash is not an address")
}

func TestBuildStoresLocalDelta(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	pool := []*protocol.Transaction{
		fixtures.Transaction("a", 7, 100, 0),
		fixtures.Transaction("b", 5, 100, 0),
	}
	b, cache := newBuilder(ctl, pool, 1)

	var stored *protocol.Delta
	var storedCandidate *protocol.CandidateDeltaBroadcast
	cache.EXPECT().AddLocal(gomock.Any(), gomock.Any()).Do(
		func(c *protocol.CandidateDeltaBroadcast, d *protocol.Delta) {
			storedCandidate = c
			stored = d
		},
	).Times(1)

	previous := fixtures.Hash("previous")
	c, err := b.BuildCandidateDelta(previous)
	assert.Nil(t, err, "wrong error")

	assert.Equal(t, c, storedCandidate, "wrong stored candidate")
	assert.Equal(t, previous, stored.PreviousDeltaDfsHash, "wrong delta previous hash")
	assert.Equal(t, c.Hash, stored.MerkleRoot, "wrong merkle root")
	assert.Equal(t, now.UnixNano(), stored.TimeStamp, "wrong time stamp")
	assert.Equal(t, 2, len(stored.PublicEntries), "wrong transaction count")
	assert.Equal(t, 1, len(stored.CoinbaseEntries), "wrong coinbase count")
	assert.Equal(t, uint64(12), stored.CoinbaseEntries[0].Amount, "wrong coinbase amount")
	assert.Equal(t, builder.SelectionVersion, stored.CoinbaseEntries[0].Version, "wrong coinbase version")
	assert.Equal(t, producer, stored.CoinbaseEntries[0].ReceiverPublicKey, "wrong coinbase receiver")
}

func TestBuildExcludesLockedTransactions(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	pool := []*protocol.Transaction{
		fixtures.Transaction("locked", 100, 100, now.Unix()+60),
		fixtures.Transaction("open", 5, 100, now.Unix()),
	}
	b, cache := newBuilder(ctl, pool, 1)

	var stored *protocol.Delta
	cache.EXPECT().AddLocal(gomock.Any(), gomock.Any()).Do(
		func(_ *protocol.CandidateDeltaBroadcast, d *protocol.Delta) {
			stored = d
		},
	).Times(1)

	_, err := b.BuildCandidateDelta(fixtures.Hash("previous"))
	assert.Nil(t, err, "wrong error")

	assert.Equal(t, 1, len(stored.PublicEntries), "wrong transaction count")
	assert.Equal(t, []byte("open"), stored.PublicEntries[0].Signature, "wrong transaction included")
	assert.Equal(t, uint64(5), stored.CoinbaseEntries[0].Amount, "locked fee was counted")
}

func TestBuildLockedTransactionChangesNothing(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	open := fixtures.Transaction("open", 5, 100, 0)
	locked := fixtures.Transaction("locked", 100, 100, now.Unix()+60)

	withLocked, cache1 := newBuilder(ctl, []*protocol.Transaction{locked, open}, 1)
	cache1.EXPECT().AddLocal(gomock.Any(), gomock.Any()).Times(1)
	without, cache2 := newBuilder(ctl, []*protocol.Transaction{open}, 1)
	cache2.EXPECT().AddLocal(gomock.Any(), gomock.Any()).Times(1)

	previous := fixtures.Hash("previous")
	c1, _ := withLocked.BuildCandidateDelta(previous)
	c2, _ := without.BuildCandidateDelta(previous)
	assert.Equal(t, c2.Hash, c1.Hash, "locked transaction affected the candidate")
}

func TestBuildEmptyPool(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	b, cache := newBuilder(ctl, nil, 1)

	var stored *protocol.Delta
	cache.EXPECT().AddLocal(gomock.Any(), gomock.Any()).Do(
		func(_ *protocol.CandidateDeltaBroadcast, d *protocol.Delta) {
			stored = d
		},
	).Times(1)

	c, err := b.BuildCandidateDelta(fixtures.Hash("previous"))
	assert.Nil(t, err, "wrong error")
	assert.True(t, c.IsValid(), "candidate is not valid")
	assert.Equal(t, 0, len(stored.PublicEntries), "wrong transaction count")
	assert.Equal(t, uint64(0), stored.CoinbaseEntries[0].Amount, "wrong coinbase amount")
}

func TestBuildWithoutPreviousHash(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	b, cache := newBuilder(ctl, nil, 0)
	cache.EXPECT().AddLocal(gomock.Any(), gomock.Any()).Times(0)

	_, err := b.BuildCandidateDelta(nil)
	assert.Equal(t, fault.ArgumentNull, err, "wrong error")
}

func TestBuildRespectsGasLimit(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	huge := fixtures.Transaction("huge", 50, 100, 0)
	huge.GasLimit = builder.DeltaGasLimit + 1
	big := fixtures.Transaction("big", 40, 100, 0)
	big.GasLimit = builder.DeltaGasLimit - 10000
	small := fixtures.Transaction("small", 30, 100, 0)
	cheap := fixtures.Transaction("cheap", 60, 100, 0)
	cheap.GasLimit = builder.MinTransactionEntryGasLimit - 1

	b, cache := newBuilder(ctl, []*protocol.Transaction{small, big, huge, cheap}, 1)

	var stored *protocol.Delta
	cache.EXPECT().AddLocal(gomock.Any(), gomock.Any()).Do(
		func(_ *protocol.CandidateDeltaBroadcast, d *protocol.Delta) {
			stored = d
		},
	).Times(1)

	_, err := b.BuildCandidateDelta(fixtures.Hash("previous"))
	assert.Nil(t, err, "wrong error")

	assert.Equal(t, 1, len(stored.PublicEntries), "wrong transaction count")
	assert.Equal(t, []byte("big"), stored.PublicEntries[0].Signature, "wrong transaction included")
	assert.Equal(t, uint64(40), stored.CoinbaseEntries[0].Amount, "wrong coinbase amount")
}

func TestSaltDependsOnPreviousHash(t *testing.T) {
	s1 := builder.Salt(fixtures.Hash("one"))
	s2 := builder.Salt(fixtures.Hash("two"))

	assert.Equal(t, 4, len(s1), "wrong salt length")
	assert.Equal(t, s1, builder.Salt(fixtures.Hash("one")), "salt is not reproducible")
	assert.NotEqual(t, s1, s2, "different previous hashes gave the same salt")
}

// candidate hash computed directly from the pool: entries ordered by
// sha3(entry ++ salt), then sorted signatures, then the coinbase
func expectedHash(t *testing.T, pool []*protocol.Transaction, previous []byte) ([]byte, [][]byte) {
	salt := builder.Salt(previous)

	type salted struct {
		packed []byte
		digest []byte
	}
	entries := []salted{}
	signatures := [][]byte{}
	fees := uint64(0)
	for _, tx := range pool {
		for _, entry := range tx.Entries {
			packed, err := proto.Marshal(entry)
			assert.Nil(t, err, "wrong marshal error")
			digest := sha3.Sum256(append(append([]byte{}, packed...), salt...))
			entries = append(entries, salted{packed: packed, digest: digest[:]})
		}
		signatures = append(signatures, tx.Signature)
		fees += tx.Fee
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].digest, entries[j].digest) < 0
	})
	sort.Slice(signatures, func(i, j int) bool {
		return bytes.Compare(signatures[i], signatures[j]) < 0
	})

	coinbase, err := proto.Marshal(&protocol.CoinbaseEntry{
		Version:           builder.SelectionVersion,
		Amount:            fees,
		ReceiverPublicKey: producer,
	})
	assert.Nil(t, err, "wrong marshal error")

	content := bytes.Buffer{}
	order := make([][]byte, len(entries))
	for i, e := range entries {
		content.Write(e.packed)
		order[i] = e.packed
	}
	for _, s := range signatures {
		content.Write(s)
	}
	content.Write(coinbase)

	hash, err := address.Compute(content.Bytes())
	assert.Nil(t, err, "wrong compute error")
	return hash, order
}

func TestBuildOrdersEntriesBySaltedHash(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	pool := []*protocol.Transaction{
		multiEntry("a", 3, 4),
		multiEntry("b", 2, 4),
		multiEntry("c", 1, 4),
	}
	b, cache := newBuilder(ctl, pool, 2)
	cache.EXPECT().AddLocal(gomock.Any(), gomock.Any()).Times(2)

	one := fixtures.Hash("one")
	two := fixtures.Hash("two")

	c1, err := b.BuildCandidateDelta(one)
	assert.Nil(t, err, "wrong error")
	c2, err := b.BuildCandidateDelta(two)
	assert.Nil(t, err, "wrong error")

	want1, order1 := expectedHash(t, pool, one)
	want2, order2 := expectedHash(t, pool, two)

	assert.Equal(t, want1, c1.Hash, "wrong candidate hash after first previous hash")
	assert.Equal(t, want2, c2.Hash, "wrong candidate hash after second previous hash")
	assert.NotEqual(t, order1, order2, "entry order does not depend on the previous hash")
	assert.NotEqual(t, c1.Hash, c2.Hash, "same candidate after different previous hashes")
}
