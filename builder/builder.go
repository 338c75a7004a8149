// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package builder - deterministic construction of candidate deltas
package builder

import (
	"bytes"
	"sort"
	"time"

	proto "github.com/gogo/protobuf/proto"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/selector"
)

// limits on the content of a delta
const (
	SelectionVersion            = uint32(1)
	DeltaGasLimit               = uint64(8000000)
	MinTransactionEntryGasLimit = uint64(21000)
)

// LocalCache - holds deltas built here until they are confirmed
type LocalCache interface {
	AddLocal(candidate *protocol.CandidateDeltaBroadcast, delta *protocol.Delta)
}

// Builder - produces this node's candidate for a round
type Builder struct {
	log        *logger.L
	selector   *selector.Selector
	cache      LocalCache
	producerID []byte
	now        func() time.Time
}

// entry together with its salted digest
type saltedEntry struct {
	packed []byte
	salted []byte
}

// New - create a builder; now may be nil to use the system clock
func New(log *logger.L, sel *selector.Selector, cache LocalCache, producerID []byte, now func() time.Time) *Builder {
	if nil == now {
		now = time.Now
	}
	return &Builder{
		log:        log,
		selector:   sel,
		cache:      cache,
		producerID: producerID,
		now:        now,
	}
}

// BuildCandidateDelta - assemble the candidate following a previous
// delta and keep its full delta in the local cache
func (b *Builder) BuildCandidateDelta(previousDeltaHash []byte) (*protocol.CandidateDeltaBroadcast, error) {
	if 0 == len(previousDeltaHash) {
		return nil, fault.ArgumentNull
	}
	previous := make([]byte, len(previousDeltaHash))
	copy(previous, previousDeltaHash)

	now := b.now()
	included := b.includedTransactions(b.selector.SelectAll(), now)

	coinbase := &protocol.CoinbaseEntry{
		Version:           SelectionVersion,
		Amount:            totalFees(included),
		ReceiverPublicKey: b.producerID,
	}

	entries, err := shuffledEntries(included, Salt(previous))
	if nil != err {
		return nil, err
	}

	packedCoinbase, err := proto.Marshal(coinbase)
	if nil != err {
		return nil, err
	}

	content := bytes.Buffer{}
	for _, e := range entries {
		content.Write(e.packed)
	}
	for _, s := range sortedSignatures(included) {
		content.Write(s)
	}
	content.Write(packedCoinbase)

	hash, err := address.Compute(content.Bytes())
	if nil != err {
		return nil, err
	}

	candidate := &protocol.CandidateDeltaBroadcast{
		Hash:                 hash,
		PreviousDeltaDfsHash: previous,
		ProducerId:           b.producerID,
	}

	delta := &protocol.Delta{
		PreviousDeltaDfsHash: previous,
		MerkleRoot:           hash,
		TimeStamp:            now.UnixNano(),
		CoinbaseEntries:      []*protocol.CoinbaseEntry{coinbase},
		PublicEntries:        included,
	}

	b.cache.AddLocal(candidate, delta)

	b.log.Infof("built candidate: %s  previous: %s  transactions: %d  fees: %d",
		address.String(hash), address.String(previous), len(included), coinbase.Amount)

	return candidate, nil
}

// drop locked transactions then fill the gas budget in priority order
func (b *Builder) includedTransactions(txs []*protocol.Transaction, now time.Time) []*protocol.Transaction {
	included := make([]*protocol.Transaction, 0, len(txs))
	total := uint64(0)

	for i, tx := range txs {
		if tx.IsLockedAt(now) {
			b.log.Debugf("transaction: %x locked until: %d", tx.Signature, tx.LockTime)
			continue
		}

		remaining := DeltaGasLimit - total
		if remaining < MinTransactionEntryGasLimit {
			b.log.Debugf("gas limit reached, %d transactions left out", len(txs)-i)
			break
		}

		gas := tx.GasLimit
		if gas < MinTransactionEntryGasLimit {
			b.log.Debugf("transaction: %x gas: %d below minimum: %d", tx.Signature, gas, MinTransactionEntryGasLimit)
			continue
		}
		if gas > remaining {
			b.log.Debugf("transaction: %x gas: %d exceeds remaining: %d", tx.Signature, gas, remaining)
			continue
		}

		total += gas
		included = append(included, tx)
	}
	return included
}

func totalFees(txs []*protocol.Transaction) uint64 {
	total := uint64(0)
	for _, tx := range txs {
		total += tx.Fee
	}
	return total
}

// order all entries by the digest of their bytes followed by the salt
func shuffledEntries(txs []*protocol.Transaction, salt []byte) ([]saltedEntry, error) {
	entries := make([]saltedEntry, 0, len(txs))
	for _, tx := range txs {
		for _, entry := range tx.Entries {
			packed, err := proto.Marshal(entry)
			if nil != err {
				return nil, err
			}
			digest := sha3.Sum256(append(append([]byte{}, packed...), salt...))
			entries = append(entries, saltedEntry{
				packed: packed,
				salted: digest[:],
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if c := bytes.Compare(entries[i].salted, entries[j].salted); 0 != c {
			return c < 0
		}
		return bytes.Compare(entries[i].packed, entries[j].packed) < 0
	})
	return entries, nil
}

func sortedSignatures(txs []*protocol.Transaction) [][]byte {
	signatures := make([][]byte, len(txs))
	for i, tx := range txs {
		signatures[i] = tx.Signature
	}
	sort.Slice(signatures, func(i, j int) bool {
		return bytes.Compare(signatures[i], signatures[j]) < 0
	})
	return signatures
}
