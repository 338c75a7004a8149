// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/protocol"
)

// internal constants
const (
	DefaultMaximum  = 10000
	pendingExpiry   = 72 * time.Hour
	cleanupInterval = time.Hour
)

// Reservoir - pending transactions keyed by signature
type Reservoir struct {
	log     *logger.L
	pending *cache.Cache
	maximum int
}

// New - create an empty reservoir holding at most maximum transactions
func New(log *logger.L, maximum int) *Reservoir {
	if maximum <= 0 {
		maximum = DefaultMaximum
	}
	r := &Reservoir{
		log:     log,
		pending: cache.New(pendingExpiry, cleanupInterval),
		maximum: maximum,
	}
	r.pending.OnEvicted(func(key string, _ interface{}) {
		r.log.Debugf("transaction expired: %x", key)
	})
	return r
}

// Store - add a transaction; a repeated signature gives AlreadyExists
func (r *Reservoir) Store(tx *protocol.Transaction) error {
	if !tx.IsValid() {
		return fault.InvalidTransaction
	}
	if r.pending.ItemCount() >= r.maximum {
		return fault.ReservoirFull
	}

	key := string(tx.Signature)
	if err := r.pending.Add(key, tx, cache.DefaultExpiration); nil != err {
		return fault.AlreadyExists
	}
	r.log.Debugf("stored transaction: %x  fee: %d", tx.Signature, tx.Fee)
	return nil
}

// GetAll - every pending transaction, unordered
func (r *Reservoir) GetAll() []*protocol.Transaction {
	items := r.pending.Items()
	txs := make([]*protocol.Transaction, 0, len(items))
	for _, item := range items {
		txs = append(txs, item.Object.(*protocol.Transaction))
	}
	return txs
}

// Contains - check for a pending transaction
func (r *Reservoir) Contains(signature []byte) bool {
	_, found := r.pending.Get(string(signature))
	return found
}

// Len - number of pending transactions
func (r *Reservoir) Len() int {
	return r.pending.ItemCount()
}

// DeleteIncluded - drop the transactions carried by a confirmed delta
func (r *Reservoir) DeleteIncluded(delta *protocol.Delta) int {
	if nil == delta {
		return 0
	}

	n := 0
	for _, tx := range delta.PublicEntries {
		if nil == tx {
			continue
		}
		key := string(tx.Signature)
		if _, found := r.pending.Get(key); found {
			r.pending.Delete(key)
			n += 1
		}
	}
	if n > 0 {
		r.log.Infof("removed: %d confirmed transactions", n)
	}
	return n
}
