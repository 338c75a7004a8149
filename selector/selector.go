// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package selector - choose pending transactions for the next
// candidate delta
package selector

import (
	"sort"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/protocol"
)

// Mempool - source of pending transactions
type Mempool interface {
	GetAll() []*protocol.Transaction
	Contains(signature []byte) bool
}

// Selector - orders the mempool content by priority
type Selector struct {
	log  *logger.L
	pool Mempool
}

// New - create a selector reading from a mempool
func New(log *logger.L, pool Mempool) *Selector {
	return &Selector{
		log:  log,
		pool: pool,
	}
}

// SelectAll - every pending transaction in priority order
func (s *Selector) SelectAll() []*protocol.Transaction {
	return s.sorted()
}

// SelectByPriority - at most maxCount pending transactions in
// priority order
func (s *Selector) SelectByPriority(maxCount int) ([]*protocol.Transaction, error) {
	if maxCount <= 0 {
		return nil, fault.InvalidCount
	}

	txs := s.sorted()
	if len(txs) > maxCount {
		txs = txs[:maxCount]
	}
	return txs, nil
}

func (s *Selector) sorted() []*protocol.Transaction {
	all := s.pool.GetAll()

	p := make(byPriority, 0, len(all))
	for _, tx := range all {
		if nil == tx {
			continue
		}
		p = append(p, prioritised{tx: tx, hash: tx.Hash()})
	}
	sort.Sort(p)

	txs := make([]*protocol.Transaction, len(p))
	for i, item := range p {
		txs[i] = item.tx
	}

	s.log.Debugf("selected %d of %d pending transactions", len(txs), len(all))
	return txs
}
