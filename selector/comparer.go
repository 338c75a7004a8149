// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selector

import (
	"bytes"

	"github.com/bitmark-inc/deltad/protocol"
)

// transaction with its digest computed once for sorting
type prioritised struct {
	tx   *protocol.Transaction
	hash []byte
}

type byPriority []prioritised

func (p byPriority) Len() int      { return len(p) }
func (p byPriority) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p byPriority) Less(i, j int) bool {
	return compare(p[i].tx, p[i].hash, p[j].tx, p[j].hash) < 0
}

// Compare - total order used to select transactions: highest fee
// first, then oldest, then smallest transaction hash
func Compare(a *protocol.Transaction, b *protocol.Transaction) int {
	return compare(a, a.Hash(), b, b.Hash())
}

func compare(a *protocol.Transaction, aHash []byte, b *protocol.Transaction, bHash []byte) int {
	switch {
	case a.Fee > b.Fee:
		return -1
	case a.Fee < b.Fee:
		return 1
	case a.Timestamp < b.Timestamp:
		return -1
	case a.Timestamp > b.Timestamp:
		return 1
	}
	return bytes.Compare(aHash, bHash)
}
