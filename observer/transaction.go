// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package observer

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/protocol"
)

type transaction struct {
	receiver TransactionReceiver
	log      *logger.L
	counts   *Counts
}

func (t transaction) Update(command string, from []byte, item interface{}) {
	if protocol.CommandTransaction != command {
		return
	}
	t.counts.Received.Increment()

	msg, ok := item.(*protocol.Transaction)
	if !ok {
		t.counts.Rejected.Increment()
		t.log.Warnf("transaction from: %s  unexpected item: %T", protocol.PeerString(from), item)
		return
	}

	err := t.receiver.Store(msg)
	if fault.IsErrExists(err) {
		return
	}
	if nil != err {
		t.counts.Rejected.Increment()
		t.log.Warnf("transaction from: %s  rejected: %s", protocol.PeerString(from), err)
	}
}

// NewTransaction - pass gossiped transactions to the mempool
func NewTransaction(receiver TransactionReceiver, counts *Counts, log *logger.L) Observer {
	return &transaction{receiver: receiver, counts: counts, log: log}
}
