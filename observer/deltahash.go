// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package observer

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/protocol"
)

type deltaHash struct {
	receiver DeltaHashReceiver
	log      *logger.L
	counts   *Counts
}

func (d deltaHash) Update(command string, from []byte, item interface{}) {
	if protocol.CommandDeltaDfsHash != command {
		return
	}
	d.counts.Received.Increment()

	msg, ok := item.(*protocol.DeltaDfsHashBroadcast)
	if !ok || !msg.IsValid() {
		d.counts.Rejected.Increment()
		d.log.Warnf("delta hash from: %s  invalid item: %T", protocol.PeerString(from), item)
		return
	}

	if err := d.receiver.OnDeltaDfsHash(msg); nil != err {
		d.counts.Rejected.Increment()
		d.log.Warnf("delta: %s  from: %s  rejected: %s", address.String(msg.DeltaDfsHash), protocol.PeerString(from), err)
	}
}

// NewDeltaHash - pass published delta addresses to the chain follower
func NewDeltaHash(receiver DeltaHashReceiver, counts *Counts, log *logger.L) Observer {
	return &deltaHash{receiver: receiver, counts: counts, log: log}
}
