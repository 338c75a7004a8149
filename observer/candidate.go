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

type candidate struct {
	receiver CandidateReceiver
	log      *logger.L
	counts   *Counts
}

func (c candidate) Update(command string, from []byte, item interface{}) {
	if protocol.CommandCandidate != command {
		return
	}
	c.counts.Received.Increment()

	msg, ok := item.(*protocol.CandidateDeltaBroadcast)
	if !ok {
		c.counts.Rejected.Increment()
		c.log.Warnf("candidate from: %s  unexpected item: %T", protocol.PeerString(from), item)
		return
	}

	if err := c.receiver.OnCandidate(msg); nil != err {
		c.counts.Rejected.Increment()
		c.log.Warnf("candidate: %s  from: %s  rejected: %s", address.String(msg.Hash), protocol.PeerString(from), err)
		return
	}
	c.log.Debugf("candidate: %s  producer: %s", address.String(msg.Hash), protocol.PeerString(msg.ProducerId))
}

// NewCandidate - pass candidates to the voter
func NewCandidate(receiver CandidateReceiver, counts *Counts, log *logger.L) Observer {
	return &candidate{receiver: receiver, counts: counts, log: log}
}

