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

type favourite struct {
	receiver FavouriteReceiver
	log      *logger.L
	counts   *Counts
}

func (f favourite) Update(command string, from []byte, item interface{}) {
	if protocol.CommandFavourite != command {
		return
	}
	f.counts.Received.Increment()

	msg, ok := item.(*protocol.FavouriteDeltaBroadcast)
	if !ok {
		f.counts.Rejected.Increment()
		f.log.Warnf("favourite from: %s  unexpected item: %T", protocol.PeerString(from), item)
		return
	}

	if err := f.receiver.OnFavourite(msg); nil != err {
		f.counts.Rejected.Increment()
		f.log.Warnf("favourite from: %s  rejected: %s", protocol.PeerString(from), err)
		return
	}
	f.log.Debugf("favourite: %s  voter: %s", address.String(msg.Candidate.Hash), protocol.PeerString(msg.VoterId))
}

// NewFavourite - pass votes to the elector
func NewFavourite(receiver FavouriteReceiver, counts *Counts, log *logger.L) Observer {
	return &favourite{receiver: receiver, counts: counts, log: log}
}
