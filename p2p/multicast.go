// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"bytes"
	"context"

	proto "github.com/gogo/protobuf/proto"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/messagebus"
	"github.com/bitmark-inc/deltad/protocol"
)

// Run - multicasting subscription handler
func (n *Node) Run(args interface{}, shutdown <-chan struct{}) {
	log := n.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-shutdown
		cancel()
	}()

	self := n.host.ID()
	for {
		msg, err := n.sub.Next(ctx)
		if nil != err {
			if nil != ctx.Err() {
				break
			}
			log.Errorf("subscription error: %s", err)
			continue
		}
		if self == msg.GetFrom() {
			continue
		}
		if err := n.dispatch([]byte(msg.GetFrom()), msg.Data); nil != err {
			log.Debugf("from: %s  discard: %s", msg.GetFrom(), err)
		}
	}

	log.Info("stopped")
}

// decode one envelope and queue its item for the matching observer
func (n *Node) dispatch(from []byte, data []byte) error {
	n.counts.Received.Increment()

	if n.filter.Seen(digest(data)) {
		n.counts.Duplicates.Increment()
		return fault.AlreadyExists
	}

	req := &protocol.BusMessage{}
	if err := proto.Unmarshal(data, req); nil != err {
		n.counts.Invalid.Increment()
		return fault.InvalidData
	}
	if !bytes.Equal(req.SenderId, from) {
		n.counts.Invalid.Increment()
		return fault.InvalidPeerID
	}

	item, err := req.Unpack()
	if nil != err {
		n.counts.Invalid.Increment()
		return err
	}

	queue := n.queueFor(req.Command)
	if !queue.Send(req.Command, from, item) {
		n.counts.Dropped.Increment()
		n.log.Warnf("queue full, dropped: %s", req.Command)
	}
	return nil
}

func (n *Node) queueFor(command string) *messagebus.Queue {
	switch command {
	case protocol.CommandCandidate:
		return n.bus.Candidates
	case protocol.CommandFavourite:
		return n.bus.Favourites
	case protocol.CommandDeltaDfsHash:
		return n.bus.DeltaHashes
	default:
		return n.bus.Transactions
	}
}

func digest(data []byte) []byte {
	d := sha3.Sum256(data)
	return d[:]
}
