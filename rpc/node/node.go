// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Peers - the peer to peer side of the node
type Peers interface {
	ID() []byte
	Addrs() []string
	PeerCount() int
}

// Head - current chain head
type Head interface {
	GetLatestHash() []byte
}

// Pending - size of the transaction reservoir
type Pending interface {
	Len() int
}

// Node - type for RPC calls
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	peers   Peers
	head    Head
	pending Pending
	counter *counter.Counter
}

// New - create node RPC handler
func New(log *logger.L, start time.Time, version string, counter *counter.Counter, peers Peers, head Head, pending Pending) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		peers:   peers,
		head:    head,
		pending: pending,
		counter: counter,
	}
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Version   string   `json:"version"`
	Uptime    string   `json:"uptime"`
	PeerID    string   `json:"peerId"`
	Addresses []string `json:"addresses"`
	Peers     int      `json:"peers"`
	Head      string   `json:"head"`
	Pending   int      `json:"pending"`
	RPCs      uint64   `json:"rpcs"`
}

// Info - return some information about this node
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {
	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	reply.PeerID = protocol.PeerString(node.peers.ID())
	reply.Addresses = node.peers.Addrs()
	reply.Peers = node.peers.PeerCount()
	reply.Head = address.String(node.head.GetLatestHash())
	reply.Pending = node.pending.Len()
	reply.RPCs = node.counter.Uint64()

	return nil
}
