// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/rpc/chain"
	"github.com/bitmark-inc/deltad/rpc/delta"
	"github.com/bitmark-inc/deltad/rpc/election"
	"github.com/bitmark-inc/deltad/rpc/node"
	"github.com/bitmark-inc/deltad/rpc/transaction"
)

// Components - everything the handlers read from
type Components struct {
	Heads      chain.Heads
	Confirmed  delta.Confirmed
	Scoreboard election.Scoreboard
	Ballots    election.Ballots
	Pool       transaction.Pool
	Transport  transaction.Transport
	Peers      node.Peers
	Self       []byte
}

// Create - an RPC server with every handler registered
func Create(log *logger.L, version string, rpcCount *counter.Counter, c Components) *rpc.Server {
	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(chain.New(log, c.Heads))
	_ = server.Register(delta.New(log, c.Confirmed))
	_ = server.Register(election.New(log, c.Scoreboard, c.Ballots, c.Heads))
	_ = server.Register(transaction.New(log, c.Pool, c.Transport, c.Self))
	_ = server.Register(node.New(log, start, version, rpcCount, c.Peers, c.Heads, c.Pool))

	return server
}
