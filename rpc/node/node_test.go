// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/chainhead"
	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/fixtures"
	"github.com/bitmark-inc/deltad/genesis"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/reservoir"
	"github.com/bitmark-inc/deltad/rpc/node"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

type peers struct{}

func (peers) ID() []byte      { return []byte("self") }
func (peers) Addrs() []string { return []string{"/ip4/127.0.0.1/tcp/2136"} }
func (peers) PeerCount() int  { return 4 }

func TestNodeInfo(t *testing.T) {
	log := logger.New(fixtures.LogCategory)
	pool := reservoir.New(log, 10)
	_ = pool.Store(fixtures.Transaction("sig", 10, 1, 0))

	ctr := counter.Counter(3)
	n := node.New(
		log,
		time.Now().Add(-time.Minute),
		"1.0",
		&ctr,
		peers{},
		chainhead.New(log, 0, time.Now),
		pool,
	)

	var reply node.InfoReply
	err := n.Info(&node.InfoArguments{}, &reply)
	assert.Nil(t, err, "wrong Info")
	assert.Equal(t, "1.0", reply.Version, "wrong version")
	assert.Equal(t, protocol.PeerString([]byte("self")), reply.PeerID, "wrong peer id")
	assert.Equal(t, 4, reply.Peers, "wrong peer count")
	assert.Equal(t, []string{"/ip4/127.0.0.1/tcp/2136"}, reply.Addresses, "wrong addresses")
	assert.Equal(t, address.String(genesis.Hash()), reply.Head, "wrong head")
	assert.Equal(t, 1, reply.Pending, "wrong pending")
	assert.Equal(t, uint64(3), reply.RPCs, "wrong rpc count")
	assert.NotEqual(t, "", reply.Uptime, "missing uptime")
}
