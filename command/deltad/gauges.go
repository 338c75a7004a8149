// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/deltad/chaincache"
	"github.com/bitmark-inc/deltad/chainhead"
	"github.com/bitmark-inc/deltad/consensus"
	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/hub"
	"github.com/bitmark-inc/deltad/messagebus"
	"github.com/bitmark-inc/deltad/metrics"
	"github.com/bitmark-inc/deltad/observer"
	"github.com/bitmark-inc/deltad/p2p"
	"github.com/bitmark-inc/deltad/producers"
	"github.com/bitmark-inc/deltad/publish"
	"github.com/bitmark-inc/deltad/reservoir"
)

// per stream observer counters
type inboundCounts struct {
	candidates   observer.Counts
	favourites   observer.Counts
	deltaHashes  observer.Counts
	transactions observer.Counts
}

// everything that reports a metric; publisher may be nil
type sources struct {
	cache     *chaincache.Cache
	heads     *chainhead.Tracker
	hub       *hub.Hub
	machine   *consensus.Machine
	node      *p2p.Node
	bus       *messagebus.BusType
	pool      *reservoir.Reservoir
	producers *producers.Ranked
	publisher *publish.Publisher
	inbound   *inboundCounts
	rpcCount  *counter.Counter
}

type metric struct {
	gauge     bool
	subsystem string
	name      string
	help      string
	f         metrics.ValueFunc
}

func register(registry *metrics.Registry, s sources) error {
	u := func(f func() uint64) metrics.ValueFunc {
		return func() float64 { return float64(f()) }
	}
	i := func(f func() int) metrics.ValueFunc {
		return func() float64 { return float64(f()) }
	}

	list := []metric{
		{false, "chaincache", "hits", "confirmed deltas served from memory", u(func() uint64 { return s.cache.Stats().Hits })},
		{false, "chaincache", "misses", "confirmed deltas read from storage", u(func() uint64 { return s.cache.Stats().Misses })},
		{false, "chaincache", "evictions", "deltas dropped from memory", u(func() uint64 { return s.cache.Stats().Evictions })},
		{true, "chaincache", "confirmed", "confirmed deltas held", i(func() int { return s.cache.Stats().Confirmed })},
		{true, "chaincache", "local", "local candidates held", i(func() int { return s.cache.Stats().Local })},

		{true, "chain", "heads", "chain heads in the window", i(s.heads.Len)},

		{false, "hub", "broadcasts", "messages broadcast", u(func() uint64 { return s.hub.Stats().Broadcasts })},
		{false, "hub", "publish_attempts", "storage writes attempted", u(func() uint64 { return s.hub.Stats().PublishAttempts })},
		{false, "hub", "publish_failures", "storage writes failed", u(func() uint64 { return s.hub.Stats().PublishFailures })},
		{false, "hub", "published", "deltas published", u(func() uint64 { return s.hub.Stats().Published })},

		{false, "consensus", "built", "candidates built", u(func() uint64 { return s.machine.Stats().Built })},
		{false, "consensus", "published", "winning deltas published", u(func() uint64 { return s.machine.Stats().Published })},
		{false, "consensus", "followed", "heads taken from other nodes", u(func() uint64 { return s.machine.Stats().Followed })},

		{false, "p2p", "received", "gossip messages received", s.node.Counts().Received.Float64},
		{false, "p2p", "duplicates", "gossip replays ignored", s.node.Counts().Duplicates.Float64},
		{false, "p2p", "invalid", "gossip messages rejected", s.node.Counts().Invalid.Float64},
		{false, "p2p", "dropped", "gossip messages lost to full queues", s.node.Counts().Dropped.Float64},
		{false, "p2p", "sent", "gossip messages sent", s.node.Counts().Sent.Float64},
		{true, "p2p", "peers", "connected peers", i(s.node.PeerCount)},

		{true, "bus", "candidates", "queued candidates", i(s.bus.Candidates.Len)},
		{true, "bus", "favourites", "queued favourites", i(s.bus.Favourites.Len)},
		{true, "bus", "delta_hashes", "queued delta hashes", i(s.bus.DeltaHashes.Len)},
		{true, "bus", "transactions", "queued transactions", i(s.bus.Transactions.Len)},
		{false, "bus", "candidates_dropped", "candidates lost to a full queue", u(s.bus.Candidates.Dropped)},
		{false, "bus", "favourites_dropped", "favourites lost to a full queue", u(s.bus.Favourites.Dropped)},
		{false, "bus", "delta_hashes_dropped", "delta hashes lost to a full queue", u(s.bus.DeltaHashes.Dropped)},
		{false, "bus", "transactions_dropped", "transactions lost to a full queue", u(s.bus.Transactions.Dropped)},

		{false, "observer", "candidates_received", "candidates handled", s.inbound.candidates.Received.Float64},
		{false, "observer", "candidates_rejected", "candidates refused", s.inbound.candidates.Rejected.Float64},
		{false, "observer", "favourites_received", "favourites handled", s.inbound.favourites.Received.Float64},
		{false, "observer", "favourites_rejected", "favourites refused", s.inbound.favourites.Rejected.Float64},
		{false, "observer", "delta_hashes_received", "delta hashes handled", s.inbound.deltaHashes.Received.Float64},
		{false, "observer", "delta_hashes_rejected", "delta hashes refused", s.inbound.deltaHashes.Rejected.Float64},
		{false, "observer", "transactions_received", "transactions handled", s.inbound.transactions.Received.Float64},
		{false, "observer", "transactions_rejected", "transactions refused", s.inbound.transactions.Rejected.Float64},

		{true, "reservoir", "pending", "pending transactions", i(s.pool.Len)},
		{true, "producers", "known", "producers in the ranked list", i(s.producers.Len)},
		{true, "rpc", "connections", "open client connections", s.rpcCount.Float64},
	}

	if nil != s.publisher {
		list = append(list,
			metric{false, "publish", "sent", "heads published", u(s.publisher.Sent)},
			metric{false, "publish", "failed", "heads not published", u(s.publisher.Failed)},
		)
	}

	for _, m := range list {
		var err error
		if m.gauge {
			err = registry.Gauge(m.subsystem, m.name, m.help, m.f)
		} else {
			err = registry.Counter(m.subsystem, m.name, m.help, m.f)
		}
		if nil != err {
			return err
		}
	}
	return nil
}
