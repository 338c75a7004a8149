// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/cycle"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/producers"
	"github.com/bitmark-inc/deltad/protocol"
)

// Machine - reacts to cycle events
type Machine struct {
	log           *logger.L
	self          []byte
	configuration cycle.Configuration
	events        <-chan cycle.Event

	producers producers.Provider
	builder   Builder
	voter     Voter
	elector   Elector
	hub       Hub
	cache     Cache
	heads     Heads
	pool      Pool

	built     counter.Counter
	published counter.Counter
	followed  counter.Counter
}

// Components - collaborators of the machine
type Components struct {
	Producers producers.Provider
	Builder   Builder
	Voter     Voter
	Elector   Elector
	Hub       Hub
	Cache     Cache
	Heads     Heads
	Pool      Pool
}

// Stats - machine counters
type Stats struct {
	Built     uint64
	Published uint64
	Followed  uint64
}

// NewMachine - create a machine for the node identified by self
func NewMachine(log *logger.L, self []byte, configuration cycle.Configuration, events <-chan cycle.Event, c Components) *Machine {
	return &Machine{
		log:           log,
		self:          self,
		configuration: configuration,
		events:        events,
		producers:     c.Producers,
		builder:       c.Builder,
		voter:         c.Voter,
		elector:       c.Elector,
		hub:           c.Hub,
		cache:         c.Cache,
		heads:         c.Heads,
		pool:          c.Pool,
	}
}

// Run - handle events until shutdown
func (m *Machine) Run(args interface{}, shutdown <-chan struct{}) {
	log := m.log
	log.Info("starting a consensus state machine…")

loop:
	for {
		log.Debug("waiting…")
		select {
		case <-shutdown:
			break loop
		case event := <-m.events:
			m.transition(event)
		}
	}

	log.Info("stopped")
}

// Stats - current counters
func (m *Machine) Stats() Stats {
	return Stats{
		Built:     m.built.Uint64(),
		Published: m.published.Uint64(),
		Followed:  m.followed.Uint64(),
	}
}

func (m *Machine) transition(event cycle.Event) {
	log := m.log

	if cycle.Producing != event.Status {
		log.Debugf("phase: %s", event.Phase)
		return
	}

	previous := event.PreviousDeltaHash
	switch event.Name {
	case cycle.Construction:
		m.construct(previous)

	case cycle.Campaigning:
		m.campaign(previous)

	case cycle.Voting:
		deadline := event.CycleStart.Add(m.configuration.CycleDuration)
		m.vote(previous, deadline)

	case cycle.Synchronisation:
		tip := m.heads.GetLatestHash()
		if bytes.Equal(tip, previous) {
			log.Warnf("no delta published after: %s", address.String(previous))
		} else {
			log.Infof("chain head: %s", address.String(tip))
		}
	}
}

// build and announce this node's candidate
func (m *Machine) construct(previous []byte) {
	if producers.IndexOf(m.producers.GetProducers(previous), m.self) < 0 {
		m.log.Debugf("not a producer after: %s", address.String(previous))
		return
	}

	candidate, err := m.builder.BuildCandidateDelta(previous)
	if nil != err {
		m.log.Errorf("build candidate error: %s", err)
		return
	}
	m.built.Increment()

	if err := m.voter.OnCandidate(candidate); nil != err {
		m.log.Errorf("own candidate: %s  rejected: %s", address.String(candidate.Hash), err)
		return
	}
	if err := m.hub.BroadcastCandidate(candidate); nil != err {
		m.log.Warnf("broadcast candidate error: %s", err)
	}
}

// announce this node's favourite
func (m *Machine) campaign(previous []byte) {
	favourite, ok := m.voter.GetFavourite(previous)
	if !ok {
		m.log.Infof("no favourite after: %s", address.String(previous))
		return
	}

	if err := m.elector.OnFavourite(favourite); nil != err {
		m.log.Errorf("own favourite rejected: %s", err)
		return
	}
	if err := m.hub.BroadcastFavourite(favourite); nil != err {
		m.log.Warnf("broadcast favourite error: %s", err)
	}
}

// publish the elected delta if it was built here
func (m *Machine) vote(previous []byte, deadline time.Time) {
	winner, ok := m.elector.GetMostPopular(previous)
	if !ok {
		m.log.Infof("no elected candidate after: %s", address.String(previous))
		return
	}

	delta, ok := m.cache.TryGetLocal(winner)
	if !ok {
		m.log.Infof("elected: %s  producer: %s  waiting for publication", address.String(winner.Hash), protocol.PeerString(winner.ProducerId))
		return
	}

	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	hash, err := m.hub.PublishDeltaAndBroadcastAddress(ctx, delta)
	if nil != err {
		m.log.Errorf("publish elected: %s  error: %s", address.String(winner.Hash), err)
		return
	}
	m.published.Increment()

	m.advance(previous, hash, delta)
}

// OnDeltaDfsHash - follow a delta published by another node
func (m *Machine) OnDeltaDfsHash(announcement *protocol.DeltaDfsHashBroadcast) error {
	if !announcement.IsValid() {
		return fault.InvalidData
	}
	if bytes.Equal(m.heads.GetLatestHash(), announcement.DeltaDfsHash) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	delta, ok := m.cache.TryGetConfirmed(ctx, announcement.DeltaDfsHash)
	if !ok {
		return fault.DeltaNotFound
	}
	if !bytes.Equal(delta.PreviousDeltaDfsHash, announcement.PreviousDeltaDfsHash) {
		return fault.InvalidData
	}

	if !m.advance(announcement.PreviousDeltaDfsHash, announcement.DeltaDfsHash, delta) {
		return fault.NotTip
	}
	m.followed.Increment()
	return nil
}

func (m *Machine) advance(previous []byte, hash []byte, delta *protocol.Delta) bool {
	if !m.heads.TryUpdateLatest(previous, hash) {
		m.log.Warnf("delta: %s  does not follow tip", address.String(hash))
		return false
	}
	if nil != m.pool {
		m.pool.DeleteIncluded(delta)
	}
	return true
}
