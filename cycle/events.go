// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cycle

import (
	"time"

	"github.com/bitmark-inc/logger"
)

// internal constants
const (
	eventBuffer = 16
)

// HashSource - the chain head that each cycle builds on
type HashSource interface {
	GetLatestHashAsOf(time.Time) ([]byte, bool)
}

// Event - a phase step together with the chain head at the start of
// its cycle
type Event struct {
	Phase
	PreviousDeltaHash []byte
}

// Provider - emits a cycle event as each phase step begins
type Provider struct {
	log           *logger.L
	configuration Configuration
	hashes        HashSource
	now           func() time.Time
	events        chan Event
}

// NewProvider - create an event provider; now may be nil to use the
// system clock
func NewProvider(log *logger.L, configuration Configuration, hashes HashSource, now func() time.Time) (*Provider, error) {
	if err := configuration.Validate(); nil != err {
		return nil, err
	}
	if nil == now {
		now = time.Now
	}
	return &Provider{
		log:           log,
		configuration: configuration,
		hashes:        hashes,
		now:           now,
		events:        make(chan Event, eventBuffer),
	}, nil
}

// Events - channel of phase steps
func (p *Provider) Events() <-chan Event {
	return p.events
}

// Configuration - the timings in use
func (p *Provider) Configuration() Configuration {
	return p.configuration
}

// Run - emit events until shutdown
func (p *Provider) Run(args interface{}, shutdown <-chan struct{}) {
	p.log.Infof("starting… next cycle in: %s", p.configuration.TimeUntilNextCycle(p.now()))

	// the first full cycle starts at the next boundary
	next := p.configuration.Schedule(p.configuration.CycleStart(p.now()).Add(p.configuration.CycleDuration))[0]

	for {
		timer := time.NewTimer(next.At.Sub(p.now()))
		select {
		case <-shutdown:
			timer.Stop()
			p.log.Info("stopped")
			return
		case <-timer.C:
		}

		p.emit(next)
		next = p.configuration.Next(next.At.Add(time.Nanosecond))
	}
}

func (p *Provider) emit(phase Phase) {
	previous, ok := p.hashes.GetLatestHashAsOf(phase.CycleStart)
	if !ok {
		p.log.Errorf("no chain head for: %s", phase)
		return
	}

	event := Event{
		Phase:             phase,
		PreviousDeltaHash: previous,
	}
	select {
	case p.events <- event:
		p.log.Debugf("phase: %s  cycle: %s", phase, phase.CycleStart.Format(time.RFC3339))
	default:
		p.log.Warnf("phase: %s  dropped, consumer is behind", phase)
	}
}
