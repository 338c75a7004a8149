// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cycle - the consensus clock
//
// time is cut into fixed length cycles aligned to multiples of the
// cycle duration since the unix epoch; each cycle runs four phases at
// fixed offsets and each phase is first Producing then Collecting
package cycle

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/deltad/fault"
)

// Name - the four phases of a cycle in running order
type Name int

// phases
const (
	Construction Name = iota
	Campaigning
	Voting
	Synchronisation
)

var phaseNames = []Name{Construction, Campaigning, Voting, Synchronisation}

func (n Name) String() string {
	switch n {
	case Construction:
		return "construction"
	case Campaigning:
		return "campaigning"
	case Voting:
		return "voting"
	case Synchronisation:
		return "synchronisation"
	default:
		return fmt.Sprintf("phase(%d)", int(n))
	}
}

// Status - step within a phase
type Status int

// statuses
const (
	Idle Status = iota
	Producing
	Collecting
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Producing:
		return "producing"
	case Collecting:
		return "collecting"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Timing - offset from the cycle start and the length of each step
type Timing struct {
	Offset         time.Duration
	ProductionTime time.Duration
	CollectionTime time.Duration
}

// total time used by the phase
func (t Timing) total() time.Duration {
	return t.ProductionTime + t.CollectionTime
}

// Configuration - cycle length and phase timings
type Configuration struct {
	CycleDuration time.Duration
	Timings       map[Name]Timing
}

// DefaultConfiguration - twenty second cycles, a phase every four
// seconds
func DefaultConfiguration() Configuration {
	timing := func(offset int) Timing {
		return Timing{
			Offset:         time.Duration(offset) * time.Second,
			ProductionTime: 2 * time.Second,
			CollectionTime: 2 * time.Second,
		}
	}
	return Configuration{
		CycleDuration: 20 * time.Second,
		Timings: map[Name]Timing{
			Construction:    timing(0),
			Campaigning:     timing(4),
			Voting:          timing(8),
			Synchronisation: timing(12),
		},
	}
}

// Validate - phases must all be present, run in order without overlap
// and finish inside the cycle
func (c Configuration) Validate() error {
	if c.CycleDuration <= 0 {
		return fault.InvalidPhaseTimings
	}

	end := time.Duration(0)
	for _, name := range phaseNames {
		t, ok := c.Timings[name]
		if !ok {
			return fault.InvalidPhaseTimings
		}
		if t.Offset < end || t.ProductionTime <= 0 || t.CollectionTime < 0 {
			return fault.InvalidPhaseTimings
		}
		end = t.Offset + t.total()
	}
	if end > c.CycleDuration {
		return fault.InvalidPhaseTimings
	}
	return nil
}

// CycleStart - the start of the cycle containing t
func (c Configuration) CycleStart(t time.Time) time.Time {
	n := t.UnixNano()
	d := int64(c.CycleDuration)
	offset := n % d
	if offset < 0 {
		offset += d
	}
	return time.Unix(0, n-offset).UTC()
}

// TimeUntilNextCycle - zero when t is exactly on a cycle boundary
func (c Configuration) TimeUntilNextCycle(t time.Time) time.Duration {
	start := c.CycleStart(t)
	if start.Equal(t) {
		return 0
	}
	return start.Add(c.CycleDuration).Sub(t)
}

// Phase - a phase step at a point in time
type Phase struct {
	Name       Name
	Status     Status
	CycleStart time.Time
	At         time.Time
}

func (p Phase) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.Status)
}

// PhaseAt - the phase step running at t; gaps between phases are
// reported as Idle under the preceding phase
func (c Configuration) PhaseAt(t time.Time) Phase {
	start := c.CycleStart(t)
	offset := t.Sub(start)

	current := Phase{
		Name:       Synchronisation,
		Status:     Idle,
		CycleStart: start,
		At:         t,
	}
	for _, name := range phaseNames {
		timing := c.Timings[name]
		switch {
		case offset < timing.Offset:
			return current
		case offset < timing.Offset+timing.ProductionTime:
			current.Name = name
			current.Status = Producing
			return current
		case offset < timing.Offset+timing.total():
			current.Name = name
			current.Status = Collecting
			return current
		default:
			current.Name = name
			current.Status = Idle
		}
	}
	return current
}

// Schedule - the Producing and Collecting steps of the cycle starting
// at cycleStart in time order
func (c Configuration) Schedule(cycleStart time.Time) []Phase {
	steps := make([]Phase, 0, 2*len(phaseNames))
	for _, name := range phaseNames {
		timing := c.Timings[name]
		steps = append(steps, Phase{
			Name:       name,
			Status:     Producing,
			CycleStart: cycleStart,
			At:         cycleStart.Add(timing.Offset),
		})
		steps = append(steps, Phase{
			Name:       name,
			Status:     Collecting,
			CycleStart: cycleStart,
			At:         cycleStart.Add(timing.Offset + timing.ProductionTime),
		})
	}
	return steps
}

// Next - the first step starting at or after t
func (c Configuration) Next(t time.Time) Phase {
	start := c.CycleStart(t)
	for _, p := range c.Schedule(start) {
		if !p.At.Before(t) {
			return p
		}
	}
	return c.Schedule(start.Add(c.CycleDuration))[0]
}
