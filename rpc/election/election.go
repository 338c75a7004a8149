// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package election

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/elector"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/rpc/ratelimit"
	"github.com/bitmark-inc/deltad/voter"
)

const (
	rateLimitElection = 200
	rateBurstElection = 100
)

// Scoreboard - candidate scores of this node
type Scoreboard interface {
	Scores(previousDeltaHash []byte) []voter.ScoredCandidateDelta
	GetFavourite(previousDeltaHash []byte) (*protocol.FavouriteDeltaBroadcast, bool)
}

// Ballots - votes received from producers
type Ballots interface {
	Tally(previousDeltaHash []byte) []elector.Tally
	GetMostPopular(previousDeltaHash []byte) (*protocol.CandidateDeltaBroadcast, bool)
}

// Head - source of the default round
type Head interface {
	GetLatestHash() []byte
}

// Election - type for RPC calls
type Election struct {
	Log        *logger.L
	Limiter    *rate.Limiter
	scoreboard Scoreboard
	ballots    Ballots
	head       Head
}

// New - create election RPC handler
func New(log *logger.L, scoreboard Scoreboard, ballots Ballots, head Head) *Election {
	return &Election{
		Log:        log,
		Limiter:    rate.NewLimiter(rateLimitElection, rateBurstElection),
		scoreboard: scoreboard,
		ballots:    ballots,
		head:       head,
	}
}

// ---

// Arguments - the round to inspect, named by its previous delta;
// empty means the round following the current chain head
type Arguments struct {
	Previous string `json:"previous"`
}

// Candidate - a candidate in text form
type Candidate struct {
	Hash     string `json:"hash"`
	Producer string `json:"producer"`
	Score    int    `json:"score,omitempty"`
	Votes    int    `json:"votes,omitempty"`
}

// CandidatesReply - ordered candidate list
type CandidatesReply struct {
	Previous   string      `json:"previous"`
	Candidates []Candidate `json:"candidates"`
}

// CandidateReply - a single candidate
type CandidateReply struct {
	Previous  string    `json:"previous"`
	Candidate Candidate `json:"candidate"`
}

// Scores - this node's scoreboard from favourite down
func (e *Election) Scores(arguments *Arguments, reply *CandidatesReply) error {
	previous, err := e.previous(arguments)
	if nil != err {
		return err
	}

	scores := e.scoreboard.Scores(previous)
	reply.Previous = address.String(previous)
	reply.Candidates = make([]Candidate, 0, len(scores))
	for _, s := range scores {
		c := toCandidate(s.Candidate)
		c.Score = s.Score
		reply.Candidates = append(reply.Candidates, c)
	}
	return nil
}

// Tally - votes received per candidate from most to least
func (e *Election) Tally(arguments *Arguments, reply *CandidatesReply) error {
	previous, err := e.previous(arguments)
	if nil != err {
		return err
	}

	tally := e.ballots.Tally(previous)
	reply.Previous = address.String(previous)
	reply.Candidates = make([]Candidate, 0, len(tally))
	for _, t := range tally {
		c := toCandidate(t.Candidate)
		c.Votes = t.Votes
		reply.Candidates = append(reply.Candidates, c)
	}
	return nil
}

// Favourite - candidate this node votes for
func (e *Election) Favourite(arguments *Arguments, reply *CandidateReply) error {
	previous, err := e.previous(arguments)
	if nil != err {
		return err
	}

	favourite, ok := e.scoreboard.GetFavourite(previous)
	if !ok {
		return fault.NoFavourite
	}
	reply.Previous = address.String(previous)
	reply.Candidate = toCandidate(favourite.Candidate)
	return nil
}

// MostPopular - candidate elected by the producers
func (e *Election) MostPopular(arguments *Arguments, reply *CandidateReply) error {
	previous, err := e.previous(arguments)
	if nil != err {
		return err
	}

	winner, ok := e.ballots.GetMostPopular(previous)
	if !ok {
		return fault.NoMostPopular
	}
	reply.Previous = address.String(previous)
	reply.Candidate = toCandidate(winner)
	return nil
}

// rate limit and resolve the round
func (e *Election) previous(arguments *Arguments) ([]byte, error) {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return nil, err
	}

	if nil == arguments || "" == arguments.Previous {
		return e.head.GetLatestHash(), nil
	}
	previous, err := address.Parse(arguments.Previous)
	if nil != err {
		return nil, fault.InvalidHash
	}
	return previous, nil
}

func toCandidate(c *protocol.CandidateDeltaBroadcast) Candidate {
	if nil == c {
		return Candidate{}
	}
	return Candidate{
		Hash:     address.String(c.Hash),
		Producer: protocol.PeerString(c.ProducerId),
	}
}
