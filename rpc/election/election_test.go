// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package election_test

import (
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/chainhead"
	"github.com/bitmark-inc/deltad/elector"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/fixtures"
	"github.com/bitmark-inc/deltad/genesis"
	"github.com/bitmark-inc/deltad/mocks"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/rpc/election"
	"github.com/bitmark-inc/deltad/voter"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

type setup struct {
	list     [][]byte
	voter    *voter.Voter
	elector  *elector.Elector
	election *election.Election
}

func newSetup(ctl *gomock.Controller) setup {
	list := fixtures.Producers(3)
	p := mocks.NewMockProvider(ctl)
	p.EXPECT().GetProducers(gomock.Any()).Return(list).AnyTimes()

	log := logger.New(fixtures.LogCategory)
	v := voter.New(log, p, list[0])
	e := elector.New(log, p)
	heads := chainhead.New(log, 0, time.Now)

	return setup{
		list:     list,
		voter:    v,
		elector:  e,
		election: election.New(log, v, e, heads),
	}
}

func TestScoresAndFavourite(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := newSetup(ctl)
	previous := genesis.Hash()

	low := fixtures.Candidate(fixtures.Hash("low"), previous, s.list[2])
	high := fixtures.Candidate(fixtures.Hash("high"), previous, s.list[0])
	assert.Nil(t, s.voter.OnCandidate(low), "wrong low error")
	assert.Nil(t, s.voter.OnCandidate(high), "wrong high error")

	var scores election.CandidatesReply
	err := s.election.Scores(&election.Arguments{}, &scores)
	assert.Nil(t, err, "wrong Scores")
	assert.Equal(t, address.String(previous), scores.Previous, "wrong default round")
	assert.Equal(t, 2, len(scores.Candidates), "wrong candidate count")
	assert.Equal(t, address.String(high.Hash), scores.Candidates[0].Hash, "wrong first candidate")
	assert.Equal(t, protocol.PeerString(s.list[0]), scores.Candidates[0].Producer, "wrong producer")
	assert.True(t, scores.Candidates[0].Score > scores.Candidates[1].Score, "wrong order")

	var favourite election.CandidateReply
	err = s.election.Favourite(&election.Arguments{Previous: address.String(previous)}, &favourite)
	assert.Nil(t, err, "wrong Favourite")
	assert.Equal(t, address.String(high.Hash), favourite.Candidate.Hash, "wrong favourite")
}

func TestTallyAndMostPopular(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := newSetup(ctl)
	previous := genesis.Hash()

	c := fixtures.Candidate(fixtures.Hash("winner"), previous, s.list[1])
	assert.Nil(t, s.elector.OnFavourite(fixtures.Favourite(c, s.list[0])), "wrong vote error")
	assert.Nil(t, s.elector.OnFavourite(fixtures.Favourite(c, s.list[2])), "wrong vote error")

	var tally election.CandidatesReply
	err := s.election.Tally(&election.Arguments{}, &tally)
	assert.Nil(t, err, "wrong Tally")
	assert.Equal(t, 1, len(tally.Candidates), "wrong tally size")
	assert.Equal(t, 2, tally.Candidates[0].Votes, "wrong votes")

	var winner election.CandidateReply
	err = s.election.MostPopular(&election.Arguments{}, &winner)
	assert.Nil(t, err, "wrong MostPopular")
	assert.Equal(t, address.String(c.Hash), winner.Candidate.Hash, "wrong winner")
}

func TestEmptyRound(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := newSetup(ctl)
	args := &election.Arguments{Previous: address.String(fixtures.Hash("quiet"))}

	var list election.CandidatesReply
	assert.Nil(t, s.election.Scores(args, &list), "wrong Scores")
	assert.Equal(t, 0, len(list.Candidates), "wrong scores")

	var one election.CandidateReply
	assert.Equal(t, fault.NoFavourite, s.election.Favourite(args, &one), "wrong Favourite error")
	assert.Equal(t, fault.NoMostPopular, s.election.MostPopular(args, &one), "wrong MostPopular error")
}

func TestInvalidRound(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := newSetup(ctl)

	var list election.CandidatesReply
	err := s.election.Tally(&election.Arguments{Previous: "nonsense"}, &list)
	assert.Equal(t, fault.InvalidHash, err, "wrong error")
}
