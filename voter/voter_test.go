// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package voter_test

import (
	"os"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/fixtures"
	"github.com/bitmark-inc/deltad/mocks"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/voter"
)

var self = []byte("self")

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func newVoter(ctl *gomock.Controller, list [][]byte) *voter.Voter {
	p := mocks.NewMockProvider(ctl)
	p.EXPECT().GetProducers(gomock.Any()).Return(list).AnyTimes()
	return voter.New(logger.New(fixtures.LogCategory), p, self)
}

func TestOnCandidateScoresByRank(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	list := fixtures.Producers(5)
	v := newVoter(ctl, list)
	previous := fixtures.Hash("previous")

	c := fixtures.Candidate(fixtures.Hash("candidate"), previous, list[2])
	assert.Nil(t, v.OnCandidate(c), "wrong error")

	scores := v.Scores(previous)
	assert.Equal(t, 1, len(scores), "wrong scoreboard size")
	assert.Equal(t, 100*(5-2)+1, scores[0].Score, "wrong first score")

	assert.Nil(t, v.OnCandidate(c), "wrong error")
	scores = v.Scores(previous)
	assert.Equal(t, 100*(5-2)+2, scores[0].Score, "wrong second score")
}

func TestOnCandidateRejectsInvalid(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	list := fixtures.Producers(3)
	v := newVoter(ctl, list)
	previous := fixtures.Hash("previous")

	assert.Equal(t, fault.InvalidCandidate, v.OnCandidate(nil), "wrong error for nil")
	assert.Equal(t, fault.InvalidCandidate, v.OnCandidate(fixtures.Candidate(nil, previous, list[0])), "wrong error for missing hash")
	assert.Equal(t, fault.InvalidCandidate, v.OnCandidate(fixtures.Candidate(fixtures.Hash("c"), nil, list[0])), "wrong error for missing previous")
	assert.Equal(t, fault.UnknownProducer, v.OnCandidate(fixtures.Candidate(fixtures.Hash("c"), previous, []byte("stranger"))), "wrong error for unknown producer")

	assert.Equal(t, 0, len(v.Scores(previous)), "invalid candidate was scored")
	_, ok := v.GetFavourite(previous)
	assert.False(t, ok, "favourite from invalid candidates")
}

func TestGetFavouriteHighestScore(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	list := fixtures.Producers(3)
	v := newVoter(ctl, list)
	previous := fixtures.Hash("previous")

	low := fixtures.Candidate(fixtures.Hash("low"), previous, list[2])
	high := fixtures.Candidate(fixtures.Hash("high"), previous, list[0])
	_ = v.OnCandidate(low)
	_ = v.OnCandidate(high)

	f, ok := v.GetFavourite(previous)
	assert.True(t, ok, "no favourite")
	assert.Equal(t, high.Hash, f.Candidate.Hash, "wrong favourite")
	assert.Equal(t, self, f.VoterId, "wrong voter id")
}

func TestGetFavouriteVotesOvertakeRank(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	list := fixtures.Producers(2)
	v := newVoter(ctl, list)
	previous := fixtures.Hash("previous")

	first := fixtures.Candidate(fixtures.Hash("first"), previous, list[0])
	second := fixtures.Candidate(fixtures.Hash("second"), previous, list[1])
	_ = v.OnCandidate(first)
	for i := 0; i <= voter.ScoreMultiplier+1; i += 1 {
		_ = v.OnCandidate(second)
	}

	f, _ := v.GetFavourite(previous)
	assert.Equal(t, second.Hash, f.Candidate.Hash, "vote count did not dominate rank")
}

func TestGetFavouriteTieGoesToSmallerHash(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	list := fixtures.Producers(3)
	v := newVoter(ctl, list)
	previous := fixtures.Hash("previous")

	// ranks 0 and 1 differ by 100 so extra observations even them out
	small := []byte{0x01, 0x02}
	large := []byte{0x01, 0x03}
	a := fixtures.Candidate(large, previous, list[0])
	b := fixtures.Candidate(small, previous, list[1])
	_ = v.OnCandidate(a)
	for i := 0; i <= voter.ScoreMultiplier; i += 1 {
		_ = v.OnCandidate(b)
	}

	scores := v.Scores(previous)
	assert.Equal(t, scores[0].Score, scores[1].Score, "scores are not tied")

	f, _ := v.GetFavourite(previous)
	assert.Equal(t, small, f.Candidate.Hash, "tie not broken by smaller hash")
}

func TestRoundsAreIndependent(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	list := fixtures.Producers(2)
	v := newVoter(ctl, list)
	one := fixtures.Hash("one")
	two := fixtures.Hash("two")

	_ = v.OnCandidate(fixtures.Candidate(fixtures.Hash("c1"), one, list[0]))

	assert.Equal(t, 1, len(v.Scores(one)), "wrong first round")
	assert.Equal(t, 0, len(v.Scores(two)), "candidate leaked into another round")

	_, ok := v.GetFavourite(two)
	assert.False(t, ok, "favourite for unknown round")
}

func TestRoundsWithSeparatorBytesAreIndependent(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	list := fixtures.Producers(3)
	v := newVoter(ctl, list)

	// split so that raw concatenation of either pair reads "ab:cd:v"
	one := []byte("ab:cd")
	first := fixtures.Candidate([]byte("v"), one, list[0])
	two := []byte("ab")
	second := fixtures.Candidate([]byte("cd:v"), two, list[2])

	assert.Nil(t, v.OnCandidate(first), "wrong first error")
	assert.Nil(t, v.OnCandidate(second), "wrong second error")

	scores := v.Scores(one)
	assert.Equal(t, 1, len(scores), "wrong first round size")
	assert.Equal(t, 100*3+1, scores[0].Score, "first candidate scored by another round")

	scores = v.Scores(two)
	assert.Equal(t, 1, len(scores), "wrong second round size")
	assert.Equal(t, []byte("cd:v"), scores[0].Candidate.Hash, "wrong second round candidate")
	assert.Equal(t, 100*1+1, scores[0].Score, "wrong second round score")

	favourite, ok := v.GetFavourite(two)
	assert.True(t, ok, "missing favourite")
	assert.Equal(t, two, favourite.Candidate.PreviousDeltaDfsHash, "favourite from another round")
}

func TestOnCandidateConcurrent(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	list := fixtures.Producers(4)
	v := newVoter(ctl, list)
	previous := fixtures.Hash("previous")
	c := fixtures.Candidate(fixtures.Hash("candidate"), previous, list[3])

	const observations = 50
	var wg sync.WaitGroup
	for i := 0; i < observations; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = v.OnCandidate(&protocol.CandidateDeltaBroadcast{
				Hash:                 c.Hash,
				PreviousDeltaDfsHash: c.PreviousDeltaDfsHash,
				ProducerId:           c.ProducerId,
			})
		}()
	}
	wg.Wait()

	scores := v.Scores(previous)
	assert.Equal(t, 100*(4-3)+observations, scores[0].Score, "lost updates")
}
