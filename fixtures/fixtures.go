// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared helpers for package tests
package fixtures

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/protocol"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// SetupTestLogger - log to a scratch directory, only critical messages
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// Hash - a content address derived from a label
func Hash(label string) []byte {
	h, err := address.Compute([]byte(label))
	if nil != err {
		panic(err)
	}
	return h
}

// Producers - a list of distinct producer ids
func Producers(n int) [][]byte {
	ids := make([][]byte, n)
	for i := 0; i < n; i += 1 {
		ids[i] = []byte(fmt.Sprintf("producer-%02d", i))
	}
	return ids
}

// Candidate - a well formed candidate
func Candidate(hash []byte, previous []byte, producer []byte) *protocol.CandidateDeltaBroadcast {
	return &protocol.CandidateDeltaBroadcast{
		Hash:                 hash,
		PreviousDeltaDfsHash: previous,
		ProducerId:           producer,
	}
}

// Favourite - a well formed vote
func Favourite(candidate *protocol.CandidateDeltaBroadcast, voter []byte) *protocol.FavouriteDeltaBroadcast {
	return &protocol.FavouriteDeltaBroadcast{
		Candidate: candidate,
		VoterId:   voter,
	}
}

// Transaction - a signed transaction with a single entry
func Transaction(signature string, fee uint64, timestamp int64, lockTime int64) *protocol.Transaction {
	return &protocol.Transaction{
		Signature: []byte(signature),
		Fee:       fee,
		Timestamp: timestamp,
		LockTime:  lockTime,
		GasLimit:  21000,
		Entries: []*protocol.StEntry{
			{
				SenderAddress:   []byte("sender-" + signature),
				ReceiverAddress: []byte("receiver-" + signature),
				Amount:          fee * 10,
			},
		},
	}
}
