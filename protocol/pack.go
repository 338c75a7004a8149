// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol

import (
	proto "github.com/gogo/protobuf/proto"

	"github.com/bitmark-inc/deltad/fault"
)

// gossip commands
const (
	CommandCandidate    = "candidate"
	CommandFavourite    = "favourite"
	CommandDeltaDfsHash = "deltahash"
	CommandTransaction  = "transaction"
)

// Pack - wrap a message into an envelope
func Pack(command string, sender []byte, m proto.Message) (*BusMessage, error) {
	if nil == m {
		return nil, fault.ArgumentNull
	}
	payload, err := proto.Marshal(m)
	if nil != err {
		return nil, err
	}
	return &BusMessage{
		Command:  command,
		SenderId: sender,
		Payload:  payload,
	}, nil
}

// Unpack - decode the payload of an envelope according to its command
func (m *BusMessage) Unpack() (proto.Message, error) {
	var item proto.Message
	switch m.Command {
	case CommandCandidate:
		item = &CandidateDeltaBroadcast{}
	case CommandFavourite:
		item = &FavouriteDeltaBroadcast{}
	case CommandDeltaDfsHash:
		item = &DeltaDfsHashBroadcast{}
	case CommandTransaction:
		item = &Transaction{}
	default:
		return nil, fault.UnknownCommand
	}

	if err := proto.Unmarshal(m.Payload, item); nil != err {
		return nil, fault.InvalidData
	}
	return item, nil
}

// PackDelta - encoded form of a delta as written to the DFS
func PackDelta(d *Delta) ([]byte, error) {
	if nil == d {
		return nil, fault.ArgumentNull
	}
	return proto.Marshal(d)
}

// UnpackDelta - decode a delta read from the DFS
func UnpackDelta(packed []byte) (*Delta, error) {
	d := &Delta{}
	if err := proto.Unmarshal(packed, d); nil != err {
		return nil, fault.InvalidData
	}
	return d, nil
}
