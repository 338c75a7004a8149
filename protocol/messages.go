// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol

import (
	proto "github.com/gogo/protobuf/proto"
)

// StEntry - a single state transition carried by a transaction
type StEntry struct {
	SenderAddress   []byte `protobuf:"bytes,1,opt,name=sender_address,json=senderAddress,proto3" json:"sender_address,omitempty"`
	ReceiverAddress []byte `protobuf:"bytes,2,opt,name=receiver_address,json=receiverAddress,proto3" json:"receiver_address,omitempty"`
	Amount          uint64 `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Data            []byte `protobuf:"bytes,4,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *StEntry) Reset()         { *m = StEntry{} }
func (m *StEntry) String() string { return proto.CompactTextString(m) }
func (*StEntry) ProtoMessage()    {}

// Transaction - signed set of entries waiting in the mempool
type Transaction struct {
	Signature []byte     `protobuf:"bytes,1,opt,name=signature,proto3" json:"signature,omitempty"`
	Fee       uint64     `protobuf:"varint,2,opt,name=fee,proto3" json:"fee,omitempty"`
	Timestamp int64      `protobuf:"varint,3,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	LockTime  int64      `protobuf:"varint,4,opt,name=lock_time,json=lockTime,proto3" json:"lock_time,omitempty"`
	GasLimit  uint64     `protobuf:"varint,5,opt,name=gas_limit,json=gasLimit,proto3" json:"gas_limit,omitempty"`
	Entries   []*StEntry `protobuf:"bytes,6,rep,name=entries,proto3" json:"entries,omitempty"`
}

func (m *Transaction) Reset()         { *m = Transaction{} }
func (m *Transaction) String() string { return proto.CompactTextString(m) }
func (*Transaction) ProtoMessage()    {}

// CoinbaseEntry - fee reward credited to the producer of a delta
type CoinbaseEntry struct {
	Version           uint32 `protobuf:"varint,1,opt,name=version,proto3" json:"version,omitempty"`
	Amount            uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
	ReceiverPublicKey []byte `protobuf:"bytes,3,opt,name=receiver_public_key,json=receiverPublicKey,proto3" json:"receiver_public_key,omitempty"`
}

func (m *CoinbaseEntry) Reset()         { *m = CoinbaseEntry{} }
func (m *CoinbaseEntry) String() string { return proto.CompactTextString(m) }
func (*CoinbaseEntry) ProtoMessage()    {}

// Delta - the confirmed unit stored in the DFS
type Delta struct {
	PreviousDeltaDfsHash []byte           `protobuf:"bytes,1,opt,name=previous_delta_dfs_hash,json=previousDeltaDfsHash,proto3" json:"previous_delta_dfs_hash,omitempty"`
	MerkleRoot           []byte           `protobuf:"bytes,2,opt,name=merkle_root,json=merkleRoot,proto3" json:"merkle_root,omitempty"`
	TimeStamp            int64            `protobuf:"varint,3,opt,name=time_stamp,json=timeStamp,proto3" json:"time_stamp,omitempty"`
	CoinbaseEntries      []*CoinbaseEntry `protobuf:"bytes,4,rep,name=coinbase_entries,json=coinbaseEntries,proto3" json:"coinbase_entries,omitempty"`
	PublicEntries        []*Transaction   `protobuf:"bytes,5,rep,name=public_entries,json=publicEntries,proto3" json:"public_entries,omitempty"`
}

func (m *Delta) Reset()         { *m = Delta{} }
func (m *Delta) String() string { return proto.CompactTextString(m) }
func (*Delta) ProtoMessage()    {}

// CandidateDeltaBroadcast - a producer's proposal for the next delta
type CandidateDeltaBroadcast struct {
	Hash                 []byte `protobuf:"bytes,1,opt,name=hash,proto3" json:"hash,omitempty"`
	PreviousDeltaDfsHash []byte `protobuf:"bytes,2,opt,name=previous_delta_dfs_hash,json=previousDeltaDfsHash,proto3" json:"previous_delta_dfs_hash,omitempty"`
	ProducerId           []byte `protobuf:"bytes,3,opt,name=producer_id,json=producerId,proto3" json:"producer_id,omitempty"`
}

func (m *CandidateDeltaBroadcast) Reset()         { *m = CandidateDeltaBroadcast{} }
func (m *CandidateDeltaBroadcast) String() string { return proto.CompactTextString(m) }
func (*CandidateDeltaBroadcast) ProtoMessage()    {}

// FavouriteDeltaBroadcast - one producer's vote for a candidate
type FavouriteDeltaBroadcast struct {
	Candidate *CandidateDeltaBroadcast `protobuf:"bytes,1,opt,name=candidate,proto3" json:"candidate,omitempty"`
	VoterId   []byte                   `protobuf:"bytes,2,opt,name=voter_id,json=voterId,proto3" json:"voter_id,omitempty"`
}

func (m *FavouriteDeltaBroadcast) Reset()         { *m = FavouriteDeltaBroadcast{} }
func (m *FavouriteDeltaBroadcast) String() string { return proto.CompactTextString(m) }
func (*FavouriteDeltaBroadcast) ProtoMessage()    {}

// DeltaDfsHashBroadcast - announcement of a delta published to the DFS
type DeltaDfsHashBroadcast struct {
	DeltaDfsHash         []byte `protobuf:"bytes,1,opt,name=delta_dfs_hash,json=deltaDfsHash,proto3" json:"delta_dfs_hash,omitempty"`
	PreviousDeltaDfsHash []byte `protobuf:"bytes,2,opt,name=previous_delta_dfs_hash,json=previousDeltaDfsHash,proto3" json:"previous_delta_dfs_hash,omitempty"`
}

func (m *DeltaDfsHashBroadcast) Reset()         { *m = DeltaDfsHashBroadcast{} }
func (m *DeltaDfsHashBroadcast) String() string { return proto.CompactTextString(m) }
func (*DeltaDfsHashBroadcast) ProtoMessage()    {}

// BusMessage - envelope for all gossip traffic
type BusMessage struct {
	Command  string `protobuf:"bytes,1,opt,name=command,proto3" json:"command,omitempty"`
	SenderId []byte `protobuf:"bytes,2,opt,name=sender_id,json=senderId,proto3" json:"sender_id,omitempty"`
	Payload  []byte `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *BusMessage) Reset()         { *m = BusMessage{} }
func (m *BusMessage) String() string { return proto.CompactTextString(m) }
func (*BusMessage) ProtoMessage()    {}
