// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hub - outbound side of consensus: gossip of this node's own
// candidates and votes, and durable publication of elected deltas
package hub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	proto "github.com/gogo/protobuf/proto"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/dfs"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/protocol"
)

// Transport - delivers an envelope to all peers
type Transport interface {
	Broadcast(*protocol.BusMessage) error
}

// RetryPolicy - attempts includes the first try; the wait before retry
// n (counting from 1) is BaseDelay * 2^n
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy - four retries waiting 2, 4, 8 and 16 seconds
var DefaultRetryPolicy = RetryPolicy{
	Attempts:  5,
	BaseDelay: time.Second,
}

// Stats - publication counters
type Stats struct {
	Broadcasts      uint64
	PublishAttempts uint64
	PublishFailures uint64
	Published       uint64
}

// Hub - broadcast and publish on behalf of this node
type Hub struct {
	log       *logger.L
	transport Transport
	store     dfs.Store
	self      []byte
	policy    RetryPolicy

	broadcasts      counter.Counter
	publishAttempts counter.Counter
	publishFailures counter.Counter
	published       counter.Counter
}

// New - create a hub for the node identified by self
func New(log *logger.L, transport Transport, store dfs.Store, self []byte, policy RetryPolicy) *Hub {
	if policy.Attempts <= 0 {
		policy.Attempts = DefaultRetryPolicy.Attempts
	}
	if policy.BaseDelay < 0 {
		policy.BaseDelay = 0
	}
	return &Hub{
		log:       log,
		transport: transport,
		store:     store,
		self:      self,
		policy:    policy,
	}
}

// BroadcastCandidate - gossip a candidate produced by this node; others
// are silently ignored
func (h *Hub) BroadcastCandidate(candidate *protocol.CandidateDeltaBroadcast) error {
	if nil == candidate {
		return fault.ArgumentNull
	}
	if !bytes.Equal(candidate.ProducerId, h.self) {
		h.log.Debugf("not broadcasting candidate: %s  from: %s", address.String(candidate.Hash), protocol.PeerString(candidate.ProducerId))
		return nil
	}
	return h.broadcast(protocol.CommandCandidate, candidate)
}

// BroadcastFavourite - gossip a vote cast by this node; others are
// silently ignored
func (h *Hub) BroadcastFavourite(favourite *protocol.FavouriteDeltaBroadcast) error {
	if nil == favourite {
		return fault.ArgumentNull
	}
	if !bytes.Equal(favourite.VoterId, h.self) {
		h.log.Debugf("not broadcasting favourite from: %s", protocol.PeerString(favourite.VoterId))
		return nil
	}
	return h.broadcast(protocol.CommandFavourite, favourite)
}

// PublishDeltaAndBroadcastAddress - write a delta to the DFS, retrying
// with backoff, then announce its address
func (h *Hub) PublishDeltaAndBroadcastAddress(ctx context.Context, delta *protocol.Delta) ([]byte, error) {
	if nil == delta {
		return nil, fault.ArgumentNull
	}
	if !delta.IsValid() {
		return nil, fault.InvalidData
	}

	packed, err := protocol.PackDelta(delta)
	if nil != err {
		return nil, err
	}

	hash, err := h.write(ctx, packed)
	if nil != err {
		return nil, err
	}
	h.published.Increment()
	h.log.Infof("published delta: %s  previous: %s", address.String(hash), address.String(delta.PreviousDeltaDfsHash))

	announcement := &protocol.DeltaDfsHashBroadcast{
		DeltaDfsHash:         hash,
		PreviousDeltaDfsHash: delta.PreviousDeltaDfsHash,
	}
	// the delta is durable even if the announcement is lost
	if err := h.broadcast(protocol.CommandDeltaDfsHash, announcement); nil != err {
		h.log.Warnf("announce delta: %s  error: %s", address.String(hash), err)
	}
	return hash, nil
}

// Stats - current counters
func (h *Hub) Stats() Stats {
	return Stats{
		Broadcasts:      h.broadcasts.Uint64(),
		PublishAttempts: h.publishAttempts.Uint64(),
		PublishFailures: h.publishFailures.Uint64(),
		Published:       h.published.Uint64(),
	}
}

func (h *Hub) broadcast(command string, m proto.Message) error {
	packed, err := protocol.Pack(command, h.self, m)
	if nil != err {
		return err
	}
	if err := h.transport.Broadcast(packed); nil != err {
		h.log.Errorf("broadcast: %s  error: %s", command, err)
		return err
	}
	h.broadcasts.Increment()
	return nil
}

// write with retry; the first attempt always runs and no attempt
// starts once ctx is done
func (h *Hub) write(ctx context.Context, packed []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < h.policy.Attempts; attempt += 1 {
		if attempt > 0 {
			delay := h.policy.BaseDelay * time.Duration(1<<uint(attempt))
			h.log.Warnf("write attempt: %d failed: %s  retry in: %s", attempt, lastErr, delay)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				h.log.Warnf("write cancelled after attempt: %d", attempt)
				return nil, wrapStoreFailure(lastErr)
			case <-timer.C:
			}
			if nil != ctx.Err() {
				return nil, wrapStoreFailure(lastErr)
			}
		}

		h.publishAttempts.Increment()
		hash, err := h.store.Write(ctx, bytes.NewReader(packed))
		if nil == err {
			return hash, nil
		}
		h.publishFailures.Increment()
		lastErr = err
	}

	h.log.Errorf("write failed after: %d attempts  error: %s", h.policy.Attempts, lastErr)
	return nil, wrapStoreFailure(lastErr)
}

func wrapStoreFailure(err error) error {
	if nil == err {
		return fault.DurableStoreFailure
	}
	if errors.Is(err, fault.DurableStoreFailure) {
		return err
	}
	return fmt.Errorf("%w: %s", fault.DurableStoreFailure, err)
}
