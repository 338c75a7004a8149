// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package delta

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/rpc/ratelimit"
)

const (
	rateLimitDelta = 100
	rateBurstDelta = 50
	fetchTimeout   = 20 * time.Second
)

// Confirmed - source of published deltas
type Confirmed interface {
	TryGetConfirmed(ctx context.Context, hash []byte) (*protocol.Delta, bool)
}

// Delta - type for RPC calls
type Delta struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	confirmed Confirmed
}

// New - create delta RPC handler
func New(log *logger.L, confirmed Confirmed) *Delta {
	return &Delta{
		Log:       log,
		Limiter:   rate.NewLimiter(rateLimitDelta, rateBurstDelta),
		confirmed: confirmed,
	}
}

// ---

// GetArguments - delta address in text form
type GetArguments struct {
	Hash string `json:"hash"`
}

// GetReply - the delta content
type GetReply struct {
	Hash  string          `json:"hash"`
	Delta *protocol.Delta `json:"delta"`
}

// Get - fetch a confirmed delta
func (d *Delta) Get(arguments *GetArguments, reply *GetReply) error {
	if err := ratelimit.Limit(d.Limiter); nil != err {
		return err
	}

	if nil == arguments || "" == arguments.Hash {
		return fault.MissingParameters
	}
	hash, err := address.Parse(arguments.Hash)
	if nil != err {
		return fault.InvalidHash
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	delta, ok := d.confirmed.TryGetConfirmed(ctx, hash)
	if !ok {
		return fault.DeltaNotFound
	}

	reply.Hash = address.String(hash)
	reply.Delta = delta
	return nil
}
