// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/rpc/ratelimit"
)

const (
	rateLimitChain = 200
	rateBurstChain = 100
)

// Heads - chain head lookups
type Heads interface {
	GetLatestHash() []byte
	GetLatestHashAsOf(time.Time) ([]byte, bool)
}

// Chain - type for RPC calls
type Chain struct {
	Log     *logger.L
	Limiter *rate.Limiter
	heads   Heads
}

// New - create chain RPC handler
func New(log *logger.L, heads Heads) *Chain {
	return &Chain{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitChain, rateBurstChain),
		heads:   heads,
	}
}

// ---

// HeadArguments - empty arguments for head request
type HeadArguments struct{}

// HeadReply - a chain head
type HeadReply struct {
	Hash string `json:"hash"`
}

// Head - current chain head
func (chain *Chain) Head(_ *HeadArguments, reply *HeadReply) error {
	if err := ratelimit.Limit(chain.Limiter); nil != err {
		return err
	}

	reply.Hash = address.String(chain.heads.GetLatestHash())
	return nil
}

// ---

// HeadAsOfArguments - the instant to look up
type HeadAsOfArguments struct {
	At time.Time `json:"at"`
}

// HeadAsOf - chain head that was current at a given time
func (chain *Chain) HeadAsOf(arguments *HeadAsOfArguments, reply *HeadReply) error {
	if err := ratelimit.Limit(chain.Limiter); nil != err {
		return err
	}

	if nil == arguments || arguments.At.IsZero() {
		return fault.MissingParameters
	}

	hash, ok := chain.heads.GetLatestHashAsOf(arguments.At)
	if !ok {
		return fault.NotFound
	}

	chain.Log.Debugf("head as of: %s  is: %s", arguments.At.UTC(), address.String(hash))
	reply.Hash = address.String(hash)
	return nil
}
