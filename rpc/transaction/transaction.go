// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"encoding/hex"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/rpc/ratelimit"
)

const (
	rateLimitTransaction = 200
	rateBurstTransaction = 100

	// most transactions in one SubmitBatch call, at most the burst
	maximumBatchCount = 50
)

// Pool - pending transactions
type Pool interface {
	Store(tx *protocol.Transaction) error
	Contains(signature []byte) bool
	Len() int
}

// Transport - gossip to other nodes
type Transport interface {
	Broadcast(m *protocol.BusMessage) error
}

// Transaction - type for RPC calls
type Transaction struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	pool      Pool
	transport Transport
	self      []byte
}

// New - create transaction RPC handler
func New(log *logger.L, pool Pool, transport Transport, self []byte) *Transaction {
	return &Transaction{
		Log:       log,
		Limiter:   rate.NewLimiter(rateLimitTransaction, rateBurstTransaction),
		pool:      pool,
		transport: transport,
		self:      self,
	}
}

// ---

// SubmitArguments - a signed transaction
type SubmitArguments struct {
	Transaction *protocol.Transaction `json:"transaction"`
}

// SubmitReply - result of a submission
type SubmitReply struct {
	Signature string `json:"signature"`
	Pending   int    `json:"pending"`
}

// Submit - add a transaction to the local reservoir and pass it on to
// peers
func (tx *Transaction) Submit(arguments *SubmitArguments, reply *SubmitReply) error {
	if err := ratelimit.Limit(tx.Limiter); nil != err {
		return err
	}

	if nil == arguments || nil == arguments.Transaction {
		return fault.MissingParameters
	}
	t := arguments.Transaction

	if err := tx.store(t); nil != err {
		return err
	}

	reply.Signature = hex.EncodeToString(t.Signature)
	reply.Pending = tx.pool.Len()
	return nil
}

// ---

// SubmitBatchArguments - several signed transactions
type SubmitBatchArguments struct {
	Transactions []*protocol.Transaction `json:"transactions"`
}

// Rejected - a transaction of a batch that was not stored
type Rejected struct {
	Signature string `json:"signature"`
	Error     string `json:"error"`
}

// SubmitBatchReply - stored signatures and the rejects
type SubmitBatchReply struct {
	Signatures []string   `json:"signatures"`
	Rejected   []Rejected `json:"rejected"`
	Pending    int        `json:"pending"`
}

// SubmitBatch - Submit for each transaction, a batch costs one rate
// token per transaction and a rejected item does not stop the rest
func (tx *Transaction) SubmitBatch(arguments *SubmitBatchArguments, reply *SubmitBatchReply) error {
	if nil == arguments {
		return fault.MissingParameters
	}

	count := len(arguments.Transactions)
	if err := ratelimit.LimitN(tx.Limiter, count, maximumBatchCount); nil != err {
		return err
	}

	reply.Signatures = make([]string, 0, count)
	reply.Rejected = make([]Rejected, 0)
	for _, t := range arguments.Transactions {
		if nil == t {
			reply.Rejected = append(reply.Rejected, Rejected{Error: fault.MissingParameters.Error()})
			continue
		}
		signature := hex.EncodeToString(t.Signature)
		if err := tx.store(t); nil != err {
			reply.Rejected = append(reply.Rejected, Rejected{Signature: signature, Error: err.Error()})
			continue
		}
		reply.Signatures = append(reply.Signatures, signature)
	}
	reply.Pending = tx.pool.Len()
	return nil
}

// keep a transaction then gossip it, a failed broadcast leaves it
// stored for the next delta built here
func (tx *Transaction) store(t *protocol.Transaction) error {
	if err := tx.pool.Store(t); nil != err {
		tx.Log.Debugf("submit: %x  error: %s", t.Signature, err)
		return err
	}

	m, err := protocol.Pack(protocol.CommandTransaction, tx.self, t)
	if nil == err {
		err = tx.transport.Broadcast(m)
	}
	if nil != err {
		tx.Log.Warnf("broadcast transaction: %x  error: %s", t.Signature, err)
	}
	return nil
}

// ---

// StatusArguments - hex encoded transaction signature
type StatusArguments struct {
	Signature string `json:"signature"`
}

// StatusReply - whether the transaction is still waiting
type StatusReply struct {
	Pending bool `json:"pending"`
}

// Status - check if a transaction is still in the reservoir
func (tx *Transaction) Status(arguments *StatusArguments, reply *StatusReply) error {
	if err := ratelimit.Limit(tx.Limiter); nil != err {
		return err
	}

	if nil == arguments || "" == arguments.Signature {
		return fault.MissingParameters
	}
	signature, err := hex.DecodeString(arguments.Signature)
	if nil != err {
		return fault.InvalidData
	}

	reply.Pending = tx.pool.Contains(signature)
	return nil
}
