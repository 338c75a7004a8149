// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"time"

	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/rpc/chain"
	"github.com/bitmark-inc/deltad/rpc/delta"
	"github.com/bitmark-inc/deltad/rpc/election"
	"github.com/bitmark-inc/deltad/rpc/node"
	"github.com/bitmark-inc/deltad/rpc/transaction"
)

// Head - current chain head
func (c *Client) Head() (*chain.HeadReply, error) {
	var reply chain.HeadReply
	if err := c.call("Chain.Head", &chain.HeadArguments{}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// HeadAsOf - chain head that was current at a given time
func (c *Client) HeadAsOf(at time.Time) (*chain.HeadReply, error) {
	var reply chain.HeadReply
	if err := c.call("Chain.HeadAsOf", &chain.HeadAsOfArguments{At: at}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Delta - a confirmed delta
func (c *Client) Delta(hash string) (*delta.GetReply, error) {
	var reply delta.GetReply
	if err := c.call("Delta.Get", &delta.GetArguments{Hash: hash}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Scores - candidate scores for a round, blank previous is the
// current head
func (c *Client) Scores(previous string) (*election.CandidatesReply, error) {
	var reply election.CandidatesReply
	if err := c.call("Election.Scores", &election.Arguments{Previous: previous}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Tally - votes counted for a round
func (c *Client) Tally(previous string) (*election.CandidatesReply, error) {
	var reply election.CandidatesReply
	if err := c.call("Election.Tally", &election.Arguments{Previous: previous}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Favourite - this node's favourite for a round
func (c *Client) Favourite(previous string) (*election.CandidateReply, error) {
	var reply election.CandidateReply
	if err := c.call("Election.Favourite", &election.Arguments{Previous: previous}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// MostPopular - the elected candidate for a round
func (c *Client) MostPopular(previous string) (*election.CandidateReply, error) {
	var reply election.CandidateReply
	if err := c.call("Election.MostPopular", &election.Arguments{Previous: previous}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Submit - send a transaction to the node
func (c *Client) Submit(tx *protocol.Transaction) (*transaction.SubmitReply, error) {
	var reply transaction.SubmitReply
	if err := c.call("Transaction.Submit", &transaction.SubmitArguments{Transaction: tx}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// SubmitBatch - send several transactions in one call
func (c *Client) SubmitBatch(txs []*protocol.Transaction) (*transaction.SubmitBatchReply, error) {
	var reply transaction.SubmitBatchReply
	if err := c.call("Transaction.SubmitBatch", &transaction.SubmitBatchArguments{Transactions: txs}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Status - whether a transaction is still pending
func (c *Client) Status(signature string) (*transaction.StatusReply, error) {
	var reply transaction.StatusReply
	if err := c.call("Transaction.Status", &transaction.StatusArguments{Signature: signature}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Info - node summary
func (c *Client) Info() (*node.InfoReply, error) {
	var reply node.InfoReply
	if err := c.call("Node.Info", &node.InfoArguments{}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
