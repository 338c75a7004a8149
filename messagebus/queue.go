// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync/atomic"
)

// internal constants
const (
	defaultQueueSize = 1000
)

// Message - a decoded item together with the peer that sent it
type Message struct {
	Command string
	From    []byte
	Item    interface{}
}

// Queue - bounded single consumer queue
type Queue struct {
	c       chan Message
	dropped uint64
}

// BusType - the queues for each inbound stream
type BusType struct {
	Candidates   *Queue
	Favourites   *Queue
	DeltaHashes  *Queue
	Transactions *Queue
}

// New - create a bus with queues of the given size, zero selects the
// default size
func New(size int) *BusType {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &BusType{
		Candidates:   NewQueue(size),
		Favourites:   NewQueue(size),
		DeltaHashes:  NewQueue(size),
		Transactions: NewQueue(size),
	}
}

// NewQueue - create a single queue
func NewQueue(size int) *Queue {
	return &Queue{
		c: make(chan Message, size),
	}
}

// Send - queue an item, returns false if the queue was full and the
// item was dropped
func (q *Queue) Send(command string, from []byte, item interface{}) bool {
	select {
	case q.c <- Message{Command: command, From: from, Item: item}:
		return true
	default:
		atomic.AddUint64(&q.dropped, 1)
		return false
	}
}

// Chan - channel to read from
func (q *Queue) Chan() <-chan Message {
	return q.c
}

// Len - number of messages waiting
func (q *Queue) Len() int {
	return len(q.c)
}

// Dropped - number of messages discarded because the queue was full
func (q *Queue) Dropped() uint64 {
	return atomic.LoadUint64(&q.dropped)
}
