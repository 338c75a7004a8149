// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package observer - single consumers for the inbound gossip streams
//
// each stream has one queue and one worker; the worker hands every
// message to its observers, which decode and pass it on, logging and
// discarding anything that is rejected
package observer

import (
	"github.com/bitmark-inc/deltad/counter"
)

// Observer - reacts to one kind of inbound message
type Observer interface {
	Update(command string, from []byte, item interface{})
}

// Counts - messages seen by an observer
type Counts struct {
	Received counter.Counter
	Rejected counter.Counter
}
