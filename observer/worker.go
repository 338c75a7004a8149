// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package observer

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/messagebus"
)

// Worker - the only reader of one queue
type Worker struct {
	log       *logger.L
	queue     *messagebus.Queue
	observers []Observer
}

// NewWorker - a background process feeding a queue to its observers
func NewWorker(log *logger.L, queue *messagebus.Queue, observers ...Observer) *Worker {
	return &Worker{
		log:       log,
		queue:     queue,
		observers: observers,
	}
}

// Run - consume until shutdown
func (w *Worker) Run(args interface{}, shutdown <-chan struct{}) {
	w.log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-w.queue.Chan():
			for _, o := range w.observers {
				o.Update(item.Command, item.From, item.Item)
			}
		}
	}

	w.log.Info("stopped")
}
