// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/deltad/fault"
)

// Limit - wait for the token of a single request
func Limit(limiter *rate.Limiter) error {
	return wait(limiter.Reserve())
}

// LimitN - wait for one token per item of a request; a count outside
// 1..maximumCount is charged as a single request and rejected
func LimitN(limiter *rate.Limiter, count int, maximumCount int) error {
	if count <= 0 || count > maximumCount {
		if err := Limit(limiter); nil != err {
			return err
		}
		return fault.InvalidCount
	}
	return wait(limiter.ReserveN(time.Now(), count))
}

// a reservation that can never be met, n above the burst, is refused
// rather than waited on
func wait(r *rate.Reservation) error {
	if !r.OK() {
		return fault.RateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}
