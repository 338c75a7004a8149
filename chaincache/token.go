// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincache

import (
	"time"
)

// ChangeToken - signals that a cached entry must be evicted
type ChangeToken interface {
	HasChanged() bool
}

// ChangeTokenProvider - issues a token for every entry inserted
type ChangeTokenProvider interface {
	GetChangeToken() ChangeToken
}

// TTLTokens - tokens that fire a fixed time after being issued
type TTLTokens struct {
	ttl time.Duration
	now func() time.Time
}

type ttlToken struct {
	expiresAt time.Time
	now       func() time.Time
}

// NewTTLTokens - create a provider; now may be nil to use the system
// clock
func NewTTLTokens(ttl time.Duration, now func() time.Time) *TTLTokens {
	if nil == now {
		now = time.Now
	}
	return &TTLTokens{ttl: ttl, now: now}
}

// GetChangeToken - token expiring ttl from now
func (p *TTLTokens) GetChangeToken() ChangeToken {
	return &ttlToken{
		expiresAt: p.now().Add(p.ttl),
		now:       p.now,
	}
}

func (t *ttlToken) HasChanged() bool {
	return !t.now().Before(t.expiresAt)
}
