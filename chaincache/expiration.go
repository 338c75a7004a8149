// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincache

import (
	"time"
)

type cleaner struct {
	cache *Cache
}

func (c *cleaner) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(expirationCheckInterval)
	for {
		select {
		case <-ticker.C:
			c.cache.deleteExpiredItems()
		case <-shutdown:
			ticker.Stop()
			return
		}
	}
}

func (c *Cache) deleteExpiredItems() {
	var expired []string

	c.confirmed.RLock()
	for key, i := range c.confirmed.items {
		if i.token.HasChanged() {
			expired = append(expired, key)
		}
	}
	c.confirmed.RUnlock()

	for _, key := range expired {
		c.evict(key)
	}
	if len(expired) > 0 {
		c.log.Infof("expired %d confirmed deltas", len(expired))
	}
}
