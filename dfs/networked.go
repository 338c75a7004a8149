// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dfs

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/fault"
)

// Fetcher - retrieves content from other nodes
type Fetcher interface {
	Fetch(ctx context.Context, hash []byte) ([]byte, error)
}

// Networked - local store that falls back to peers on a miss and
// keeps what it fetched
type Networked struct {
	log     *logger.L
	local   Store
	fetcher Fetcher
}

// NewNetworked - wrap a local store
func NewNetworked(log *logger.L, local Store, fetcher Fetcher) *Networked {
	return &Networked{
		log:     log,
		local:   local,
		fetcher: fetcher,
	}
}

// ReadByHash - local content, or verified content from a peer
func (n *Networked) ReadByHash(ctx context.Context, hash []byte) (io.ReadCloser, error) {
	r, err := n.local.ReadByHash(ctx, hash)
	if !fault.IsErrNotFound(err) {
		return r, err
	}

	content, err := n.fetcher.Fetch(ctx, hash)
	if nil != err {
		return nil, err
	}

	actual, err := address.Compute(content)
	if nil != err {
		return nil, err
	}
	if !bytes.Equal(actual, hash) {
		n.log.Errorf("fetched: %s  content hashes to: %s", address.String(hash), address.String(actual))
		return nil, fault.InvalidHash
	}

	if _, err := n.local.Write(ctx, bytes.NewReader(content)); nil != err {
		return nil, err
	}

	n.log.Infof("fetched from peer: %s  bytes: %d", address.String(hash), len(content))
	return ioutil.NopCloser(bytes.NewReader(content)), nil
}

// Write - content is always written locally
func (n *Networked) Write(ctx context.Context, content io.Reader) ([]byte, error) {
	return n.local.Write(ctx, content)
}
