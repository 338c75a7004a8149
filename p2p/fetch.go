// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"io/ioutil"
	"time"

	"github.com/libp2p/go-libp2p-core/network"
	peerlib "github.com/libp2p/go-libp2p-core/peer"
	libp2pprotocol "github.com/libp2p/go-libp2p-core/protocol"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/fault"
)

// FetchProtocol - stream protocol serving DFS content to peers
const FetchProtocol = libp2pprotocol.ID("/deltad/dfs/1.0.0")

// internal constants
const (
	maxContentSize = 16 * 1024 * 1024
	maxHashSize    = 128
	streamTimeout  = 30 * time.Second
)

// serve one content request
func (n *Node) handleFetch(stream network.Stream) {
	defer stream.Close()
	_ = stream.SetDeadline(time.Now().Add(streamTimeout))

	r := bufio.NewReader(stream)
	hash, err := readFrame(r, maxHashSize)
	if nil != err {
		n.log.Debugf("fetch request error: %s", err)
		_ = stream.Reset()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), streamTimeout)
	defer cancel()

	content := []byte{}
	rc, err := n.store.ReadByHash(ctx, hash)
	if nil == err {
		content, err = ioutil.ReadAll(rc)
		rc.Close()
	}
	if nil != err {
		n.log.Debugf("fetch: %s  error: %s", address.String(hash), err)
		content = []byte{}
	}

	w := bufio.NewWriter(stream)
	if err := writeFrame(w, content); nil != err {
		n.log.Debugf("fetch reply error: %s", err)
		_ = stream.Reset()
		return
	}
	if err := w.Flush(); nil != err {
		_ = stream.Reset()
	}
}

// Fetch - ask connected peers for content, accepting only bytes that
// match the requested address
func (n *Node) Fetch(ctx context.Context, hash []byte) ([]byte, error) {
	if err := address.Validate(hash); nil != err {
		return nil, err
	}

	for _, p := range n.host.Network().Peers() {
		if nil != ctx.Err() {
			return nil, ctx.Err()
		}

		content, err := n.fetchFrom(ctx, p, hash)
		if nil != err {
			n.log.Debugf("fetch: %s  from: %s  error: %s", address.String(hash), p, err)
			continue
		}
		if 0 == len(content) {
			continue
		}

		computed, err := address.Compute(content)
		if nil != err || !bytes.Equal(computed, hash) {
			n.log.Warnf("fetch: %s  from: %s  content does not match address", address.String(hash), p)
			continue
		}
		return content, nil
	}
	return nil, fault.DeltaNotFound
}

func (n *Node) fetchFrom(ctx context.Context, p peerlib.ID, hash []byte) ([]byte, error) {
	stream, err := n.host.NewStream(ctx, p, FetchProtocol)
	if nil != err {
		return nil, err
	}
	defer stream.Close()
	_ = stream.SetDeadline(time.Now().Add(streamTimeout))

	w := bufio.NewWriter(stream)
	if err := writeFrame(w, hash); nil != err {
		return nil, err
	}
	if err := w.Flush(); nil != err {
		return nil, err
	}

	return readFrame(bufio.NewReader(stream), maxContentSize)
}

// frame: uvarint length then that many bytes
func writeFrame(w io.Writer, data []byte) error {
	var length [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(length[:], uint64(len(data)))
	if _, err := w.Write(length[:l]); nil != err {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readFrame(r *bufio.Reader, limit int) ([]byte, error) {
	length, err := binary.ReadUvarint(r)
	if nil != err {
		return nil, err
	}
	if length > uint64(limit) {
		return nil, fault.InvalidData
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); nil != err {
		return nil, err
	}
	return data, nil
}
