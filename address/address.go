// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address - content addresses used to link deltas
//
// every hash in the chain is the byte form of a version 1 CID using
// the raw codec and a SHA3-256 multihash of the content
package address

import (
	"bytes"
	"encoding/hex"

	cid "github.com/ipfs/go-cid"
	multihash "github.com/multiformats/go-multihash"

	"github.com/bitmark-inc/deltad/fault"
)

// Compute - content address of some data
func Compute(content []byte) ([]byte, error) {
	mh, err := multihash.Sum(content, multihash.SHA3_256, -1)
	if nil != err {
		return nil, err
	}
	return cid.NewCidV1(cid.Raw, mh).Bytes(), nil
}

// Validate - check that a hash is a well formed content address
func Validate(hash []byte) error {
	if 0 == len(hash) {
		return fault.InvalidHash
	}
	if _, err := cid.Cast(hash); nil != err {
		return fault.InvalidHash
	}
	return nil
}

// String - printable form of a hash, falls back to hex for anything
// that is not a CID
func String(hash []byte) string {
	if 0 == len(hash) {
		return "<empty>"
	}
	c, err := cid.Cast(hash)
	if nil != err {
		return hex.EncodeToString(hash)
	}
	return c.String()
}

// Parse - convert the printable form back to bytes
func Parse(s string) ([]byte, error) {
	c, err := cid.Decode(s)
	if nil != err {
		return nil, fault.InvalidHash
	}
	return c.Bytes(), nil
}

// Less - byte-lexicographic ordering of hashes
func Less(a []byte, b []byte) bool {
	return bytes.Compare(a, b) < 0
}

// Key - map key form of a hash
func Key(hash []byte) string {
	return string(hash)
}
