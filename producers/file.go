// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package producers

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mr-tron/base58"
	multihash "github.com/multiformats/go-multihash"

	"github.com/bitmark-inc/deltad/fault"
)

// ReadFile - peer ids listed one per line in base58; blank lines and
// lines starting with # are ignored
func ReadFile(fileName string) ([][]byte, error) {
	f, err := os.Open(fileName)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse - peer ids from the text form of a producers file
func Parse(r io.Reader) ([][]byte, error) {
	peers := make([][]byte, 0, 16)
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if "" == line || strings.HasPrefix(line, "#") {
			continue
		}

		id, err := base58.Decode(line)
		if nil != err {
			return nil, fault.InvalidPeerID
		}
		if _, err := multihash.Cast(id); nil != err {
			return nil, fault.InvalidPeerID
		}
		if _, ok := seen[string(id)]; ok {
			continue
		}
		seen[string(id)] = struct{}{}
		peers = append(peers, id)
	}
	if err := scanner.Err(); nil != err {
		return nil, err
	}
	if 0 == len(peers) {
		return nil, fault.MissingParameters
	}
	return peers, nil
}
