// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package protocol - messages exchanged between nodes and stored in
// the DFS
//
// all messages are protobuf encoded; hashes are raw bytes, chain links
// hold content addresses from the address package
package protocol
