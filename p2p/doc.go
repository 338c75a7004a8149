// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package p2p - libp2p transport for consensus gossip
//
// every node joins one gossipsub topic; envelopes published there are
// filtered for replays, decoded and queued on the message bus; deltas
// missing from the local DFS are fetched from connected peers over a
// direct stream and verified against their content address
package p2p
