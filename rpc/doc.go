// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - JSON RPC access to a running node
//
// the handler types live in sub-packages, one per RPC namespace:
//   Chain        - current and historical chain heads
//   Delta        - confirmed delta content
//   Election     - the scoreboard and tally of the current round
//   Node         - node identity and status
//   Transaction  - submission into the reservoir
//
// server.Create registers them all and listeners serves the result
// over TLS
package rpc
