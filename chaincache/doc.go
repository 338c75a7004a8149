// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincache - deltas known to this node
//
// confirmed deltas are read through from the DFS and kept until their
// change token fires; deltas built locally but not yet published are
// kept in a separate bounded partition that confirmed lookups never
// see
package chaincache
