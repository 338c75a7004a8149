// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - a queuing system for all message packets
// whether internally generated or received from peers
//
// each inbound stream has its own bounded queue read by a single
// consumer; a full queue drops new messages rather than blocking the
// network reader
package messagebus
