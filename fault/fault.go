// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyExists         = ExistsError("already exists")
	ArgumentNull          = InvalidError("argument is nil")
	ConfigurationNotTable = InvalidError("configuration must return a table")
	DeltaNotFound         = NotFoundError("delta not found")
	DurableStoreFailure   = ProcessError("durable store failure")
	InvalidCandidate      = InvalidError("invalid candidate")
	InvalidCount          = InvalidError("invalid count")
	InvalidData           = InvalidError("invalid data")
	InvalidHash           = InvalidError("invalid hash")
	InvalidIPAddress      = InvalidError("invalid IP address")
	InvalidPeerID         = InvalidError("invalid peer id")
	InvalidPhaseTimings   = InvalidError("invalid phase timings")
	InvalidTransaction    = InvalidError("invalid transaction")
	MissingParameters     = InvalidError("missing parameters")
	NotFound              = NotFoundError("not found")
	NotInitialised        = NotFoundError("not initialised")
	NotTip                = InvalidError("previous delta is not the chain head")
	NoFavourite           = NotFoundError("no favourite candidate")
	NoMostPopular         = NotFoundError("no popular candidate")
	RateLimiting          = InvalidError("rate limiting")
	ReservoirFull         = ProcessError("reservoir is full")
	UnknownProducer       = InvalidError("unknown producer")
	UnknownCommand        = InvalidError("unknown command")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
