// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/fault"
)

func TestComputeIsDeterministic(t *testing.T) {
	a1, err := address.Compute([]byte("some delta"))
	assert.Nil(t, err, "wrong error")

	a2, err := address.Compute([]byte("some delta"))
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, a1, a2, "wrong address")

	a3, err := address.Compute([]byte("other delta"))
	assert.Nil(t, err, "wrong error")
	assert.NotEqual(t, a1, a3, "different content same address")
}

func TestStringParse(t *testing.T) {
	a, _ := address.Compute([]byte("round trip"))

	s := address.String(a)
	p, err := address.Parse(s)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, a, p, "wrong parsed address")
}

func TestStringOfNonCID(t *testing.T) {
	assert.Equal(t, "0102", address.String([]byte{1, 2}), "wrong fallback")
	assert.Equal(t, "<empty>", address.String(nil), "wrong empty form")
}

func TestParseInvalid(t *testing.T) {
	_, err := address.Parse("not-a-cid")
	assert.Equal(t, fault.InvalidHash, err, "wrong error")
}

func TestValidate(t *testing.T) {
	a, _ := address.Compute([]byte("valid"))
	assert.Nil(t, address.Validate(a), "wrong error for valid address")
	assert.Equal(t, fault.InvalidHash, address.Validate(nil), "wrong error for empty address")
	assert.Equal(t, fault.InvalidHash, address.Validate([]byte{0xff, 0xff}), "wrong error for junk")
}

func TestLess(t *testing.T) {
	assert.True(t, address.Less([]byte{1, 2}, []byte{1, 3}), "wrong order")
	assert.False(t, address.Less([]byte{1, 3}, []byte{1, 2}), "wrong order")
	assert.False(t, address.Less([]byte{1, 2}, []byte{1, 2}), "equal is not less")
	assert.True(t, address.Less([]byte{1}, []byte{1, 0}), "prefix should be less")
}
