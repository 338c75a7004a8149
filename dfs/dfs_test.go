// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dfs_test

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/dfs"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/fixtures"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func newStore(t *testing.T) *dfs.LevelDB {
	d, err := dfs.OpenInMemory(logger.New(fixtures.LogCategory))
	assert.Nil(t, err, "open error")
	return d
}

func TestWriteThenRead(t *testing.T) {
	d := newStore(t)
	defer d.Close()

	content := []byte("delta content")
	hash, err := d.Write(context.Background(), bytes.NewReader(content))
	assert.Nil(t, err, "wrong write error")

	expected, _ := address.Compute(content)
	assert.Equal(t, expected, hash, "wrong address")
	assert.True(t, d.Has(hash), "content missing")

	r, err := d.ReadByHash(context.Background(), hash)
	assert.Nil(t, err, "wrong read error")
	defer r.Close()

	read, _ := ioutil.ReadAll(r)
	assert.Equal(t, content, read, "wrong content")
}

func TestReadMissing(t *testing.T) {
	d := newStore(t)
	defer d.Close()

	_, err := d.ReadByHash(context.Background(), fixtures.Hash("missing"))
	assert.Equal(t, fault.DeltaNotFound, err, "wrong error")
}

func TestReadInvalidHash(t *testing.T) {
	d := newStore(t)
	defer d.Close()

	_, err := d.ReadByHash(context.Background(), []byte{0xff, 0xff})
	assert.Equal(t, fault.InvalidHash, err, "wrong error")
}

func TestCancelledContext(t *testing.T) {
	d := newStore(t)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Write(ctx, bytes.NewReader([]byte("x")))
	assert.True(t, errors.Is(err, context.Canceled), "wrong write error")

	_, err = d.ReadByHash(ctx, fixtures.Hash("x"))
	assert.True(t, errors.Is(err, context.Canceled), "wrong read error")
}

func TestClosed(t *testing.T) {
	d := newStore(t)
	assert.Nil(t, d.Close(), "wrong close error")
	assert.Equal(t, fault.NotInitialised, d.Close(), "wrong second close error")

	_, err := d.Write(context.Background(), bytes.NewReader([]byte("x")))
	assert.Equal(t, fault.NotInitialised, err, "wrong write error")
}
