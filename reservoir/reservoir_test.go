// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/fixtures"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/reservoir"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestStoreAndContains(t *testing.T) {
	r := reservoir.New(logger.New(fixtures.LogCategory), 0)

	tx := fixtures.Transaction("sig-1", 10, 1, 0)
	assert.Nil(t, r.Store(tx), "wrong error")
	assert.True(t, r.Contains(tx.Signature), "stored transaction missing")
	assert.False(t, r.Contains([]byte("sig-2")), "unknown transaction present")

	assert.Equal(t, fault.AlreadyExists, r.Store(tx), "duplicate accepted")
	assert.Equal(t, 1, r.Len(), "wrong length")

	all := r.GetAll()
	assert.Equal(t, 1, len(all), "wrong GetAll length")
	assert.Equal(t, tx, all[0], "wrong transaction")
}

func TestStoreRejectsInvalid(t *testing.T) {
	r := reservoir.New(logger.New(fixtures.LogCategory), 0)

	assert.Equal(t, fault.InvalidTransaction, r.Store(nil), "nil accepted")
	assert.Equal(t, fault.InvalidTransaction, r.Store(&protocol.Transaction{Signature: []byte("s")}), "no entries accepted")
	assert.Equal(t, 0, r.Len(), "wrong length")
}

func TestStoreFull(t *testing.T) {
	r := reservoir.New(logger.New(fixtures.LogCategory), 2)

	assert.Nil(t, r.Store(fixtures.Transaction("a", 1, 1, 0)), "wrong error")
	assert.Nil(t, r.Store(fixtures.Transaction("b", 1, 1, 0)), "wrong error")
	assert.Equal(t, fault.ReservoirFull, r.Store(fixtures.Transaction("c", 1, 1, 0)), "overflow accepted")
}

func TestDeleteIncluded(t *testing.T) {
	r := reservoir.New(logger.New(fixtures.LogCategory), 0)

	a := fixtures.Transaction("a", 1, 1, 0)
	b := fixtures.Transaction("b", 2, 1, 0)
	assert.Nil(t, r.Store(a), "wrong error")
	assert.Nil(t, r.Store(b), "wrong error")

	d := &protocol.Delta{
		PublicEntries: []*protocol.Transaction{a, fixtures.Transaction("unknown", 1, 1, 0), nil},
	}
	assert.Equal(t, 1, r.DeleteIncluded(d), "wrong removed count")
	assert.False(t, r.Contains(a.Signature), "included transaction kept")
	assert.True(t, r.Contains(b.Signature), "pending transaction removed")
	assert.Equal(t, 0, r.DeleteIncluded(nil), "wrong count for nil")
}
