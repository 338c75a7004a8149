// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/deltad/fault"
)

func TestReadTransaction(t *testing.T) {
	text := `{"signature": "AQI=", "fee": 5, "timestamp": 100, "entries": [{"amount": 3}]}`

	tx, err := readTransaction(strings.NewReader(text))
	assert.Nil(t, err, "wrong read error")
	assert.Equal(t, []byte{1, 2}, tx.Signature, "wrong signature")
	assert.Equal(t, uint64(5), tx.Fee, "wrong fee")
	assert.Equal(t, int64(100), tx.Timestamp, "wrong timestamp")
	assert.Equal(t, 1, len(tx.Entries), "wrong entries")
	assert.Equal(t, uint64(3), tx.Entries[0].Amount, "wrong amount")
}

func TestReadTransactionErrors(t *testing.T) {
	_, err := readTransaction(strings.NewReader(`{"fee": 5}`))
	assert.Equal(t, fault.MissingParameters, err, "unsigned transaction accepted")

	_, err = readTransaction(strings.NewReader(`{"fee": `))
	assert.NotNil(t, err, "bad JSON accepted")
}

func TestReadTransactions(t *testing.T) {
	text := `[{"signature": "AQI=", "fee": 5}, {"signature": "AwQ=", "fee": 2}]`

	txs, err := readTransactions(strings.NewReader(text))
	assert.Nil(t, err, "wrong read error")
	assert.Equal(t, 2, len(txs), "wrong transaction count")
	assert.Equal(t, []byte{3, 4}, txs[1].Signature, "wrong second signature")

	_, err = readTransactions(strings.NewReader(`[]`))
	assert.Equal(t, fault.MissingParameters, err, "empty batch accepted")

	_, err = readTransactions(strings.NewReader(`[{"signature": "AQI="}, {"fee": 1}]`))
	assert.Equal(t, fault.MissingParameters, err, "unsigned transaction accepted")
}

func TestPrintJson(t *testing.T) {
	var out bytes.Buffer
	err := printJson(&out, map[string]int{"pending": 2})
	assert.Nil(t, err, "wrong print error")
	assert.Equal(t, "{\n  \"pending\": 2\n}\n", out.String(), "wrong output")
}
