// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate_test

import (
	"crypto/tls"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/fixtures"
	"github.com/bitmark-inc/deltad/rpc/certificate"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestMakeSelfSignedThenLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "certificate")
	assert.Nil(t, err, "wrong temp dir error")
	defer os.RemoveAll(dir)

	cer := filepath.Join(dir, "rpc.crt")
	key := filepath.Join(dir, "rpc.key")

	err = certificate.MakeSelfSigned("test", cer, key, []string{"127.0.0.1"})
	assert.Nil(t, err, "wrong MakeSelfSigned")

	err = certificate.MakeSelfSigned("test", cer, key, nil)
	assert.Equal(t, fault.AlreadyExists, err, "certificate overwritten")

	tlsConfig, fingerprint, err := certificate.Load(logger.New(fixtures.LogCategory), "test", cer, key)
	assert.Nil(t, err, "wrong Load")

	pair, _ := tls.LoadX509KeyPair(cer, key)
	assert.Equal(t, sha3.Sum256(pair.Certificate[0]), fingerprint, "wrong fingerprint")
	assert.Equal(t, pair.Certificate, tlsConfig.Certificates[0].Certificate, "wrong config")
}

func TestGetInvalid(t *testing.T) {
	_, _, err := certificate.Get(logger.New(fixtures.LogCategory), "test", "not a certificate", "not a key")
	assert.NotNil(t, err, "invalid pair accepted")
}

func TestLoadMissing(t *testing.T) {
	_, _, err := certificate.Load(logger.New(fixtures.LogCategory), "test", "/nonexistent/rpc.crt", "/nonexistent/rpc.key")
	assert.NotNil(t, err, "missing files accepted")
}
