// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish_test

import (
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	zmq "github.com/pebbe/zmq4"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/background"
	"github.com/bitmark-inc/deltad/chainhead"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/fixtures"
	"github.com/bitmark-inc/deltad/genesis"
	"github.com/bitmark-inc/deltad/publish"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestNewRequiresBroadcast(t *testing.T) {
	heads := chainhead.New(logger.New(fixtures.LogCategory), 0, time.Now)

	_, err := publish.New(logger.New(fixtures.LogCategory), &publish.Configuration{}, heads)
	assert.Equal(t, fault.MissingParameters, err, "wrong error")

	_, err = publish.New(logger.New(fixtures.LogCategory), nil, heads)
	assert.Equal(t, fault.ArgumentNull, err, "wrong nil error")
}

func TestPublishesNewHeads(t *testing.T) {
	endpoint := "inproc://publish-heads-test"
	heads := chainhead.New(logger.New(fixtures.LogCategory), 0, time.Now)

	p, err := publish.New(logger.New(fixtures.LogCategory), &publish.Configuration{Broadcast: []string{endpoint}}, heads)
	assert.Nil(t, err, "wrong error")

	processes := background.Start(background.Processes{p}, nil)
	defer processes.Stop()

	sub, err := zmq.NewSocket(zmq.SUB)
	assert.Nil(t, err, "wrong socket error")
	defer sub.Close()
	assert.Nil(t, sub.SetSubscribe(publish.TopicHead), "wrong subscribe error")
	assert.Nil(t, sub.SetRcvtimeo(100*time.Millisecond), "wrong timeout error")
	assert.Nil(t, sub.Connect(endpoint), "wrong connect error")

	// a subscription takes a moment to reach the publisher so keep
	// advancing the chain until something arrives
	previous := genesis.Hash()
	var received [][]byte
	for i := 0; i < 50 && nil == received; i += 1 {
		next := fixtures.Hash(fmt.Sprintf("head-%d", i))
		assert.True(t, heads.TryUpdateLatest(previous, next), "head not advanced")
		previous = next

		parts, err := sub.RecvMessageBytes(0)
		if nil == err {
			received = parts
		}
	}

	assert.Equal(t, 3, len(received), "wrong frame count")
	assert.Equal(t, []byte(publish.TopicHead), received[0], "wrong topic")
	assert.Equal(t, 8, len(received[2]), "wrong timestamp size")
	assert.NotEqual(t, uint64(0), binary.BigEndian.Uint64(received[2]), "missing timestamp")
	assert.True(t, p.Sent() > 0, "nothing counted as sent")
}

func TestKeyFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "publish-keys")
	assert.Nil(t, err, "wrong temp dir error")
	defer os.RemoveAll(dir)

	public := filepath.Join(dir, "publish.public")
	private := filepath.Join(dir, "publish.private")

	assert.Nil(t, publish.MakeKeyPair(public, private), "wrong make error")
	assert.Equal(t, fault.AlreadyExists, publish.MakeKeyPair(public, private), "key files overwritten")

	publicKey, err := publish.ReadPublicKeyFile(public)
	assert.Nil(t, err, "wrong public read error")
	assert.Equal(t, 32, len(publicKey), "wrong public key size")

	privateKey, err := publish.ReadPrivateKeyFile(private)
	assert.Nil(t, err, "wrong private read error")
	assert.Equal(t, 32, len(privateKey), "wrong private key size")

	_, err = publish.ReadPublicKeyFile(private)
	assert.Equal(t, fault.InvalidData, err, "private key accepted as public")
}

func TestParseKey(t *testing.T) {
	items := []struct {
		text    string
		private bool
		err     error
	}{
		{"PUBLIC:" + hex32('a'), false, nil},
		{"  PRIVATE:" + hex32('b') + "\n", true, nil},
		{"PUBLIC:abcd", false, fault.InvalidData},
		{"PUBLIC:zz" + hex32('a')[2:], false, fault.InvalidData},
		{hex32('a'), false, fault.InvalidData},
	}

	for i, item := range items {
		_, private, err := publish.ParseKey(item.text)
		assert.Equal(t, item.err, err, "%d: wrong error", i)
		assert.Equal(t, item.private, private, "%d: wrong private flag", i)
	}
}

func hex32(c byte) string {
	b := make([]byte, 64)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
