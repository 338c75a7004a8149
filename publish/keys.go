// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"
	"sync"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/deltad/fault"
)

const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
	keyLength     = 32
)

var oneTimeAuthStart sync.Once
var authStartErr error

// curve authentication handler is process wide
func startAuthentication() error {
	oneTimeAuthStart.Do(func() {
		zmq.AuthSetVerbose(false)
		authStartErr = zmq.AuthStart()
	})
	return authStartErr
}

// MakeKeyPair - create a curve key pair as two tagged hex files,
// neither file may already exist
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	for _, name := range []string{publicKeyFileName, privateKeyFileName} {
		if _, err := os.Stat(name); nil == err {
			return fault.AlreadyExists
		}
	}

	publicKey, privateKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	public := taggedPublic + hex.EncodeToString([]byte(zmq.Z85decode(publicKey))) + "\n"
	private := taggedPrivate + hex.EncodeToString([]byte(zmq.Z85decode(privateKey))) + "\n"

	if err := ioutil.WriteFile(publicKeyFileName, []byte(public), 0666); nil != err {
		return err
	}
	if err := ioutil.WriteFile(privateKeyFileName, []byte(private), 0600); nil != err {
		os.Remove(publicKeyFileName)
		return err
	}
	return nil
}

// ReadPublicKeyFile - 32 byte public key from a tagged file
func ReadPublicKeyFile(fileName string) ([]byte, error) {
	key, private, err := readKeyFile(fileName)
	if nil != err {
		return nil, err
	}
	if private {
		return nil, fault.InvalidData
	}
	return key, nil
}

// ReadPrivateKeyFile - 32 byte private key from a tagged file
func ReadPrivateKeyFile(fileName string) ([]byte, error) {
	key, private, err := readKeyFile(fileName)
	if nil != err {
		return nil, err
	}
	if !private {
		return nil, fault.InvalidData
	}
	return key, nil
}

func readKeyFile(fileName string) ([]byte, bool, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, false, err
	}
	return ParseKey(string(data))
}

// ParseKey - decode a tagged key, reporting whether it is private
func ParseKey(data string) ([]byte, bool, error) {
	s := strings.TrimSpace(data)

	private := false
	switch {
	case strings.HasPrefix(s, taggedPrivate):
		s = s[len(taggedPrivate):]
		private = true
	case strings.HasPrefix(s, taggedPublic):
		s = s[len(taggedPublic):]
	default:
		return nil, false, fault.InvalidData
	}

	key, err := hex.DecodeString(s)
	if nil != err {
		return nil, false, fault.InvalidData
	}
	if keyLength != len(key) {
		return nil, false, fault.InvalidData
	}
	return key, private, nil
}
