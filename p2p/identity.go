// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"io/ioutil"
	"os"

	crypto "github.com/libp2p/go-libp2p-core/crypto"
	peerlib "github.com/libp2p/go-libp2p-core/peer"

	"github.com/bitmark-inc/deltad/fault"
)

// GenRandPrvKey - generate a random private key
func GenRandPrvKey() (crypto.PrivKey, error) {
	prvKey, _, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, err
	}
	return prvKey, nil
}

// EncodePrvKeyToHex - hex encoded form of a private key
func EncodePrvKeyToHex(prvKey crypto.PrivKey) ([]byte, error) {
	marshalKey, err := crypto.MarshalPrivateKey(prvKey)
	if err != nil {
		return nil, err
	}
	hexEncodeKey := make([]byte, hex.EncodedLen(len(marshalKey)))
	hex.Encode(hexEncodeKey, marshalKey)
	return hexEncodeKey, nil
}

// DecodeHexToPrvKey - private key from its hex encoded form
func DecodeHexToPrvKey(prvKey []byte) (crypto.PrivKey, error) {
	prvKey = bytes.TrimSpace(prvKey)
	hexDecodeKey := make([]byte, hex.DecodedLen(len(prvKey)))
	_, err := hex.Decode(hexDecodeKey, prvKey)
	if err != nil {
		return nil, err
	}
	return crypto.UnmarshalPrivateKey(hexDecodeKey)
}

// ReadPrvKeyFile - load a hex encoded private key
func ReadPrvKeyFile(fileName string) (crypto.PrivKey, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return DecodeHexToPrvKey(data)
}

// WritePrvKeyFile - create a new private key file, never overwriting
func WritePrvKeyFile(fileName string) (crypto.PrivKey, error) {
	if _, err := os.Stat(fileName); nil == err {
		return nil, fault.AlreadyExists
	}

	prvKey, err := GenRandPrvKey()
	if nil != err {
		return nil, err
	}
	encoded, err := EncodePrvKeyToHex(prvKey)
	if nil != err {
		return nil, err
	}
	if err := ioutil.WriteFile(fileName, append(encoded, '\n'), 0600); nil != err {
		return nil, err
	}
	return prvKey, nil
}

// IDFromPrvKey - the peer id bytes used as producer and voter id
func IDFromPrvKey(prvKey crypto.PrivKey) ([]byte, error) {
	if nil == prvKey {
		return nil, fault.ArgumentNull
	}
	id, err := peerlib.IDFromPrivateKey(prvKey)
	if nil != err {
		return nil, err
	}
	return []byte(id), nil
}

// DecodePeerIDs - producer ids from their base58 text form
func DecodePeerIDs(ids []string) ([][]byte, error) {
	decoded := make([][]byte, 0, len(ids))
	for _, s := range ids {
		id, err := peerlib.IDB58Decode(s)
		if nil != err {
			return nil, fault.InvalidPeerID
		}
		decoded = append(decoded, []byte(id))
	}
	return decoded, nil
}
