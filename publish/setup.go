// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - announce new chain heads to local subscribers on
// a ZeroMQ PUB socket
package publish

import (
	"encoding/binary"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/fault"
)

// TopicHead - first frame of every head message
const TopicHead = "head"

const (
	zapDomain         = "publish"
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
)

// Configuration - publish section of the configuration file; keys are
// optional, without them the socket is not encrypted
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// HeadSource - stream of new chain heads
type HeadSource interface {
	Subscribe() (<-chan []byte, func())
}

// Publisher - background process sending each new head as
// [TopicHead, hash, unix nanoseconds]
type Publisher struct {
	log    *logger.L
	socket *zmq.Socket
	heads  HeadSource
	now    func() time.Time
	sent   counter.Counter
	failed counter.Counter
}

// New - bind the publishing socket
func New(log *logger.L, configuration *Configuration, heads HeadSource) (*Publisher, error) {
	if nil == configuration || nil == heads {
		return nil, fault.ArgumentNull
	}
	if 0 == len(configuration.Broadcast) {
		return nil, fault.MissingParameters
	}

	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		return nil, err
	}
	socket.SetLinger(0)

	if "" != configuration.PrivateKey {
		if err := curveServer(socket, configuration); nil != err {
			log.Errorf("publish keys error: %s", err)
			socket.Close()
			return nil, err
		}
	}

	socket.SetHeartbeatIvl(heartbeatInterval)
	socket.SetHeartbeatTimeout(heartbeatTimeout)
	socket.SetHeartbeatTtl(heartbeatTTL)

	for i, endpoint := range configuration.Broadcast {
		if err := socket.Bind(endpoint); nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, endpoint, err)
			socket.Close()
			return nil, err
		}
		log.Infof("bind[%d]: %q", i, endpoint)
	}

	return &Publisher{
		log:    log,
		socket: socket,
		heads:  heads,
		now:    time.Now,
	}, nil
}

func curveServer(socket *zmq.Socket, configuration *Configuration) error {
	privateKey, err := ReadPrivateKeyFile(configuration.PrivateKey)
	if nil != err {
		return err
	}
	publicKey, err := ReadPublicKeyFile(configuration.PublicKey)
	if nil != err {
		return err
	}
	if err := startAuthentication(); nil != err {
		return err
	}

	zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)
	if err := socket.SetCurveServer(1); nil != err {
		return err
	}
	if err := socket.SetCurveSecretkey(string(privateKey)); nil != err {
		return err
	}
	if err := socket.SetZapDomain(zapDomain); nil != err {
		return err
	}
	return socket.SetIdentity(string(publicKey))
}

// Run - background processing interface
func (p *Publisher) Run(_ interface{}, shutdown <-chan struct{}) {
	log := p.log
	log.Info("starting…")

	queue, cancel := p.heads.Subscribe()
	defer cancel()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case hash, ok := <-queue:
			if !ok {
				break loop
			}
			p.send(hash)
		}
	}

	p.socket.Close()
	log.Info("stopped")
}

// subscribers that are not keeping up lose messages
func (p *Publisher) send(hash []byte) {
	stamp := make([]byte, 8)
	binary.BigEndian.PutUint64(stamp, uint64(p.now().UnixNano()))

	_, err := p.socket.SendMessageDontwait(TopicHead, hash, stamp)
	if nil != err {
		p.failed.Increment()
		p.log.Warnf("send head: %s  error: %s", address.String(hash), err)
		return
	}
	p.sent.Increment()
	p.log.Debugf("sent head: %s", address.String(hash))
}

// Sent - number of heads published
func (p *Publisher) Sent() uint64 {
	return p.sent.Uint64()
}

// Failed - number of heads that could not be queued
func (p *Publisher) Failed() uint64 {
	return p.failed.Uint64()
}
