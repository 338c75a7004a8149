// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"context"
	"fmt"
	"time"

	proto "github.com/gogo/protobuf/proto"
	libp2p "github.com/libp2p/go-libp2p"
	connmgr "github.com/libp2p/go-libp2p-connmgr"
	crypto "github.com/libp2p/go-libp2p-core/crypto"
	"github.com/libp2p/go-libp2p-core/host"
	peerlib "github.com/libp2p/go-libp2p-core/peer"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	tls "github.com/libp2p/go-libp2p-tls"
	ma "github.com/multiformats/go-multiaddr"
	madns "github.com/multiformats/go-multiaddr-dns"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/dfs"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/limitedset"
	"github.com/bitmark-inc/deltad/messagebus"
	"github.com/bitmark-inc/deltad/protocol"
)

// defaults
const (
	DefaultTopic     = "deltad/consensus/1"
	replayFilterSize = 10000
	connectTimeout   = 10 * time.Second
	defaultLowWater  = 16
	defaultHighWater = 64
	connGracePeriod  = time.Minute
)

// Configuration - peering section of the configuration file
type Configuration struct {
	Listen     []string `gluamapper:"listen" json:"listen"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	Connect    []string `gluamapper:"connect" json:"connect"`
	SeedDomain string   `gluamapper:"seed_domain" json:"seed_domain"`
	Topic      string   `gluamapper:"topic" json:"topic"`
	LowWater   int      `gluamapper:"low_water" json:"low_water"`
	HighWater  int      `gluamapper:"high_water" json:"high_water"`
}

// Counts - gossip counters
type Counts struct {
	Received   counter.Counter
	Duplicates counter.Counter
	Invalid    counter.Counter
	Dropped    counter.Counter
	Sent       counter.Counter
}

// Node - libp2p host joined to the consensus topic
type Node struct {
	log    *logger.L
	host   host.Host
	pubsub *pubsub.PubSub
	sub    *pubsub.Subscription
	topic  string
	bus    *messagebus.BusType
	filter *limitedset.LimitedSet
	store  dfs.Store
	counts Counts
}

// New - start a host listening on the configured addresses; store is
// the local DFS served to peers
func New(log *logger.L, configuration *Configuration, prvKey crypto.PrivKey, bus *messagebus.BusType, store dfs.Store) (*Node, error) {
	if nil == configuration || nil == prvKey || nil == bus || nil == store {
		return nil, fault.ArgumentNull
	}

	listen := make([]ma.Multiaddr, 0, len(configuration.Listen))
	for _, s := range configuration.Listen {
		a, err := ma.NewMultiaddr(s)
		if nil != err {
			log.Errorf("invalid listen address: %q  error: %s", s, err)
			return nil, err
		}
		listen = append(listen, a)
	}

	low := configuration.LowWater
	if low <= 0 {
		low = defaultLowWater
	}
	high := configuration.HighWater
	if high <= low {
		high = low + defaultHighWater - defaultLowWater
	}

	options := []libp2p.Option{
		libp2p.Identity(prvKey),
		libp2p.Security(tls.ID, tls.New),
		libp2p.ListenAddrs(listen...),
		libp2p.ConnectionManager(connmgr.NewConnManager(low, high, connGracePeriod)),
	}
	h, err := libp2p.New(context.Background(), options...)
	if nil != err {
		return nil, err
	}
	for _, a := range h.Addrs() {
		log.Infof("host address: %s/p2p/%s", a, h.ID())
	}

	ps, err := pubsub.NewGossipSub(context.Background(), h)
	if nil != err {
		_ = h.Close()
		return nil, err
	}

	topic := configuration.Topic
	if "" == topic {
		topic = DefaultTopic
	}
	sub, err := ps.Subscribe(topic)
	if nil != err {
		_ = h.Close()
		return nil, err
	}

	n := &Node{
		log:    log,
		host:   h,
		pubsub: ps,
		sub:    sub,
		topic:  topic,
		bus:    bus,
		filter: limitedset.New(replayFilterSize),
		store:  store,
	}
	h.SetStreamHandler(FetchProtocol, n.handleFetch)

	return n, nil
}

// ID - this node's peer id bytes
func (n *Node) ID() []byte {
	return []byte(n.host.ID())
}

// Addrs - full addresses other nodes can connect to
func (n *Node) Addrs() []string {
	addrs := make([]string, 0, len(n.host.Addrs()))
	for _, a := range n.host.Addrs() {
		addrs = append(addrs, fmt.Sprintf("%s/p2p/%s", a, n.host.ID()))
	}
	return addrs
}

// PeerCount - number of connected peers
func (n *Node) PeerCount() int {
	return len(n.host.Network().Peers())
}

// Counts - gossip counters
func (n *Node) Counts() *Counts {
	return &n.counts
}

// Connect - dial peers given as multiaddrs ending in /p2p/<id>; dns
// components are resolved first
func (n *Node) Connect(addrs []string) int {
	connected := 0
	for _, s := range addrs {
		a, err := ma.NewMultiaddr(s)
		if nil != err {
			n.log.Warnf("invalid peer address: %q  error: %s", s, err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		resolved := []ma.Multiaddr{a}
		if madns.Matches(a) {
			resolved, err = madns.Resolve(ctx, a)
			if nil != err {
				cancel()
				n.log.Warnf("resolve: %q  error: %s", s, err)
				continue
			}
		}

		for _, r := range resolved {
			info, err := peerlib.AddrInfoFromP2pAddr(r)
			if nil != err {
				n.log.Warnf("peer address: %s  error: %s", r, err)
				continue
			}
			if info.ID == n.host.ID() {
				continue
			}
			if err := n.host.Connect(ctx, *info); nil != err {
				n.log.Warnf("connect: %s  error: %s", r, err)
				continue
			}
			n.log.Infof("connected to: %s", info.ID)
			connected += 1
			break
		}
		cancel()
	}
	return connected
}

// Broadcast - publish an envelope to the topic
func (n *Node) Broadcast(m *protocol.BusMessage) error {
	if nil == m {
		return fault.ArgumentNull
	}
	data, err := proto.Marshal(m)
	if nil != err {
		return err
	}

	// our own copy is delivered back by the topic
	n.filter.Seen(digest(data))

	if err := n.pubsub.Publish(n.topic, data); nil != err {
		return err
	}
	n.counts.Sent.Increment()
	n.log.Debugf("broadcast: %s  bytes: %d", m.Command, len(data))
	return nil
}

// Close - leave the topic and shut the host down
func (n *Node) Close() error {
	n.sub.Cancel()
	return n.host.Close()
}
