// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/background"
	"github.com/bitmark-inc/deltad/fault"
)

// startup peers can be published as DNS TXT records on a seed domain:
//   txt-record=seeds.example.org,"deltad=v1 p=/ip4/1.2.3.4/tcp/2136/p2p/<id>"

const (
	seedTag         = "deltad=v1"
	seedAddressTag  = "p="
	maxSeedInterval = time.Hour
	minSeedInterval = time.Minute
	resolvConf      = "/etc/resolv.conf"
	maxNameServers  = 3
)

// Connector - something that can dial peer addresses
type Connector interface {
	Connect(addrs []string) int
}

// LookupFunc - TXT strings for a domain and the smallest record TTL
type LookupFunc func(domain string) ([]string, uint32, error)

type seeds struct {
	log       *logger.L
	domain    string
	connector Connector
	lookup    LookupFunc
}

// NewSeeds - background process dialling peers listed in the seed
// domain, repeated as the records expire; lookup may be nil to query
// the system name servers
func NewSeeds(log *logger.L, domain string, connector Connector, lookup LookupFunc) background.Process {
	if nil == lookup {
		lookup = LookupTXT
	}
	return &seeds{
		log:       log,
		domain:    domain,
		connector: connector,
		lookup:    lookup,
	}
}

// Run - background processing interface
func (s *seeds) Run(_ interface{}, shutdown <-chan struct{}) {
	timer := time.After(0)

loop:
	for {
		select {
		case <-timer:
			timer = time.After(s.refresh())
		case <-shutdown:
			break loop
		}
	}
}

// look the domain up, connect, and return the time to the next lookup
func (s *seeds) refresh() time.Duration {
	txts, ttl, err := s.lookup(s.domain)
	if nil != err {
		s.log.Warnf("seed domain: %s  error: %s", s.domain, err)
		return minSeedInterval
	}

	addrs := make([]string, 0, len(txts))
	for i, t := range txts {
		a, ok := ParseSeed(t)
		if !ok {
			s.log.Debugf("result[%d]: ignoring invalid record", i)
			continue
		}
		addrs = append(addrs, a)
	}

	n := s.connector.Connect(addrs)
	s.log.Infof("seed domain: %s  records: %d  connected: %d", s.domain, len(addrs), n)

	interval := time.Duration(ttl) * time.Second
	if interval > maxSeedInterval || 0 == interval {
		interval = maxSeedInterval
	}
	if interval < minSeedInterval {
		interval = minSeedInterval
	}
	return interval
}

// ParseSeed - peer address from a seed TXT record
func ParseSeed(txt string) (string, bool) {
	fields := strings.Fields(txt)
	if 0 == len(fields) || seedTag != fields[0] {
		return "", false
	}
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, seedAddressTag) && len(f) > len(seedAddressTag) {
			return f[len(seedAddressTag):], true
		}
	}
	return "", false
}

// LookupTXT - query the system name servers for TXT records
func LookupTXT(domain string) ([]string, uint32, error) {
	conf, err := dns.ClientConfigFromFile(resolvConf)
	if nil != err {
		return nil, 0, err
	}

	servers := conf.Servers
	if len(servers) > maxNameServers {
		servers = servers[:maxNameServers]
	}

	for _, server := range servers {
		c := dns.Client{}
		msg := dns.Msg{}
		msg.SetQuestion(dns.Fqdn(domain), dns.TypeTXT)

		r, _, err := c.Exchange(&msg, net.JoinHostPort(server, conf.Port))
		if nil != err || nil == r || 0 == len(r.Answer) {
			continue
		}

		txts := make([]string, 0, len(r.Answer))
		ttl := uint32(0)
		for _, rr := range r.Answer {
			t, ok := rr.(*dns.TXT)
			if !ok {
				continue
			}
			txts = append(txts, strings.Join(t.Txt, ""))
			if 0 == ttl || t.Hdr.Ttl < ttl {
				ttl = t.Hdr.Ttl
			}
		}
		return txts, ttl, nil
	}
	return nil, 0, fault.NotFound
}
