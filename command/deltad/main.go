// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/background"
	"github.com/bitmark-inc/deltad/builder"
	"github.com/bitmark-inc/deltad/chaincache"
	"github.com/bitmark-inc/deltad/chainhead"
	"github.com/bitmark-inc/deltad/consensus"
	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/cycle"
	"github.com/bitmark-inc/deltad/dfs"
	"github.com/bitmark-inc/deltad/elector"
	"github.com/bitmark-inc/deltad/hub"
	"github.com/bitmark-inc/deltad/messagebus"
	"github.com/bitmark-inc/deltad/metrics"
	"github.com/bitmark-inc/deltad/observer"
	"github.com/bitmark-inc/deltad/p2p"
	"github.com/bitmark-inc/deltad/producers"
	"github.com/bitmark-inc/deltad/protocol"
	"github.com/bitmark-inc/deltad/publish"
	"github.com/bitmark-inc/deltad/reservoir"
	"github.com/bitmark-inc/deltad/rpc/certificate"
	"github.com/bitmark-inc/deltad/rpc/listeners"
	"github.com/bitmark-inc/deltad/rpc/server"
	"github.com/bitmark-inc/deltad/selector"
	"github.com/bitmark-inc/deltad/voter"
)

// size of each inbound message queue
const busQueueSize = 1000

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// connection info
	log.Infof("database: %q", theConfiguration.Database.Name)
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "Peering", theConfiguration.Peering)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)

	// identity of this node
	prvKey, err := p2p.ReadPrvKeyFile(theConfiguration.Peering.PrivateKey)
	if nil != err {
		log.Criticalf("peer private key: %q  error: %s", theConfiguration.Peering.PrivateKey, err)
		exitwithstatus.Message("peer private key: %q  error: %s", theConfiguration.Peering.PrivateKey, err)
	}
	self, err := p2p.IDFromPrvKey(prvKey)
	if nil != err {
		log.Criticalf("peer id error: %s", err)
		exitwithstatus.Message("peer id error: %s", err)
	}
	log.Infof("peer id: %s", protocol.PeerString(self))

	// start the data storage
	log.Info("initialise storage")
	store, err := dfs.Open(logger.New("dfs"), theConfiguration.Database.Name)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	// ranked producers
	peers, err := producers.ReadFile(theConfiguration.Producers.File)
	if nil != err {
		log.Criticalf("producers file: %q  error: %s", theConfiguration.Producers.File, err)
		exitwithstatus.Message("producers file: %q  error: %s", theConfiguration.Producers.File, err)
	}
	ranked, err := producers.New(logger.New("producers"), peers, theConfiguration.Producers.Count)
	if nil != err {
		log.Criticalf("producers initialise error: %s", err)
		exitwithstatus.Message("producers initialise error: %s", err)
	}
	watcher, err := producers.NewWatcher(logger.New("producers-watcher"), theConfiguration.Producers.File, ranked)
	if nil != err {
		log.Criticalf("producers watcher error: %s", err)
		exitwithstatus.Message("producers watcher error: %s", err)
	}

	// peer to peer network
	log.Info("initialise peering")
	bus := messagebus.New(busQueueSize)
	node, err := p2p.New(logger.New("p2p"), &theConfiguration.Peering, prvKey, bus, store)
	if nil != err {
		log.Criticalf("peer initialise error: %s", err)
		exitwithstatus.Message("peer initialise error: %s", err)
	}
	defer node.Close()

	// local store falling back to peers
	networked := dfs.NewNetworked(logger.New("dfs-network"), store, node)

	// chain state
	ttl := time.Duration(theConfiguration.Cache.ConfirmedTTL) * time.Second
	cache, err := chaincache.New(logger.New("chaincache"), networked, chaincache.NewTTLTokens(ttl, nil), theConfiguration.Cache.LocalSize)
	if nil != err {
		log.Criticalf("chain cache initialise error: %s", err)
		exitwithstatus.Message("chain cache initialise error: %s", err)
	}
	cache.Start()
	defer cache.Stop()

	heads := chainhead.New(logger.New("chainhead"), theConfiguration.Cache.HeadCapacity, nil)
	pool := reservoir.New(logger.New("reservoir"), theConfiguration.ReservoirSize)

	// consensus pipeline
	bld := builder.New(logger.New("builder"), selector.New(logger.New("selector"), pool), cache, self, nil)
	vtr := voter.New(logger.New("voter"), ranked, self)
	elc := elector.New(logger.New("elector"), ranked)
	hb := hub.New(logger.New("hub"), node, store, self, hub.DefaultRetryPolicy)

	provider, err := cycle.NewProvider(logger.New("cycle"), cycle.DefaultConfiguration(), heads, nil)
	if nil != err {
		log.Criticalf("cycle initialise error: %s", err)
		exitwithstatus.Message("cycle initialise error: %s", err)
	}

	machine := consensus.NewMachine(logger.New("consensus"), self, provider.Configuration(), provider.Events(), consensus.Components{
		Producers: ranked,
		Builder:   bld,
		Voter:     vtr,
		Elector:   elc,
		Hub:       hb,
		Cache:     cache,
		Heads:     heads,
		Pool:      pool,
	})

	// inbound message handling
	counts := inboundCounts{}
	workers := background.Processes{
		observer.NewWorker(logger.New("candidates"), bus.Candidates,
			observer.NewCandidate(vtr, &counts.candidates, logger.New("observer"))),
		observer.NewWorker(logger.New("favourites"), bus.Favourites,
			observer.NewFavourite(elc, &counts.favourites, logger.New("observer"))),
		observer.NewWorker(logger.New("deltahashes"), bus.DeltaHashes,
			observer.NewDeltaHash(machine, &counts.deltaHashes, logger.New("observer"))),
		observer.NewWorker(logger.New("transactions"), bus.Transactions,
			observer.NewTransaction(pool, &counts.transactions, logger.New("observer"))),
	}

	processes := background.Processes{
		node,
		provider,
		machine,
		watcher,
	}
	processes = append(processes, workers...)

	if "" != theConfiguration.Peering.SeedDomain {
		processes = append(processes, p2p.NewSeeds(logger.New("seeds"), theConfiguration.Peering.SeedDomain, node, nil))
	}

	// optional head publisher
	var publisher *publish.Publisher
	if 0 != len(theConfiguration.Publishing.Broadcast) {
		log.Info("initialise publish")
		publisher, err = publish.New(logger.New("publish"), &theConfiguration.Publishing, heads)
		if nil != err {
			log.Criticalf("publish initialise error: %s", err)
			exitwithstatus.Message("publish initialise error: %s", err)
		}
		processes = append(processes, publisher)
	}

	// client RPC
	log.Info("initialise rpc")
	rpcCount := counter.Counter(0)
	tlsConfiguration, fingerprint, err := certificate.Load(logger.New("certificate"), "rpc", theConfiguration.ClientRPC.Certificate, theConfiguration.ClientRPC.PrivateKey)
	if nil != err {
		log.Criticalf("rpc certificate error: %s", err)
		exitwithstatus.Message("rpc certificate error: %s", err)
	}
	rpcLog := logger.New("rpc")
	rpcServer := server.Create(rpcLog, version, &rpcCount, server.Components{
		Heads:      heads,
		Confirmed:  cache,
		Scoreboard: vtr,
		Ballots:    elc,
		Pool:       pool,
		Transport:  node,
		Peers:      node,
		Self:       self,
	})
	listener, err := listeners.NewRPC(&theConfiguration.ClientRPC, rpcLog, &rpcCount, rpcServer, tlsConfiguration, fingerprint)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}

	// metrics
	registry := metrics.NewRegistry(logger.New("metrics"))
	err = register(registry, sources{
		cache:     cache,
		heads:     heads,
		hub:       hb,
		machine:   machine,
		node:      node,
		bus:       bus,
		pool:      pool,
		producers: ranked,
		publisher: publisher,
		inbound:   &counts,
		rpcCount:  &rpcCount,
	})
	if nil != err {
		log.Criticalf("metrics register error: %s", err)
		exitwithstatus.Message("metrics register error: %s", err)
	}
	if "" != theConfiguration.Metrics.Listen {
		metricsServer, err := metrics.NewServer(logger.New("metrics"), &theConfiguration.Metrics, registry)
		if nil != err {
			log.Criticalf("metrics initialise error: %s", err)
			exitwithstatus.Message("metrics initialise error: %s", err)
		}
		processes = append(processes, metricsServer)
	}

	if err := listener.Serve(); nil != err {
		log.Criticalf("rpc serve error: %s", err)
		exitwithstatus.Message("rpc serve error: %s", err)
	}
	defer listener.Close()

	// start all background processes
	bg := background.Start(processes, nil)
	defer bg.Stop()

	// dial the statically configured peers
	if 0 != len(theConfiguration.Peering.Connect) {
		n := node.Connect(theConfiguration.Peering.Connect)
		log.Infof("connected to: %d of %d static peers", n, len(theConfiguration.Peering.Connect))
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
