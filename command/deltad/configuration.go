// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/configuration"
	"github.com/bitmark-inc/deltad/metrics"
	"github.com/bitmark-inc/deltad/p2p"
	"github.com/bitmark-inc/deltad/publish"
	"github.com/bitmark-inc/deltad/rpc/listeners"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory = "data"
	defaultDeltaFile         = "deltas.leveldb"

	defaultProducersFile = "producers.list"
	defaultProducerCount = 21
	defaultReservoirSize = 10000

	defaultLocalCacheSize  = 64
	defaultConfirmedTTL    = 600 // seconds
	defaultHeadCapacity    = 10000
	defaultRPCConnections  = 50
	defaultPeerKeyFile     = "peer.prv"
	defaultRPCCertificate  = "rpc.crt"
	defaultRPCPrivateKey   = "rpc.key"
	defaultLogDirectory    = "log"
	defaultLogFile         = "deltad.log"
	defaultLogCount        = 10          //  number of log files retained
	defaultLogSize         = 1024 * 1024 // rotate when <logfile> exceeds this size
	maximumProducerCount   = 1000
	maximumReservoirSize   = 1000000
	maximumLocalCacheSize  = 4096
	minimumConfirmedTTL    = 60
	maximumHeadCapacity    = 1000000
	minimumHeadCapacity    = 16
	defaultMetricsDisabled = ""
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - location of the delta store
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// ProducersType - the ranked producer list
type ProducersType struct {
	File  string `gluamapper:"file" json:"file"`
	Count int    `gluamapper:"count" json:"count"`
}

// CacheType - chain cache sizing
type CacheType struct {
	LocalSize    int `gluamapper:"local_size" json:"local_size"`
	ConfirmedTTL int `gluamapper:"confirmed_ttl" json:"confirmed_ttl"`
	HeadCapacity int `gluamapper:"head_capacity" json:"head_capacity"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string                     `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                     `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType               `gluamapper:"database" json:"database"`
	Producers     ProducersType              `gluamapper:"producers" json:"producers"`
	ReservoirSize int                        `gluamapper:"reservoir_size" json:"reservoir_size"`
	Cache         CacheType                  `gluamapper:"cache" json:"cache"`
	Peering       p2p.Configuration          `gluamapper:"peering" json:"peering"`
	ClientRPC     listeners.RPCConfiguration `gluamapper:"client_rpc" json:"client_rpc"`
	Publishing    publish.Configuration      `gluamapper:"publishing" json:"publishing"`
	Metrics       metrics.Configuration      `gluamapper:"metrics" json:"metrics"`
	Logging       logger.Configuration       `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultDatabaseDirectory,
			Name:      defaultDeltaFile,
		},

		Producers: ProducersType{
			File:  defaultProducersFile,
			Count: defaultProducerCount,
		},
		ReservoirSize: defaultReservoirSize,

		Cache: CacheType{
			LocalSize:    defaultLocalCacheSize,
			ConfirmedTTL: defaultConfirmedTTL,
			HeadCapacity: defaultHeadCapacity,
		},

		Peering: p2p.Configuration{
			PrivateKey: defaultPeerKeyFile,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCConnections,
			Certificate:        defaultRPCCertificate,
			PrivateKey:         defaultRPCPrivateKey,
		},

		Metrics: metrics.Configuration{
			Listen: defaultMetricsDisabled,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	if options.Producers.Count <= 0 || options.Producers.Count > maximumProducerCount {
		return nil, fmt.Errorf("Producers: count: %d is out of range 1..%d", options.Producers.Count, maximumProducerCount)
	}
	if options.ReservoirSize <= 0 || options.ReservoirSize > maximumReservoirSize {
		options.ReservoirSize = defaultReservoirSize
	}
	if options.Cache.LocalSize <= 0 || options.Cache.LocalSize > maximumLocalCacheSize {
		options.Cache.LocalSize = defaultLocalCacheSize
	}
	if options.Cache.ConfirmedTTL < minimumConfirmedTTL {
		options.Cache.ConfirmedTTL = minimumConfirmedTTL
	}
	if options.Cache.HeadCapacity < minimumHeadCapacity || options.Cache.HeadCapacity > maximumHeadCapacity {
		options.Cache.HeadCapacity = defaultHeadCapacity
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
		&options.Producers.File,
		&options.Peering.PrivateKey,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
	}
	for _, f := range mustBeAbsolute {
		*f = configuration.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Publishing.PrivateKey,
		&options.Publishing.PublicKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = configuration.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		if !configuration.IsPlainName(*f[0]) {
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
		if nil != f[1] {
			*f[0] = configuration.EnsureAbsolute(*f[1], *f[0])
		}
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.Database.Directory,
		options.Logging.Directory,
	} {
		if err := os.MkdirAll(d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}
