// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dfs - content addressed durable storage for deltas
package dfs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/address"
	"github.com/bitmark-inc/deltad/fault"
)

// key prefix for content records
const contentPrefix = 'C'

// Store - read and write content by address
type Store interface {
	ReadByHash(ctx context.Context, hash []byte) (io.ReadCloser, error)
	Write(ctx context.Context, content io.Reader) ([]byte, error)
}

// LevelDB - a Store kept in a LevelDB database
type LevelDB struct {
	sync.RWMutex
	log      *logger.L
	database *leveldb.DB
}

// Open - open or create a database directory
func Open(log *logger.L, name string) (*LevelDB, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	}
	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}
	log.Infof("opened: %q", name)
	return &LevelDB{log: log, database: db}, nil
}

// OpenInMemory - a database that is discarded on close
func OpenInMemory(log *logger.L) (*LevelDB, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return &LevelDB{log: log, database: db}, nil
}

// Close - release the database
func (d *LevelDB) Close() error {
	d.Lock()
	defer d.Unlock()

	if nil == d.database {
		return fault.NotInitialised
	}
	err := d.database.Close()
	d.database = nil
	return err
}

// ReadByHash - fetch content previously written
func (d *LevelDB) ReadByHash(ctx context.Context, hash []byte) (io.ReadCloser, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	if err := address.Validate(hash); nil != err {
		return nil, err
	}

	d.RLock()
	defer d.RUnlock()

	if nil == d.database {
		return nil, fault.NotInitialised
	}
	value, err := d.database.Get(prefixKey(hash), nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.DeltaNotFound
	}
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.DurableStoreFailure, err)
	}
	return ioutil.NopCloser(bytes.NewReader(value)), nil
}

// Write - store content under its address and return the address
func (d *LevelDB) Write(ctx context.Context, content io.Reader) ([]byte, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	if nil == content {
		return nil, fault.ArgumentNull
	}

	data, err := ioutil.ReadAll(content)
	if nil != err {
		return nil, err
	}
	hash, err := address.Compute(data)
	if nil != err {
		return nil, err
	}

	d.RLock()
	defer d.RUnlock()

	if nil == d.database {
		return nil, fault.NotInitialised
	}
	if err := d.database.Put(prefixKey(hash), data, nil); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.DurableStoreFailure, err)
	}

	d.log.Debugf("stored: %s  bytes: %d", address.String(hash), len(data))
	return hash, nil
}

// Has - check if an address is present
func (d *LevelDB) Has(hash []byte) bool {
	d.RLock()
	defer d.RUnlock()

	if nil == d.database {
		return false
	}
	found, err := d.database.Has(prefixKey(hash), nil)
	return nil == err && found
}

// prepend the prefix onto the key
func prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = contentPrefix
	return append(prefixedKey, key...)
}
