// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/deltad/command/delta-cli/rpccalls"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/protocol"
)

// open a client, run one call and print its reply
func withClient(c *cli.Context, f func(*rpccalls.Client) (interface{}, error)) error {
	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := f(client)
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}

func runHead(c *cli.Context) error {
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Head()
	})
}

func runHeadAsOf(c *cli.Context) error {
	s, err := checkRequired(c, "time")
	if nil != err {
		return err
	}
	at, err := time.Parse(time.RFC3339, s)
	if nil != err {
		return err
	}
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.HeadAsOf(at)
	})
}

func runDelta(c *cli.Context) error {
	hash, err := checkRequired(c, "hash")
	if nil != err {
		return err
	}
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Delta(hash)
	})
}

func runScores(c *cli.Context) error {
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Scores(c.String("previous"))
	})
}

func runTally(c *cli.Context) error {
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Tally(c.String("previous"))
	})
}

func runFavourite(c *cli.Context) error {
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Favourite(c.String("previous"))
	})
}

func runWinner(c *cli.Context) error {
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.MostPopular(c.String("previous"))
	})
}

func runSubmit(c *cli.Context) error {
	r, err := openInput(c)
	if nil != err {
		return err
	}
	defer r.Close()

	tx, err := readTransaction(r)
	if nil != err {
		return err
	}
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Submit(tx)
	})
}

func runSubmitBatch(c *cli.Context) error {
	r, err := openInput(c)
	if nil != err {
		return err
	}
	defer r.Close()

	txs, err := readTransactions(r)
	if nil != err {
		return err
	}
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.SubmitBatch(txs)
	})
}

// the --file argument, "-" reads stdin
func openInput(c *cli.Context) (io.ReadCloser, error) {
	fileName, err := checkRequired(c, "file")
	if nil != err {
		return nil, err
	}
	if "-" == fileName {
		return ioutil.NopCloser(os.Stdin), nil
	}
	return os.Open(fileName)
}

func runStatus(c *cli.Context) error {
	signature, err := checkRequired(c, "signature")
	if nil != err {
		return err
	}
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Status(signature)
	})
}

func runInfo(c *cli.Context) error {
	return withClient(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Info()
	})
}

func checkRequired(c *cli.Context, name string) (string, error) {
	s := c.String(name)
	if "" == s {
		return "", fault.MissingParameters
	}
	return s, nil
}

// transaction in its JSON form, byte fields are base64
func readTransaction(r io.Reader) (*protocol.Transaction, error) {
	data, err := ioutil.ReadAll(r)
	if nil != err {
		return nil, err
	}
	tx := &protocol.Transaction{}
	if err := json.Unmarshal(data, tx); nil != err {
		return nil, err
	}
	if 0 == len(tx.Signature) {
		return nil, fault.MissingParameters
	}
	return tx, nil
}

// array of transactions in the same form as readTransaction
func readTransactions(r io.Reader) ([]*protocol.Transaction, error) {
	data, err := ioutil.ReadAll(r)
	if nil != err {
		return nil, err
	}
	var txs []*protocol.Transaction
	if err := json.Unmarshal(data, &txs); nil != err {
		return nil, err
	}
	if 0 == len(txs) {
		return nil, fault.MissingParameters
	}
	for _, tx := range txs {
		if nil == tx || 0 == len(tx.Signature) {
			return nil, fault.MissingParameters
		}
	}
	return txs, nil
}
