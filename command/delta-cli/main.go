// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect string
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "delta-cli"
	app.Usage = "query and submit to a deltad node"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	previousFlag := cli.StringFlag{
		Name:  "previous, p",
		Value: "",
		Usage: " round identified by its previous delta `HASH` [current head]",
	}

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2130",
			Usage:  " deltad RPC `HOST:PORT`",
			EnvVar: "DELTAD_CONNECT",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "head",
			Usage:  "current chain head",
			Action: runHead,
		},
		{
			Name:      "head-as-of",
			Usage:     "chain head that was current at a time",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "time, t",
					Value: "",
					Usage: "*RFC3339 `TIME`",
				},
			},
			Action: runHeadAsOf,
		},
		{
			Name:      "delta",
			Usage:     "fetch a confirmed delta",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "hash, H",
					Value: "",
					Usage: "*delta `HASH`",
				},
			},
			Action: runDelta,
		},
		{
			Name:   "scores",
			Usage:  "candidate scores held by the node",
			Flags:  []cli.Flag{previousFlag},
			Action: runScores,
		},
		{
			Name:   "tally",
			Usage:  "favourite votes counted by the node",
			Flags:  []cli.Flag{previousFlag},
			Action: runTally,
		},
		{
			Name:   "favourite",
			Usage:  "the node's own favourite candidate",
			Flags:  []cli.Flag{previousFlag},
			Action: runFavourite,
		},
		{
			Name:   "winner",
			Usage:  "the most popular candidate",
			Flags:  []cli.Flag{previousFlag},
			Action: runWinner,
		},
		{
			Name:      "submit",
			Usage:     "submit a JSON transaction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*JSON transaction `FILE` (- for stdin)",
				},
			},
			Action: runSubmit,
		},
		{
			Name:      "submit-batch",
			Usage:     "submit a JSON array of transactions",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*JSON transaction array `FILE` (- for stdin)",
				},
			},
			Action: runSubmitBatch,
		},
		{
			Name:      "status",
			Usage:     "whether a transaction is still pending",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "signature, s",
					Value: "",
					Usage: "*transaction signature `HEX`",
				},
			},
			Action: runStatus,
		},
		{
			Name:   "info",
			Usage:  "display deltad info",
			Action: runInfo,
		},
		{
			Name:  "version",
			Usage: "display delta-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		c.App.Metadata["config"] = &metadata{
			connect: c.GlobalString("connect"),
			verbose: c.GlobalBool("verbose"),
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
