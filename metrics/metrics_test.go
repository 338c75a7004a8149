// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics_test

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/background"
	"github.com/bitmark-inc/deltad/counter"
	"github.com/bitmark-inc/deltad/fault"
	"github.com/bitmark-inc/deltad/fixtures"
	"github.com/bitmark-inc/deltad/metrics"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestRegistryReadsAtGatherTime(t *testing.T) {
	r := metrics.NewRegistry(logger.New(fixtures.LogCategory))

	var published counter.Counter
	pending := 3

	assert.Nil(t, r.Counter("hub", "published_total", "deltas published", published.Float64), "wrong counter error")
	assert.Nil(t, r.Gauge("reservoir", "pending", "pending transactions", func() float64 { return float64(pending) }), "wrong gauge error")

	published.Increment()
	published.Increment()
	pending = 7

	values, err := r.Gather()
	assert.Nil(t, err, "wrong gather error")
	assert.Equal(t, float64(2), values["deltad_hub_published_total"], "wrong counter")
	assert.Equal(t, float64(7), values["deltad_reservoir_pending"], "wrong gauge")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := metrics.NewRegistry(logger.New(fixtures.LogCategory))
	f := func() float64 { return 1 }

	assert.Nil(t, r.Gauge("chain", "heads", "retained heads", f), "wrong first error")
	assert.NotNil(t, r.Gauge("chain", "heads", "retained heads", f), "duplicate accepted")
}

func TestServer(t *testing.T) {
	log := logger.New(fixtures.LogCategory)
	r := metrics.NewRegistry(log)
	assert.Nil(t, r.Gauge("chain", "heads", "retained heads", func() float64 { return 42 }), "wrong gauge error")

	s, err := metrics.NewServer(log, &metrics.Configuration{Listen: "127.0.0.1:0"}, r)
	assert.Nil(t, err, "wrong server error")

	processes := background.Start(background.Processes{s}, nil)
	defer processes.Stop()

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", s.Addr()))
	assert.Nil(t, err, "wrong get error")
	defer resp.Body.Close()

	body, _ := ioutil.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.True(t, strings.Contains(string(body), "deltad_chain_heads 42"), "metric missing")
}

func TestNewServerValidation(t *testing.T) {
	log := logger.New(fixtures.LogCategory)

	_, err := metrics.NewServer(log, &metrics.Configuration{}, metrics.NewRegistry(log))
	assert.Equal(t, fault.MissingParameters, err, "wrong empty listen error")

	_, err = metrics.NewServer(log, nil, nil)
	assert.Equal(t, fault.ArgumentNull, err, "wrong nil error")
}
