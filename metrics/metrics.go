// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - prometheus view of the node's internal counters
//
// components keep their own atomic counters; this package only reads
// them at scrape time
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/fault"
)

const (
	namespace       = "deltad"
	metricsPath     = "/metrics"
	readTimeout     = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Configuration - metrics section of the configuration file; an empty
// listen address disables the endpoint
type Configuration struct {
	Listen string `gluamapper:"listen" json:"listen"`
}

// ValueFunc - current value of a metric
type ValueFunc func() float64

// Registry - counters and gauges backed by functions
type Registry struct {
	log      *logger.L
	registry *prometheus.Registry
}

// NewRegistry - empty registry
func NewRegistry(log *logger.L) *Registry {
	return &Registry{
		log:      log,
		registry: prometheus.NewRegistry(),
	}
}

// Counter - a monotonically increasing value
func (r *Registry) Counter(subsystem string, name string, help string, f ValueFunc) error {
	return r.register(prometheus.NewCounterFunc(opts(subsystem, name, help), f))
}

// Gauge - a value that can go up and down
func (r *Registry) Gauge(subsystem string, name string, help string, f ValueFunc) error {
	return r.register(prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts(subsystem, name, help)), f))
}

func (r *Registry) register(c prometheus.Collector) error {
	if err := r.registry.Register(c); nil != err {
		r.log.Errorf("register error: %s", err)
		return err
	}
	return nil
}

// Gather - snapshot of every metric
func (r *Registry) Gather() (map[string]float64, error) {
	families, err := r.registry.Gather()
	if nil != err {
		return nil, err
	}

	values := make(map[string]float64)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case nil != m.GetCounter():
				values[f.GetName()] = m.GetCounter().GetValue()
			case nil != m.GetGauge():
				values[f.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	return values, nil
}

// Handler - the scrape endpoint
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func opts(subsystem string, name string, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}
}

// ---

// Server - HTTP endpoint for scrapes
type Server struct {
	log      *logger.L
	listener net.Listener
	server   *http.Server
}

// NewServer - background process serving the registry over HTTP
func NewServer(log *logger.L, configuration *Configuration, registry *Registry) (*Server, error) {
	if nil == configuration || nil == registry {
		return nil, fault.ArgumentNull
	}
	if "" == configuration.Listen {
		return nil, fault.MissingParameters
	}

	l, err := net.Listen("tcp", configuration.Listen)
	if nil != err {
		log.Errorf("metrics listen: %q  error: %s", configuration.Listen, err)
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, registry.Handler())

	return &Server{
		log:      log,
		listener: l,
		server: &http.Server{
			Handler:        mux,
			ReadTimeout:    readTimeout,
			WriteTimeout:   readTimeout,
			MaxHeaderBytes: 1 << 20,
		},
	}, nil
}

// Addr - the bound address
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Run - background processing interface
func (s *Server) Run(_ interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Infof("serving metrics on: %s%s", s.listener.Addr(), metricsPath)

	done := make(chan struct{})
	go func() {
		if err := s.server.Serve(s.listener); nil != err && http.ErrServerClosed != err {
			log.Errorf("metrics server error: %s", err)
		}
		close(done)
	}()

	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = s.server.Shutdown(ctx)
	<-done

	log.Info("stopped")
}
