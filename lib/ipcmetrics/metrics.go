// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ipcmetrics exports Prometheus metrics for service
// connections. A [Metrics] is both a service.Observer (message and
// byte counts) and a service.CallMetrics (correlated call latency and
// pending calls):
//
//	metrics, err := ipcmetrics.New("gnunet_ipc", registry)
//	conn, err := service.Connect(ctx, resolver, "gns", service.WithObserver(metrics))
//	correlator := service.NewCorrelator(conn, extract, service.WithCallMetrics(metrics))
package ipcmetrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/service"
)

// Call outcome label values.
const (
	OutcomeOK           = "ok"
	OutcomeCancelled    = "cancelled"
	OutcomeDisconnected = "disconnected"
	OutcomeError        = "error"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	messages *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	calls    *prometheus.HistogramVec
	pending  *prometheus.GaugeVec
}

var (
	_ service.Observer    = (*Metrics)(nil)
	_ service.CallMetrics = (*Metrics)(nil)
)

// New creates the collectors under namespace and registers them with
// registerer.
func New(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages crossing service connections, by service, direction and message kind.",
		}, []string{"service", "direction", "kind"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Wire bytes, headers included, crossing service connections.",
		}, []string{"service", "direction"}),
		calls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Latency of correlated request/response calls.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"service", "outcome"}),
		pending: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_calls",
			Help:      "Correlated calls waiting for a response.",
		}, []string{"service"}),
	}

	for _, collector := range []prometheus.Collector{m.messages, m.bytes, m.calls, m.pending} {
		if err := registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("ipcmetrics: %w", err)
		}
	}
	return m, nil
}

// ObserveMessage counts one message.
func (m *Metrics) ObserveMessage(event service.Event) {
	direction := event.Direction.String()
	m.messages.WithLabelValues(event.Service, direction, string(event.Type.Kind())).Inc()
	m.bytes.WithLabelValues(event.Service, direction).Add(float64(message.HeaderSize + len(event.Body)))
}

// CallStarted counts a call as pending.
func (m *Metrics) CallStarted(service string) {
	m.pending.WithLabelValues(service).Inc()
}

// CallFinished records the call's latency under its outcome.
func (m *Metrics) CallFinished(service string, elapsed time.Duration, err error) {
	m.pending.WithLabelValues(service).Dec()
	m.calls.WithLabelValues(service, Outcome(err)).Observe(elapsed.Seconds())
}

// Outcome classifies a call error into an outcome label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	case errors.Is(err, service.ErrDisconnected), errors.Is(err, service.ErrBroken):
		return OutcomeDisconnected
	default:
		return OutcomeError
	}
}
