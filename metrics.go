// Copyright 2026 The Govisor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package streamvisor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors updated by a Supervisor.  Each
// Supervisor owns its own registry, so several may live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	starts   *prometheus.CounterVec
	exits    *prometheus.CounterVec
	failures *prometheus.CounterVec
	restarts *prometheus.GaugeVec
	running  prometheus.Gauge
	polls    prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		starts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamvisor",
			Name:      "worker_starts_total",
			Help:      "Worker processes launched.",
		}, []string{"worker"}),
		exits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamvisor",
			Name:      "worker_exits_total",
			Help:      "Worker process exits observed.",
		}, []string{"worker"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamvisor",
			Name:      "worker_launch_failures_total",
			Help:      "Worker launches that failed.",
		}, []string{"worker"}),
		restarts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "streamvisor",
			Name:      "worker_restarts",
			Help:      "Restart count of the current worker process.",
		}, []string{"worker"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "streamvisor",
			Name:      "workers_running",
			Help:      "Worker processes currently running.",
		}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streamvisor",
			Name:      "poll_cycles_total",
			Help:      "Liveness poll cycles completed.",
		}),
	}
	m.Registry.MustRegister(m.starts, m.exits, m.failures, m.restarts,
		m.running, m.polls)
	return m
}

func (m *Metrics) started(h *Handle) {
	m.starts.WithLabelValues(h.Name()).Inc()
	m.restarts.WithLabelValues(h.Name()).Set(float64(h.Restarts))
}

func (m *Metrics) exited(h *Handle) {
	m.exits.WithLabelValues(h.Name()).Inc()
}

func (m *Metrics) launchFailed(name string) {
	m.failures.WithLabelValues(name).Inc()
}
