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
	"context"
	"log"
	"os"
	"sync"
	"syscall"
	"time"
)

// DefaultPollInterval is how often workers are checked for liveness.
const DefaultPollInterval = 5 * time.Second

// WorkerInfo is a read-only snapshot of one worker, as published after
// each poll cycle.
type WorkerInfo struct {
	Name     string    `json:"name"`
	ID       string    `json:"id"`
	State    string    `json:"state"`
	Pid      int       `json:"pid"`
	Restarts int       `json:"restarts"`
	Started  time.Time `json:"started"`
	LastExit *Exit     `json:"lastExit,omitempty"`
	Type     string    `json:"type"`
	Command  []string  `json:"command"`
	Source   string    `json:"source"`
	LogPath  string    `json:"logPath"`
}

// Info describes the Supervisor itself.
type Info struct {
	Name       string    `json:"name"`
	Serial     int64     `json:"serial,string"`
	Workers    int       `json:"workers"`
	Running    int       `json:"running"`
	Interval   string    `json:"interval"`
	CreateTime time.Time `json:"created"`
	UpdateTime time.Time `json:"updated"`
}

type pendingStart struct {
	spec     *WorkerSpec
	restarts int
	due      time.Time
}

// Supervisor launches one process per WorkerSpec, polls them at a fixed
// interval, and relaunches any that exit.  All process management happens
// on the goroutine calling Run; the registry is never touched elsewhere.
// Other goroutines see the workers through snapshots (Workers, Worker)
// that Run publishes after every change.
type Supervisor struct {
	name       string
	launcher   *Launcher
	interval   time.Duration
	policy     RestartPolicy
	stopSignal os.Signal
	logger     *log.Logger
	mlog       *MultiLogger
	log        *Log
	metrics    *Metrics

	// Owned by the Run goroutine.
	registry *Registry
	known    map[string]*WorkerSpec
	pending  []*pendingStart
	exits    map[string]Exit
	dirty    bool

	adds chan []*WorkerSpec
	quit chan struct{}

	mx         sync.Mutex
	started    bool
	snap       []WorkerInfo
	serial     int64
	createTime time.Time
	updateTime time.Time
}

// NewSupervisor returns a Supervisor using l to start workers.  The name
// only distinguishes instances in logs and status output.
func NewSupervisor(name string, l *Launcher) *Supervisor {
	if name == "" {
		name = "streamvisor"
	}
	s := &Supervisor{
		name:       name,
		launcher:   l,
		interval:   DefaultPollInterval,
		stopSignal: syscall.SIGTERM,
		mlog:       NewMultiLogger(),
		log:        NewLog(MaxLogRecords),
		metrics:    NewMetrics(),
		registry:   NewRegistry(),
		known:      make(map[string]*WorkerSpec),
		exits:      make(map[string]Exit),
		adds:       make(chan []*WorkerSpec),
		quit:       make(chan struct{}),
		serial:     time.Now().UnixNano(),
		createTime: time.Now(),
	}
	s.updateTime = s.createTime
	s.mlog.AddLogger(log.New(s.log, "", 0))
	s.SetLogger(log.New(os.Stderr, "", log.LstdFlags))
	return s
}

func (s *Supervisor) Name() string {
	return s.name
}

// SetPollInterval changes the liveness poll interval.  It must be called
// before Run.
func (s *Supervisor) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// SetRestartPolicy must be called before Run.
func (s *Supervisor) SetRestartPolicy(p RestartPolicy) {
	s.policy = p
}

// SetStopSignal sets the signal sent to workers on shutdown.  The default
// is SIGTERM.
func (s *Supervisor) SetStopSignal(sig os.Signal) {
	s.stopSignal = sig
}

// SetLogger replaces the default stderr destination of the supervisor log.
// The in-memory log is unaffected.
func (s *Supervisor) SetLogger(l *log.Logger) {
	if s.logger != nil {
		s.mlog.DelLogger(s.logger)
	}
	s.logger = l
	if l != nil {
		s.mlog.AddLogger(l)
	}
}

func (s *Supervisor) Metrics() *Metrics {
	return s.metrics
}

func (s *Supervisor) Launcher() *Launcher {
	return s.launcher
}

func (s *Supervisor) logf(format string, v ...interface{}) {
	s.mlog.Logger().Printf(format, v...)
}

// Run starts the given workers and supervises them until ctx is canceled,
// at which point every live worker is asked to terminate and Run returns.
// Cancellation is noticed between poll cycles.  Run may only be called
// once.
func (s *Supervisor) Run(ctx context.Context, specs []*WorkerSpec) error {
	s.mx.Lock()
	if s.started {
		s.mx.Unlock()
		return ErrShutdown
	}
	s.started = true
	s.mx.Unlock()

	s.logf("*** streamvisor %s starting %d worker(s), polling every %v ***",
		s.name, len(specs), s.interval)
	s.start(specs)
	s.publish()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case <-ticker.C:
			s.poll(time.Now())
		case ws := <-s.adds:
			s.start(ws)
			s.publish()
		}
	}
}

// Add hands additional workers to a running Supervisor.  Workers whose
// names are already known are reported as duplicates and ignored.
func (s *Supervisor) Add(ctx context.Context, specs []*WorkerSpec) error {
	select {
	case s.adds <- specs:
		return nil
	case <-s.quit:
		return ErrShutdown
	case <-ctx.Done():
		return ctx.Err()
	}
}

// start launches new workers.  A worker that fails to launch is logged
// and left out; its name stays free, so a corrected file picked up by the
// Watcher can start it later.
func (s *Supervisor) start(specs []*WorkerSpec) {
	for _, w := range specs {
		if prev, ok := s.known[w.Name()]; ok {
			s.logf("Ignoring worker: %v", DuplicateError(w, prev))
			continue
		}
		s.dirty = true
		if h, e := s.launch(w, 0); e == nil {
			s.known[w.Name()] = w
			s.registry.Put(h)
		}
	}
}

func (s *Supervisor) launch(w *WorkerSpec, restarts int) (*Handle, error) {
	h, e := s.launcher.Launch(w, restarts)
	if e != nil {
		s.logf("Failed to launch %s: %v", w.Name(), e)
		s.metrics.launchFailed(w.Name())
		return nil, e
	}
	s.logf("Started %s (pid %d, restarts %d): %s", w.Name(), h.Pid,
		h.Restarts, w.Command())
	s.metrics.started(h)
	return h, nil
}

// poll runs one liveness cycle: first any relaunches that have come due,
// then a check of every registered worker in registry order.
func (s *Supervisor) poll(now time.Time) {
	s.runPending(now)
	for _, h := range s.registry.Handles() {
		if h.state != StateRunning || !h.Exited() {
			continue
		}
		s.reap(h)
		s.restart(h, now)
	}
	s.metrics.polls.Inc()
	s.publish()
}

func (s *Supervisor) reap(h *Handle) {
	x := h.Exit()
	h.state = StateExited
	h.release()
	s.exits[h.Name()] = x
	s.dirty = true
	s.metrics.exited(h)
	s.logf("Worker %s (pid %d) exited: %v", h.Name(), h.Pid, x)
}

func (s *Supervisor) restart(h *Handle, now time.Time) {
	if s.policy.exhausted(h.Restarts) {
		h.state = StateFailed
		s.logf("Not restarting %s: restart limit %d reached",
			h.Name(), s.policy.MaxRestarts)
		return
	}
	h.state = StateRestarting
	if s.policy.Backoff > 0 {
		due := s.policy.due(now)
		s.pending = append(s.pending, &pendingStart{
			spec:     h.Spec,
			restarts: h.Restarts + 1,
			due:      due,
		})
		s.logf("Restarting %s after %v", h.Name(), s.policy.Backoff)
		return
	}
	s.relaunch(h.Spec, h.Restarts+1)
}

// relaunch replaces the registry entry with a new handle.  If the launch
// fails the worker leaves the registry and is tried again next cycle.
func (s *Supervisor) relaunch(w *WorkerSpec, restarts int) {
	h, e := s.launch(w, restarts)
	if e != nil {
		s.registry.Remove(w.Name())
		s.pending = append(s.pending, &pendingStart{
			spec:     w,
			restarts: restarts,
		})
		return
	}
	s.registry.Put(h)
}

func (s *Supervisor) runPending(now time.Time) {
	if len(s.pending) == 0 {
		return
	}
	due := s.pending
	s.pending = nil
	for _, p := range due {
		if now.Before(p.due) {
			s.pending = append(s.pending, p)
			continue
		}
		s.dirty = true
		s.relaunch(p.spec, p.restarts)
	}
}

// shutdown asks every live worker to stop, without waiting for it to do
// so, and empties the registry.
func (s *Supervisor) shutdown() {
	select {
	case <-s.quit:
		return
	default:
	}
	s.logf("*** streamvisor %s shutting down ***", s.name)
	for _, h := range s.registry.Handles() {
		if h.state == StateRunning {
			if e := h.signal(s.stopSignal); e != nil {
				s.logf("Failed to terminate %s (pid %d): %v",
					h.Name(), h.Pid, e)
			} else {
				s.logf("Terminating %s (pid %d)", h.Name(), h.Pid)
			}
			h.release()
		}
		h.state = StateTerminated
	}
	s.pending = nil
	s.dirty = true
	s.publish()
	for _, h := range s.registry.Handles() {
		s.registry.Remove(h.Name())
	}
	close(s.quit)
	s.logf("*** streamvisor %s shut down ***", s.name)
}

func (s *Supervisor) info(h *Handle) WorkerInfo {
	wi := WorkerInfo{
		Name:     h.Name(),
		ID:       h.ID,
		State:    h.state.String(),
		Pid:      h.Pid,
		Restarts: h.Restarts,
		Started:  h.Started,
		Type:     h.Spec.Params().Type,
		Command:  h.Spec.Command().Argv(),
		Source:   h.Spec.Source(),
		LogPath:  h.LogPath(),
	}
	if x, ok := s.exits[h.Name()]; ok {
		wi.LastExit = &x
	}
	return wi
}

// publish makes a new snapshot available if anything changed.
func (s *Supervisor) publish() {
	if !s.dirty {
		return
	}
	s.dirty = false
	snap := make([]WorkerInfo, 0, s.registry.Len()+len(s.pending))
	running := 0
	for _, h := range s.registry.Handles() {
		if h.state == StateRunning {
			running++
		}
		snap = append(snap, s.info(h))
	}
	for _, p := range s.pending {
		if _, ok := s.registry.Get(p.spec.Name()); ok {
			continue
		}
		wi := WorkerInfo{
			Name:     p.spec.Name(),
			State:    StateRestarting.String(),
			Restarts: p.restarts,
			Type:     p.spec.Params().Type,
			Command:  p.spec.Command().Argv(),
			Source:   p.spec.Source(),
			LogPath:  s.launcher.LogPath(p.spec.Name()),
		}
		if x, ok := s.exits[p.spec.Name()]; ok {
			wi.LastExit = &x
		}
		snap = append(snap, wi)
	}
	s.metrics.running.Set(float64(running))

	s.mx.Lock()
	s.snap = snap
	s.serial++
	s.updateTime = time.Now()
	s.mx.Unlock()
}

// Workers returns the most recent snapshot, in registry order.
func (s *Supervisor) Workers() []WorkerInfo {
	s.mx.Lock()
	defer s.mx.Unlock()
	rv := make([]WorkerInfo, len(s.snap))
	copy(rv, s.snap)
	return rv
}

// Snapshot returns the most recent snapshot together with its serial, so
// that callers can tag what they hand out without racing a new publish.
func (s *Supervisor) Snapshot() ([]WorkerInfo, int64) {
	s.mx.Lock()
	defer s.mx.Unlock()
	rv := make([]WorkerInfo, len(s.snap))
	copy(rv, s.snap)
	return rv, s.serial
}

// Worker returns the snapshot of a single worker.
func (s *Supervisor) Worker(name string) (WorkerInfo, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, wi := range s.snap {
		if wi.Name == name {
			return wi, nil
		}
	}
	return WorkerInfo{}, ErrNoSuchWorker
}

// Serial changes every time a new snapshot is published.
func (s *Supervisor) Serial() int64 {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.serial
}

func (s *Supervisor) Info() *Info {
	s.mx.Lock()
	defer s.mx.Unlock()
	i := &Info{
		Name:       s.name,
		Serial:     s.serial,
		Workers:    len(s.snap),
		Interval:   s.interval.String(),
		CreateTime: s.createTime,
		UpdateTime: s.updateTime,
	}
	for _, wi := range s.snap {
		if wi.State == StateRunning.String() {
			i.Running++
		}
	}
	return i
}

// GetLog returns the supervisor's own log records; see Log.Records.
func (s *Supervisor) GetLog(last int64) ([]LogRecord, int64) {
	return s.log.Records(last)
}
