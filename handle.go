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
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// State is the supervisor's view of a worker.
//
//	Starting -> Running -> Exited -> Restarting -> Running -> ...
//	                          |
//	                          +----> Failed (restart limit reached)
//
//	any state -> Terminated (shutdown only)
type State int

const (
	StateStarting State = iota
	StateRunning
	StateExited
	StateRestarting
	StateFailed
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateRestarting:
		return "restarting"
	case StateFailed:
		return "failed"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Exit describes how a worker process ended.  Every exit is treated the
// same way by the supervisor; this is kept for logging and status only.
type Exit struct {
	Code   int       `json:"code"`
	Signal string    `json:"signal,omitempty"`
	Error  string    `json:"error,omitempty"`
	Time   time.Time `json:"time"`
}

func (x Exit) String() string {
	if x.Signal != "" {
		return "killed by " + x.Signal
	}
	if x.Error != "" && x.Code < 0 {
		return x.Error
	}
	return fmt.Sprintf("exit status %d", x.Code)
}

// Handle is the runtime record of one launched worker process.  A Handle is
// bound to exactly one OS process; a restart produces a new Handle.
//
// Only the Supervisor goroutine changes the state of a Handle.  The wait
// goroutine only records the exit and closes done.
type Handle struct {
	ID       string
	Spec     *WorkerSpec
	Pid      int
	Restarts int
	Started  time.Time

	state   State
	cmd     *exec.Cmd
	logFile *os.File
	done    chan struct{}
	exit    Exit
	stopped bool
}

func (h *Handle) State() State {
	return h.state
}

func (h *Handle) Name() string {
	return h.Spec.Name()
}

// LogPath is the path of the file receiving the worker's output.
func (h *Handle) LogPath() string {
	if h.logFile == nil {
		return ""
	}
	return h.logFile.Name()
}

// Done is closed once the process has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Exited polls the process without blocking.
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Exit returns the exit record.  It is only meaningful once Exited is true.
func (h *Handle) Exit() Exit {
	select {
	case <-h.done:
		return h.exit
	default:
		return Exit{Code: -1}
	}
}

func (h *Handle) wait() {
	e := h.cmd.Wait()
	x := Exit{Code: -1, Time: time.Now()}
	if ps := h.cmd.ProcessState; ps != nil {
		x.Code = ps.ExitCode()
		if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			x.Signal = ws.Signal().String()
		}
	}
	var xe *exec.ExitError
	if e != nil && !errors.As(e, &xe) {
		x.Error = e.Error()
	}
	h.exit = x
	close(h.done)
}

// signal asks the process to stop.  It is sent at most once per Handle.
func (h *Handle) signal(sig os.Signal) error {
	if h.stopped {
		return nil
	}
	h.stopped = true
	if h.Exited() {
		return ErrNotRunning
	}
	return h.cmd.Process.Signal(sig)
}

// release closes the supervisor's copy of the log file.  The child keeps
// its own descriptor.
func (h *Handle) release() {
	if h.logFile != nil {
		h.logFile.Close()
	}
}
