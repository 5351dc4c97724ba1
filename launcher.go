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
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Launcher starts worker processes, with their output appended to a file
// per worker in a log directory.
type Launcher struct {
	logDir string
}

// NewLauncher creates the log directory if needed.  Failure to do so is the
// one condition the supervisor cannot run without.
func NewLauncher(logDir string) (*Launcher, error) {
	if e := os.MkdirAll(logDir, 0755); e != nil {
		return nil, fmt.Errorf("log directory %s: %w", logDir, e)
	}
	return &Launcher{logDir: logDir}, nil
}

func (l *Launcher) LogDir() string {
	return l.logDir
}

// LogName maps a worker name to its log file name.  Anything other than
// letters, digits, dot, dash and underscore becomes an underscore.
func LogName(name string) string {
	b := strings.Builder{}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String() + ".log"
}

// LogPath is the path of the log file for the named worker.
func (l *Launcher) LogPath(name string) string {
	return filepath.Join(l.logDir, LogName(name))
}

// launchError reports only absent files as missing.  A file that is there
// but cannot be run (permissions, not a regular file) is a plain
// LaunchError carrying the cause.
func launchError(w *WorkerSpec, path string, e error) error {
	if errors.Is(e, fs.ErrNotExist) || errors.Is(e, exec.ErrNotFound) {
		e = &MissingExecutableError{Name: w.Name(), Path: path}
	}
	return &LaunchError{Name: w.Name(), Path: path, Err: e}
}

// Launch starts the worker synchronously.  The returned Handle is Running.
// On failure a *LaunchError is returned, and nothing is left running.
func (l *Launcher) Launch(w *WorkerSpec, restarts int) (*Handle, error) {
	cmd := w.Command()

	if _, e := os.Stat(w.Script()); e != nil {
		return nil, launchError(w, w.Script(), e)
	}
	prog, e := exec.LookPath(cmd.Path)
	if e != nil {
		return nil, launchError(w, cmd.Path, e)
	}

	f, e := os.OpenFile(l.LogPath(w.Name()),
		os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if e != nil {
		return nil, &LaunchError{Name: w.Name(), Path: cmd.Path, Err: e}
	}
	fmt.Fprintf(f, "--- %s start %s (restarts %d): %s\n",
		time.Now().Format(time.RFC3339), w.Name(), restarts, cmd)

	c := exec.Command(prog, cmd.Args...)
	c.Stdout = f
	c.Stderr = f
	c.Env = append(os.Environ(), w.Env()...)
	c.Env = append(c.Env,
		"STREAMVISOR_WORKER="+w.Name(),
		"STREAMVISOR_RESTARTS="+strconv.Itoa(restarts))

	if e := c.Start(); e != nil {
		f.Close()
		return nil, &LaunchError{Name: w.Name(), Path: cmd.Path, Err: e}
	}

	h := &Handle{
		ID:       uuid.NewString(),
		Spec:     w,
		Pid:      c.Process.Pid,
		Restarts: restarts,
		Started:  time.Now(),
		state:    StateRunning,
		cmd:      c,
		logFile:  f,
		done:     make(chan struct{}),
	}
	go h.wait()
	return h, nil
}
