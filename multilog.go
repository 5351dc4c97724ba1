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
	"log"
	"slices"
	"strings"
	"sync"
)

// MultiLogger is a writer that repeats every line it receives on a set of
// destination loggers.  The supervisor logs through Logger; each
// destination applies its own flags, so stderr gets timestamps while the
// in-memory Log keeps bare text.
type MultiLogger struct {
	entry *log.Logger
	mu    sync.Mutex
	dests []*log.Logger
}

func NewMultiLogger() *MultiLogger {
	m := &MultiLogger{}
	m.entry = log.New(m, "", 0)
	return m
}

// Logger feeds every destination.
func (m *MultiLogger) Logger() *log.Logger {
	return m.entry
}

// AddLogger registers a destination.  A logger already present is left
// where it is.
func (m *MultiLogger) AddLogger(d *log.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.dests, d) {
		m.dests = append(m.dests, d)
	}
}

// DelLogger unregisters a destination.
func (m *MultiLogger) DelLogger(d *log.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.dests, d); i >= 0 {
		m.dests = slices.Delete(m.dests, i, i+1)
	}
}

// Write emits each line of b on every destination, in registration order.
func (m *MultiLogger) Write(b []byte) (int, error) {
	text := strings.TrimRight(string(b), "\n")
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		for _, d := range m.dests {
			d.Print(line)
		}
	}
	return len(b), nil
}
