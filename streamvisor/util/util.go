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

// Package util is used for internal implementation bits in the CLI/UI.
package util

import (
	"fmt"
	"sort"
	"time"

	"github.com/gdamore/streamvisor"
)

// Uptime is how long the worker's current process has been up, truncated
// to the second.  Workers that are not running report zero.
func Uptime(w *streamvisor.WorkerInfo) time.Duration {
	if w.State != streamvisor.StateRunning.String() || w.Started.IsZero() {
		return 0
	}
	d := time.Since(w.Started)
	return d - d%time.Second
}

func FormatDuration(d time.Duration) string {

	sec := int((d % time.Minute) / time.Second)
	min := int((d % time.Hour) / time.Minute)
	hour := int(d / time.Hour)

	return fmt.Sprintf("%d:%02d:%02d", hour, min, sec)
}

// LastExit describes the previous exit, if any.
func LastExit(w *streamvisor.WorkerInfo) string {
	if w.LastExit == nil {
		return ""
	}
	return w.LastExit.String()
}

func rank(w *streamvisor.WorkerInfo) int {
	switch w.State {
	case streamvisor.StateFailed.String():
		return 0
	case streamvisor.StateRestarting.String(), streamvisor.StateExited.String():
		return 1
	case streamvisor.StateRunning.String():
		return 2
	}
	return 3
}

type sorted []*streamvisor.WorkerInfo

func (s sorted) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func (s sorted) Len() int {
	return len(s)
}

func (s sorted) Less(i, j int) bool {
	a := s[i]
	b := s[j]

	// failed items at front, then the ones in trouble
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra < rb
	}
	return a.Name < b.Name
}

func SortWorkers(items []*streamvisor.WorkerInfo) {
	sort.Sort(sorted(items))
}
