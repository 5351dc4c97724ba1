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
	"time"
)

// RestartPolicy governs what happens when a worker exits.  The zero value
// restarts every worker immediately and forever, regardless of exit
// status.  Note that this means a worker that fails at once on every launch
// is restarted once per poll interval, indefinitely.
type RestartPolicy struct {
	// MaxRestarts is the number of restarts after which a worker is
	// left in the Failed state.  Zero means no limit.
	MaxRestarts int

	// Backoff is the delay between observing an exit and relaunching.
	// The relaunch happens on the first poll at or after the deadline.
	Backoff time.Duration
}

// exhausted reports whether a worker that has been restarted n times may
// not be restarted again.
func (p RestartPolicy) exhausted(n int) bool {
	return p.MaxRestarts > 0 && n >= p.MaxRestarts
}

// due returns when a worker that exited at t may be relaunched.
func (p RestartPolicy) due(t time.Time) time.Time {
	return t.Add(p.Backoff)
}
