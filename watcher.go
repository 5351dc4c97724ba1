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
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher feeds worker description files that appear (or change) in a
// directory to a running Supervisor.  Only new worker names are started;
// the Supervisor reports the rest as duplicates.
type Watcher struct {
	dir    string
	loader *Loader
	sv     *Supervisor
	settle time.Duration
}

func NewWatcher(dir string, l *Loader, sv *Supervisor) *Watcher {
	return &Watcher{
		dir:    dir,
		loader: l,
		sv:     sv,
		settle: 250 * time.Millisecond,
	}
}

// Run watches until ctx is canceled or the Supervisor shuts down.
func (w *Watcher) Run(ctx context.Context) error {
	fw, e := fsnotify.NewWatcher()
	if e != nil {
		return e
	}
	defer fw.Close()
	if e := fw.Add(w.dir); e != nil {
		return e
	}

	// Editors tend to write files in several steps, so wait for things
	// to go quiet before loading.
	changed := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !Recognized(ev.Name) {
				continue
			}
			changed[ev.Name] = true
			timer.Reset(w.settle)
		case e, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.sv.logf("Watching %s: %v", w.dir, e)
		case <-timer.C:
			for fname := range changed {
				delete(changed, fname)
				specs, e := w.loader.LoadFile(fname)
				if e != nil {
					w.sv.logf("Skipping %v", e)
					continue
				}
				w.sv.logf("Loaded %d worker(s) from %s", len(specs), fname)
				if e := w.sv.Add(ctx, specs); e != nil {
					return nil
				}
			}
		}
	}
}
