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

// Registry maps worker names to their current Handle, remembering the
// order in which names were first added.  It is not safe for concurrent
// use; the Supervisor goroutine is its only user.
type Registry struct {
	names   []string
	handles map[string]*Handle
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Handle)}
}

// Put inserts or replaces the handle for h's worker.  A replaced name keeps
// its position.
func (r *Registry) Put(h *Handle) {
	name := h.Name()
	if _, ok := r.handles[name]; !ok {
		r.names = append(r.names, name)
	}
	r.handles[name] = h
}

func (r *Registry) Get(name string) (*Handle, bool) {
	h, ok := r.handles[name]
	return h, ok
}

func (r *Registry) Remove(name string) {
	if _, ok := r.handles[name]; !ok {
		return
	}
	delete(r.handles, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

func (r *Registry) Len() int {
	return len(r.names)
}

// Handles returns the handles in registry order.
func (r *Registry) Handles() []*Handle {
	rv := make([]*Handle, 0, len(r.names))
	for _, n := range r.names {
		rv = append(rv, r.handles[n])
	}
	return rv
}
