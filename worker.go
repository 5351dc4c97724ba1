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
	"sort"
	"strconv"
	"strings"
)

// Command is a fully resolved command line.  Path is the program that is
// executed, and Args are the arguments that follow it (not including the
// program name itself).
type Command struct {
	Path string
	Args []string
}

// String renders the command for log messages.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Argv returns the full argument vector, program name first.
func (c Command) Argv() []string {
	rv := make([]string, 0, len(c.Args)+1)
	rv = append(rv, c.Path)
	return append(rv, c.Args...)
}

// StreamParams are the sampling parameters of a stream.  They are opaque to
// the supervisor and are handed to the worker on its command line.
type StreamParams struct {
	Type              string
	SamplingFrequency float64
	DataType          string
	UniqueID          string
	Channels          []string
}

// hasSampling is true if any of the sampling fields were supplied.  In that
// case all four positional sampling arguments are passed.
func (p StreamParams) hasSampling() bool {
	return p.SamplingFrequency != 0 || p.DataType != "" ||
		p.UniqueID != "" || len(p.Channels) != 0
}

// WorkerSpec describes one worker.  It is built once by the Loader, and
// never modified afterwards; the accessors hand out copies.
type WorkerSpec struct {
	name    string
	source  string
	script  string
	command Command
	params  StreamParams
	env     []string
}

// NewWorkerSpec assembles a spec from its parts.  The command line is
// built as <interpreter> <script> <name> <type> [sampling...] [extra...].
// If interpreter is empty, the script is executed directly.
func NewWorkerSpec(name, interpreter, script string, params StreamParams,
	extra []string, env map[string]string) *WorkerSpec {

	args := []string{}
	path := script
	if interpreter != "" {
		path = interpreter
		args = append(args, script)
	}
	args = append(args, name, params.Type)
	if params.hasSampling() {
		args = append(args,
			strconv.FormatFloat(params.SamplingFrequency, 'g', -1, 64),
			params.DataType,
			params.UniqueID,
			strings.Join(params.Channels, ","))
	}
	args = append(args, extra...)

	w := &WorkerSpec{
		name:    name,
		script:  script,
		command: Command{Path: path, Args: args},
		params:  params,
	}
	w.params.Channels = copyArray(params.Channels)
	for k, v := range env {
		w.env = append(w.env, k+"="+v)
	}
	sort.Strings(w.env)
	return w
}

func (w *WorkerSpec) Name() string {
	return w.name
}

// Source is the configuration file the worker was loaded from, if any.
func (w *WorkerSpec) Source() string {
	return w.source
}

// Script is the resolved path of the worker script.
func (w *WorkerSpec) Script() string {
	return w.script
}

func (w *WorkerSpec) Command() Command {
	return Command{Path: w.command.Path, Args: copyArray(w.command.Args)}
}

func (w *WorkerSpec) Params() StreamParams {
	p := w.params
	p.Channels = copyArray(w.params.Channels)
	return p
}

// Env returns the extra environment entries, in KEY=VALUE form.
func (w *WorkerSpec) Env() []string {
	return copyArray(w.env)
}

func copyArray(src []string) []string {
	rv := make([]string, 0, len(src))
	rv = append(rv, src...)
	return rv
}
