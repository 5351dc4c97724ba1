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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// StreamManifest is a single entry of the "streams" list in a worker
// description file.
type StreamManifest struct {
	Name              string            `json:"name" yaml:"name" toml:"name"`
	ScriptPath        string            `json:"script_path" yaml:"script_path" toml:"script_path"`
	Interpreter       string            `json:"interpreter" yaml:"interpreter" toml:"interpreter"`
	Type              string            `json:"type" yaml:"type" toml:"type"`
	SamplingFrequency float64           `json:"sampling_frequency" yaml:"sampling_frequency" toml:"sampling_frequency"`
	DataType          string            `json:"data_type" yaml:"data_type" toml:"data_type"`
	UniqueID          string            `json:"unique_id" yaml:"unique_id" toml:"unique_id"`
	Channels          []string          `json:"channels" yaml:"channels" toml:"channels"`
	Args              []string          `json:"args" yaml:"args" toml:"args"`
	Env               map[string]string `json:"env" yaml:"env" toml:"env"`
}

// Manifest is the content of one worker description file.
type Manifest struct {
	Interpreter string           `json:"interpreter" yaml:"interpreter" toml:"interpreter"`
	Streams     []StreamManifest `json:"streams" yaml:"streams" toml:"streams"`
}

type decodeFunc func([]byte, *Manifest) error

var decoders = map[string]decodeFunc{
	".json": func(b []byte, m *Manifest) error {
		return json.Unmarshal(b, m)
	},
	".yaml": func(b []byte, m *Manifest) error {
		return yaml.Unmarshal(b, m)
	},
	".yml": func(b []byte, m *Manifest) error {
		return yaml.Unmarshal(b, m)
	},
	".toml": func(b []byte, m *Manifest) error {
		return toml.Unmarshal(b, m)
	},
}

// Recognized returns true if the file name has an extension that the
// Loader knows how to decode.
func Recognized(name string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(name))]
	return ok
}

// DefaultInterpreters maps script extensions to the program used to run
// them when the manifest does not name one.
var DefaultInterpreters = map[string]string{
	".py": "python",
	".sh": "/bin/sh",
}

// Loader turns worker description files into WorkerSpecs.
type Loader struct {
	// BaseDir is where relative script paths are resolved.  If empty,
	// scripts are resolved relative to the file that names them.
	BaseDir string

	// Interpreters overrides DefaultInterpreters.
	Interpreters map[string]string
}

// NewLoader returns a Loader resolving scripts relative to base.
func NewLoader(base string) *Loader {
	l := &Loader{BaseDir: base, Interpreters: map[string]string{}}
	for k, v := range DefaultInterpreters {
		l.Interpreters[k] = v
	}
	return l
}

// LoadDir loads every recognized file in dir, in name order.  Problems are
// returned in the error list; they never prevent other files (or other
// workers) from loading.  A directory without usable files yields no specs
// and no errors.  Names must be unique: the first definition wins, and later
// ones are reported with ErrDuplicateName.
func (l *Loader) LoadDir(dir string) ([]*WorkerSpec, []error) {
	var errs []error
	entries, e := os.ReadDir(dir)
	if e != nil {
		return nil, []error{&ConfigParseError{Path: dir, Err: e}}
	}
	specs := []*WorkerSpec{}
	seen := make(map[string]*WorkerSpec)
	for _, ent := range entries {
		if ent.IsDir() || !Recognized(ent.Name()) {
			continue
		}
		fname := filepath.Join(dir, ent.Name())
		ws, e := l.LoadFile(fname)
		if e != nil {
			errs = append(errs, e)
			continue
		}
		for _, w := range ws {
			if prev, ok := seen[w.Name()]; ok {
				errs = append(errs, DuplicateError(w, prev))
				continue
			}
			seen[w.Name()] = w
			specs = append(specs, w)
		}
	}
	return specs, errs
}

// DuplicateError describes a spec whose name collides with an earlier one.
func DuplicateError(w, prev *WorkerSpec) error {
	return fmt.Errorf("%w: %s in %s (first defined in %s)",
		ErrDuplicateName, w.Name(), w.Source(), prev.Source())
}

// LoadFile decodes a single worker description file.  Either all of the
// workers in it are returned, or a *ConfigParseError.
func (l *Loader) LoadFile(fname string) ([]*WorkerSpec, error) {
	dec, ok := decoders[strings.ToLower(filepath.Ext(fname))]
	if !ok {
		return nil, &ConfigParseError{Path: fname,
			Err: fmt.Errorf("unrecognized extension %q", filepath.Ext(fname))}
	}
	b, e := os.ReadFile(fname)
	if e != nil {
		return nil, &ConfigParseError{Path: fname, Err: e}
	}
	m := &Manifest{}
	if e := dec(b, m); e != nil {
		return nil, &ConfigParseError{Path: fname, Err: e}
	}
	if m.Streams == nil {
		return nil, &ConfigParseError{Path: fname, Err: ErrNoStreams}
	}

	base := l.BaseDir
	if base == "" {
		base = filepath.Dir(fname)
	}

	specs := make([]*WorkerSpec, 0, len(m.Streams))
	for i, s := range m.Streams {
		if s.Name == "" {
			return nil, &ConfigParseError{Path: fname,
				Err: fmt.Errorf("%w: streams[%d].name", ErrMissingField, i)}
		}
		if s.ScriptPath == "" {
			return nil, &ConfigParseError{Path: fname,
				Err: fmt.Errorf("%w: streams[%d].script_path",
					ErrMissingField, i)}
		}
		script := s.ScriptPath
		if !filepath.IsAbs(script) {
			script = filepath.Join(base, script)
		}
		if abs, e := filepath.Abs(script); e == nil {
			script = abs
		}
		interp := s.Interpreter
		if interp == "" {
			interp = m.Interpreter
		}
		if interp == "" {
			interp = l.Interpreters[strings.ToLower(filepath.Ext(script))]
		}
		params := StreamParams{
			Type:              s.Type,
			SamplingFrequency: s.SamplingFrequency,
			DataType:          s.DataType,
			UniqueID:          s.UniqueID,
			Channels:          s.Channels,
		}
		w := NewWorkerSpec(s.Name, interp, script, params, s.Args, s.Env)
		w.source = fname
		specs = append(specs, w)
	}
	return specs, nil
}
