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
)

var (
	ErrNoSuchWorker  = errors.New("No such worker")
	ErrDuplicateName = errors.New("Duplicate worker name")
	ErrNoStreams     = errors.New("No streams list")
	ErrMissingField  = errors.New("Missing required field")
	ErrBadSignal     = errors.New("Unknown signal name")
	ErrShutdown      = errors.New("Supervisor is shut down")
	ErrNotRunning    = errors.New("Worker is not running")
)

// ConfigParseError reports a worker description file that could not be
// read or decoded.  The whole file is skipped.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// MissingExecutableError reports a worker whose script or interpreter
// cannot be found.
type MissingExecutableError struct {
	Name string
	Path string
}

func (e *MissingExecutableError) Error() string {
	return fmt.Sprintf("worker %s: executable %s not found", e.Name, e.Path)
}

// LaunchError is returned by the Launcher when a worker process could not
// be created.  Err may be a *MissingExecutableError.
type LaunchError struct {
	Name string
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
