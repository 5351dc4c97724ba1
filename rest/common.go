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

// Package rest exposes a Supervisor's status over HTTP, and provides a
// client for it.  The interface is read-only: workers are controlled
// through their configuration files, not through the API.
package rest

const (
	mimeJson = "application/json; charset=UTF-8"

	// DefaultLogLines is how many lines of a worker log are returned
	// when the request does not say.
	DefaultLogLines = 100

	// MaxLogLines bounds the lines parameter.
	MaxLogLines = 10000
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}
