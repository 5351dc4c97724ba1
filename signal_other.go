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

//go:build !unix

package streamvisor

import (
	"fmt"
	"os"
	"strings"
)

// ParseSignal only knows about kill and interrupt on this platform.
func ParseSignal(name string) (os.Signal, error) {
	switch strings.ToUpper(strings.TrimPrefix(strings.ToUpper(name), "SIG")) {
	case "KILL":
		return os.Kill, nil
	case "INT":
		return os.Interrupt, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBadSignal, name)
}
