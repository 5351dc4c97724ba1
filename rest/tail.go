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

package rest

import (
	"bytes"
	"io"
	"os"
	"strings"
)

const tailChunk = 64 * 1024

// TailFile returns up to n of the last lines of a file.  A missing file
// has no lines.
func TailFile(path string, n int) ([]string, error) {
	lines := []string{}
	if n <= 0 || path == "" {
		return lines, nil
	}
	f, e := os.Open(path)
	if os.IsNotExist(e) {
		return lines, nil
	} else if e != nil {
		return nil, e
	}
	defer f.Close()

	end, e := f.Seek(0, io.SeekEnd)
	if e != nil {
		return nil, e
	}

	// Read backwards until we have seen more than n newlines, or hit
	// the start of the file.
	var buf []byte
	pos := end
	for pos > 0 && bytes.Count(buf, []byte{'\n'}) <= n {
		sz := int64(tailChunk)
		if pos < sz {
			sz = pos
		}
		pos -= sz
		chunk := make([]byte, sz)
		if _, e := f.ReadAt(chunk, pos); e != nil && e != io.EOF {
			return nil, e
		}
		buf = append(chunk, buf...)
	}

	text := strings.TrimRight(string(buf), "\n")
	if text == "" {
		return lines, nil
	}
	all := strings.Split(text, "\n")
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return append(lines, all...), nil
}
