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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTailFile(t *testing.T) {
	Convey("Tailing a file", t, func() {
		dir := t.TempDir()
		fname := filepath.Join(dir, "w.log")

		Convey("A missing file has no lines", func() {
			lines, e := TailFile(fname, 10)
			So(e, ShouldBeNil)
			So(lines, ShouldBeEmpty)
		})

		Convey("Short files are returned whole", func() {
			So(os.WriteFile(fname, []byte("a\nb\nc\n"), 0644), ShouldBeNil)
			lines, e := TailFile(fname, 10)
			So(e, ShouldBeNil)
			So(lines, ShouldResemble, []string{"a", "b", "c"})

			lines, e = TailFile(fname, 0)
			So(e, ShouldBeNil)
			So(lines, ShouldBeEmpty)
		})

		Convey("Only the last lines of a big file are returned", func() {
			b := strings.Builder{}
			for i := 0; i < 20000; i++ {
				fmt.Fprintf(&b, "line %05d of the worker output\n", i)
			}
			So(os.WriteFile(fname, []byte(b.String()), 0644), ShouldBeNil)
			lines, e := TailFile(fname, 3)
			So(e, ShouldBeNil)
			So(lines, ShouldResemble, []string{
				"line 19997 of the worker output",
				"line 19998 of the worker output",
				"line 19999 of the worker output",
			})

			lines, e = TailFile(fname, 5000)
			So(e, ShouldBeNil)
			So(len(lines), ShouldEqual, 5000)
			So(lines[0], ShouldEqual, "line 15000 of the worker output")
		})

		Convey("A partial last line is kept", func() {
			So(os.WriteFile(fname, []byte("a\nb\nhalf"), 0644), ShouldBeNil)
			lines, e := TailFile(fname, 2)
			So(e, ShouldBeNil)
			So(lines, ShouldResemble, []string{"b", "half"})
		})
	})
}
