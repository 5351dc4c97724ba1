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

package util

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/gdamore/streamvisor"
)

func TestFormatDuration(t *testing.T) {
	Convey("Durations print as h:mm:ss", t, func() {
		So(FormatDuration(0), ShouldEqual, "0:00:00")
		So(FormatDuration(61*time.Second), ShouldEqual, "0:01:01")
		So(FormatDuration(26*time.Hour+3*time.Minute), ShouldEqual, "26:03:00")
	})
}

func TestSortWorkers(t *testing.T) {
	Convey("Troubled workers sort first", t, func() {
		items := []*streamvisor.WorkerInfo{
			{Name: "b", State: "running"},
			{Name: "a", State: "running"},
			{Name: "z", State: "failed"},
			{Name: "y", State: "restarting"},
			{Name: "c", State: "terminated"},
		}
		SortWorkers(items)
		names := []string{}
		for _, w := range items {
			names = append(names, w.Name)
		}
		So(names, ShouldResemble, []string{"z", "y", "a", "b", "c"})
	})

	Convey("Only running workers have an uptime", t, func() {
		w := &streamvisor.WorkerInfo{State: "running",
			Started: time.Now().Add(-90 * time.Second)}
		So(Uptime(w), ShouldBeGreaterThanOrEqualTo, 90*time.Second)
		w.State = "restarting"
		So(Uptime(w), ShouldEqual, time.Duration(0))
		So(LastExit(w), ShouldEqual, "")
		w.LastExit = &streamvisor.Exit{Code: 2}
		So(LastExit(w), ShouldEqual, "exit status 2")
	})
}
