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

package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMarkKeys(t *testing.T) {
	Convey("Key names are highlighted", t, func() {
		So(markKeys([]string{"[Q] Quit"}), ShouldEqual, "[%AQ%N] Quit")
		So(markKeys([]string{"[Q] Quit", "[L] Log"}), ShouldEqual,
			"[%AQ%N] Quit [%AL%N] Log")
		So(markKeys([]string{"100%"}), ShouldEqual, "100%%")
	})
}

func TestMainPanelHealth(t *testing.T) {
	Convey("The worst worker state colors the status bar", t, func() {
		m := &MainPanel{}
		So(m.health(), ShouldEqual, HealthNormal)
		m.nrunning = 2
		So(m.health(), ShouldEqual, HealthGood)
		m.nwaiting = 1
		So(m.health(), ShouldEqual, HealthWarn)
		m.nfailed = 1
		So(m.health(), ShouldEqual, HealthError)
	})

	Convey("Every health has its own style", t, func() {
		seen := map[Health]bool{}
		for _, h := range []Health{HealthNormal, HealthGood, HealthWarn, HealthError} {
			_, ok := healthStyles[h]
			So(ok, ShouldBeTrue)
			seen[h] = true
		}
		So(len(healthStyles), ShouldEqual, len(seen))
		So(healthStyles[HealthError], ShouldNotEqual, healthStyles[HealthGood])
	})
}
