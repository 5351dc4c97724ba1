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
	"log"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func fakeHandle(name string, restarts int) *Handle {
	return &Handle{
		Spec:     NewWorkerSpec(name, "", "/bin/true", StreamParams{}, nil, nil),
		Restarts: restarts,
		done:     make(chan struct{}),
	}
}

func names(r *Registry) []string {
	rv := []string{}
	for _, h := range r.Handles() {
		rv = append(rv, h.Name())
	}
	return rv
}

func TestRegistry(t *testing.T) {
	Convey("A registry keeps insertion order", t, func() {
		r := NewRegistry()
		r.Put(fakeHandle("c", 0))
		r.Put(fakeHandle("a", 0))
		r.Put(fakeHandle("b", 0))
		So(r.Len(), ShouldEqual, 3)
		So(names(r), ShouldResemble, []string{"c", "a", "b"})

		Convey("Replacing keeps the position", func() {
			h := fakeHandle("a", 1)
			r.Put(h)
			So(r.Len(), ShouldEqual, 3)
			So(names(r), ShouldResemble, []string{"c", "a", "b"})
			got, ok := r.Get("a")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, h)
		})

		Convey("Remove drops the entry", func() {
			r.Remove("a")
			r.Remove("nosuch")
			So(r.Len(), ShouldEqual, 2)
			So(names(r), ShouldResemble, []string{"c", "b"})
			_, ok := r.Get("a")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRestartPolicy(t *testing.T) {
	Convey("Restart policy", t, func() {
		Convey("The zero value never gives up", func() {
			p := RestartPolicy{}
			So(p.exhausted(0), ShouldBeFalse)
			So(p.exhausted(1000000), ShouldBeFalse)
			now := time.Now()
			So(p.due(now).Equal(now), ShouldBeTrue)
		})
		Convey("MaxRestarts bounds the count", func() {
			p := RestartPolicy{MaxRestarts: 2}
			So(p.exhausted(1), ShouldBeFalse)
			So(p.exhausted(2), ShouldBeTrue)
		})
		Convey("Backoff delays the deadline", func() {
			p := RestartPolicy{Backoff: time.Second}
			now := time.Now()
			So(p.due(now).Equal(now.Add(time.Second)), ShouldBeTrue)
		})
	})
}

func TestLog(t *testing.T) {
	Convey("The in-memory log", t, func() {
		l := NewLog(3)
		recs, id := l.Records(0)
		So(recs, ShouldBeEmpty)
		start := id

		l.Write([]byte("one\ntwo\n"))
		recs, id = l.Records(0)
		So(len(recs), ShouldEqual, 2)
		So(recs[0].Text, ShouldEqual, "one")
		So(recs[1].Text, ShouldEqual, "two")
		So(id, ShouldEqual, start+2)

		Convey("Nothing new since the last id", func() {
			recs, id2 := l.Records(id)
			So(recs, ShouldBeNil)
			So(id2, ShouldEqual, id)
		})

		Convey("Old records fall off the end", func() {
			l.Write([]byte("three"))
			l.Write([]byte("four"))
			recs, _ := l.Records(0)
			So(len(recs), ShouldEqual, 3)
			So(recs[0].Text, ShouldEqual, "two")
			So(recs[2].Text, ShouldEqual, "four")
			So(recs[2].Id, ShouldEqual, start+4)
		})
	})
}

type testLog struct {
	t *testing.T
}

func (tl *testLog) Write(p []byte) (n int, err error) {
	s := string(p)
	s = strings.Trim(s, "\n")
	tl.t.Log(s)
	return len(p), nil
}

func TestMultiLogger(t *testing.T) {
	Convey("A MultiLogger copies lines to every logger", t, func() {
		m := NewMultiLogger()
		l1 := NewLog(10)
		l2 := NewLog(10)
		lg1 := log.New(l1, "", 0)
		lg2 := log.New(l2, "", 0)
		m.AddLogger(lg1)
		m.AddLogger(lg2)
		m.AddLogger(lg1)
		m.Logger().Printf("hello %d", 1)

		r1, _ := l1.Records(0)
		r2, _ := l2.Records(0)
		So(len(r1), ShouldEqual, 1)
		So(len(r2), ShouldEqual, 1)
		So(r1[0].Text, ShouldEqual, "hello 1")

		m.DelLogger(lg2)
		m.Logger().Printf("bye")
		r1, _ = l1.Records(0)
		r2, _ = l2.Records(0)
		So(len(r1), ShouldEqual, 2)
		So(len(r2), ShouldEqual, 1)

		Convey("Multi-line messages become one record per line", func() {
			m.Logger().Print("first\nsecond\n")
			r1, _ = l1.Records(0)
			So(len(r1), ShouldEqual, 4)
			So(r1[2].Text, ShouldEqual, "first")
			So(r1[3].Text, ShouldEqual, "second")
		})
	})
}
