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
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, dir, name, content string) string {
	fname := filepath.Join(dir, name)
	if e := os.WriteFile(fname, []byte(content), 0644); e != nil {
		t.Fatalf("write %s: %v", fname, e)
	}
	return fname
}

const ecgJson = `{
    "interpreter": "python",
    "streams": [
        {
            "name": "ecg",
            "script_path": "scripts/ecg_ble_stream.py",
            "type": "ECG",
            "sampling_frequency": 100,
            "data_type": "float32",
            "unique_id": "ecg-1",
            "channels": ["lead1", "lead2"]
        },
        {
            "name": "markers",
            "script_path": "scripts/markers.sh",
            "interpreter": "/bin/sh",
            "args": ["--verbose"],
            "env": {"BUS": "local"}
        }
    ]
}`

const imuYaml = `
streams:
  - name: imu
    script_path: scripts/imu.py
    type: IMU
    sampling_frequency: 250
    data_type: int16
    unique_id: imu-7
    channels: [x, y, z]
`

const gsrToml = `
interpreter = "python3"

[[streams]]
name = "gsr"
script_path = "/opt/streams/gsr.py"
type = "GSR"
sampling_frequency = 4.0
channels = ["skin"]
`

func TestLoadFile(t *testing.T) {
	Convey("Given a worker description directory", t, func() {
		dir := t.TempDir()
		l := NewLoader("/srv/acq")

		Convey("A JSON file yields one spec per stream", func() {
			fname := writeFile(t, dir, "ecg.json", ecgJson)
			specs, e := l.LoadFile(fname)
			So(e, ShouldBeNil)
			So(len(specs), ShouldEqual, 2)

			ecg := specs[0]
			So(ecg.Name(), ShouldEqual, "ecg")
			So(ecg.Source(), ShouldEqual, fname)
			So(ecg.Script(), ShouldEqual, "/srv/acq/scripts/ecg_ble_stream.py")
			cmd := ecg.Command()
			So(cmd.Path, ShouldEqual, "python")
			So(cmd.Args, ShouldResemble, []string{
				"/srv/acq/scripts/ecg_ble_stream.py",
				"ecg", "ECG", "100", "float32", "ecg-1", "lead1,lead2"})
			So(ecg.Params().Channels, ShouldResemble,
				[]string{"lead1", "lead2"})

			m := specs[1]
			cmd = m.Command()
			So(cmd.Path, ShouldEqual, "/bin/sh")
			So(cmd.Args, ShouldResemble, []string{
				"/srv/acq/scripts/markers.sh", "markers", "", "--verbose"})
			So(m.Env(), ShouldResemble, []string{"BUS=local"})
		})

		Convey("A YAML file is decoded", func() {
			fname := writeFile(t, dir, "imu.yaml", imuYaml)
			specs, e := l.LoadFile(fname)
			So(e, ShouldBeNil)
			So(len(specs), ShouldEqual, 1)
			p := specs[0].Params()
			So(p.Type, ShouldEqual, "IMU")
			So(p.SamplingFrequency, ShouldEqual, 250.0)
			So(p.Channels, ShouldResemble, []string{"x", "y", "z"})
			So(specs[0].Command().Path, ShouldEqual, "python")
		})

		Convey("A TOML file is decoded", func() {
			fname := writeFile(t, dir, "gsr.toml", gsrToml)
			specs, e := l.LoadFile(fname)
			So(e, ShouldBeNil)
			So(len(specs), ShouldEqual, 1)
			So(specs[0].Script(), ShouldEqual, "/opt/streams/gsr.py")
			So(specs[0].Command().Argv(), ShouldResemble, []string{
				"python3", "/opt/streams/gsr.py",
				"gsr", "GSR", "4", "", "", "skin"})
		})

		Convey("Scripts resolve next to the file without a base", func() {
			l.BaseDir = ""
			fname := writeFile(t, dir, "run.json",
				`{"streams": [{"name": "r", "script_path": "bin/run"}]}`)
			specs, e := l.LoadFile(fname)
			So(e, ShouldBeNil)
			So(len(specs), ShouldEqual, 1)
			So(specs[0].Script(), ShouldEqual, filepath.Join(dir, "bin/run"))

			// No interpreter known for the extension, so it is run
			// directly.
			cmd := specs[0].Command()
			So(cmd.Path, ShouldEqual, specs[0].Script())
			So(cmd.Args, ShouldResemble, []string{"r", ""})
		})

		Convey("Shell scripts run under /bin/sh", func() {
			fname := writeFile(t, dir, "sh.json",
				`{"streams": [{"name": "a", "script_path": "echo.sh"}]}`)
			specs, e := l.LoadFile(fname)
			So(e, ShouldBeNil)
			So(specs[0].Command().Argv(), ShouldResemble, []string{
				"/bin/sh", "/srv/acq/echo.sh", "a", ""})
		})

		Convey("Trailing data after the JSON document is rejected", func() {
			fname := writeFile(t, dir, "trail.json",
				`{"streams": []} trailing garbage`)
			specs, e := l.LoadFile(fname)
			So(specs, ShouldBeNil)
			var pe *ConfigParseError
			So(errors.As(e, &pe), ShouldBeTrue)
		})

		Convey("Malformed content is a ConfigParseError", func() {
			fname := writeFile(t, dir, "bad.json", `{"streams": [`)
			specs, e := l.LoadFile(fname)
			So(specs, ShouldBeNil)
			var pe *ConfigParseError
			So(errors.As(e, &pe), ShouldBeTrue)
			So(pe.Path, ShouldEqual, fname)
		})

		Convey("A file without streams is rejected", func() {
			fname := writeFile(t, dir, "none.json", `{"other": 1}`)
			_, e := l.LoadFile(fname)
			So(errors.Is(e, ErrNoStreams), ShouldBeTrue)
		})

		Convey("Missing name or script_path rejects the file", func() {
			fname := writeFile(t, dir, "noname.json",
				`{"streams": [{"script_path": "a.py"}]}`)
			_, e := l.LoadFile(fname)
			So(errors.Is(e, ErrMissingField), ShouldBeTrue)

			fname = writeFile(t, dir, "noscript.json",
				`{"streams": [{"name": "a"}, {"name": "b", "script_path": "b.py"}]}`)
			specs, e := l.LoadFile(fname)
			So(errors.Is(e, ErrMissingField), ShouldBeTrue)
			So(specs, ShouldBeNil)
		})
	})
}

func TestLoadDir(t *testing.T) {
	Convey("Loading a directory", t, func() {
		dir := t.TempDir()
		l := NewLoader(dir)

		Convey("Reads recognized files in name order", func() {
			writeFile(t, dir, "b.yml", imuYaml)
			writeFile(t, dir, "a.json", ecgJson)
			writeFile(t, dir, "README.txt", "not a config")
			specs, errs := l.LoadDir(dir)
			So(errs, ShouldBeEmpty)
			So(len(specs), ShouldEqual, 3)
			So(specs[0].Name(), ShouldEqual, "ecg")
			So(specs[1].Name(), ShouldEqual, "markers")
			So(specs[2].Name(), ShouldEqual, "imu")
		})

		Convey("Skips malformed files but keeps the rest", func() {
			writeFile(t, dir, "a.json", `{not json`)
			writeFile(t, dir, "b.yaml", imuYaml)
			specs, errs := l.LoadDir(dir)
			So(len(specs), ShouldEqual, 1)
			So(specs[0].Name(), ShouldEqual, "imu")
			So(len(errs), ShouldEqual, 1)
			var pe *ConfigParseError
			So(errors.As(errs[0], &pe), ShouldBeTrue)
		})

		Convey("An empty streams list is not an error", func() {
			writeFile(t, dir, "empty.json", `{"streams": []}`)
			specs, errs := l.LoadDir(dir)
			So(specs, ShouldBeEmpty)
			So(errs, ShouldBeEmpty)
		})

		Convey("The first of two workers with one name wins", func() {
			a := writeFile(t, dir, "a.json",
				`{"streams": [{"name": "x", "script_path": "one.py"}]}`)
			writeFile(t, dir, "b.json",
				`{"streams": [{"name": "x", "script_path": "two.py"}]}`)
			specs, errs := l.LoadDir(dir)
			So(len(specs), ShouldEqual, 1)
			So(specs[0].Source(), ShouldEqual, a)
			So(len(errs), ShouldEqual, 1)
			So(errors.Is(errs[0], ErrDuplicateName), ShouldBeTrue)
		})

		Convey("A missing directory is reported", func() {
			specs, errs := l.LoadDir(filepath.Join(dir, "nosuch"))
			So(specs, ShouldBeEmpty)
			So(len(errs), ShouldEqual, 1)
		})
	})
}

func TestRecognized(t *testing.T) {
	Convey("Recognized extensions", t, func() {
		So(Recognized("a.json"), ShouldBeTrue)
		So(Recognized("a.YAML"), ShouldBeTrue)
		So(Recognized("a.yml"), ShouldBeTrue)
		So(Recognized("a.toml"), ShouldBeTrue)
		So(Recognized("a.py"), ShouldBeFalse)
		So(Recognized("json"), ShouldBeFalse)
	})
}
