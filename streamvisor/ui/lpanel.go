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
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/views"

	"github.com/gdamore/streamvisor"
)

// LogPanel shows the tail of one worker's output file.
type LogPanel struct {
	text *views.TextArea
	name string // worker name

	Frame
}

func NewLogPanel(app *App) *LogPanel {
	p := &LogPanel{}

	p.Frame.Init(app)
	p.SetKeys([]string{"[ESC] Main"})

	p.text = views.NewTextArea()
	p.text.EnableCursor(false)
	p.text.SetStyle(StyleNormal)
	p.SetContent(p.text)

	return p
}

func (p *LogPanel) Draw() {
	p.update()
	p.Frame.Draw()
}

func (p *LogPanel) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEsc:
			p.app.ShowMain()
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'Q', 'q':
				p.app.ShowMain()
				return true
			}
		}
	}
	return p.Frame.HandleEvent(ev)
}

func (p *LogPanel) SetName(name string) {
	p.SetTitle("Loading")
	p.text.SetLines(nil)
	p.name = name
}

// update must be called from the application goroutine.
func (p *LogPanel) update() {
	info, e1 := p.app.GetItem(p.name)
	lines, e2 := p.app.GetLog(p.name)

	p.SetTitle("Output of " + p.name)
	p.SetKeys([]string{"[ESC] Main"})

	if info == nil || lines == nil {
		e := e2
		if e == nil {
			e = e1
		}
		if e != nil {
			p.SetStatus(HealthError, fmt.Sprintf("No data: %v", e))
		} else {
			p.SetStatus(HealthNormal, "Loading ...")
		}
		p.text.SetLines([]string{""})
		return
	}

	h := HealthWarn
	switch info.State {
	case streamvisor.StateRunning.String():
		h = HealthGood
	case streamvisor.StateFailed.String():
		h = HealthError
	}
	p.SetStatus(h, fmt.Sprintf("%s  %s  restarts %d", info.State,
		info.LogPath, info.Restarts))
	if len(lines) == 0 {
		lines = []string{"(no output)"}
	}
	p.text.SetLines(lines)
}
