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
	"github.com/gdamore/tcell/v2/views"
)

// Frame puts a content widget between the three bars every screen has:
// a title bar on top, then the status bar, and the key bar at the bottom.
// MainPanel and LogPanel embed it and fill in the content.
type Frame struct {
	app    *App
	title  *TitleBar
	status *StatusBar
	keys   *KeyBar

	views.Panel
}

// Init wires the bars into the underlying views.Panel.
func (f *Frame) Init(app *App) {
	f.app = app
	f.title = NewTitleBar()
	f.title.SetRight(app.GetAppName())
	f.title.SetCenter(" ")
	f.status = NewStatusBar()
	f.keys = NewKeyBar()

	f.Panel.SetTitle(f.title)
	f.Panel.SetMenu(f.status)
	f.Panel.SetStatus(f.keys)
}

func (f *Frame) App() *App {
	return f.app
}

// SetTitle sets the centered title text.
func (f *Frame) SetTitle(title string) {
	f.title.SetCenter(title)
}

func (f *Frame) SetKeys(words []string) {
	f.keys.SetKeys(words)
}

// SetStatus sets the status line text and color together.
func (f *Frame) SetStatus(h Health, text string) {
	f.status.SetText(text)
	f.status.SetHealth(h)
}
