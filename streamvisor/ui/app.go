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

// Package ui implements a "top" like view of a running streamvisord.
package ui

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/views"

	"github.com/gdamore/streamvisor"
	"github.com/gdamore/streamvisor/rest"
	"github.com/gdamore/streamvisor/streamvisor/util"
)

// RefreshInterval is how often the server is asked for changes.
var RefreshInterval = time.Second

// LogLines is how much of a worker's output the log panel shows.
const LogLines = 500

type App struct {
	app     *views.Application
	view    views.View
	panel   views.Widget
	log     *LogPanel
	main    *MainPanel
	client  *rest.Client
	err     error
	items   []*streamvisor.WorkerInfo
	logName string
	lines   []string
	logErr  error
	quit    chan struct{}
	lock    sync.Mutex
	watch   string

	views.WidgetWatchers
}

func (a *App) show(w views.Widget) {
	if w != a.panel {
		a.panel.SetView(nil)
		a.panel = w
	}
	a.panel.SetView(a.view)
	a.panel.Resize()
	a.app.Refresh()
}

func (a *App) ShowLog(name string) {
	a.logName = name
	a.lines = nil
	a.logErr = nil
	a.log.SetName(name)
	a.setWatching(name)
	a.show(a.log)
}

func (a *App) ShowMain() {
	a.logName = ""
	a.setWatching("")
	a.show(a.main)
}

func (a *App) Quit() {
	a.app.Quit()
}

func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		// Intercept a few control keys up front, for global handling.
		case tcell.KeyCtrlC:
			a.Quit()
			return true
		case tcell.KeyCtrlL:
			a.app.Refresh()
			return true
		}
	}

	if a.panel != nil {
		return a.panel.HandleEvent(ev)
	}
	return false
}

func (a *App) Draw() {
	if a.panel != nil {
		a.panel.Draw()
	}
}

func (a *App) Resize() {
	if a.panel != nil {
		a.panel.Resize()
	}
}

func (a *App) SetView(view views.View) {
	a.view = view
	if a.panel != nil {
		a.panel.SetView(view)
	}
}

func (a *App) Size() (int, int) {
	if a.panel != nil {
		return a.panel.Size()
	}
	return 0, 0
}

func (a *App) GetAppName() string {
	return "Streamvisor"
}

func (a *App) GetItems() ([]*streamvisor.WorkerInfo, error) {
	return a.items, a.err
}

func (a *App) GetItem(name string) (*streamvisor.WorkerInfo, error) {
	if a.err != nil {
		return nil, a.err
	}
	for _, i := range a.items {
		if i.Name == name {
			return i, nil
		}
	}
	return nil, errors.New("Worker not found")
}

func (a *App) GetLog(name string) ([]string, error) {
	if a.logName == name {
		return a.lines, a.logErr
	}
	return nil, nil
}

// watching is the worker whose log the refresh loop should fetch.
func (a *App) watching() string {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.watch
}

func (a *App) setWatching(name string) {
	a.lock.Lock()
	a.watch = name
	a.lock.Unlock()
}

// refresh keeps the app items current.  The client only refetches the
// workers when the server reports a change.
func (a *App) refresh() {
	for {
		ctx, cancel := context.WithTimeout(context.Background(),
			RefreshInterval*5)
		items, _, e := a.client.Snapshot(ctx)
		if e == nil {
			items = append([]*streamvisor.WorkerInfo{}, items...)
			util.SortWorkers(items)
		}
		a.app.PostFunc(func() {
			a.items = items
			a.err = e
			a.app.Update()
		})
		if name := a.watching(); name != "" {
			lines, le := a.client.WorkerLog(ctx, name, LogLines)
			a.app.PostFunc(func() {
				if a.logName == name {
					a.lines = lines
					a.logErr = le
					a.app.Update()
				}
			})
		}
		cancel()

		select {
		case <-a.quit:
			return
		case <-time.After(RefreshInterval):
		}
	}
}

func (a *App) Run() {
	a.app.SetRootWidget(a)
	a.ShowMain()
	go a.refresh()
	a.app.Run()
	close(a.quit)
}

func NewApp(client *rest.Client, url string) *App {
	app := &App{
		app:    &views.Application{},
		client: client,
		quit:   make(chan struct{}),
	}
	app.log = NewLogPanel(app)
	app.main = NewMainPanel(app, url)
	app.panel = app.main
	return app
}
