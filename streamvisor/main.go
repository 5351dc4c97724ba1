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

// Command streamvisor is a client for streamvisord's status API.  It uses
// subcommands.
//
// The flags are
//
//	-a <address>	- server address, default is http://127.0.0.1:8321
//	-t <dur>	- request timeout, default 10s
//
// Subcommands are
//
//	workers			- list all workers
//	status [<w> ...]	- show status for the named workers (or all)
//	info <w>		- show more detailed worker info
//	log [<w> [<lines>]]	- show a worker's output, or the supervisor log
//	top			- full screen view (the default)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/streamvisor"
	"github.com/gdamore/streamvisor/rest"
	"github.com/gdamore/streamvisor/streamvisor/ui"
	"github.com/gdamore/streamvisor/streamvisor/util"
)

var addr string = "http://127.0.0.1:8321"
var timeout = 10 * time.Second

func usage() {
	log.Fatalf("Usage: %s [-a <address>] <subcommand>", os.Args[0])
}

func showStatus(w *streamvisor.WorkerInfo) {
	fmt.Printf("%-20s %-10s %8d %10s %6d  %s\n", w.Name, w.State, w.Pid,
		util.FormatDuration(util.Uptime(w)), w.Restarts, util.LastExit(w))
}

func showInfo(w *streamvisor.WorkerInfo) {
	fmt.Printf("Name:      %s\n", w.Name)
	fmt.Printf("Type:      %s\n", w.Type)
	fmt.Printf("Status:    %s\n", w.State)
	fmt.Printf("Pid:       %d\n", w.Pid)
	fmt.Printf("Restarts:  %d\n", w.Restarts)
	if !w.Started.IsZero() {
		fmt.Printf("Started:   %s\n", w.Started.Format(time.RFC3339))
		fmt.Printf("Up:        %s\n", util.FormatDuration(util.Uptime(w)))
	}
	if w.LastExit != nil {
		fmt.Printf("Last exit: %s at %s\n", w.LastExit,
			w.LastExit.Time.Format(time.RFC3339))
	}
	fmt.Printf("Command:   %s\n", strings.Join(w.Command, " "))
	fmt.Printf("Source:    %s\n", w.Source)
	fmt.Printf("Log:       %s\n", w.LogPath)
}

func main() {
	flag.StringVar(&addr, "a", addr, "streamvisord address")
	flag.DurationVar(&timeout, "t", timeout, "request timeout")
	flag.Parse()

	client := rest.NewClient(nil, addr)

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"top"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	switch args[0] {
	case "workers":
		if len(args) != 1 {
			usage()
		}
		s, e := client.Workers(ctx)
		if e != nil {
			log.Fatalf("Failed: %v", e)
		}
		for _, name := range s {
			fmt.Println(name)
		}

	case "info":
		if len(args) != 2 {
			usage()
		}
		w, e := client.Worker(ctx, args[1])
		if e != nil {
			log.Fatalf("Failed: %v", e)
		}
		showInfo(w)

	case "log":
		switch len(args) {
		case 1:
			recs, e := client.Log(ctx)
			if e != nil {
				log.Fatalf("Failed: %v", e)
			}
			for _, r := range recs {
				fmt.Printf("%s %s\n", r.Time.Format(time.StampMilli),
					r.Text)
			}
			return
		case 2, 3:
		default:
			usage()
		}
		n := rest.DefaultLogLines
		if len(args) == 3 {
			v, e := strconv.Atoi(args[2])
			if e != nil || v < 0 {
				usage()
			}
			n = v
		}
		lines, e := client.WorkerLog(ctx, args[1], n)
		if e != nil {
			log.Fatalf("Failed: %v", e)
		}
		for _, line := range lines {
			fmt.Println(line)
		}

	case "status":
		names := args[1:]
		var infos []*streamvisor.WorkerInfo
		if len(names) == 0 {
			all, _, e := client.Snapshot(ctx)
			if e != nil {
				log.Fatalf("Failed: %v", e)
			}
			infos = all
		}
		for _, n := range names {
			info, e := client.Worker(ctx, n)
			if e == nil {
				infos = append(infos, info)
			} else {
				log.Printf("Failed: %s: %v", n, e)
			}
		}
		util.SortWorkers(infos)
		for _, info := range infos {
			showStatus(info)
		}

	case "top":
		cancel()
		ui.NewApp(client, addr).Run()

	default:
		usage()
	}
}
