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

// Command streamvisord starts every worker described in a configuration
// directory and keeps them running until interrupted.
//
// The flags are
//
//	-d <dir>	- worker description directory, default <root>/configs
//	-b <dir>	- directory relative script paths are resolved in,
//			  default <root>
//	-l <dir>	- worker log directory, default <root>/logs
//	-a <addr>	- status API listen address, empty to disable
//	-i <dur>	- poll interval, default 5s
//	-n <name>	- instance name
//	-s <sig>	- signal sent to workers on shutdown, default SIGTERM
//	-r <n>		- restart limit per worker, default 0 (unlimited)
//	-B <dur>	- delay before a restart, default 0
//	-w		- also start workers from files added later
//
// <root> is $STREAMVISORDIR, or the current directory.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gdamore/streamvisor"
	"github.com/gdamore/streamvisor/rest"
)

type options struct {
	confDir  string
	baseDir  string
	logDir   string
	addr     string
	interval time.Duration
	name     string
	stopSig  string
	restarts int
	backoff  time.Duration
	watch    bool
}

func parseFlags(args []string) (*options, error) {
	root := os.Getenv("STREAMVISORDIR")
	if root == "" {
		root = "."
	}
	o := &options{}
	fs := flag.NewFlagSet("streamvisord", flag.ContinueOnError)
	fs.StringVar(&o.confDir, "d", filepath.Join(root, "configs"), "worker description directory")
	fs.StringVar(&o.baseDir, "b", root, "script base directory")
	fs.StringVar(&o.logDir, "l", filepath.Join(root, "logs"), "worker log directory")
	fs.StringVar(&o.addr, "a", "127.0.0.1:8321", "status listen address")
	fs.DurationVar(&o.interval, "i", streamvisor.DefaultPollInterval, "poll interval")
	fs.StringVar(&o.name, "n", "streamvisord", "instance name")
	fs.StringVar(&o.stopSig, "s", "SIGTERM", "stop signal")
	fs.IntVar(&o.restarts, "r", 0, "restart limit (0 is unlimited)")
	fs.DurationVar(&o.backoff, "B", 0, "restart delay")
	fs.BoolVar(&o.watch, "w", false, "watch for new description files")
	if e := fs.Parse(args); e != nil {
		return nil, e
	}
	return o, nil
}

// watchSignals cancels on the first signal.  A second one means the
// operator is done waiting, and exit is called with status 1.
func watchSignals(sigs <-chan os.Signal, cancel context.CancelFunc, exit func(int)) {
	<-sigs
	cancel()
	<-sigs
	log.Printf("Interrupted again, exiting")
	exit(1)
}

// run is the whole daemon.  It returns the exit status: 0 after a clean
// shutdown, 1 if the log directory cannot be created, 2 for bad flags.
func run(args []string, sigs <-chan os.Signal, exit func(int)) int {
	o, e := parseFlags(args)
	if e != nil {
		return 2
	}
	sig, e := streamvisor.ParseSignal(o.stopSig)
	if e != nil {
		log.Printf("Bad stop signal: %v", e)
		return 2
	}

	launcher, e := streamvisor.NewLauncher(o.logDir)
	if e != nil {
		log.Printf("Cannot create log directory: %v", e)
		return 1
	}

	sv := streamvisor.NewSupervisor(o.name, launcher)
	sv.SetPollInterval(o.interval)
	sv.SetStopSignal(sig)
	sv.SetRestartPolicy(streamvisor.RestartPolicy{
		MaxRestarts: o.restarts,
		Backoff:     o.backoff,
	})

	loader := streamvisor.NewLoader(o.baseDir)
	specs, errs := loader.LoadDir(o.confDir)
	for _, e := range errs {
		log.Printf("Skipping %v", e)
	}
	if len(specs) == 0 {
		log.Printf("No workers found in %s", o.confDir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(sigs, cancel, exit)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sv.Run(gctx, specs)
	})
	if o.addr != "" {
		srv := &http.Server{Addr: o.addr, Handler: rest.NewHandler(sv)}
		g.Go(func() error {
			e := srv.ListenAndServe()
			if e != nil && !errors.Is(e, http.ErrServerClosed) {
				log.Printf("Status API on %s: %v", o.addr, e)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, scancel := context.WithTimeout(context.Background(),
				5*time.Second)
			defer scancel()
			return srv.Shutdown(sctx)
		})
	}
	if o.watch {
		w := streamvisor.NewWatcher(o.confDir, loader, sv)
		g.Go(func() error {
			if e := w.Run(gctx); e != nil {
				log.Printf("Not watching %s: %v", o.confDir, e)
			}
			return nil
		})
	}

	if e := g.Wait(); e != nil {
		log.Printf("Shutdown: %v", e)
	}
	return 0
}

func main() {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	os.Exit(run(os.Args[1:], sigs, os.Exit))
}
