// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package lifecycle

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/epam/dappctl/cmd/dappctl/config"
)

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// WatchInterrupt returns a context cancelled on the first SIGINT/SIGTERM so a
// running docker-app is killed and reported as interrupted. A second signal
// exits immediately. Call the returned func to stop watching.
func WatchInterrupt(parent context.Context) (context.Context, func()) {
	ctx, interrupted := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	unwatch := make(chan struct{})
	signal.Notify(sigs, interruptSignals...)
	go func() {
		for {
			select {
			case sig := <-sigs:
				if ctx.Err() != nil {
					os.Exit(3)
				}
				interrupted()
				if config.Verbose {
					log.Writer().Write([]byte("\n"))
					log.Printf("%s, stopping docker-app... Send ^C again to force exit", sig.String())
				}

			case <-unwatch:
				signal.Stop(sigs)
				return
			}
		}
	}()
	stopped := false
	return ctx, func() {
		if stopped {
			return
		}
		stopped = true
		close(unwatch)
		interrupted()
	}
}
