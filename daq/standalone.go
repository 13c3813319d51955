// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neurolab/clogik/cbl"
	"github.com/neurolab/clogik/runlog"
	"golang.org/x/sync/errgroup"
)

// RunStandalone performs one stand-alone acquisition: open the module
// and both output streams, collect until the packet quota is reached
// or the process is interrupted, then flush and close everything.
//
// When db is non-nil the run is recorded in the bookkeeping database;
// bookkeeping failures are reported but never abort the acquisition.
func RunStandalone(devname, eeg, gs string, db *runlog.DB, run uint32, opts ...Option) error {
	msg := log.New(os.Stderr, "daq: ", 0)

	dev, err := cbl.Open(devname, readTimeout)
	if err != nil {
		return fmt.Errorf("daq: could not open module on %q: %w", devname, err)
	}
	defer dev.Close()

	sink, err := NewSink(eeg, gs, msg)
	if err != nil {
		return fmt.Errorf("daq: could not open output streams: %w", err)
	}
	defer sink.Close()

	acq := New(dev, sink, opts...)

	if db != nil {
		err = db.BeginRun(context.Background(), runlog.Run{
			Number: run,
			Device: devname,
			Notch:  1,
			HPF:    1,
			LPF:    1,
			Start:  time.Now(),
		})
		if err != nil {
			msg.Printf("could not record start of run %d: %+v", run, err)
		}
		defer func() {
			err := db.EndRun(context.Background(), run, acq.Packets(), acq.Errs())
			if err != nil {
				msg.Printf("could not record end of run %d: %+v", run, err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var grp errgroup.Group
	grp.Go(func() error {
		defer cancel()
		return acq.Run(ctx)
	})
	grp.Go(func() error {
		select {
		case <-stop:
			msg.Printf("interrupt received, stopping collection...")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	return grp.Wait()
}
