// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clogik-daq drives a Cerebralogik v5.0 EEG acquisition in
// stand-alone mode: it resets the module, configures the filters and
// collects two minutes of channel-1 data into two CSV streams.
package main // import "github.com/neurolab/clogik/cmd/clogik-daq"

import (
	"flag"
	"log"
	"time"

	"github.com/neurolab/clogik/daq"
	"github.com/neurolab/clogik/runlog"
)

func main() {
	var (
		dev      = flag.String("dev", "/dev/ttyUSB0", "serial device of the Cerebralogik module")
		eeg      = flag.String("eeg", "clogik_50_eeg.csv", "EEG output stream")
		gs       = flag.String("gs", "clogik_50_gs.csv", "grey-scale histogram output stream")
		duration = flag.Duration("duration", 120*time.Second, "collection window")
		warmup   = flag.Duration("warmup", 10*time.Second, "warm-up interval")
		runnbr   = flag.Int("run", 0, "run number")
		dsn      = flag.String("db", "", "run bookkeeping database DSN (disabled when empty)")
	)

	log.SetPrefix("clogik-daq: ")
	log.SetFlags(0)

	flag.Parse()

	log.Printf("run=%d dev=%s duration=%v warmup=%v", *runnbr, *dev, *duration, *warmup)

	err := run(*dev, *eeg, *gs, *dsn, uint32(*runnbr), *duration, *warmup)
	if err != nil {
		log.Fatalf("could not run clogik-daq: %+v", err)
	}
}

func run(dev, eeg, gs, dsn string, runnbr uint32, duration, warmup time.Duration) error {
	var db *runlog.DB
	if dsn != "" {
		var err error
		db, err = runlog.Open(dsn)
		if err != nil {
			// bookkeeping is best-effort: a dead database must not
			// prevent data taking.
			log.Printf("could not open run db: %+v", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	return daq.RunStandalone(dev, eeg, gs, db, runnbr,
		daq.WithDuration(duration),
		daq.WithWarmup(warmup),
	)
}
