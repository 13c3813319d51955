// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clogik-svc exposes a Cerebralogik v5.0 module over a small
// TCP control protocol, so acquisitions can be driven remotely.
package main // import "github.com/neurolab/clogik/cmd/clogik-svc"

import (
	"flag"
	"log"
	"time"

	"github.com/neurolab/clogik/daq"
)

func main() {
	var (
		addr   = flag.String("addr", ":9999", "clogik-svc [addr]:port")
		dev    = flag.String("dev", "/dev/ttyUSB0", "serial device of the Cerebralogik module")
		eeg    = flag.String("eeg", "clogik_50_eeg.csv", "EEG output stream")
		gs     = flag.String("gs", "clogik_50_gs.csv", "grey-scale histogram output stream")
		warmup = flag.Duration("warmup", 10*time.Second, "warm-up interval")
	)

	log.SetPrefix("clogik-svc: ")
	log.SetFlags(0)

	flag.Parse()

	err := daq.Serve(*addr, *dev, *eeg, *gs, daq.WithWarmup(*warmup))
	if err != nil {
		log.Fatalf("could not create clogik-svc service: %+v", err)
	}
}
