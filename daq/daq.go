// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package daq orchestrates data acquisition from a Cerebralogik v5.0
// module: device bring-up, filter configuration, the collection loop
// and the CSV record sinks.
package daq // import "github.com/neurolab/clogik/daq"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/neurolab/clogik/cbl"
)

const (
	// PacketRate is the nominal device output rate, in packets per
	// second. The collection quota is derived from it.
	PacketRate = 160

	// cmdSettle is the pause after the filter configuration commands,
	// before collection starts.
	cmdSettle = 200 * time.Millisecond

	// readTimeout bounds a single serial read.
	readTimeout = 100 * time.Millisecond
)

// device is the interface the acquisition driver needs from the
// serial-attached module.
type device interface {
	Reset() error
	SetFilter(typ, opt uint8) error

	io.Reader
	io.Closer
}

var _ device = (*cbl.Device)(nil)

type config struct {
	warmup   time.Duration
	duration time.Duration
	quota    uint32 // packet quota; 0 derives it from duration
	chunk    int    // serial read chunk size
}

func newConfig() config {
	return config{
		warmup:   10 * time.Second,
		duration: 120 * time.Second,
		chunk:    1000,
	}
}

// Option configures an acquisition device.
type Option func(*config)

// WithWarmup sets the warm-up interval during which incoming bytes are
// discarded.
func WithWarmup(d time.Duration) Option {
	return func(cfg *config) {
		cfg.warmup = d
	}
}

// WithDuration sets the collection window. The packet quota is derived
// from it at the nominal packet rate unless WithQuota overrides it.
func WithDuration(d time.Duration) Option {
	return func(cfg *config) {
		cfg.duration = d
	}
}

// WithQuota sets the packet quota directly.
func WithQuota(n uint32) Option {
	return func(cfg *config) {
		cfg.quota = n
	}
}

// WithReadChunk sets the serial read chunk size.
func WithReadChunk(n int) Option {
	return func(cfg *config) {
		cfg.chunk = n
	}
}

// Device drives one acquisition from a Cerebralogik module into a
// record sink.
type Device struct {
	msg  *log.Logger
	dev  device
	sink *Sink
	psr  *cbl.Parser
	cfg  config
}

// New creates an acquisition device collecting from dev into sink.
func New(dev device, sink *Sink, opts ...Option) *Device {
	msg := log.New(os.Stderr, "daq: ", 0)
	d := &Device{
		msg:  msg,
		dev:  dev,
		sink: sink,
		cfg:  newConfig(),
	}
	for _, opt := range opts {
		opt(&d.cfg)
	}
	d.psr = cbl.NewParser(msg, sink.Process)
	return d
}

// Packets returns the number of validated packets collected so far.
func (dev *Device) Packets() uint32 { return dev.psr.Packets() }

// Errs returns the number of checksum mismatches seen so far.
func (dev *Device) Errs() uint32 { return dev.psr.Errs() }

// Run performs one acquisition: reset the module, configure the
// filters, then collect until the packet quota is reached or ctx is
// cancelled. Buffered records are flushed on every exit path.
func (dev *Device) Run(ctx context.Context) error {
	defer func() {
		err := dev.sink.Flush()
		if err != nil {
			dev.msg.Printf("%+v", err)
		}
	}()

	dev.psr.Reset()

	dev.msg.Printf("resetting module...")
	err := dev.dev.Reset()
	if err != nil {
		return fmt.Errorf("daq: could not reset module: %w", err)
	}

	for _, cmd := range []struct{ typ, opt uint8 }{
		{cbl.CmdNotch, 1},    // 50 Hz notch
		{cbl.CmdHighPass, 1}, // 0.3 Hz high-pass
		{cbl.CmdLowPass, 1},  // 15 Hz low-pass
	} {
		err = dev.dev.SetFilter(cmd.typ, cmd.opt)
		if err != nil {
			return fmt.Errorf("daq: could not configure filter 0x%x: %w", cmd.typ, err)
		}
	}
	time.Sleep(cmdSettle)

	quota := dev.cfg.quota
	if quota == 0 {
		quota = uint32(PacketRate * dev.cfg.duration.Seconds())
	}

	var (
		start = time.Now()
		buf   = make([]byte, dev.cfg.chunk)
		npkts = dev.psr.Packets()
		nerrs = dev.psr.Errs()
	)

	dev.msg.Printf("start collect (quota=%d packets, warmup=%v)...", quota, dev.cfg.warmup)
loop:
	for {
		select {
		case <-ctx.Done():
			dev.msg.Printf("collection interrupted")
			break loop
		default:
		}

		n, err := dev.dev.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break loop
			}
			return fmt.Errorf("daq: could not read module: %w", err)
		}
		if n == 0 {
			continue
		}

		// bytes received before steady state are dropped: they must
		// not advance the parser.
		if time.Since(start) > dev.cfg.warmup {
			_, _ = dev.psr.Write(buf[:n])
		}

		if dev.psr.Packets()-npkts > quota {
			break loop
		}
	}

	dev.msg.Printf("end collect: %d packets, %d checksum errors",
		dev.psr.Packets()-npkts, dev.psr.Errs()-nerrs,
	)
	return nil
}
