// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

// testFrame assembles one valid device-to-host frame around payload.
func testFrame(payload []byte) []byte {
	raw := append([]byte{0xaa, 0x55}, payload...)
	var sum uint16
	for _, v := range raw {
		sum += uint16(v)
	}
	return append(raw, byte(sum>>8), byte(sum))
}

func onesPayload() []byte {
	return bytes.Repeat([]byte{0x01}, 36)
}

func noGSPayload() []byte {
	p := make([]byte, 36)
	p[32], p[33] = 0x00, 0xff // cycle counter = sentinel
	return p
}

func TestDeviceRun(t *testing.T) {
	sink, eeg, gs := newTestSink(t)

	dev := &fakeDevice{
		reads: []fakeRead{
			{data: append([]byte{0xde, 0xad}, testFrame(onesPayload())...)},
			{data: testFrame(noGSPayload())},
		},
		eof: true,
	}

	acq := New(dev, sink, WithWarmup(0), WithQuota(1000))
	err := acq.Run(context.Background())
	if err != nil {
		t.Fatalf("could not run acquisition: %+v", err)
	}

	if got, want := dev.resets, 1; got != want {
		t.Fatalf("invalid number of module resets: got=%d, want=%d", got, want)
	}
	want := [][2]uint8{{0x1, 1}, {0x2, 1}, {0x3, 1}}
	if got := dev.filters; len(got) != len(want) ||
		got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("invalid filter bring-up sequence: got=%v, want=%v", got, want)
	}

	if got, want := acq.Packets(), uint32(2); got != want {
		t.Fatalf("invalid packet count: got=%d, want=%d", got, want)
	}
	if got, want := acq.Errs(), uint32(0); got != want {
		t.Fatalf("invalid error count: got=%d, want=%d", got, want)
	}

	err = sink.Close()
	if err != nil {
		t.Fatalf("could not close sink: %+v", err)
	}

	countLines := func(fname string) int {
		raw, err := os.ReadFile(fname)
		if err != nil {
			t.Fatalf("could not read %q: %+v", fname, err)
		}
		return strings.Count(string(raw), "\n")
	}

	// one EEG record per packet; the sentinel packet carries no GS record.
	if got, want := countLines(eeg), 2; got != want {
		t.Fatalf("invalid EEG record count: got=%d, want=%d", got, want)
	}
	if got, want := countLines(gs), 1; got != want {
		t.Fatalf("invalid GS record count: got=%d, want=%d", got, want)
	}
}

func TestDeviceRunWarmupGate(t *testing.T) {
	sink, eeg, _ := newTestSink(t)

	// the first frame arrives before steady state and must be
	// discarded; the second arrives after the warm-up interval.
	dev := &fakeDevice{
		reads: []fakeRead{
			{data: testFrame(onesPayload())},
			{delay: 150 * time.Millisecond, data: testFrame(onesPayload())},
		},
		eof: true,
	}

	acq := New(dev, sink, WithWarmup(50*time.Millisecond), WithQuota(1000))
	err := acq.Run(context.Background())
	if err != nil {
		t.Fatalf("could not run acquisition: %+v", err)
	}

	if got, want := acq.Packets(), uint32(1); got != want {
		t.Fatalf("warm-up bytes advanced the parser: got=%d packets, want=%d", got, want)
	}

	err = sink.Close()
	if err != nil {
		t.Fatalf("could not close sink: %+v", err)
	}

	raw, err := os.ReadFile(eeg)
	if err != nil {
		t.Fatalf("could not read EEG stream: %+v", err)
	}
	if got, want := strings.Count(string(raw), "\n"), 1; got != want {
		t.Fatalf("invalid EEG record count: got=%d, want=%d", got, want)
	}
}

func TestDeviceRunQuota(t *testing.T) {
	sink, _, _ := newTestSink(t)

	var reads []fakeRead
	for i := 0; i < 10; i++ {
		reads = append(reads, fakeRead{data: testFrame(onesPayload())})
	}
	dev := &fakeDevice{reads: reads, eof: true}

	acq := New(dev, sink, WithWarmup(0), WithQuota(2))
	err := acq.Run(context.Background())
	if err != nil {
		t.Fatalf("could not run acquisition: %+v", err)
	}

	// collection stops as soon as the counter exceeds the quota.
	if got, want := acq.Packets(), uint32(3); got != want {
		t.Fatalf("invalid packet count at quota: got=%d, want=%d", got, want)
	}
	if got, want := dev.i, 3; got != want {
		t.Fatalf("device read past the quota: got=%d reads, want=%d", got, want)
	}
}

func TestDeviceRunCancel(t *testing.T) {
	sink, _, _ := newTestSink(t)

	// a silent device: the loop spins on empty reads until cancelled.
	dev := &fakeDevice{}

	acq := New(dev, sink, WithWarmup(0))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- acq.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("could not run acquisition: %+v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("acquisition did not stop on cancellation")
	}
}

func TestDeviceRunReadFailure(t *testing.T) {
	sink, _, _ := newTestSink(t)

	rerr := errors.New("device vanished")
	dev := &fakeDevice{
		reads:   []fakeRead{{data: testFrame(onesPayload())}},
		readErr: rerr,
	}

	acq := New(dev, sink, WithWarmup(0), WithQuota(1000))
	err := acq.Run(context.Background())
	if !errors.Is(err, rerr) {
		t.Fatalf("expected wrapped read error, got: %+v", err)
	}

	// the records collected before the failure must have been flushed.
	if got, want := acq.Packets(), uint32(1); got != want {
		t.Fatalf("invalid packet count: got=%d, want=%d", got, want)
	}
}
