// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"io"
	"time"
)

// fakeRead is one canned serial read: the device pauses for delay,
// then hands out data.
type fakeRead struct {
	delay time.Duration
	data  []byte
}

// fakeDevice replays a canned byte stream and records the bring-up
// sequence it is driven through.
type fakeDevice struct {
	reads []fakeRead
	i     int

	resets  int
	filters [][2]uint8
	closed  bool

	eof     bool  // return io.EOF once the canned reads are exhausted
	readErr error // returned instead of io.EOF when set
}

func (dev *fakeDevice) Reset() error {
	dev.resets++
	return nil
}

func (dev *fakeDevice) SetFilter(typ, opt uint8) error {
	dev.filters = append(dev.filters, [2]uint8{typ, opt})
	return nil
}

func (dev *fakeDevice) Read(p []byte) (int, error) {
	if dev.i >= len(dev.reads) {
		if dev.readErr != nil {
			return 0, dev.readErr
		}
		if dev.eof {
			return 0, io.EOF
		}
		// a drained serial line: timed-out reads yield 0 bytes.
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	rd := dev.reads[dev.i]
	dev.i++
	time.Sleep(rd.delay)
	return copy(p, rd.data), nil
}

func (dev *fakeDevice) Close() error {
	dev.closed = true
	return nil
}

var _ device = (*fakeDevice)(nil)
