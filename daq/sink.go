// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/neurolab/clogik/cbl"
)

// Sink appends channel-1 records to the two acquisition output
// streams: one EEG record per validated packet, one grey-scale
// histogram record per packet that carries a histogram sample.
//
// The record layouts are fixed by the legacy CSV consumers:
//
//	eeg: <packet>,<raw>,<uV>,<config as 8 hex digits>\n
//	gs:  <packet>, <bin>, <cycle> \n
//
// including the grey-scale stream's spaces after the commas and the
// trailing space before the newline.
type Sink struct {
	msg *log.Logger
	eeg stream
	gs  stream
}

type stream struct {
	name   string
	f      io.Closer
	w      *bufio.Writer
	failed bool // write failure already reported
}

// NewSink creates the two output streams. A failed create is fatal:
// collecting into a dead stream loses data silently.
func NewSink(eeg, gs string, msg *log.Logger) (*Sink, error) {
	if msg == nil {
		msg = log.New(os.Stderr, "daq: ", 0)
	}

	feeg, err := os.Create(eeg)
	if err != nil {
		return nil, fmt.Errorf("daq: could not create EEG output %q: %w", eeg, err)
	}

	fgs, err := os.Create(gs)
	if err != nil {
		_ = feeg.Close()
		return nil, fmt.Errorf("daq: could not create GS output %q: %w", gs, err)
	}

	return &Sink{
		msg: msg,
		eeg: stream{name: eeg, f: feeg, w: bufio.NewWriter(feeg)},
		gs:  stream{name: gs, f: fgs, w: bufio.NewWriter(fgs)},
	}, nil
}

// Process appends the records for one validated packet. It matches the
// cbl parser callback signature.
func (s *Sink) Process(pkt cbl.Packet, n uint32) {
	s.eeg.printf(s.msg, "%d,%d,%g,%08X\n", n, pkt.Raw(), pkt.UV(), pkt.Config())
	if pkt.HasGS() {
		s.gs.printf(s.msg, "%d, %d, %d \n", n, pkt.GSBin(), pkt.Cycle())
	}
}

// Flush pushes buffered records to the underlying files.
func (s *Sink) Flush() error {
	err := s.eeg.w.Flush()
	if err != nil {
		return fmt.Errorf("daq: could not flush %q: %w", s.eeg.name, err)
	}
	err = s.gs.w.Flush()
	if err != nil {
		return fmt.Errorf("daq: could not flush %q: %w", s.gs.name, err)
	}
	return nil
}

// Close flushes and closes both streams.
func (s *Sink) Close() error {
	err := s.Flush()

	if e := s.eeg.f.Close(); e != nil && err == nil {
		err = fmt.Errorf("daq: could not close %q: %w", s.eeg.name, e)
	}
	if e := s.gs.f.Close(); e != nil && err == nil {
		err = fmt.Errorf("daq: could not close %q: %w", s.gs.name, e)
	}
	return err
}

// printf appends one record, reporting a write failure at most once
// per stream so a dead disk does not flood the log at 160 packets/s.
func (st *stream) printf(msg *log.Logger, format string, args ...interface{}) {
	_, err := fmt.Fprintf(st.w, format, args...)
	if err != nil && !st.failed {
		st.failed = true
		msg.Printf("daq: could not write record to %q: %+v", st.name, err)
	}
}
