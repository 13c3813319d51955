// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cbl holds functions to manipulate data from the Cerebralogik
// v5.0 biosignal acquisition module.
package cbl // import "github.com/neurolab/clogik/cbl"

// ScaleUV converts a raw channel-1 EEG sample to microvolts.
const ScaleUV = 0.076

// GSSentinel is the cycle-counter value marking packets that carry no
// grey-scale histogram sample.
const GSSentinel = 255

// Packet is a decoded Cerebralogik data frame: 18 signed 16-bit
// big-endian words.
type Packet struct {
	Words [NumWords]int16
}

// Raw returns the raw channel-1 EEG sample.
func (p Packet) Raw() int16 { return p.Words[0] }

// UV returns the channel-1 EEG sample in microvolts.
func (p Packet) UV() float64 { return float64(p.Words[0]) * ScaleUV }

// GSBin returns the channel-1 aEEG grey-scale histogram bin.
func (p Packet) GSBin() int16 { return p.Words[3] }

// Config returns the device configuration word. Only the low 16 bits
// are carried per packet; the value is rendered as 8 hex digits,
// zero-padded.
func (p Packet) Config() uint32 { return uint32(uint16(p.Words[9])) }

// Cycle returns the grey-scale cycle counter (0..229), or GSSentinel
// when the packet carries no histogram sample.
func (p Packet) Cycle() int16 { return p.Words[16] }

// HasGS reports whether the packet carries a grey-scale histogram sample.
func (p Packet) HasGS() bool { return p.Words[16] != GSSentinel }
