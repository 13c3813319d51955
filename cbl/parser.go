// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbl

import (
	"log"

	"github.com/neurolab/clogik/internal/sum16"
)

type state uint8

const (
	awaitMagic1 state = iota
	awaitMagic2
	collectPayload
	awaitCrcHigh
	awaitCrcLow
)

// Parser decodes Cerebralogik data frames from a byte stream delivered
// in arbitrary chunks. Parser computes the additive checksum on the
// fly, during the acquisition of frames, and hands each validated
// packet to the onPacket callback together with the packet counter.
//
// The stream carries no length field and no escape discipline:
// resynchronization after a corrupted frame relies on scanning for the
// two-byte magic prefix alone. A half-received frame may span
// arbitrarily many chunks; Parser keeps its state across calls.
type Parser struct {
	msg *log.Logger

	state state
	sum   sum16.Hash16
	off   int              // byte offset within the payload, 0..payloadSize
	buf   [NumWords]uint16 // in-progress payload words, assembled unsigned
	crc   uint16           // received checksum, big-endian
	sbuf  [1]byte          // scratch for per-byte checksum updates

	packets uint32 // successfully validated packets since startup
	errs    uint32 // checksum mismatches since startup

	onPacket func(pkt Packet, n uint32)
}

// NewParser creates a parser that reports invalid frames to msg and
// hands validated packets to f. f may be nil.
func NewParser(msg *log.Logger, f func(pkt Packet, n uint32)) *Parser {
	return &Parser{
		msg:      msg,
		sum:      sum16.New(),
		onPacket: f,
	}
}

// Reset returns the parser to its initial state, scanning for a magic
// prefix. The packet and error counters are preserved.
func (p *Parser) Reset() {
	p.state = awaitMagic1
	p.sum.Reset()
	p.off = 0
}

// Packets returns the number of successfully validated packets.
func (p *Parser) Packets() uint32 { return p.packets }

// Errs returns the number of checksum mismatches.
func (p *Parser) Errs() uint32 { return p.errs }

// Write consumes one chunk of the device byte stream. It implements
// io.Writer; the returned error is always nil. Malformed frames are
// reported and discarded, they never abort the stream.
func (p *Parser) Write(chunk []byte) (int, error) {
	for _, v := range chunk {
		p.next(v)
	}
	return len(chunk), nil
}

func (p *Parser) next(v byte) {
	switch p.state {
	case awaitMagic1:
		if v != magic1 {
			return
		}
		// any 0xAA starts a candidate frame; a previous partial
		// frame is abandoned silently.
		p.sum.Reset()
		p.sumU8(v)
		p.state = awaitMagic2

	case awaitMagic2:
		if v != magic2 {
			p.state = awaitMagic1
			return
		}
		p.sumU8(v)
		p.off = 0
		p.state = collectPayload

	case collectPayload:
		w := p.off / 2
		if p.off%2 == 0 {
			p.buf[w] = uint16(v) << 8
		} else {
			p.buf[w] |= uint16(v)
		}
		p.sumU8(v)
		p.off++
		if p.off == payloadSize {
			p.state = awaitCrcHigh
		}

	case awaitCrcHigh:
		p.crc = uint16(v) << 8
		p.state = awaitCrcLow

	case awaitCrcLow:
		p.crc += uint16(v)
		p.validate()
		p.state = awaitMagic1
	}
}

func (p *Parser) validate() {
	comp := p.sum.Sum16()
	if p.crc != comp {
		p.errs++
		if p.msg != nil {
			p.msg.Printf("cbl: inconsistent checksum for packet %d: recv=0x%04x comp=0x%04x",
				p.packets, p.crc, comp,
			)
		}
		return
	}

	p.packets++

	var pkt Packet
	for i, w := range p.buf {
		pkt.Words[i] = int16(w)
	}

	if p.onPacket != nil {
		p.onPacket(pkt, p.packets)
	}
}

func (p *Parser) sumU8(v byte) {
	p.sbuf[0] = v
	_, _ = p.sum.Write(p.sbuf[:]) // can not fail.
}
