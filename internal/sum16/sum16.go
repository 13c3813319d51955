// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sum16 implements the additive checksum used by the
// Cerebralogik v5.0 serial protocol.
//
// Every input byte is added into a 16-bit wide register, with no
// truncation to 8 bits between adds. Device-to-host frames carry the
// full 16-bit sum; host-to-device command frames carry only its low
// byte.
package sum16 // import "github.com/neurolab/clogik/internal/sum16"

import "hash"

// Size of a sum-16 checksum in bytes.
const Size = 2

// Hash16 is the common interface implemented by all 16-bit hash functions.
type Hash16 interface {
	hash.Hash
	Sum16() uint16
}

// New creates a new Hash16 computing the Cerebralogik additive checksum.
func New() Hash16 {
	d := new(digest)
	d.Reset()
	return d
}

type digest uint16

func (d *digest) Write(p []byte) (int, error) {
	s := uint16(*d)
	for _, v := range p {
		s += uint16(v)
	}
	*d = digest(s)
	return len(p), nil
}

func (d *digest) Sum16() uint16 { return uint16(*d) }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum16()
	return append(in, byte(s>>8), byte(s))
}

func (d *digest) Reset()         { *d = 0 }
func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 1 }
