// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbl

import (
	"io"

	"github.com/neurolab/clogik/internal/sum16"
	"golang.org/x/xerrors"
)

// Command encodes a host-to-device control frame for the given 4-bit
// command type and option:
//
//	byte 0   0xAA
//	byte 1   0x55
//	byte 2   0x00
//	byte 3   typ<<4 | opt&0x0F
//	byte 4   0x00
//	byte 5   0x00
//	byte 6   8-bit sum of bytes 0..5
//	byte 7   0x03
//
// Unlike the device-to-host checksum, the command checksum is
// truncated to 8 bits.
func Command(typ, opt uint8) [CmdSize]byte {
	var cmd [CmdSize]byte
	cmd[0] = magic1
	cmd[1] = magic2
	cmd[2] = 0x00
	cmd[3] = typ<<4 | opt&0x0f
	cmd[4] = 0x00
	cmd[5] = 0x00

	sum := sum16.New()
	_, _ = sum.Write(cmd[:6]) // can not fail.
	cmd[6] = uint8(sum.Sum16())
	cmd[7] = cmdTrailer
	return cmd
}

// WriteCommand encodes a command frame and writes it to w in a single
// write. Short writes are reported as errors: the serial link expects
// the 8-byte frame all-or-nothing.
func WriteCommand(w io.Writer, typ, opt uint8) error {
	cmd := Command(typ, opt)
	n, err := w.Write(cmd[:])
	switch {
	case err != nil:
		return xerrors.Errorf("cbl: could not write command (typ=0x%x, opt=0x%x): %w", typ, opt, err)
	case n != len(cmd):
		return xerrors.Errorf("cbl: could not write command (typ=0x%x, opt=0x%x): %w", typ, opt, io.ErrShortWrite)
	}
	return nil
}
