// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbl

const (
	magic1 = 0xaa // frame start marker, first byte
	magic2 = 0x55 // frame start marker, second byte

	cmdTrailer = 0x03 // command frame end marker
)

const (
	// NumWords is the number of signed 16-bit words in a data frame payload.
	NumWords = 18

	payloadSize = 2 * NumWords // payload bytes per data frame

	// FrameSize is the total size of a device-to-host data frame:
	// magic prefix, payload, big-endian 16-bit checksum.
	FrameSize = 2 + payloadSize + 2

	// CmdSize is the total size of a host-to-device command frame.
	CmdSize = 8
)

// Filter configuration command types.
const (
	CmdNotch    uint8 = 0x1 // 50 Hz notch filter
	CmdHighPass uint8 = 0x2 // 0.3 Hz high-pass filter
	CmdLowPass  uint8 = 0x3 // 15 Hz low-pass filter
)
