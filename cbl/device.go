// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbl

import (
	"io"
	"time"

	"go.bug.st/serial"
	"golang.org/x/xerrors"
)

// Module serial link parameters: 115200 bit/s, 8 data bits, no parity,
// one stop bit.
const baudRate = 115200

// serialPort is the subset of go.bug.st/serial.Port the device uses.
type serialPort interface {
	SetRTS(level bool) error
	SetReadTimeout(t time.Duration) error

	io.Writer
	io.Reader
	io.Closer
}

var (
	serialOpen = serialOpenImpl
)

func serialOpenImpl(name string) (serialPort, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	return port, err
}

// Device is a handle to a serial-attached Cerebralogik v5.0 module.
type Device struct {
	name string
	port serialPort

	// RTS reset pulse timing.
	resetPulse  time.Duration
	resetSettle time.Duration
}

// Open opens the Cerebralogik module on the named serial device and
// configures the link. Reads return within readTimeout with 0..N bytes.
func Open(name string, readTimeout time.Duration) (*Device, error) {
	port, err := serialOpen(name)
	if err != nil {
		return nil, xerrors.Errorf("cbl: could not open serial device %q: %w", name, err)
	}

	dev := &Device{
		name:        name,
		port:        port,
		resetPulse:  1500 * time.Millisecond,
		resetSettle: 5000 * time.Millisecond,
	}

	err = port.SetReadTimeout(readTimeout)
	if err != nil {
		_ = port.Close()
		return nil, xerrors.Errorf("cbl: could not set read timeout on %q: %w", name, err)
	}

	return dev, nil
}

// Name returns the name of the underlying serial device.
func (dev *Device) Name() string { return dev.name }

// Reset pulses the RTS line to reset the module: deassert, hold for
// the pulse width, assert, then wait for the module to come up.
func (dev *Device) Reset() error {
	err := dev.port.SetRTS(false)
	if err != nil {
		return xerrors.Errorf("cbl: could not deassert RTS on %q: %w", dev.name, err)
	}
	time.Sleep(dev.resetPulse)

	err = dev.port.SetRTS(true)
	if err != nil {
		return xerrors.Errorf("cbl: could not assert RTS on %q: %w", dev.name, err)
	}
	time.Sleep(dev.resetSettle)

	return nil
}

// SetFilter issues one filter configuration command to the module.
func (dev *Device) SetFilter(typ, opt uint8) error {
	return WriteCommand(dev.port, typ, opt)
}

// Read reads up to len(p) bytes from the module. It returns within the
// configured read timeout, possibly with n == 0.
func (dev *Device) Read(p []byte) (int, error) {
	return dev.port.Read(p)
}

// Close closes the serial link.
func (dev *Device) Close() error {
	return dev.port.Close()
}
