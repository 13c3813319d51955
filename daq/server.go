// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/neurolab/clogik/cbl"
)

// server allows to control a Cerebralogik acquisition over TCP.
// Requests are JSON objects {"name": ..., "args": ...}; every request
// is answered with {"msg": "ok"} or {"msg": <error>}.
type server struct {
	ctl net.Listener
	msg *log.Logger

	devname string
	eeg     string
	gs      string
	opts    []Option

	openDevice func(name string) (device, error)

	acq    *Device
	cancel context.CancelFunc
	done   chan error
}

// Serve runs the acquisition control service on addr, driving the
// module on devname and writing records to the eeg and gs streams.
func Serve(addr, devname, eeg, gs string, opts ...Option) error {
	srv, err := newServer(addr, devname, eeg, gs, opts...)
	if err != nil {
		return fmt.Errorf("daq: could not create control server: %w", err)
	}
	return srv.serve()
}

func newServer(addr, devname, eeg, gs string, opts ...Option) (*server, error) {
	ctl, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("daq: could not listen on %q: %w", addr, err)
	}

	srv := &server{
		ctl: ctl,

		msg: log.New(os.Stdout, "clogik-svc: ", 0),

		devname: devname,
		eeg:     eeg,
		gs:      gs,
		opts:    opts,

		openDevice: func(name string) (device, error) {
			dev, err := cbl.Open(name, readTimeout)
			if err != nil {
				return nil, err
			}
			return dev, nil
		},
	}
	return srv, nil
}

func (srv *server) serve() error {
	defer srv.close()

	for {
		conn, err := srv.ctl.Accept()
		if err != nil {
			return fmt.Errorf("daq: could not accept connection: %w", err)
		}

		err = srv.handle(conn)
		if err != nil {
			srv.msg.Printf("could not run acquisition: %+v", err)
			continue
		}
	}
}

func (srv *server) handle(conn net.Conn) error {
	defer conn.Close()
	srv.msg.Printf("serving %v...", conn.RemoteAddr())
	defer srv.msg.Printf("serving %v... [done]", conn.RemoteAddr())

	dev, err := srv.openDevice(srv.devname)
	if err != nil {
		srv.reply(conn, err)
		return fmt.Errorf("daq: could not open module on %q: %w", srv.devname, err)
	}
	defer dev.Close()

loop:
	for {
		var req struct {
			Name string           `json:"name"`
			Args *json.RawMessage `json:"args"`
		}

		err = json.NewDecoder(conn).Decode(&req)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break loop
			}
			srv.msg.Printf("could not decode command request: %+v", err)
			srv.reply(conn, err)
			continue
		}
		srv.msg.Printf("received request: name=%q", req.Name)

		switch strings.ToLower(req.Name) {
		case "reset":
			err = dev.Reset()
			srv.reply(conn, err)
			if err != nil {
				srv.msg.Printf("could not reset module: %+v", err)
				continue
			}

		case "setfilter":
			var args struct {
				Type uint8 `json:"type"`
				Opt  uint8 `json:"opt"`
			}
			err = json.Unmarshal(*req.Args, &args)
			if err != nil {
				srv.msg.Printf("could not decode %q payload: %+v", req.Name, err)
				srv.reply(conn, err)
				continue
			}

			err = dev.SetFilter(args.Type, args.Opt)
			srv.reply(conn, err)
			if err != nil {
				srv.msg.Printf("could not configure filter 0x%x: %+v", args.Type, err)
				continue
			}

		case "start":
			err = srv.start(dev)
			srv.reply(conn, err)
			if err != nil {
				srv.msg.Printf("could not start acquisition: %+v", err)
				continue
			}

		case "stop":
			err = srv.stop()
			srv.reply(conn, err)
			if err != nil {
				srv.msg.Printf("could not stop acquisition: %+v", err)
				return fmt.Errorf("daq: could not stop acquisition: %w", err)
			}
			break loop

		default:
			srv.msg.Printf("unknown command name=%q", req.Name)
			err = fmt.Errorf("unknown command %q", req.Name)
			srv.reply(conn, err)
			continue
		}
	}

	return nil
}

func (srv *server) start(dev device) error {
	if srv.acq != nil {
		return fmt.Errorf("daq: acquisition already running")
	}

	sink, err := NewSink(srv.eeg, srv.gs, srv.msg)
	if err != nil {
		return fmt.Errorf("daq: could not open output streams: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv.acq = New(dev, sink, srv.opts...)
	srv.cancel = cancel
	srv.done = make(chan error, 1)

	go func() {
		err := srv.acq.Run(ctx)
		if e := sink.Close(); e != nil && err == nil {
			err = e
		}
		srv.done <- err
	}()

	return nil
}

func (srv *server) stop() error {
	if srv.acq == nil {
		return fmt.Errorf("daq: no acquisition running")
	}

	srv.cancel()

	var err error
	select {
	case err = <-srv.done:
	case <-time.After(30 * time.Second):
		err = fmt.Errorf("daq: could not stop acquisition before timeout")
	}

	srv.acq = nil
	srv.cancel = nil
	srv.done = nil
	return err
}

func (srv *server) reply(conn net.Conn, err error) {
	rep := struct {
		Msg string `json:"msg"`
	}{"ok"}
	if err != nil {
		rep.Msg = fmt.Sprintf("%+v", err)
	}

	_ = json.NewEncoder(conn).Encode(rep)
}

func (srv *server) close() {
	_ = srv.ctl.Close()
}
