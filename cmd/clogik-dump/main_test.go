// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neurolab/clogik/cbl"
)

func testFrame(words [cbl.NumWords]int16) []byte {
	frame := []byte{0xaa, 0x55}
	for _, w := range words {
		frame = append(frame, byte(uint16(w)>>8), byte(uint16(w)))
	}
	var sum uint16
	for _, v := range frame {
		sum += uint16(v)
	}
	return append(frame, byte(sum>>8), byte(sum))
}

func TestProcess(t *testing.T) {
	tmp, err := os.MkdirTemp("", "clogik-dump-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	var (
		pkt1 [cbl.NumWords]int16
		pkt2 [cbl.NumWords]int16
	)
	pkt1[0] = -100
	pkt1[9] = -1
	pkt1[16] = cbl.GSSentinel
	pkt2[0] = 512
	pkt2[3] = 42
	pkt2[16] = 1

	corrupt := testFrame(pkt1)
	corrupt[4] ^= 0xff

	for _, tc := range []struct {
		name string
		raw  []byte
		want string
	}{
		{
			name: "two-packets",
			raw: append(append([]byte{0x00, 0xde, 0xad},
				testFrame(pkt1)...),
				testFrame(pkt2)...),
			want: "pkt=       1 raw=   -100 uv=    -7.600 cfg=0000FFFF gs=   0 cyc= 255\n" +
				"pkt=       2 raw=    512 uv=    38.912 cfg=00000000 gs=  42 cyc=   1\n",
		},
		{
			name: "corrupt-then-valid",
			raw:  append(corrupt, testFrame(pkt2)...),
			want: "pkt=       1 raw=    512 uv=    38.912 cfg=00000000 gs=  42 cyc=   1\n",
		},
		{
			name: "truncated",
			raw:  testFrame(pkt1)[:12],
			want: "",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fname := filepath.Join(tmp, tc.name+".raw")
			err := os.WriteFile(fname, tc.raw, 0644)
			if err != nil {
				t.Fatalf("could not create raw stream: %+v", err)
			}

			out := new(strings.Builder)
			err = process(out, fname)
			if err != nil {
				t.Fatalf("could not dump stream: %+v", err)
			}
			if got, want := out.String(), tc.want; got != want {
				t.Fatalf("invalid dump output:\ngot:\n%s\nwant:\n%s\n", got, want)
			}
		})
	}
}

func TestProcessMissingFile(t *testing.T) {
	err := process(new(strings.Builder), "/no/such/stream.raw")
	if err == nil {
		t.Fatalf("expected an error for a missing input file")
	}
}
