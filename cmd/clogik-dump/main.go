// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// clogik-dump decodes and displays captured Cerebralogik raw streams.
//
// Usage: clogik-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> clogik-dump ./testdata/capture.raw
//	pkt=       1 raw=   -100 uv=    -7.600 cfg=0000FFFF gs= 255 cyc=   0
//	pkt=       2 raw=    512 uv=    38.912 cfg=00000000 gs=  42 cyc=   1
//	[...]
package main // import "github.com/neurolab/clogik/cmd/clogik-dump"

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/neurolab/clogik/cbl"
)

func main() {
	log.SetPrefix("clogik-dump: ")
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Printf(`clogik-dump decodes and displays captured Cerebralogik raw streams.

Usage: clogik-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> clogik-dump ./testdata/capture.raw
 pkt=       1 raw=   -100 uv=    -7.600 cfg=0000FFFF gs= 255 cyc=   0
 pkt=       2 raw=    512 uv=    38.912 cfg=00000000 gs=  42 cyc=   1
 [...]

`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing path to input raw stream")
	}

	for _, fname := range flag.Args() {
		err := process(os.Stdout, fname)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func process(w io.Writer, fname string) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	f, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	msg := log.New(os.Stderr, "clogik-dump: ", 0)
	psr := cbl.NewParser(msg, func(pkt cbl.Packet, n uint32) {
		fmt.Fprintf(wbuf, "pkt=% 8d raw=% 7d uv=% 10.3f cfg=%08X gs=% 4d cyc=% 4d\n",
			n, pkt.Raw(), pkt.UV(), pkt.Config(), pkt.GSBin(), pkt.Cycle(),
		)
	})

	_, err = io.Copy(psr, f)
	if err != nil {
		return fmt.Errorf("could not decode %q: %w", fname, err)
	}

	return nil
}
