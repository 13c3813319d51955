// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runlog records acquisition run bookkeeping in the lab MySQL
// database: one row per run, with the filter settings and the final
// packet counts.
package runlog // import "github.com/neurolab/clogik/runlog"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const timeout = 5 * time.Second

var (
	drvName = "mysql"
)

// DB exposes convenience methods to record acquisition runs in the
// run bookkeeping database.
type DB struct {
	db *sql.DB
}

// Open opens a connection to the run database at the given DSN.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("runlog: could not open run db: %w", err)
	}

	err = ping(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("runlog: could not ping run db: %w", err)
	}

	return &DB{db: db}, nil
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("runlog: could not ping run db: %w", err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Run describes one acquisition run.
type Run struct {
	Number uint32
	Device string // serial device path
	Notch  uint8  // notch filter option
	HPF    uint8  // high-pass filter option
	LPF    uint8  // low-pass filter option
	Start  time.Time
}

// BeginRun inserts the bookkeeping row for a starting run.
func (db *DB) BeginRun(ctx context.Context, run Run) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := db.db.ExecContext(ctx,
		"INSERT INTO runs (run, device, notch, hpf, lpf, start) VALUES (?, ?, ?, ?, ?, ?)",
		run.Number, run.Device, run.Notch, run.HPF, run.LPF, run.Start,
	)
	if err != nil {
		return fmt.Errorf("runlog: could not record start of run %d: %w", run.Number, err)
	}

	return nil
}

// EndRun closes the bookkeeping row for a finished run with the final
// packet and checksum-mismatch counts.
func (db *DB) EndRun(ctx context.Context, run uint32, packets, crcErrs uint32) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := db.db.ExecContext(ctx,
		"UPDATE runs SET stop = ?, packets = ?, crc_errs = ? WHERE run = ?",
		time.Now(), packets, crcErrs, run,
	)
	if err != nil {
		return fmt.Errorf("runlog: could not record end of run %d: %w", run, err)
	}

	return nil
}
