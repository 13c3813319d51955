// Copyright 2026 The clogik Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakedb holds types to fake an in-memory run database.
package fakedb // import "github.com/neurolab/clogik/internal/fakedb"

import (
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
)

// Stmt is one statement executed against the fake database.
type Stmt struct {
	Query string
	Args  []driver.Value
}

var journal struct {
	mu    sync.Mutex
	stmts []Stmt
}

// Reset clears the journal of executed statements.
func Reset() {
	journal.mu.Lock()
	defer journal.mu.Unlock()
	journal.stmts = journal.stmts[:0]
}

// Stmts returns the statements executed since the last Reset.
func Stmts() []Stmt {
	journal.mu.Lock()
	defer journal.mu.Unlock()
	stmts := make([]Stmt, len(journal.stmts))
	copy(stmts, journal.stmts)
	return stmts
}

func init() {
	sql.Register("fakedb", &Driver{})
}

type Driver struct{}

// Open returns a new connection to the database.
func (drv *Driver) Open(name string) (driver.Conn, error) {
	return &Conn{}, nil
}

type Conn struct{}

// Prepare returns a prepared statement, bound to this connection.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &stmt{query: query}, nil
}

func (c *Conn) Close() error {
	return nil
}

// Begin starts and returns a new transaction.
func (c *Conn) Begin() (driver.Tx, error) {
	panic("not implemented")
}

type stmt struct {
	query string
}

func (st *stmt) Close() error {
	return nil
}

// NumInput returns -1: the sql package will not sanity check argument
// counts before Exec.
func (st *stmt) NumInput() int {
	return -1
}

// Exec records the statement and its arguments in the journal.
func (st *stmt) Exec(args []driver.Value) (driver.Result, error) {
	journal.mu.Lock()
	defer journal.mu.Unlock()
	journal.stmts = append(journal.stmts, Stmt{
		Query: st.query,
		Args:  append([]driver.Value(nil), args...),
	})
	return driver.RowsAffected(1), nil
}

// Query executes a query that may return rows, such as a SELECT.
func (st *stmt) Query(args []driver.Value) (driver.Rows, error) {
	return &rows{}, nil
}

type rows struct{}

func (r *rows) Columns() []string { return nil }

func (r *rows) Close() error { return nil }

// Next reports no rows: the fake database only journals writes.
func (r *rows) Next(dest []driver.Value) error {
	return io.EOF
}

var (
	_ driver.Driver = (*Driver)(nil)
	_ driver.Conn   = (*Conn)(nil)
	_ driver.Stmt   = (*stmt)(nil)
	_ driver.Rows   = (*rows)(nil)
)
