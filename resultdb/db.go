// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultdb stores generated report tables in a SQL database,
// one run per invocation, so report history survives regeneration.
package resultdb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"golang.org/x/loadstat/loadtab"
)

// DB is a handle to a report database. It is safe for concurrent use
// by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun     *sql.Stmt
	insertSummary *sql.Stmt
	insertCheck   *sql.Stmt
	insertAttr    *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. This is used by the sqlite3 subpackage to
// register a ConnectHook. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// now is the time source for run timestamps; it is swapped out by
// tests.
var now = time.Now

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Generated VARCHAR(32)
);
CREATE TABLE IF NOT EXISTS Summaries (
	RunID BIGINT UNSIGNED,
	Runtime VARCHAR(255),
	Level VARCHAR(255),
	Metric VARCHAR(255),
	N BIGINT,
	Mean DOUBLE,
	CI95 DOUBLE,
	PRIMARY KEY (RunID, Runtime, Level, Metric),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS SecurityChecks (
	RunID BIGINT UNSIGNED,
	Runtime VARCHAR(255),
	CheckKey VARCHAR(255),
	Value DOUBLE,
	PRIMARY KEY (RunID, Runtime, CheckKey),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Ecosystem (
	RunID BIGINT UNSIGNED,
	Runtime VARCHAR(255),
	Attr VARCHAR(255),
	Value VARCHAR(8192),
	PRIMARY KEY (RunID, Runtime, Attr),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(Generated) VALUES (?)")
	if err != nil {
		return err
	}
	db.insertSummary, err = db.sql.Prepare("INSERT INTO Summaries(RunID, Runtime, Level, Metric, N, Mean, CI95) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertCheck, err = db.sql.Prepare("INSERT INTO SecurityChecks(RunID, Runtime, CheckKey, Value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertAttr, err = db.sql.Prepare("INSERT INTO Ecosystem(RunID, Runtime, Attr, Value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// SaveTables stores one report snapshot in a single transaction and
// returns its run ID. A NaN mean is stored as NULL so the no-data
// marker survives databases that reject NaN.
func (db *DB) SaveTables(ctx context.Context, tables *loadtab.Tables) (runID int64, err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.StmtContext(ctx, db.insertRun).ExecContext(ctx, now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	runID, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, row := range tables.Summary.Rows {
		for i, m := range tables.Summary.Metrics {
			s := row.Stats[i]
			mean := sql.NullFloat64{Float64: s.Mean, Valid: !math.IsNaN(s.Mean)}
			if _, err := tx.StmtContext(ctx, db.insertSummary).ExecContext(ctx,
				runID, row.Runtime, row.Level.String(), m.Base, s.N, mean, s.CI95); err != nil {
				return 0, err
			}
		}
	}
	for _, row := range tables.Security.Rows {
		for _, k := range tables.Security.Cols {
			v, ok := row.Checks[k]
			if !ok {
				continue
			}
			if _, err := tx.StmtContext(ctx, db.insertCheck).ExecContext(ctx,
				runID, row.Runtime, k, v); err != nil {
				return 0, err
			}
		}
	}
	for _, row := range tables.Ecosystem.Rows {
		for _, k := range tables.Ecosystem.Cols {
			v, ok := row.Attrs[k]
			if !ok {
				continue
			}
			if _, err := tx.StmtContext(ctx, db.insertAttr).ExecContext(ctx,
				runID, row.Runtime, k, v); err != nil {
				return 0, err
			}
		}
	}
	return runID, nil
}

// A SummaryRecord is one stored metric summary.
type SummaryRecord struct {
	Runtime string
	Level   string
	Metric  string
	N       int
	Mean    float64 // NaN when the group had no data for the metric
	CI95    float64
}

// ReadSummaries returns the summary rows of one run, ordered by
// runtime, level, and metric.
func (db *DB) ReadSummaries(ctx context.Context, runID int64) ([]SummaryRecord, error) {
	rows, err := db.sql.QueryContext(ctx,
		"SELECT Runtime, Level, Metric, N, Mean, CI95 FROM Summaries WHERE RunID = ? ORDER BY Runtime, Level, Metric", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SummaryRecord
	for rows.Next() {
		var r SummaryRecord
		var mean sql.NullFloat64
		if err := rows.Scan(&r.Runtime, &r.Level, &r.Metric, &r.N, &mean, &r.CI95); err != nil {
			return nil, err
		}
		r.Mean = math.NaN()
		if mean.Valid {
			r.Mean = mean.Float64
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// A CheckRecord is one stored security-check counter.
type CheckRecord struct {
	Runtime string
	Check   string
	Value   float64
}

// ReadChecks returns the security-check rows of one run, ordered by
// runtime and check key.
func (db *DB) ReadChecks(ctx context.Context, runID int64) ([]CheckRecord, error) {
	rows, err := db.sql.QueryContext(ctx,
		"SELECT Runtime, CheckKey, Value FROM SecurityChecks WHERE RunID = ? ORDER BY Runtime, CheckKey", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CheckRecord
	for rows.Next() {
		var r CheckRecord
		if err := rows.Scan(&r.Runtime, &r.Check, &r.Value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// An AttrRecord is one stored ecosystem attribute.
type AttrRecord struct {
	Runtime string
	Attr    string
	Value   string
}

// ReadAttrs returns the ecosystem rows of one run, ordered by runtime
// and attribute.
func (db *DB) ReadAttrs(ctx context.Context, runID int64) ([]AttrRecord, error) {
	rows, err := db.sql.QueryContext(ctx,
		"SELECT Runtime, Attr, Value FROM Ecosystem WHERE RunID = ? ORDER BY Runtime, Attr", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AttrRecord
	for rows.Next() {
		var r AttrRecord
		if err := rows.Scan(&r.Runtime, &r.Attr, &r.Value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connections, releasing any open
// resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRun, db.insertSummary, db.insertCheck, db.insertAttr} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
