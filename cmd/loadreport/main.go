// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

// Loadreport summarizes a tree of load-test results.
//
// Usage:
//
//	loadreport [options] resultsdir
//
// The results tree holds one directory per runtime under test, one
// subdirectory per concurrency level, and one subdirectory per
// repetition of that level:
//
//	results/
//	├── bun/
//	│   ├── security_summary.json
//	│   ├── github_repo.json
//	│   ├── vus_50/
//	│   │   ├── rep_1/
//	│   │   │   ├── k6_results.json
//	│   │   │   └── docker_stats.csv
//	│   │   └── rep_2/
//	│   └── vus_100/
//	└── node/
//
// Each repetition contributes one observation: latency, request, and
// traffic metrics from the load-generator artifact, CPU and memory
// from the monitor artifact. Observations are grouped by runtime and
// level, and every metric is reduced to a mean and a 95% confidence
// interval half-width. The summary is printed to standard output,
// followed by the per-runtime security-check and ecosystem tables
// when the tree provides them:
//
//	runtime  vus  lat_p95    lat_mean   throughput  cpu         memory     duration_seconds
//	bun       50  112 ±8.13  83.4 ±5.2  1923 ±88.4  41.2 ±3.95  212 ±11.3       30.1 ±0.112
//	bun      100  187 ±12.6  130 ±9.77   2205 ±103  58.3 ±4.08  246 ±14.9       30.2 ±0.134
//	node      50  162 ±12.3  121 ±9.82  1311 ±61.7  56.8 ±4.41  301 ±17.2        30.1 ±0.09
//	node     100  243 ±18.9  180 ±14.2  1498 ±77.5    71 ±5.66  352 ±20.8       30.2 ±0.159
//
// A repetition missing its load-generator artifact, or lacking a
// duration from both artifacts, is dropped with a warning. A group
// with no valid samples for a metric shows "-". The tree layout
// conventions (artifact file names, the level directory prefix, the
// monitor column names) can be overridden with a YAML file passed to
// -config; see golang.org/x/loadstat/loadproc.
//
// With -csv, the tables are also written under resultsdir as
// results_summary.csv, security_summary.csv, and
// ecosystem_summary.csv. A table with no rows writes no file.
//
// With -plots, every summary metric becomes a grouped bar chart with
// confidence whiskers, runtimes side by side at each level, rendered
// to both PNG and PDF.
//
// With -store, the tables are appended to a SQL database as a new
// run; see golang.org/x/loadstat/resultdb. For example:
//
//	loadreport -csv -plots results/plots -store bench.db results
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/go-sql-driver/mysql"

	"golang.org/x/loadstat/loadproc"
	"golang.org/x/loadstat/loadtab"
	"golang.org/x/loadstat/resultdb"
	_ "golang.org/x/loadstat/resultdb/sqlite3"
)

var exit = os.Exit // replaced during testing

func usage() {
	fmt.Fprintf(os.Stderr, "usage: loadreport [options] resultsdir\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	exit(2)
}

var (
	flagConfig      = flag.String("config", "", "read tree layout conventions from YAML `file`")
	flagCSV         = flag.Bool("csv", false, "write the tables as CSV files under resultsdir")
	flagPlots       = flag.String("plots", "", "render one PNG and one PDF per summary metric into `dir`")
	flagStore       = flag.String("store", "", "append the tables to the database at `dsn` as a new run")
	flagStoreDriver = flag.String("store-driver", "sqlite3", "database/sql `driver` for -store")
	flagVerbose     = flag.Bool("v", false, "log per-file parse detail")
)

func main() {
	log.SetPrefix("loadreport: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	root := flag.Arg(0)

	cfg := loadproc.DefaultConfig()
	if *flagConfig != "" {
		var err error
		cfg, err = loadproc.LoadConfig(*flagConfig)
		if err != nil {
			log.Fatal(err)
		}
	}

	logger := newLogger(*flagVerbose)
	defer logger.Sync()

	c := &loadproc.Collector{Log: logger, Config: cfg}
	rs, err := c.Collect(root)
	if err != nil {
		log.Fatal(err)
	}
	tables := loadtab.Build(rs)

	if *flagCSV {
		if err := writeCSVFiles(tables, root); err != nil {
			log.Fatal(err)
		}
	}
	if *flagPlots != "" {
		if err := writeCharts(tables, *flagPlots); err != nil {
			log.Fatal(err)
		}
	}
	if *flagStore != "" {
		runID, err := store(tables, *flagStoreDriver, *flagStore)
		if err != nil {
			log.Fatal(err)
		}
		logger.Info("stored tables",
			zap.String("driver", *flagStoreDriver),
			zap.Int64("run", runID))
	}

	var buf bytes.Buffer
	if err := tables.ToText(&buf); err != nil {
		log.Fatal(err)
	}
	os.Stdout.Write(buf.Bytes())
}

// newLogger builds the console logger handed down to the parsers and
// the collector. Warnings about skipped inputs always surface; -v
// adds per-file debug detail.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	return logger
}

// writeCSVFiles writes every non-empty table under root.
func writeCSVFiles(tables *loadtab.Tables, root string) error {
	write := func(name string, empty bool, emit func(io.Writer) error) error {
		if empty {
			return nil
		}
		f, err := os.Create(filepath.Join(root, name))
		if err != nil {
			return err
		}
		if err := emit(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	if err := write("results_summary.csv", len(tables.Summary.Rows) == 0, tables.Summary.ToCSV); err != nil {
		return err
	}
	if err := write("security_summary.csv", len(tables.Security.Rows) == 0, tables.Security.ToCSV); err != nil {
		return err
	}
	return write("ecosystem_summary.csv", len(tables.Ecosystem.Rows) == 0, tables.Ecosystem.ToCSV)
}

func store(tables *loadtab.Tables, driver, dsn string) (int64, error) {
	db, err := resultdb.OpenSQL(driver, dsn)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return db.SaveTables(context.Background(), tables)
}
