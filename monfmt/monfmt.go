// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monfmt reads the resource-monitor time series written
// alongside each load-test repetition: a delimited table of CPU,
// memory, and timestamp samples, with more than one column convention
// in the wild.
//
// Parsing is best-effort: unreadable cells are skipped, a column with
// no valid cells contributes nothing (never zero), and only the
// metrics that survive are reported.
package monfmt

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"go.uber.org/zap"

	"golang.org/x/loadstat/loadmath"
	"golang.org/x/loadstat/loadunit"
)

// Metric keys produced by ParseFile.
const (
	CPU      = "cpu_percent_mean"
	Memory   = "memory_mean"
	Duration = "duration_seconds"
)

// Header names recognized for memory and timestamps. Memory prefers
// the pre-converted numeric column over the suffixed textual one.
const (
	memoryNumericColumn = "mem_usage_mb"
	memoryTextColumn    = "mem_usage"
	timestampColumn     = "timestamp"
)

// DefaultCPUColumns are the header names probed for the CPU column,
// in priority order.
var DefaultCPUColumns = []string{"cpu_percent", "CPU", "cpu", "cpu%"}

// DefaultDurationFloor is the minimum duration, in seconds, reported
// from a timestamp column. It keeps downstream throughput division
// away from zero.
const DefaultDurationFloor = 0.001

// A Parser reads resource-monitor CSV files. The zero value is ready
// to use.
type Parser struct {
	// Log, when set, receives warnings about skipped input.
	Log *zap.Logger

	// CPUColumns overrides the candidate CPU header names.
	CPUColumns []string

	// DurationFloor overrides the minimum reported duration.
	DurationFloor float64
}

func (p *Parser) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func (p *Parser) cpuColumns() []string {
	if len(p.CPUColumns) == 0 {
		return DefaultCPUColumns
	}
	return p.CPUColumns
}

func (p *Parser) durationFloor() float64 {
	if p.DurationFloor <= 0 {
		return DefaultDurationFloor
	}
	return p.DurationFloor
}

// ParseFile reads the monitor table at path and returns whatever
// subset of the metric keys it carries. An empty map means no usable
// data.
func (p *Parser) ParseFile(path string) map[string]float64 {
	f, err := os.Open(path)
	if err != nil {
		p.logger().Warn("monitor artifact unavailable",
			zap.String("path", path), zap.Error(err))
		return map[string]float64{}
	}
	defer f.Close()

	header, rows := readTable(f)
	if len(header) == 0 {
		p.logger().Warn("empty or malformed monitor table",
			zap.String("path", path))
		return map[string]float64{}
	}
	p.logger().Debug("reading monitor table",
		zap.String("path", path), zap.Strings("columns", header))

	out := make(map[string]float64)

	// CPU: first candidate header that exists wins; without one,
	// fall back to the second column when there is one.
	cpuIdx := -1
	for _, cand := range p.cpuColumns() {
		if i := columnIndex(header, cand); i >= 0 {
			cpuIdx = i
			break
		}
	}
	if cpuIdx < 0 && len(header) > 1 {
		cpuIdx = 1
	}
	if cpuIdx >= 0 {
		if vals := columnValues(rows, cpuIdx, loadunit.Percent); len(vals) > 0 {
			out[CPU] = loadmath.Mean(vals)
		}
	}

	if i := columnIndex(header, memoryNumericColumn); i >= 0 {
		vals := columnValues(rows, i, parseNumber)
		if len(vals) > 0 {
			out[Memory] = loadmath.Mean(vals)
		} else {
			p.logger().Warn("memory column has no valid cells",
				zap.String("column", memoryNumericColumn), zap.String("path", path))
		}
	} else if i := columnIndex(header, memoryTextColumn); i >= 0 {
		vals := columnValues(rows, i, loadunit.BytesMiB)
		if len(vals) > 0 {
			out[Memory] = loadmath.Mean(vals)
		} else {
			p.logger().Warn("memory column has no valid cells",
				zap.String("column", memoryTextColumn), zap.String("path", path))
		}
	} else {
		p.logger().Warn("no memory column", zap.String("path", path))
	}

	if i := columnIndex(header, timestampColumn); i >= 0 {
		if ts := columnValues(rows, i, parseTimestamp); len(ts) > 0 {
			min, max := stats.Bounds(ts)
			span := max - min
			if span < p.durationFloor() {
				span = p.durationFloor()
			}
			out[Duration] = span
		}
	}

	return out
}

// readTable reads a CSV-like table row by row, skipping rows that do
// not parse. The first good row is the header.
func readTable(r io.Reader) (header []string, rows [][]string) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if header == nil {
			header = rec
			continue
		}
		rows = append(rows, rec)
	}
	return header, rows
}

// columnIndex finds name in the header, case-insensitively.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// columnValues normalizes one column through parse, dropping cells
// that fail.
func columnValues(rows [][]string, idx int, parse func(string) (float64, error)) []float64 {
	var vals []float64
	for _, row := range rows {
		if idx >= len(row) {
			continue
		}
		if v, err := parse(row[idx]); err == nil {
			vals = append(vals, v)
		}
	}
	return vals
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseTimestamp accepts a numeric epoch or an ISO timestamp.
func parseTimestamp(s string) (float64, error) {
	if v, err := parseNumber(s); err == nil {
		return v, nil
	}
	return loadunit.EpochSeconds(s)
}
