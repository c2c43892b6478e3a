// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package k6fmt reads the artifacts a k6 load generator leaves behind
// after a repetition: either a pre-aggregated summary document or a
// newline-delimited stream of point events, plus the check summaries
// produced by security runs.
//
// Parsing is best-effort. A file that is absent, unreadable, or free
// of recognizable metrics yields an empty result, never an error, and
// malformed units (a line, a field) are skipped. The pipeline treats
// whatever subset of metrics survives as the repetition's measurement.
package k6fmt

import (
	"bytes"
	"os"

	"go.uber.org/zap"
)

// Metric keys produced by ParseFile.
const (
	LatMean      = "lat_mean"
	LatP95       = "lat_p95"
	Requests     = "http_reqs_count"
	DataReceived = "data_received"
	DataSent     = "data_sent"
	Duration     = "observed_duration_seconds"
	Throughput   = "throughput"
)

// Metric names in k6 artifacts.
const (
	durationMetric   = "http_req_duration"
	requestsMetric   = "http_reqs"
	iterationsMetric = "iterations"
	receivedMetric   = "data_received"
	sentMetric       = "data_sent"
)

// A Parser reads k6 result artifacts. The zero value is ready to use.
type Parser struct {
	// Log, when set, receives warnings about skipped input.
	Log *zap.Logger
}

func (p *Parser) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// ParseFile reads the load-generator artifact at path and returns
// whatever subset of the metric keys it carries. The summary-document
// form is tried first, then the event-stream form. An empty map means
// no usable data.
func (p *Parser) ParseFile(path string) map[string]float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		p.logger().Warn("load artifact unavailable",
			zap.String("path", path), zap.Error(err))
		return map[string]float64{}
	}
	if m := p.parseSummary(data); len(m) > 0 {
		return m
	}
	m := p.parseStream(bytes.NewReader(data))
	if len(m) == 0 {
		p.logger().Warn("no usable metrics in load artifact",
			zap.String("path", path))
	}
	return m
}
