// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package k6fmt

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"golang.org/x/loadstat/loadmath"
	"golang.org/x/loadstat/loadunit"
)

// streamEvent is one line of k6's NDJSON output. Only point samples
// carry data; other record types (metric definitions) are skipped.
type streamEvent struct {
	Type   string `json:"type"`
	T      string `json:"t"`
	Metric string `json:"metric"`
	Data   struct {
		Value float64 `json:"value"`
		Time  string  `json:"time"`
	} `json:"data"`
}

// kind returns the record type, which k6 writes as "type" and some
// forwarders abbreviate to "t".
func (e *streamEvent) kind() string {
	if e.Type != "" {
		return e.Type
	}
	return e.T
}

// parseStream reads the event-stream form: newline-delimited JSON
// records. Latency points are collected for mean and p95, counter
// points are summed, and point timestamps, when they parse, bound the
// observed duration. Lines that do not parse are skipped; a single
// bad line never aborts the stream.
func (p *Parser) parseStream(r io.Reader) map[string]float64 {
	var (
		durations            []float64
		reqs, received, sent float64
		haveReqs, haveRecv   bool
		haveSent             bool
		tmin, tmax           float64
		haveTime             bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev streamEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		if ev.kind() != "Point" {
			continue
		}
		if ev.Data.Time != "" {
			if ts, err := loadunit.EpochSeconds(ev.Data.Time); err == nil {
				if !haveTime || ts < tmin {
					tmin = ts
				}
				if !haveTime || ts > tmax {
					tmax = ts
				}
				haveTime = true
			}
		}
		switch ev.Metric {
		case durationMetric:
			durations = append(durations, ev.Data.Value)
		case requestsMetric:
			reqs += ev.Data.Value
			haveReqs = true
		case receivedMetric:
			received += ev.Data.Value
			haveRecv = true
		case sentMetric:
			sent += ev.Data.Value
			haveSent = true
		}
	}
	if err := sc.Err(); err != nil {
		p.logger().Warn("event stream truncated", zap.Error(err))
	}

	out := make(map[string]float64)
	if len(durations) > 0 {
		out[LatMean] = loadmath.Mean(durations)
		out[LatP95] = loadmath.Percentile(durations, 95)
	}
	if haveReqs {
		out[Requests] = reqs
	}
	if haveRecv {
		out[DataReceived] = received
	}
	if haveSent {
		out[DataSent] = sent
	}
	if haveTime && tmax > tmin {
		span := tmax - tmin
		out[Duration] = span
		if haveReqs {
			out[Throughput] = reqs / span
		}
	}
	return out
}
