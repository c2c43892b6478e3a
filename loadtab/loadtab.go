// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loadtab aggregates load-test observations into report
// tables.
//
// Build groups observations by (runtime, concurrency level) and
// reduces each metric to a mean and 95% confidence half-width. The
// reduction is order-independent: the same observations in any order
// produce identical tables, so traversal order never leaks into a
// report. Security-check and ecosystem rows pass through as
// runtime-keyed auxiliary tables with a stable column union.
package loadtab

import (
	"sort"

	"golang.org/x/loadstat/k6fmt"
	"golang.org/x/loadstat/loadmath"
	"golang.org/x/loadstat/loadproc"
	"golang.org/x/loadstat/monfmt"
)

// A Metric names one summary column pair: the observation key it
// reduces and the base name its _mean and _ic95 columns carry.
type Metric struct {
	Base string
	Key  string
}

// canonicalMetrics are the summary columns every report carries, in
// output order. Groups without samples for one of these still get its
// columns, holding the no-data sentinels. Metrics observed beyond
// these get column pairs after them, in name order.
var canonicalMetrics = []Metric{
	{"lat_p95", k6fmt.LatP95},
	{"lat_mean", k6fmt.LatMean},
	{"throughput", k6fmt.Throughput},
	{"cpu", monfmt.CPU},
	{"memory", monfmt.Memory},
}

// Tables is everything one aggregation produces.
type Tables struct {
	Summary   *SummaryTable
	Security  *SecurityTable
	Ecosystem *EcosystemTable
}

// A SummaryTable holds one row per (runtime, concurrency level)
// group.
type SummaryTable struct {
	// Metrics is the column order.
	Metrics []Metric

	// Rows is sorted by runtime, then level.
	Rows []SummaryRow
}

// A SummaryRow is one group's reduction. Stats is parallel to the
// table's Metrics.
type SummaryRow struct {
	Runtime string
	Level   loadproc.Level
	Stats   []loadmath.Summary
}

// A SecurityTable carries the per-runtime check counters. Cols is the
// sorted union of the counter keys across rows.
type SecurityTable struct {
	Cols []string
	Rows []loadproc.SecurityRow
}

// An EcosystemTable carries the per-runtime descriptive attributes.
// Cols is the sorted union of the attribute keys across rows.
type EcosystemTable struct {
	Cols []string
	Rows []loadproc.EcosystemRow
}

// groupKey identifies one summary row while building.
type groupKey struct {
	runtime string
	level   loadproc.Level
}

// Build aggregates rs into report tables.
func Build(rs *loadproc.ResultSet) *Tables {
	canonical := make(map[string]bool, len(canonicalMetrics))
	for _, m := range canonicalMetrics {
		canonical[m.Key] = true
	}

	// cells maps group -> metric key -> observed values.
	cells := make(map[groupKey]map[string][]float64)
	extras := make(map[string]bool)
	for _, obs := range rs.Observations {
		gk := groupKey{obs.Runtime, obs.Level}
		cell := cells[gk]
		if cell == nil {
			cell = make(map[string][]float64)
			cells[gk] = cell
		}
		for k, v := range obs.Metrics {
			cell[k] = append(cell[k], v)
			if !canonical[k] {
				extras[k] = true
			}
		}
	}

	metrics := make([]Metric, len(canonicalMetrics), len(canonicalMetrics)+len(extras))
	copy(metrics, canonicalMetrics)
	extraKeys := make([]string, 0, len(extras))
	for k := range extras {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		metrics = append(metrics, Metric{Base: k, Key: k})
	}

	keys := make([]groupKey, 0, len(cells))
	for gk := range cells {
		keys = append(keys, gk)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].runtime != keys[j].runtime {
			return keys[i].runtime < keys[j].runtime
		}
		return keys[i].level.Less(keys[j].level)
	})

	st := &SummaryTable{Metrics: metrics}
	for _, gk := range keys {
		row := SummaryRow{
			Runtime: gk.runtime,
			Level:   gk.level,
			Stats:   make([]loadmath.Summary, len(metrics)),
		}
		for i, m := range metrics {
			row.Stats[i] = loadmath.Summarize(cells[gk][m.Key])
		}
		st.Rows = append(st.Rows, row)
	}

	return &Tables{
		Summary:   st,
		Security:  buildSecurity(rs.Security),
		Ecosystem: buildEcosystem(rs.Ecosystem),
	}
}

func buildSecurity(rows []loadproc.SecurityRow) *SecurityTable {
	t := &SecurityTable{Rows: append([]loadproc.SecurityRow(nil), rows...)}
	sort.Slice(t.Rows, func(i, j int) bool { return t.Rows[i].Runtime < t.Rows[j].Runtime })
	cols := make(map[string]bool)
	for _, r := range t.Rows {
		for k := range r.Checks {
			cols[k] = true
		}
	}
	t.Cols = sortedKeys(cols)
	return t
}

func buildEcosystem(rows []loadproc.EcosystemRow) *EcosystemTable {
	t := &EcosystemTable{Rows: append([]loadproc.EcosystemRow(nil), rows...)}
	sort.Slice(t.Rows, func(i, j int) bool { return t.Rows[i].Runtime < t.Rows[j].Runtime })
	cols := make(map[string]bool)
	for _, r := range t.Rows {
		for k := range r.Attrs {
			cols[k] = true
		}
	}
	t.Cols = sortedKeys(cols)
	return t
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
