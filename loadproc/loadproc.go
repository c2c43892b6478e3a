// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loadproc assembles per-repetition observations from a
// load-test results tree.
//
// A results tree has one directory per runtime under test, one
// subdirectory per concurrency level, and one subdirectory per
// repetition; each repetition directory holds the load-generator and
// resource-monitor artifacts. Collect walks the tree, parses every
// repetition independently, and keeps the repetitions with enough
// data to be statistically useful. Security-check and ecosystem
// documents are runtime-level properties and are gathered in a second
// pass keyed by runtime only.
package loadproc

import (
	"strconv"
	"strings"
)

// A Level identifies one concurrency level. Directory names that
// encode a non-negative integer (after the configured prefix) become
// numeric levels; any other name is retained as an opaque identifier
// rather than dropped.
type Level struct {
	// N is the concurrency level when IsNumeric.
	N int

	// Name is the raw identifier of a non-numeric level.
	Name string

	// IsNumeric reports whether N is meaningful.
	IsNumeric bool
}

// ParseLevel derives a Level from a directory name by stripping
// prefix and parsing the remainder as a non-negative integer.
func ParseLevel(dir, prefix string) Level {
	rest := strings.TrimPrefix(dir, prefix)
	if n, err := strconv.Atoi(rest); err == nil && n >= 0 {
		return Level{N: n, IsNumeric: true}
	}
	return Level{Name: dir}
}

// String renders the level the way output tables print it.
func (l Level) String() string {
	if l.IsNumeric {
		return strconv.Itoa(l.N)
	}
	return l.Name
}

// Less orders levels for output: numeric levels ascending, then
// opaque levels lexically.
func (l Level) Less(m Level) bool {
	if l.IsNumeric != m.IsNumeric {
		return l.IsNumeric
	}
	if l.IsNumeric {
		return l.N < m.N
	}
	return l.Name < m.Name
}

// An Observation is one repetition's measured outcome. It is
// assembled once during collection and never mutated afterward.
type Observation struct {
	Runtime string
	Level   Level
	Rep     string

	// Metrics holds the measured values by metric key (the k6fmt
	// and monfmt key constants). A missing measurement is an absent
	// key, never a zero.
	Metrics map[string]float64
}

// A SecurityRow carries one runtime's check counters, keyed
// "check_<label>_<counter>".
type SecurityRow struct {
	Runtime string
	Checks  map[string]float64
}

// An EcosystemRow carries one runtime's descriptive attributes.
type EcosystemRow struct {
	Runtime string
	Attrs   map[string]string
}

// A ResultSet is everything one collection pass produces.
type ResultSet struct {
	Observations []Observation
	Security     []SecurityRow
	Ecosystem    []EcosystemRow
}
