// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadtab

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// formatCell renders one numeric cell. NaN renders empty so
// spreadsheet tools read the column as numeric.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ToCSV renders the summary table: a header row, then one row per
// (runtime, level) group with a <base>_mean and <base>_ic95 column
// pair per metric.
func (t *SummaryTable) ToCSV(w io.Writer) error {
	o := csv.NewWriter(w)
	hdr := make([]string, 0, 2+2*len(t.Metrics))
	hdr = append(hdr, "runtime", "vus")
	for _, m := range t.Metrics {
		hdr = append(hdr, m.Base+"_mean", m.Base+"_ic95")
	}
	o.Write(hdr)
	for _, r := range t.Rows {
		row := make([]string, 0, len(hdr))
		row = append(row, r.Runtime, r.Level.String())
		for _, s := range r.Stats {
			row = append(row, formatCell(s.Mean), formatCell(s.CI95))
		}
		o.Write(row)
	}
	o.Flush()
	return o.Error()
}

// ToCSV renders the security table: runtime plus the column union,
// with empty cells where a runtime lacks a counter.
func (t *SecurityTable) ToCSV(w io.Writer) error {
	o := csv.NewWriter(w)
	o.Write(append([]string{"runtime"}, t.Cols...))
	for _, r := range t.Rows {
		row := make([]string, 0, 1+len(t.Cols))
		row = append(row, r.Runtime)
		for _, c := range t.Cols {
			if v, ok := r.Checks[c]; ok {
				row = append(row, formatCell(v))
			} else {
				row = append(row, "")
			}
		}
		o.Write(row)
	}
	o.Flush()
	return o.Error()
}

// ToCSV renders the ecosystem table: runtime plus the column union,
// with empty cells where a runtime lacks an attribute.
func (t *EcosystemTable) ToCSV(w io.Writer) error {
	o := csv.NewWriter(w)
	o.Write(append([]string{"runtime"}, t.Cols...))
	for _, r := range t.Rows {
		row := make([]string, 0, 1+len(t.Cols))
		row = append(row, r.Runtime)
		for _, c := range t.Cols {
			row = append(row, r.Attrs[c])
		}
		o.Write(row)
	}
	o.Flush()
	return o.Error()
}
