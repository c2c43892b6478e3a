// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadtab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ToText renders every non-empty table to a fixed-width textual
// representation, with a heading line before each auxiliary table.
func (t *Tables) ToText(w io.Writer) error {
	first := true
	section := func(name string, rows [][]string) error {
		if len(rows) < 2 {
			return nil
		}
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false
		if name != "" {
			if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
				return err
			}
		}
		return writeGrid(w, rows)
	}

	if err := section("", t.Summary.grid()); err != nil {
		return err
	}
	if err := section("security", t.Security.grid()); err != nil {
		return err
	}
	return section("ecosystem", t.Ecosystem.grid())
}

func writeGrid(w io.Writer, rows [][]string) error {
	var max []int
	for _, row := range rows {
		for len(max) < len(row) {
			max = append(max, 0)
		}
		for i, s := range row {
			if n := utf8.RuneCountInString(s); max[i] < n {
				max[i] = n
			}
		}
	}

	var line strings.Builder
	for ri, row := range rows {
		line.Reset()
		for i, s := range row {
			switch {
			case i == 0:
				fmt.Fprintf(&line, "%-*s", max[i], s)
			case ri == 0 && i == len(row)-1:
				// Last heading needs no padding.
				fmt.Fprintf(&line, "  %s", s)
			case ri == 0:
				fmt.Fprintf(&line, "  %-*s", max[i], s)
			default:
				fmt.Fprintf(&line, "  %*s", max[i], s)
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}

func (t *SummaryTable) grid() [][]string {
	hdr := make([]string, 0, 2+len(t.Metrics))
	hdr = append(hdr, "runtime", "vus")
	for _, m := range t.Metrics {
		hdr = append(hdr, m.Base)
	}
	rows := [][]string{hdr}
	for _, r := range t.Rows {
		row := make([]string, 0, len(hdr))
		row = append(row, r.Runtime, r.Level.String())
		for _, s := range r.Stats {
			if !s.Defined() {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.6g ±%.3g", s.Mean, s.CI95))
		}
		rows = append(rows, row)
	}
	return rows
}

func (t *SecurityTable) grid() [][]string {
	rows := [][]string{append([]string{"runtime"}, t.Cols...)}
	for _, r := range t.Rows {
		row := make([]string, 0, 1+len(t.Cols))
		row = append(row, r.Runtime)
		for _, c := range t.Cols {
			if v, ok := r.Checks[c]; ok {
				row = append(row, formatCell(v))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (t *EcosystemTable) grid() [][]string {
	rows := [][]string{append([]string{"runtime"}, t.Cols...)}
	for _, r := range t.Rows {
		row := make([]string, 0, 1+len(t.Cols))
		row = append(row, r.Runtime)
		for _, c := range t.Cols {
			if v := r.Attrs[c]; v != "" {
				row = append(row, v)
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	return rows
}
