// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package k6fmt

import (
	"encoding/json"
	"os"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// checksMetric is the name of k6's aggregate check metric. Tagged
// variants are written with a suffix, as in "checks{type:auth}".
const checksMetric = "checks"

// Counter fields recognized on a check metric. Metrics that merely
// mention checks in their name contribute only the first three.
var (
	checkCounters     = []string{"passes", "fails", "rate", "count", "value"}
	secondaryCounters = []string{"passes", "fails", "rate"}
)

// ParseChecksFile reads a check summary document and returns a flat
// counter map keyed "check_<label>_<counter>". An empty map, with a
// warning, means the document is absent, unparseable, or carries no
// check metrics.
func (p *Parser) ParseChecksFile(path string) map[string]float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		p.logger().Warn("check summary unavailable",
			zap.String("path", path), zap.Error(err))
		return map[string]float64{}
	}
	m := p.ParseChecks(data)
	if len(m) == 0 {
		p.logger().Warn("no check metrics in summary",
			zap.String("path", path))
	}
	return m
}

// ParseChecks extracts check counters from a summary document.
// Metrics named "checks", or prefixed by it, contribute every
// recognized counter under a label derived from the rest of the name;
// other metrics whose name contains "check" contribute pass/fail/rate
// counters under their full sanitized name.
func (p *Parser) ParseChecks(data []byte) map[string]float64 {
	var doc struct {
		Metrics map[string]json.RawMessage `json:"metrics"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.Metrics) == 0 {
		return map[string]float64{}
	}

	out := make(map[string]float64)
	for name, raw := range doc.Metrics {
		fields := flattenMetric(raw)
		if len(fields) == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(name, checksMetric):
			label := SanitizeLabel(strings.TrimPrefix(name, checksMetric))
			for _, c := range checkCounters {
				if v, ok := fields[c]; ok {
					out["check_"+label+"_"+c] = v
				}
			}
		case strings.Contains(strings.ToLower(name), "check"):
			label := SanitizeLabel(name)
			for _, c := range secondaryCounters {
				if v, ok := fields[c]; ok {
					out["check_"+label+"_"+c] = v
				}
			}
		}
	}
	return out
}

// SanitizeLabel derives a stable identifier from a raw check name:
// braces are stripped; ':', '=', ',' and quote characters become
// spaces; each whitespace run becomes one underscore; any other rune
// that is not a letter, digit, or underscore is dropped; the result
// is lowercased. An empty result falls back to "check", so every
// check gets a usable key.
func SanitizeLabel(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch r {
		case '{', '}':
		case ':', '=', ',', '"', '\'', '`':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	joined := strings.Join(strings.Fields(b.String()), "_")

	var out strings.Builder
	for _, r := range joined {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(unicode.ToLower(r))
		}
	}
	if out.Len() == 0 {
		return "check"
	}
	return out.String()
}
