// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadunit

import (
	"fmt"
	"strings"
	"time"
)

// timeLayouts are tried in order by EpochSeconds after the fractional
// part has been normalized. Layouts without a zone parse as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// EpochSeconds parses an ISO-8601 timestamp, with optional fractional
// seconds and an optional zone (missing zone means UTC), into seconds
// since the Unix epoch. The fractional part is rewritten to exactly
// six digits first, so that writers emitting different precisions
// normalize to the same microsecond value. Input no layout accepts is
// an error.
func EpochSeconds(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	t = normalizeFraction(t)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, t); err == nil {
			return float64(ts.UnixNano()) / 1e9, nil
		}
	}
	return 0, fmt.Errorf("unrecognized timestamp %q", s)
}

// normalizeFraction truncates or zero-pads the fractional-second part
// of s to exactly six digits. A dot with no digits after it is
// dropped entirely.
func normalizeFraction(s string) string {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return s
	}
	j := i + 1
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	frac := s[i+1 : j]
	if frac == "" {
		return s[:i] + s[j:]
	}
	if len(frac) > 6 {
		frac = frac[:6]
	} else {
		frac += strings.Repeat("0", 6-len(frac))
	}
	return s[:i+1] + frac + s[j:]
}
