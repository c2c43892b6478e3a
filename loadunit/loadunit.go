// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loadunit normalizes the textual value encodings found in
// load-test artifacts: percentages, binary byte sizes, and timestamps.
//
// All functions are pure and return an error for input they cannot
// normalize. Callers treat any error as a missing value; nothing in
// this package is fatal.
package loadunit

import (
	"fmt"
	"strconv"
	"strings"
)

// Percent parses a percentage cell such as "37.2%" into its numeric
// value. Surrounding whitespace and quote characters are trimmed and
// one trailing "%" is dropped; the remainder must parse as a float,
// so already-numeric input like "42.5" passes through unchanged.
func Percent(s string) (float64, error) {
	t := strings.Trim(strings.TrimSpace(s), `"'`)
	t = strings.TrimSpace(strings.TrimSuffix(t, "%"))
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed percentage %q", s)
	}
	return v, nil
}

// BytesMiB parses a byte-size cell with an IEC binary suffix into
// mebibytes: "512KiB" is 0.5, "1.00gib" is 1024. The suffix match is
// case-insensitive. Input without a recognized suffix is an error;
// there is no way to tell which unit a bare number is in.
func BytesMiB(s string) (float64, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	var factor float64
	switch {
	case strings.HasSuffix(t, "kib"):
		factor, t = 1.0/1024, strings.TrimSuffix(t, "kib")
	case strings.HasSuffix(t, "mib"):
		factor, t = 1, strings.TrimSuffix(t, "mib")
	case strings.HasSuffix(t, "gib"):
		factor, t = 1024, strings.TrimSuffix(t, "gib")
	default:
		return 0, fmt.Errorf("no binary size suffix in %q", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed byte size %q", s)
	}
	return v * factor, nil
}
