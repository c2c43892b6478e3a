// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadunit

import (
	"testing"
	"time"
)

func TestEpochSeconds(t *testing.T) {
	test := func(s string, want float64) {
		t.Helper()
		got, err := EpochSeconds(s)
		if err != nil {
			t.Errorf("for %q, unexpected error %v", s, err)
		} else if got != want {
			t.Errorf("for %q, want %v, got %v", s, want, got)
		}
	}
	testErr := func(s string) {
		t.Helper()
		if got, err := EpochSeconds(s); err == nil {
			t.Errorf("for %q, want error, got %v", s, got)
		}
	}

	base := float64(time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC).Unix())
	test("2021-03-01T10:00:00Z", base)
	test("2021-03-01T10:00:00", base)
	test("2021-03-01 10:00:00", base)
	test("2021-03-01T10:00:00.5Z", base+0.5)
	test("2021-03-01T10:00:00.250000", base+0.25)
	test("2021-03-01T11:00:00+01:00", base)
	test("2021-03-01", float64(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC).Unix()))

	testErr("")
	testErr("not a time")
	testErr("10:00:00")
}

func TestEpochSecondsPrecision(t *testing.T) {
	// Fractions beyond six digits are truncated, so writers emitting
	// different precisions agree on the microsecond.
	a, err := EpochSeconds("2021-03-01T10:00:00.1234569Z")
	if err != nil {
		t.Fatal(err)
	}
	b, err := EpochSeconds("2021-03-01T10:00:00.123456Z")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("want truncation to six digits, got %v != %v", a, b)
	}
}

func TestNormalizeFraction(t *testing.T) {
	test := func(in, want string) {
		t.Helper()
		if got := normalizeFraction(in); got != want {
			t.Errorf("for %q, want %q, got %q", in, want, got)
		}
	}
	test("10:00:00.5", "10:00:00.500000")
	test("10:00:00.1234567", "10:00:00.123456")
	test("10:00:00.123456Z", "10:00:00.123456Z")
	test("10:00:00.Z", "10:00:00Z")
	test("10:00:00", "10:00:00")
}
