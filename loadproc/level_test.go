// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadproc

import (
	"sort"
	"testing"
)

func TestParseLevel(t *testing.T) {
	test := func(dir, prefix string, want Level) {
		t.Helper()
		if got := ParseLevel(dir, prefix); got != want {
			t.Errorf("for %q (prefix %q), want %+v, got %+v", dir, prefix, want, got)
		}
	}
	test("vus_50", "vus_", Level{N: 50, IsNumeric: true})
	test("vus_0", "vus_", Level{N: 0, IsNumeric: true})
	test("50", "vus_", Level{N: 50, IsNumeric: true})
	test("c25", "c", Level{N: 25, IsNumeric: true})
	test("vus_-5", "vus_", Level{Name: "vus_-5"})
	test("smoke", "vus_", Level{Name: "smoke"})
	test("vus_high", "vus_", Level{Name: "vus_high"})
}

func TestLevelString(t *testing.T) {
	test := func(l Level, want string) {
		t.Helper()
		if got := l.String(); got != want {
			t.Errorf("for %+v, want %q, got %q", l, want, got)
		}
	}
	test(Level{N: 50, IsNumeric: true}, "50")
	test(Level{Name: "smoke"}, "smoke")
}

func TestLevelOrder(t *testing.T) {
	levels := []Level{
		{Name: "smoke"},
		{N: 100, IsNumeric: true},
		{Name: "burst"},
		{N: 25, IsNumeric: true},
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Less(levels[j]) })

	want := []string{"25", "100", "burst", "smoke"}
	for i, l := range levels {
		if l.String() != want[i] {
			t.Errorf("position %d: want %s, got %s", i, want[i], l.String())
		}
	}
}
