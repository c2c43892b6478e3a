// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loadmath provides the sample statistics used to summarize
// repeated load-test measurements: arithmetic means, order-statistic
// percentiles, and confidence intervals around the mean.
package loadmath

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// Confidence is the confidence level of the intervals this package
// computes.
const Confidence = 0.95

// A Summary summarizes one group's values for one metric.
type Summary struct {
	// Mean is the arithmetic mean, or NaN when the group has no
	// valid values. NaN is the "no data" marker and must never be
	// coerced to zero downstream.
	Mean float64

	// CI95 is the half-width of the two-tailed 95% confidence
	// interval around Mean: the Student's t critical value at n-1
	// degrees of freedom times the unbiased sample standard
	// deviation over sqrt(n). It is exactly 0 when fewer than two
	// valid values exist, and never negative.
	CI95 float64

	// N is the number of valid values summarized.
	N int
}

// Defined reports whether any data is behind the summary.
func (s Summary) Defined() bool {
	return s.N > 0
}

// Summarize computes the Summary of xs. Non-finite values are dropped
// first, so a slice of all-missing arithmetic results summarizes to
// {NaN, 0, 0} rather than poisoning the group.
func Summarize(xs []float64) Summary {
	vs := finite(xs)
	switch len(vs) {
	case 0:
		return Summary{Mean: math.NaN()}
	case 1:
		return Summary{Mean: vs[0], N: 1}
	}
	sort.Float64s(vs)
	mean, lo, hi := stats.Sample{Xs: vs, Sorted: true}.MeanCI(Confidence)
	return Summary{Mean: mean, CI95: (hi - lo) / 2, N: len(vs)}
}

// Mean returns the arithmetic mean of the finite values in xs, or NaN
// when there are none.
func Mean(xs []float64) float64 {
	vs := finite(xs)
	if len(vs) == 0 {
		return math.NaN()
	}
	return stats.Mean(vs)
}

// Percentile returns the p'th percentile (0 <= p <= 100) of xs using
// linear interpolation between closest ranks over the full sample. It
// is NaN for empty input. xs is not modified.
func Percentile(xs []float64, p float64) float64 {
	vs := finite(xs)
	n := len(vs)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(vs)
	if p <= 0 {
		return vs[0]
	}
	if p >= 100 {
		return vs[n-1]
	}
	f := p / 100 * float64(n-1)
	i := int(f)
	x := f - float64(i)
	r := vs[i]
	if x > 0 && i+1 < n {
		r = r*(1-x) + vs[i+1]*x
	}
	return r
}

func finite(xs []float64) []float64 {
	vs := make([]float64, 0, len(xs))
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		vs = append(vs, x)
	}
	return vs
}
