// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadtab

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"golang.org/x/loadstat/k6fmt"
	"golang.org/x/loadstat/loadproc"
	"golang.org/x/loadstat/monfmt"
)

func level(n int) loadproc.Level { return loadproc.Level{N: n, IsNumeric: true} }

func testSet() *loadproc.ResultSet {
	return &loadproc.ResultSet{
		Observations: []loadproc.Observation{
			{Runtime: "beta", Level: level(50), Rep: "rep_1", Metrics: map[string]float64{
				k6fmt.LatP95: 90, k6fmt.LatMean: 80, k6fmt.Throughput: 40,
			}},
			{Runtime: "alpha", Level: level(50), Rep: "rep_2", Metrics: map[string]float64{
				k6fmt.LatP95: 140, k6fmt.LatMean: 110, monfmt.Duration: 20,
			}},
			{Runtime: "alpha", Level: level(50), Rep: "rep_1", Metrics: map[string]float64{
				k6fmt.LatP95: 120, k6fmt.LatMean: 100, monfmt.Duration: 20,
			}},
			{Runtime: "alpha", Level: level(10), Rep: "rep_1", Metrics: map[string]float64{
				k6fmt.LatP95: 60, k6fmt.LatMean: 50, monfmt.CPU: 15, monfmt.Duration: 20,
			}},
		},
		Security: []loadproc.SecurityRow{
			{Runtime: "beta", Checks: map[string]float64{"check_auth_passes": 8, "check_tls_rate": 0.5}},
			{Runtime: "alpha", Checks: map[string]float64{"check_auth_passes": 10, "check_auth_fails": 2}},
		},
		Ecosystem: []loadproc.EcosystemRow{
			{Runtime: "alpha", Attrs: map[string]string{"github_repo_language": "Go"}},
		},
	}
}

func TestBuild(t *testing.T) {
	tables := Build(testSet())
	sum := tables.Summary

	// Canonical metric columns come first, then observed extras in
	// name order.
	var bases []string
	for _, m := range sum.Metrics {
		bases = append(bases, m.Base)
	}
	require.Equal(t, []string{"lat_p95", "lat_mean", "throughput", "cpu", "memory", "duration_seconds"}, bases)

	// Rows sort by runtime, then level.
	require.Len(t, sum.Rows, 3)
	require.Equal(t, "alpha", sum.Rows[0].Runtime)
	require.Equal(t, level(10), sum.Rows[0].Level)
	require.Equal(t, level(50), sum.Rows[1].Level)
	require.Equal(t, "beta", sum.Rows[2].Runtime)

	// Two p95 samples of 120 and 140: mean 130, half-width
	// t(0.975, df=1) * (stddev / sqrt 2) = 12.7062 * 10.
	p95 := sum.Rows[1].Stats[0]
	require.Equal(t, 2, p95.N)
	require.InDelta(t, 130.0, p95.Mean, 1e-9)
	require.InDelta(t, 127.0620474, p95.CI95, 1e-4)

	// Groups with no samples for a metric keep the column with the
	// no-data sentinels.
	cpu := sum.Rows[1].Stats[3]
	require.True(t, math.IsNaN(cpu.Mean))
	require.Equal(t, 0.0, cpu.CI95)
	require.Equal(t, 0, cpu.N)

	// Single-sample groups have a zero half-width.
	require.Equal(t, 15.0, sum.Rows[0].Stats[3].Mean)
	require.Equal(t, 0.0, sum.Rows[0].Stats[3].CI95)

	require.Equal(t, []string{"check_auth_fails", "check_auth_passes", "check_tls_rate"}, tables.Security.Cols)
	require.Equal(t, "alpha", tables.Security.Rows[0].Runtime)
	require.Equal(t, "beta", tables.Security.Rows[1].Runtime)

	require.Equal(t, []string{"github_repo_language"}, tables.Ecosystem.Cols)
}

func TestBuildOrderIndependent(t *testing.T) {
	render := func(rs *loadproc.ResultSet) string {
		var buf bytes.Buffer
		tables := Build(rs)
		require.NoError(t, tables.Summary.ToCSV(&buf))
		require.NoError(t, tables.Security.ToCSV(&buf))
		require.NoError(t, tables.Ecosystem.ToCSV(&buf))
		return buf.String()
	}

	want := render(testSet())
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		rs := testSet()
		rng.Shuffle(len(rs.Observations), func(i, j int) {
			rs.Observations[i], rs.Observations[j] = rs.Observations[j], rs.Observations[i]
		})
		rng.Shuffle(len(rs.Security), func(i, j int) {
			rs.Security[i], rs.Security[j] = rs.Security[j], rs.Security[i]
		})
		require.Equal(t, want, render(rs))
	}
}

func TestSummaryCSV(t *testing.T) {
	rs := &loadproc.ResultSet{
		Observations: []loadproc.Observation{
			{Runtime: "alpha", Level: level(50), Rep: "rep_1", Metrics: map[string]float64{
				k6fmt.LatP95: 120, k6fmt.LatMean: 100, k6fmt.Throughput: 50,
				monfmt.CPU: 15, monfmt.Memory: 210,
			}},
			{Runtime: "beta", Level: level(25), Rep: "rep_1", Metrics: map[string]float64{
				k6fmt.LatP95: 90, k6fmt.LatMean: 80, k6fmt.Throughput: 40,
				monfmt.CPU: 12,
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Build(rs).Summary.ToCSV(&buf))
	want := `runtime,vus,lat_p95_mean,lat_p95_ic95,lat_mean_mean,lat_mean_ic95,throughput_mean,throughput_ic95,cpu_mean,cpu_ic95,memory_mean,memory_ic95
alpha,50,120,0,100,0,50,0,15,0,210,0
beta,25,90,0,80,0,40,0,12,0,,0
`
	require.Equal(t, want, buf.String())
}

func TestAuxCSV(t *testing.T) {
	tables := Build(testSet())

	var buf bytes.Buffer
	require.NoError(t, tables.Security.ToCSV(&buf))
	want := `runtime,check_auth_fails,check_auth_passes,check_tls_rate
alpha,2,10,
beta,,8,0.5
`
	require.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, tables.Ecosystem.ToCSV(&buf))
	require.Equal(t, "runtime,github_repo_language\nalpha,Go\n", buf.String())
}

func TestToText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(testSet()).ToText(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Equal(t, []string{"runtime", "vus", "lat_p95", "lat_mean", "throughput", "cpu", "memory", "duration_seconds"},
		strings.Fields(lines[0]))

	// alpha/10 has one sample per metric except throughput and
	// memory, which render the no-data marker.
	require.Equal(t, []string{"alpha", "10", "60", "±0", "50", "±0", "-", "15", "±0", "-", "20", "±0"},
		strings.Fields(lines[1]))

	text := buf.String()
	require.Contains(t, text, "\nsecurity:\n")
	require.Contains(t, text, "\necosystem:\n")
	require.Contains(t, text, "github_repo_language")
}

func TestToTextSkipsEmptyTables(t *testing.T) {
	rs := &loadproc.ResultSet{
		Security: []loadproc.SecurityRow{
			{Runtime: "alpha", Checks: map[string]float64{"check_auth_passes": 10}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Build(rs).ToText(&buf))
	require.Equal(t, "security:\nruntime  check_auth_passes\nalpha                   10\n", buf.String())
}
