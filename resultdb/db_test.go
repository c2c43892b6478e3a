// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

package resultdb_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"golang.org/x/loadstat/k6fmt"
	"golang.org/x/loadstat/loadproc"
	"golang.org/x/loadstat/loadtab"
	"golang.org/x/loadstat/resultdb"
	_ "golang.org/x/loadstat/resultdb/sqlite3"
)

func openTestDB(t *testing.T) *resultdb.DB {
	t.Helper()
	db, err := resultdb.OpenSQL("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func level50() loadproc.Level { return loadproc.Level{N: 50, IsNumeric: true} }

func testTables() *loadtab.Tables {
	return loadtab.Build(&loadproc.ResultSet{
		Observations: []loadproc.Observation{
			{Runtime: "alpha", Level: level50(), Rep: "rep_1",
				Metrics: map[string]float64{k6fmt.LatP95: 120, k6fmt.LatMean: 100}},
			{Runtime: "alpha", Level: level50(), Rep: "rep_2",
				Metrics: map[string]float64{k6fmt.LatP95: 140, k6fmt.LatMean: 110}},
		},
		Security: []loadproc.SecurityRow{
			{Runtime: "alpha", Checks: map[string]float64{"check_auth_passes": 10, "check_auth_fails": 2}},
		},
		Ecosystem: []loadproc.EcosystemRow{
			{Runtime: "alpha", Attrs: map[string]string{"github_repo_language": "Go"}},
		},
	})
}

func TestSaveTables(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	run1, err := db.SaveTables(ctx, testTables())
	require.NoError(t, err)
	run2, err := db.SaveTables(ctx, testTables())
	require.NoError(t, err)
	require.Equal(t, run1+1, run2)

	sums, err := db.ReadSummaries(ctx, run1)
	require.NoError(t, err)
	require.Len(t, sums, 5) // one group, five canonical metrics

	byMetric := make(map[string]resultdb.SummaryRecord)
	for _, r := range sums {
		require.Equal(t, "alpha", r.Runtime)
		require.Equal(t, "50", r.Level)
		byMetric[r.Metric] = r
	}

	p95 := byMetric["lat_p95"]
	require.Equal(t, 2, p95.N)
	require.InDelta(t, 130.0, p95.Mean, 1e-9)
	require.InDelta(t, 127.0620474, p95.CI95, 1e-4)

	// A metric with no samples round-trips as NaN, not zero.
	cpu := byMetric["cpu"]
	require.Equal(t, 0, cpu.N)
	require.True(t, math.IsNaN(cpu.Mean))
	require.Equal(t, 0.0, cpu.CI95)

	checks, err := db.ReadChecks(ctx, run1)
	require.NoError(t, err)
	require.Equal(t, []resultdb.CheckRecord{
		{Runtime: "alpha", Check: "check_auth_fails", Value: 2},
		{Runtime: "alpha", Check: "check_auth_passes", Value: 10},
	}, checks)

	attrs, err := db.ReadAttrs(ctx, run1)
	require.NoError(t, err)
	require.Equal(t, []resultdb.AttrRecord{
		{Runtime: "alpha", Attr: "github_repo_language", Value: "Go"},
	}, attrs)

	// Runs are isolated from each other.
	sums2, err := db.ReadSummaries(ctx, run2)
	require.NoError(t, err)
	require.Len(t, sums2, 5)
}

func TestDeleteRunCascades(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	run, err := db.SaveTables(ctx, testTables())
	require.NoError(t, err)

	_, err = resultdb.DBSQL(db).Exec("DELETE FROM Runs WHERE RunID = ?", run)
	require.NoError(t, err)

	sums, err := db.ReadSummaries(ctx, run)
	require.NoError(t, err)
	require.Empty(t, sums)
	checks, err := db.ReadChecks(ctx, run)
	require.NoError(t, err)
	require.Empty(t, checks)
}

func TestRunTimestamp(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	resultdb.SetNow(time.Unix(0, 0))
	defer resultdb.SetNow(time.Time{})

	run, err := db.SaveTables(ctx, testTables())
	require.NoError(t, err)

	var generated string
	require.NoError(t, resultdb.DBSQL(db).
		QueryRow("SELECT Generated FROM Runs WHERE RunID = ?", run).Scan(&generated))
	require.Equal(t, "1970-01-01T00:00:00Z", generated)
}
