// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadproc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"golang.org/x/loadstat/ecofmt"
	"golang.org/x/loadstat/k6fmt"
	"golang.org/x/loadstat/monfmt"
)

// ErrNoData reports that a collection pass found nothing usable at
// all: no observations, no security rows, no ecosystem rows.
var ErrNoData = errors.New("no usable data in results tree")

// A Collector walks a results tree and assembles a ResultSet. The
// zero value collects with DefaultConfig and no logging.
type Collector struct {
	// Log, when set, receives warnings about dropped repetitions
	// and skipped input.
	Log *zap.Logger

	// Config overrides the tree conventions; zero fields fall back
	// to DefaultConfig.
	Config Config
}

func (c *Collector) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// Collect walks root (runtime/level/repetition), parses each
// repetition's artifacts, and gathers the runtime-level security and
// ecosystem documents in a second pass. Directory entries are visited
// in sorted order and every repetition is parsed independently, so
// the result is a pure function of the tree's contents. Collect
// returns ErrNoData when nothing usable exists anywhere under root;
// every lesser problem is a logged skip.
func (c *Collector) Collect(root string) (*ResultSet, error) {
	runtimes, err := subdirs(root)
	if err != nil {
		return nil, fmt.Errorf("results tree: %w", err)
	}

	cfg := c.Config.withDefaults()
	log := c.logger()
	k6 := &k6fmt.Parser{Log: c.Log}
	mon := &monfmt.Parser{
		Log:           c.Log,
		CPUColumns:    cfg.CPUColumns,
		DurationFloor: cfg.DurationFloor,
	}
	eco := &ecofmt.Parser{Log: c.Log, Files: cfg.EcosystemFiles}

	rs := &ResultSet{}
	for _, runtime := range runtimes {
		log.Debug("runtime found", zap.String("runtime", runtime))
		levels, err := subdirs(filepath.Join(root, runtime))
		if err != nil {
			log.Warn("runtime directory unreadable",
				zap.String("runtime", runtime), zap.Error(err))
			continue
		}
		for _, levelDir := range levels {
			level := ParseLevel(levelDir, cfg.LevelPrefix)
			reps, err := subdirs(filepath.Join(root, runtime, levelDir))
			if err != nil {
				continue
			}
			for _, rep := range reps {
				dir := filepath.Join(root, runtime, levelDir, rep)
				metrics, ok := observe(cfg, k6, mon, dir)
				if !ok {
					log.Warn("repetition dropped", zap.String("path", dir))
					continue
				}
				rs.Observations = append(rs.Observations, Observation{
					Runtime: runtime,
					Level:   level,
					Rep:     rep,
					Metrics: metrics,
				})
			}
		}
	}

	// Security checks and ecosystem metadata are runtime-level
	// properties, independent of concurrency level, so they get
	// their own pass and their own runtime-keyed rows.
	for _, runtime := range runtimes {
		dir := filepath.Join(root, runtime)
		if checks := k6.ParseChecksFile(filepath.Join(dir, cfg.SecurityFile)); len(checks) > 0 {
			rs.Security = append(rs.Security, SecurityRow{Runtime: runtime, Checks: checks})
		}
		if attrs := eco.ParseDir(dir); len(attrs) > 0 {
			rs.Ecosystem = append(rs.Ecosystem, EcosystemRow{Runtime: runtime, Attrs: attrs})
		}
	}

	if len(rs.Observations) == 0 && len(rs.Security) == 0 && len(rs.Ecosystem) == 0 {
		return nil, ErrNoData
	}
	log.Debug("collection finished",
		zap.Int("observations", len(rs.Observations)),
		zap.Int("security_rows", len(rs.Security)),
		zap.Int("ecosystem_rows", len(rs.Ecosystem)))
	return rs, nil
}

// observe parses one repetition directory into its metric map. It
// reports ok=false when the repetition must be dropped: no usable
// load metric, or no duration from either source.
func observe(cfg Config, k6 *k6fmt.Parser, mon *monfmt.Parser, dir string) (map[string]float64, bool) {
	load := k6.ParseFile(filepath.Join(dir, cfg.K6File))
	if !usableLoad(load) {
		return nil, false
	}
	monitor := mon.ParseFile(filepath.Join(dir, cfg.MonitorFile))

	// The monitor's wall-clock span is the better duration; the
	// load generator's own timestamp span is the fallback.
	duration, ok := monitor[monfmt.Duration]
	if !ok {
		duration, ok = load[k6fmt.Duration]
	}
	if !ok {
		return nil, false
	}

	m := make(map[string]float64)
	for _, k := range []string{
		k6fmt.LatMean, k6fmt.LatP95, k6fmt.Requests,
		k6fmt.DataReceived, k6fmt.DataSent, k6fmt.Throughput,
	} {
		if v, ok := load[k]; ok {
			m[k] = v
		}
	}
	for _, k := range []string{monfmt.CPU, monfmt.Memory} {
		if v, ok := monitor[k]; ok {
			m[k] = v
		}
	}
	m[monfmt.Duration] = duration

	// Throughput is derived per observation, before any grouping;
	// deriving it from averaged quantities later would be wrong.
	if _, ok := m[k6fmt.Throughput]; !ok {
		if reqs, ok := m[k6fmt.Requests]; ok && duration > 0 {
			m[k6fmt.Throughput] = reqs / duration
		}
	}
	return m, true
}

// usableLoad reports whether the load-generator parse yielded at
// least one latency or throughput metric. Byte counters alone do not
// make a repetition worth keeping.
func usableLoad(m map[string]float64) bool {
	for _, k := range []string{k6fmt.LatMean, k6fmt.LatP95, k6fmt.Requests, k6fmt.Throughput} {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// subdirs lists the directories under dir in sorted order.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
