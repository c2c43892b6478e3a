// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadproc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"golang.org/x/loadstat/ecofmt"
	"golang.org/x/loadstat/monfmt"
)

// Config names the file-layout conventions of a results tree.
type Config struct {
	// K6File is the load-generator artifact inside each repetition
	// directory.
	K6File string `yaml:"k6_file"`

	// MonitorFile is the resource-monitor artifact inside each
	// repetition directory.
	MonitorFile string `yaml:"monitor_file"`

	// SecurityFile is the per-runtime check summary document.
	SecurityFile string `yaml:"security_file"`

	// EcosystemFiles are the per-runtime metadata documents.
	EcosystemFiles []string `yaml:"ecosystem_files"`

	// LevelPrefix is stripped from level directory names before
	// integer parsing.
	LevelPrefix string `yaml:"level_prefix"`

	// CPUColumns are the monitor CPU header candidates, in
	// priority order.
	CPUColumns []string `yaml:"cpu_columns"`

	// DurationFloor is the minimum monitor duration in seconds.
	DurationFloor float64 `yaml:"duration_floor"`
}

// DefaultConfig returns the conventions the usual harness scripts
// write.
func DefaultConfig() Config {
	return Config{
		K6File:         "k6_results.json",
		MonitorFile:    "docker_stats.csv",
		SecurityFile:   "security_summary.json",
		EcosystemFiles: append([]string(nil), ecofmt.DefaultFiles...),
		LevelPrefix:    "vus_",
		CPUColumns:     append([]string(nil), monfmt.DefaultCPUColumns...),
		DurationFloor:  monfmt.DefaultDurationFloor,
	}
}

// LoadConfig reads a YAML file over the defaults. Unknown keys are an
// error so a typo cannot silently fall back to a default.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// withDefaults fills zero fields so a zero Collector works.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.K6File == "" {
		c.K6File = def.K6File
	}
	if c.MonitorFile == "" {
		c.MonitorFile = def.MonitorFile
	}
	if c.SecurityFile == "" {
		c.SecurityFile = def.SecurityFile
	}
	if len(c.EcosystemFiles) == 0 {
		c.EcosystemFiles = def.EcosystemFiles
	}
	if c.LevelPrefix == "" {
		c.LevelPrefix = def.LevelPrefix
	}
	if len(c.CPUColumns) == 0 {
		c.CPUColumns = def.CPUColumns
	}
	if c.DurationFloor <= 0 {
		c.DurationFloor = def.DurationFloor
	}
	return c
}
