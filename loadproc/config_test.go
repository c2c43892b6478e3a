// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
k6_file: load.json
level_prefix: c
duration_floor: 0.5
`), 0o666))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "load.json", cfg.K6File)
	require.Equal(t, "c", cfg.LevelPrefix)
	require.Equal(t, 0.5, cfg.DurationFloor)

	// Keys the file does not mention keep their defaults.
	def := DefaultConfig()
	require.Equal(t, def.MonitorFile, cfg.MonitorFile)
	require.Equal(t, def.SecurityFile, cfg.SecurityFile)
	require.Equal(t, def.EcosystemFiles, cfg.EcosystemFiles)
	require.Equal(t, def.CPUColumns, cfg.CPUColumns)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k6_flie: load.json\n"), 0o666))

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "k6_flie")
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestConfigWithDefaults(t *testing.T) {
	got := Config{K6File: "load.json"}.withDefaults()
	def := DefaultConfig()
	require.Equal(t, "load.json", got.K6File)
	require.Equal(t, def.MonitorFile, got.MonitorFile)
	require.Equal(t, def.LevelPrefix, got.LevelPrefix)
	require.Equal(t, def.DurationFloor, got.DurationFloor)
}
