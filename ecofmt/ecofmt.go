// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ecofmt reads the static ecosystem-metadata documents
// published per runtime: repository metadata JSON and plain-text
// package-registry counters. These are descriptive attributes with no
// fixed schema; unknown fields pass through.
package ecofmt

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultFiles are the documents probed in each runtime directory.
var DefaultFiles = []string{
	"github_repo.json",
	"npm_total_packages.txt",
	"deno_modules.txt",
}

// A Parser reads ecosystem metadata. The zero value is ready to use.
type Parser struct {
	// Log, when set, receives warnings about skipped input.
	Log *zap.Logger

	// Files overrides the document names probed per runtime.
	Files []string
}

func (p *Parser) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func (p *Parser) files() []string {
	if len(p.Files) == 0 {
		return DefaultFiles
	}
	return p.Files
}

// ParseDir reads the configured documents under dir into a flat
// attribute map. JSON documents contribute their top-level scalar
// fields as "<stem>_<field>"; text documents contribute their trimmed
// content as "<stem>". Nested structures are skipped. Missing files
// are skipped silently; an empty map means the runtime publishes no
// metadata.
func (p *Parser) ParseDir(dir string) map[string]string {
	out := make(map[string]string)
	for _, name := range p.files() {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if strings.EqualFold(filepath.Ext(name), ".json") {
			fields, err := flattenDoc(data)
			if err != nil {
				p.logger().Warn("malformed metadata document",
					zap.String("path", path), zap.Error(err))
				continue
			}
			for k, v := range fields {
				out[stem+"_"+k] = v
			}
		} else {
			out[stem] = strings.TrimSpace(string(data))
		}
	}
	return out
}

// flattenDoc renders the top-level scalar fields of a JSON object as
// strings. Numbers keep their source text, so counters round-trip
// without float formatting artifacts.
func flattenDoc(data []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		switch v := v.(type) {
		case string:
			out[k] = v
		case json.Number:
			out[k] = v.String()
		case bool:
			out[k] = strconv.FormatBool(v)
		}
	}
	return out, nil
}
