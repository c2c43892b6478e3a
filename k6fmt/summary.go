// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package k6fmt

import "encoding/json"

// parseSummary reads the pre-aggregated summary form: one document
// whose top-level "metrics" object maps metric names to objects of
// numeric fields. It returns nil when data is not such a document.
func (p *Parser) parseSummary(data []byte) map[string]float64 {
	var doc struct {
		Metrics map[string]json.RawMessage `json:"metrics"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.Metrics) == 0 {
		return nil
	}

	metrics := make(map[string]map[string]float64, len(doc.Metrics))
	for name, raw := range doc.Metrics {
		if fields := flattenMetric(raw); len(fields) > 0 {
			metrics[name] = fields
		}
	}

	out := make(map[string]float64)
	if v, ok := metricField(metrics, durationMetric, "avg", "mean"); ok {
		out[LatMean] = v
	}
	if v, ok := metricField(metrics, durationMetric, "p(95)", "p95"); ok {
		out[LatP95] = v
	}
	if v, ok := metricField(metrics, requestsMetric, "count"); ok {
		out[Requests] = v
	} else if v, ok := metricField(metrics, iterationsMetric, "count"); ok {
		out[Requests] = v
	}
	if v, ok := metricField(metrics, receivedMetric, "count"); ok {
		out[DataReceived] = v
	}
	if v, ok := metricField(metrics, sentMetric, "count"); ok {
		out[DataSent] = v
	}
	return out
}

// metricField looks up the first of fields on the named metric. When
// the base metric lacks them all, the {expected_response:true}
// variant k6 emits for tagged request metrics is tried as a fallback.
func metricField(metrics map[string]map[string]float64, name string, fields ...string) (float64, bool) {
	for _, variant := range []string{name, name + "{expected_response:true}"} {
		m, ok := metrics[variant]
		if !ok {
			continue
		}
		for _, f := range fields {
			if v, ok := m[f]; ok {
				return v, true
			}
		}
	}
	return 0, false
}

// flattenMetric extracts the numeric fields of one summary metric
// object. Depending on the k6 version the numbers sit directly on the
// object or under a nested "values" object; the nested form wins when
// both are present. Non-numeric fields are ignored.
func flattenMetric(raw json.RawMessage) map[string]float64 {
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return nil
	}
	out := make(map[string]float64, len(obj))
	for k, v := range obj {
		if k == "values" {
			continue
		}
		var f float64
		if json.Unmarshal(v, &f) == nil {
			out[k] = f
		}
	}
	if nested, ok := obj["values"]; ok {
		for k, v := range flattenMetric(nested) {
			out[k] = v
		}
	}
	return out
}
