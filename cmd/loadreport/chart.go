// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"golang.org/x/loadstat/loadproc"
	"golang.org/x/loadstat/loadtab"
)

// A chartSpec describes one summary metric rendered as a grouped bar
// chart.
type chartSpec struct {
	base      string // metric column in the summary table
	file      string // output file stem
	label     string // y axis label
	thousands bool   // group thousands in tick and bar labels
}

var chartSpecs = []chartSpec{
	{base: "lat_p95", file: "p95_latency", label: "p95 Latency (ms)"},
	{base: "lat_mean", file: "mean_latency", label: "Mean Latency (ms)"},
	{base: "throughput", file: "throughput", label: "Throughput (RPS)", thousands: true},
	{base: "cpu", file: "mean_cpu_usage", label: "Mean CPU Usage (%)"},
	{base: "memory", file: "mean_memory_usage", label: "Mean Memory Usage (MB)", thousands: true},
}

const pngDPI = 300

// barPalette assigns colors to runtimes in display order.
var barPalette = []color.Color{
	color.NRGBA{R: 0x2e, G: 0x86, B: 0xab, A: 0xff},
	color.NRGBA{R: 0xa2, G: 0x3b, B: 0x72, A: 0xff},
	color.NRGBA{R: 0xf1, G: 0x8f, B: 0x01, A: 0xff},
	color.NRGBA{R: 0x3b, G: 0x8e, B: 0x63, A: 0xff},
	color.NRGBA{R: 0x6c, G: 0x56, B: 0x9e, A: 0xff},
}

// writeCharts renders one chart per canonical summary metric into dir,
// as both PNG and PDF. An empty summary table renders nothing.
func writeCharts(tables *loadtab.Tables, dir string) error {
	sum := tables.Summary
	if len(sum.Rows) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	// Fix the level axis and the runtime order once so every chart
	// lines up the same way.
	var runtimes, levels []string
	byLevel := make(map[string]loadproc.Level)
	rows := make(map[string]map[string]loadtab.SummaryRow)
	for _, r := range sum.Rows {
		if rows[r.Runtime] == nil {
			rows[r.Runtime] = make(map[string]loadtab.SummaryRow)
			runtimes = append(runtimes, r.Runtime)
		}
		lvl := r.Level.String()
		rows[r.Runtime][lvl] = r
		if _, ok := byLevel[lvl]; !ok {
			byLevel[lvl] = r.Level
			levels = append(levels, lvl)
		}
	}
	sort.Strings(runtimes)
	sort.Slice(levels, func(i, j int) bool {
		return byLevel[levels[i]].Less(byLevel[levels[j]])
	})

	for _, spec := range chartSpecs {
		mi := metricIndex(sum.Metrics, spec.base)
		if mi < 0 {
			continue
		}
		if err := writeChart(dir, spec, mi, runtimes, levels, rows); err != nil {
			return err
		}
	}
	return nil
}

func metricIndex(metrics []loadtab.Metric, base string) int {
	for i, m := range metrics {
		if m.Base == base {
			return i
		}
	}
	return -1
}

func writeChart(dir string, spec chartSpec, mi int, runtimes, levels []string, rows map[string]map[string]loadtab.SummaryRow) error {
	pl := plot.New()
	pl.X.Label.Text = "Virtual Users (VUs)"
	pl.Y.Label.Text = spec.label
	if spec.thousands {
		pl.Y.Tick.Marker = thousandTicks{}
	}
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	barWidth := vg.Points(20)
	var yMax float64
	for i, rt := range runtimes {
		// Negative means clamp to zero; the whisker stays within
		// [0, value] so it never dips below the axis.
		vals := make(plotter.Values, len(levels))
		errs := make([]float64, len(levels))
		for j, lvl := range levels {
			row, ok := rows[rt][lvl]
			if !ok || !row.Stats[mi].Defined() {
				continue
			}
			s := row.Stats[mi]
			v, e := s.Mean, s.CI95
			if v < 0 {
				v = 0
			}
			if e > v {
				e = v
			}
			if v <= 0 {
				e = 0
			}
			vals[j], errs[j] = v, e
			if v+e > yMax {
				yMax = v + e
			}
		}
		bars, err := plotter.NewBarChart(vals, barWidth)
		if err != nil {
			return err
		}
		bars.Color = barPalette[i%len(barPalette)]
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(i)*barWidth - vg.Length(len(runtimes)-1)*barWidth/2
		pl.Add(bars)
		pl.Legend.Add(rt, bars)
		pl.Add(&barMarks{vals: vals, errs: errs, offset: bars.Offset, thousands: spec.thousands})
	}

	pl.NominalX(levels...)
	pl.Legend.Top = true
	pl.Y.Min = 0
	if yMax <= 0 {
		yMax = 1
	}
	pl.Y.Max = 1.15 * yMax

	width := vg.Length(math.Max(10, 2.5*float64(len(levels)))) * vg.Inch
	height := 6 * vg.Inch

	do := func(sfx string, can vg.CanvasWriterTo) error {
		file := filepath.Join(dir, spec.file) + "." + sfx
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		pl.Draw(draw.New(can))
		if _, err := can.WriteTo(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	png := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(width, height),
		vgimg.UseDPI(pngDPI),
		vgimg.UseBackgroundColor(color.White),
	)}
	if err := do("png", png); err != nil {
		return err
	}
	return do("pdf", vgpdf.New(width, height))
}

// barMarks draws the confidence whisker and the value label above one
// runtime's bars. Its offset must match the BarChart it annotates so
// the marks land on the same bars.
type barMarks struct {
	vals      []float64
	errs      []float64
	offset    vg.Length
	thousands bool
}

var whiskerStyle = draw.LineStyle{Color: color.Black, Width: vg.Points(1)}

func (b *barMarks) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	sty := plt.X.Tick.Label
	sty.Font.Size = vg.Points(9)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YBottom

	cap := vg.Points(3)
	for i, v := range b.vals {
		x := trX(float64(i)) + b.offset
		if e := b.errs[i]; e > 0 {
			lo, hi := trY(v-e), trY(v+e)
			whisks := c.ClipLinesY(
				[]vg.Point{{X: x, Y: lo}, {X: x, Y: hi}},
				[]vg.Point{{X: x - cap, Y: hi}, {X: x + cap, Y: hi}},
				[]vg.Point{{X: x - cap, Y: lo}, {X: x + cap, Y: lo}},
			)
			c.StrokeLines(whiskerStyle, whisks...)
		}
		if v <= 0 {
			continue
		}
		pt := vg.Point{X: x, Y: trY(v+b.errs[i]) + vg.Points(4)}
		c.FillText(sty, pt, b.label(v))
	}
}

func (b *barMarks) label(v float64) string {
	if b.thousands {
		return groupThousands(v)
	}
	return fmt.Sprintf("%.1f", v)
}

// thousandTicks relabels the default ticks with thousands grouping so
// high-throughput axes stay readable.
type thousandTicks struct{}

func (thousandTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" { // minor tick
			continue
		}
		ticks[i].Label = groupThousands(t.Value)
	}
	return ticks
}

var labelPrinter = message.NewPrinter(language.English)

// groupThousands renders v rounded to an integer, grouping digits once
// the magnitude calls for it.
func groupThousands(v float64) string {
	n := int64(math.Round(v))
	if n > -1000 && n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	return labelPrinter.Sprintf("%d", n)
}
