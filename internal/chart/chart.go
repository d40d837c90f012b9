// Package chart is the charting boundary: callers hand over an ordered
// (label, value) series and ask for a redraw, nothing else.
package chart

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Point is one (label, value) sample in display order.
type Point struct {
	Label string
	Value float64
}

// Sink receives a complete series and redraws it, replacing whatever was
// shown before.
type Sink interface {
	SetSeries(points []Point)
	Redraw() error
}

// HTMLFile renders the series as a standalone go-echarts line chart
// written to Path on every Redraw.
type HTMLFile struct {
	Path     string
	Title    string
	Subtitle string

	mu     sync.Mutex
	points []Point
}

func NewHTMLFile(path, title string) *HTMLFile {
	return &HTMLFile{Path: path, Title: title}
}

// SetSeries replaces the whole series.
func (f *HTMLFile) SetSeries(points []Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = make([]Point, len(points))
	copy(f.points, points)
}

// SetSubtitle updates the chart subtitle shown on the next Redraw.
func (f *HTMLFile) SetSubtitle(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Subtitle = s
}

// Redraw writes the chart file. An empty series still produces a valid,
// empty chart.
func (f *HTMLFile) Redraw() error {
	f.mu.Lock()
	labels := make([]string, len(f.points))
	data := make([]opts.LineData, len(f.points))
	for i, p := range f.points {
		labels[i] = p.Label
		data[i] = opts.LineData{Value: p.Value}
	}
	title, subtitle, path := f.Title, f.Subtitle, f.Path
	f.mu.Unlock()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1000px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "angle (deg)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "RSSI"}),
	)
	line.SetXAxis(labels)
	line.AddSeries("rssi", data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
