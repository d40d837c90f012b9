package ui

import (
	"fmt"
	"strings"

	"github.com/Rrisinglight/isabella/internal/tracker"
)

// RenderScanPanel renders the last sweep as a vertical bar plot of RSSI per
// angle, with the best angle highlighted.
func RenderScanPanel(width, height int, result *tracker.ScanResult, scanning bool) string {
	inner := width - 4
	rows := height - 4
	if rows < 3 {
		rows = 3
	}

	var sb strings.Builder
	sb.WriteString(StylePanelTitle.Render("SCAN"))
	if scanning {
		sb.WriteString("  " + StyleStatusWarning.Render("sweeping..."))
	}
	sb.WriteByte('\n')

	if result == nil || len(result.ScanData) == 0 {
		sb.WriteString(StyleDim.Render("no sweep yet  [s] to start"))
		return StylePanelBorder.Width(width - 2).Render(sb.String())
	}

	cols := inner
	if cols > len(result.ScanData) {
		cols = len(result.ScanData)
	}
	points := resample(result.ScanData, cols)

	lo, hi := points[0].RSSI, points[0].RSSI
	for _, p := range points {
		if p.RSSI < lo {
			lo = p.RSSI
		}
		if p.RSSI > hi {
			hi = p.RSSI
		}
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	grid := make([][]byte, rows)
	for r := range grid {
		grid[r] = bytes(' ', cols)
	}
	bestCol := -1
	for c, p := range points {
		h := int(float64(rows) * (p.RSSI - lo) / span)
		if h < 1 {
			h = 1
		}
		for r := rows - h; r < rows; r++ {
			grid[r][c] = '#'
		}
		if p.Angle == result.BestAngle {
			bestCol = c
		}
	}

	for r := 0; r < rows; r++ {
		line := string(grid[r])
		if bestCol >= 0 {
			sb.WriteString(StyleBarA.Render(line[:bestCol]))
			sb.WriteString(StyleMapMarker.Render(line[bestCol : bestCol+1]))
			sb.WriteString(StyleBarA.Render(line[bestCol+1:]))
		} else {
			sb.WriteString(StyleBarA.Render(line))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(StyleLabel.Render("best "))
	sb.WriteString(StyleValue.Render(fmt.Sprintf("%.0f deg", result.BestAngle)))
	sb.WriteString(StyleDim.Render(fmt.Sprintf("  (%d samples)  [g] go", len(result.ScanData))))

	return StylePanelBorder.Width(width - 2).Render(sb.String())
}

// resample reduces scan points to at most n columns, keeping the strongest
// sample in each bucket so narrow lobes survive downsampling.
func resample(data []tracker.ScanPoint, n int) []tracker.ScanPoint {
	if len(data) <= n {
		return data
	}
	out := make([]tracker.ScanPoint, 0, n)
	for i := 0; i < n; i++ {
		start := i * len(data) / n
		end := (i + 1) * len(data) / n
		best := data[start]
		for _, p := range data[start+1 : end] {
			if p.RSSI > best.RSSI {
				best = p
			}
		}
		out = append(out, best)
	}
	return out
}
