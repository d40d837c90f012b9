package ui

import (
	"fmt"
	"strings"

	"github.com/Rrisinglight/isabella/internal/tracker"
	"github.com/charmbracelet/lipgloss"
)

// rssiFullScale is the top of the analog RSSI range reported by the tracker.
const rssiFullScale = 12000.0

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// RenderTelemetryPanel renders the RSSI bars, one history sparkline per
// receiver and the current antenna angle.
func RenderTelemetryPanel(width int, rssiA, rssiB float64, historyA, historyB []float64, angle float64, mode tracker.Mode) string {
	inner := width - 4
	if inner < 16 {
		inner = 16
	}
	barWidth := inner - 10

	var sb strings.Builder
	sb.WriteString(StylePanelTitle.Render("TELEMETRY"))
	sb.WriteByte('\n')
	sb.WriteString(StyleLabel.Render("A "))
	sb.WriteString(renderBar(rssiA, barWidth, StyleBarA))
	sb.WriteString(StyleValue.Render(fmt.Sprintf(" %5.0f", rssiA)))
	sb.WriteByte('\n')
	sb.WriteString(StyleLabel.Render("B "))
	sb.WriteString(renderBar(rssiB, barWidth, StyleBarB))
	sb.WriteString(StyleValue.Render(fmt.Sprintf(" %5.0f", rssiB)))
	sb.WriteByte('\n')
	sb.WriteString(StyleLabel.Render("hist A "))
	sb.WriteString(StyleBarA.Render(sparkline(historyA, inner-8)))
	sb.WriteByte('\n')
	sb.WriteString(StyleLabel.Render("hist B "))
	sb.WriteString(StyleBarB.Render(sparkline(historyB, inner-8)))
	sb.WriteByte('\n')
	sb.WriteString(StyleLabel.Render("angle "))
	sb.WriteString(StyleValue.Render(fmt.Sprintf("%6.1f deg", angle)))
	sb.WriteString("   ")
	sb.WriteString(RenderModeRow(mode))

	return StylePanelBorder.Width(width - 2).Render(sb.String())
}

func renderBar(v float64, width int, style lipgloss.Style) string {
	if width < 1 {
		width = 1
	}
	frac := v / rssiFullScale
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return style.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", width-filled))
}

// sparkline compresses history into width cells, scaled to its own min/max.
func sparkline(history []float64, width int) string {
	if len(history) == 0 || width < 1 {
		return ""
	}
	if len(history) > width {
		history = history[len(history)-width:]
	}
	lo, hi := history[0], history[0]
	for _, v := range history {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	var sb strings.Builder
	for _, v := range history {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}

// RenderModeRow renders the mode selector with the active mode highlighted.
func RenderModeRow(active tracker.Mode) string {
	modes := []struct {
		mode  tracker.Mode
		label string
	}{
		{tracker.ModeManual, "MANUAL"},
		{tracker.ModeAuto, "AUTO"},
		{tracker.ModeScan, "SCAN"},
		{tracker.ModeCalibrateMin, "CAL-"},
		{tracker.ModeCalibrateMax, "CAL+"},
	}
	parts := make([]string, 0, len(modes))
	for _, m := range modes {
		if m.mode == active {
			parts = append(parts, StyleModeActive.Render(m.label))
		} else {
			parts = append(parts, StyleModeIdle.Render(m.label))
		}
	}
	return strings.Join(parts, " ")
}
