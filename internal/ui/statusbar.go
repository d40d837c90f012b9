package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, mode string, angle float64, rangeKm float64, streamState string, playing bool, baseSet bool) string {
	stream := "[STOPPED]"
	style := StyleStatusPaused
	if playing {
		stream = "[PLAYING]"
		style = StyleStatusScanning
	} else if streamState != "" && streamState != "idle" {
		stream = "[" + streamState + "]"
	}

	base := "base: unset"
	if baseSet {
		base = "base: set"
	}

	info := fmt.Sprintf(" Mode: %s  Angle: %.1fdeg  Range: %.1fkm  %s",
		mode, angle, rangeKm, base)

	content := style.Render(stream) + StyleStatusBar.Foreground(ColorGreen).Render(info)

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	padding := ""
	for i := 0; i < gap; i++ {
		padding += " "
	}

	return StyleStatusBar.Width(width).Render(content + padding)
}
