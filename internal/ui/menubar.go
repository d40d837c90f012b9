package ui

import (
	"fmt"

	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/Rrisinglight/isabella/internal/tracker"
	"github.com/charmbracelet/lipgloss"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, server string, conn tracker.ConnectionStatus) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"M", "anual"},
		{"A", "uto"},
		{"S", "can"},
		{"C", "alibrate"},
		{"V", "tx"},
		{"P", "lay"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	var status string
	switch conn {
	case tracker.StatusOnline:
		status = StyleStatusOnline.Render("ONLINE")
	case tracker.StatusWarning:
		status = StyleStatusWarning.Render("STALE")
	default:
		status = StyleStatusOffline.Render("OFFLINE")
	}

	serverInfo := StyleMenuLabel.Render(fmt.Sprintf("Tracker: %s", server))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + serverInfo + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := ""
	for i := 0; i < gap; i++ {
		padding += " "
	}

	return StyleMenuBar.Width(width).Render(left + padding + right)
}
