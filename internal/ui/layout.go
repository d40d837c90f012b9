package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the dashboard: menu bar on top, the map panel next
// to the right-hand column (telemetry, VTX, scan), status bar on bottom.
func ComposeLayout(menuBar, mapPanel, sideColumn, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, mapPanel, sideColumn)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

// ComposeSideColumn stacks the right-hand panels vertically.
func ComposeSideColumn(panels ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

// RenderMapPanel wraps the rendered map grid with a styled border and a
// footer hint line.
func RenderMapPanel(width, height int, mapContent, hint string) string {
	content := mapContent
	if hint != "" {
		content += "\n" + StyleDim.Render(hint)
	}
	return StylePanelActive.Width(width - 2).Height(height - 2).Render(content)
}
