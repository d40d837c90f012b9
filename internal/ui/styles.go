package ui

import "github.com/charmbracelet/lipgloss"

// Matrix color palette
var (
	ColorMatrixGreen  = lipgloss.Color("#00FF41")
	ColorGreen        = lipgloss.Color("#00CC33")
	ColorMidGreen     = lipgloss.Color("#008F11")
	ColorDimGreen     = lipgloss.Color("#004A0A")
	ColorHeading      = lipgloss.Color("#00FFAA")
	ColorBoundary     = lipgloss.Color("#33FF66")
	ColorRSSIA        = lipgloss.Color("#00FFAA")
	ColorRSSIB        = lipgloss.Color("#FFCC00")
	ColorBorderBright = lipgloss.Color("#00FF41")
	ColorBorderNorm   = lipgloss.Color("#00AA22")
	ColorError        = lipgloss.Color("#FF3300")
	ColorWarning      = lipgloss.Color("#FFAA00")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStatusOnline = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true)

	StyleStatusWarning = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StyleStatusOffline = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StyleStatusScanning = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true).
				Blink(true)

	StyleStatusPaused = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderBright)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleModeActive = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true).
			Reverse(true)

	StyleModeIdle = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleDim = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleMapRing = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleMapHeading = lipgloss.NewStyle().
			Foreground(ColorHeading).
			Bold(true)

	StyleMapBoundary = lipgloss.NewStyle().
				Foreground(ColorBoundary)

	StyleMapMarker = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleMapGrid = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleBarA = lipgloss.NewStyle().
			Foreground(ColorRSSIA)

	StyleBarB = lipgloss.NewStyle().
			Foreground(ColorRSSIB)

	StyleEditing = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)
)
