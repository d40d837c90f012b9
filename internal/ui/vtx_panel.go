package ui

import (
	"fmt"
	"strings"

	"github.com/Rrisinglight/isabella/internal/tracker"
	"github.com/Rrisinglight/isabella/internal/vtx"
)

// VtxEdit is the in-progress channel selection while the operator cycles
// band/channel. It shadows polled values until committed or released.
type VtxEdit struct {
	Band    vtx.Band
	Channel int
}

// RenderVtxPanel renders the receiver channel row. While editing, the local
// selection is shown instead of the last polled value.
func RenderVtxPanel(width int, status *tracker.VtxStatus, scan *tracker.VtxScanStatus, edit *VtxEdit) string {
	var sb strings.Builder
	sb.WriteString(StylePanelTitle.Render("VIDEO RX"))
	sb.WriteString("  ")

	switch {
	case edit != nil:
		s, err := vtx.New(edit.Band, edit.Channel)
		label := fmt.Sprintf("%s%d", edit.Band, edit.Channel)
		if err == nil {
			label = fmt.Sprintf("%s %d MHz", s, s.FrequencyMHz())
		}
		sb.WriteString(StyleEditing.Render(label))
		sb.WriteString(StyleDim.Render("  [b]and [1-8]ch [enter]set [esc]cancel"))
	case status != nil:
		sb.WriteString(StyleValue.Render(fmt.Sprintf("%s%d %d MHz", status.Band, status.Channel, status.FrequencyMHz)))
		sb.WriteString(StyleDim.Render("  [v] edit  [b] band scan"))
	default:
		sb.WriteString(StyleDim.Render("no receiver"))
	}

	if scan != nil {
		sb.WriteByte('\n')
		if scan.InProgress {
			sb.WriteString(StyleStatusWarning.Render("band scan running..."))
		} else if scan.Best.Band != "" {
			sb.WriteString(StyleLabel.Render("scan best "))
			sb.WriteString(StyleValue.Render(fmt.Sprintf("%s%d", scan.Best.Band, scan.Best.Channel)))
			sb.WriteString(StyleDim.Render(fmt.Sprintf("  rssi %.0f", scan.Best.RSSI)))
		}
	}

	return StylePanelBorder.Width(width - 2).Render(sb.String())
}

// NextBand cycles the edit selection through the band table.
func (e *VtxEdit) NextBand() {
	for i, b := range vtx.Bands {
		if b == e.Band {
			e.Band = vtx.Bands[(i+1)%len(vtx.Bands)]
			return
		}
	}
	e.Band = vtx.Bands[0]
}
