package ui

import (
	"strings"
	"testing"

	"github.com/Rrisinglight/isabella/internal/tracker"
	"github.com/stretchr/testify/assert"
)

func TestTelemetryPanelShowsValues(t *testing.T) {
	out := RenderTelemetryPanel(40, 5200, 4100, []float64{1, 2, 3}, []float64{4, 5, 6}, 73.5, tracker.ModeAuto)
	assert.Contains(t, out, "5200")
	assert.Contains(t, out, "4100")
	assert.Contains(t, out, "73.5")
	assert.Contains(t, out, "AUTO")
	assert.Contains(t, out, "hist A")
	assert.Contains(t, out, "hist B")
}

func TestTelemetryPanelRendersBothSparklines(t *testing.T) {
	// B rises while A is flat, so the two sparklines must differ
	out := RenderTelemetryPanel(40, 5000, 5000, []float64{7, 7, 7}, []float64{0, 50, 100}, 73, tracker.ModeManual)
	lines := strings.Split(out, "\n")
	var lineA, lineB string
	for _, l := range lines {
		if strings.Contains(l, "hist A") {
			lineA = l
		}
		if strings.Contains(l, "hist B") {
			lineB = l
		}
	}
	assert.NotEmpty(t, lineA)
	assert.NotEmpty(t, lineB)
	assert.Contains(t, lineA, string(sparkRunes[0]))
	assert.Contains(t, lineB, string(sparkRunes[len(sparkRunes)-1]))
}

func TestModeRowHighlightsActive(t *testing.T) {
	out := RenderModeRow(tracker.ModeScan)
	assert.Contains(t, out, "SCAN")
	assert.Contains(t, out, "MANUAL")
}

func TestSparklineScalesToRange(t *testing.T) {
	s := sparkline([]float64{0, 50, 100}, 10)
	runes := []rune(s)
	assert.Len(t, runes, 3)
	assert.Equal(t, sparkRunes[0], runes[0])
	assert.Equal(t, sparkRunes[len(sparkRunes)-1], runes[2])
}

func TestSparklineFlatSeries(t *testing.T) {
	s := sparkline([]float64{7, 7, 7}, 10)
	for _, r := range s {
		assert.Equal(t, sparkRunes[0], r)
	}
}

func TestScanPanelEmptyAndFilled(t *testing.T) {
	empty := RenderScanPanel(40, 12, nil, false)
	assert.Contains(t, empty, "no sweep yet")

	res := &tracker.ScanResult{
		ScanComplete: true,
		BestAngle:    88,
		ScanData: []tracker.ScanPoint{
			{Angle: 84, RSSI: 100},
			{Angle: 88, RSSI: 300},
			{Angle: 92, RSSI: 150},
		},
	}
	out := RenderScanPanel(40, 12, res, false)
	assert.Contains(t, out, "88 deg")
	assert.Contains(t, out, "#")
}

func TestResampleKeepsStrongestPerBucket(t *testing.T) {
	data := make([]tracker.ScanPoint, 40)
	for i := range data {
		data[i] = tracker.ScanPoint{Angle: float64(i), RSSI: 10}
	}
	data[21].RSSI = 999

	out := resample(data, 10)
	assert.Len(t, out, 10)
	found := false
	for _, p := range out {
		if p.RSSI == 999 {
			found = true
		}
	}
	assert.True(t, found, "narrow lobe peak must survive downsampling")
}

func TestVtxPanelEditShadowsStatus(t *testing.T) {
	status := &tracker.VtxStatus{Band: "A", Channel: 1, FrequencyMHz: 5865}
	edit := &VtxEdit{Band: "B", Channel: 3}

	out := RenderVtxPanel(50, status, nil, edit)
	assert.Contains(t, out, "5771")
	assert.NotContains(t, out, "5865")
}

func TestMenuBarShowsConnection(t *testing.T) {
	out := RenderMenuBar(120, "http://localhost:5000", tracker.StatusWarning)
	assert.Contains(t, out, "STALE")
	assert.Contains(t, out, "localhost:5000")
}

func TestStatusBarShowsBaseState(t *testing.T) {
	out := RenderStatusBar(120, "manual", 73, 10, "idle", false, false)
	assert.Contains(t, out, "base: unset")

	out = RenderStatusBar(120, "auto", 73, 10, "connected", true, true)
	assert.Contains(t, out, "base: set")
	assert.Contains(t, out, "PLAYING")
}
