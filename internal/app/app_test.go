package app

import (
	"io"
	"testing"

	"github.com/Rrisinglight/isabella/internal/geo"
	"github.com/Rrisinglight/isabella/internal/stream"
	"github.com/Rrisinglight/isabella/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (AppModel, *tracker.DemoServer) {
	t.Helper()
	demo := tracker.NewDemoServer()
	url, err := demo.Start()
	require.NoError(t, err)
	t.Cleanup(demo.Stop)

	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)

	client := tracker.NewClient(url, log)
	m := New(Options{
		Server:     url,
		Dispatcher: tracker.NewDispatcher(client, client, log),
		Status:     tracker.NewStatusPoller(client, log),
		State:      tracker.NewStatePoller(tracker.NewDispatcher(client, client, log), log),
		Scan:       tracker.NewScanCollector(client, log),
		Calibrate:  tracker.NewCalibrationWaiter(client, log),
		RangeKm:    10,
		MapAnchor:  geo.Point{Lat: 12.97, Lng: 77.59},
		Log:        log,
	})
	return m, demo
}

func step(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(AppModel)
	require.True(t, ok)
	return out, cmd
}

func sized(t *testing.T, m AppModel) AppModel {
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestStatusSeqGuardDropsStalePolls(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = step(t, m, tracker.StatusMsg{
		Status: tracker.Status{RSSIA: 5000, Mode: tracker.ModeManual},
		Seq:    2, Conn: tracker.StatusOnline,
	})
	m, _ = step(t, m, tracker.StatusMsg{
		Status: tracker.Status{RSSIA: 1111, Mode: tracker.ModeManual},
		Seq:    1, Conn: tracker.StatusOnline,
	})

	assert.Equal(t, 5000.0, m.status.RSSIA, "stale poll must not overwrite newer data")
	assert.Equal(t, uint64(2), m.lastSeq)
}

func TestModeHighlightMovesOnlyOnChange(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = step(t, m, tracker.StatusMsg{
		Status: tracker.Status{Mode: tracker.ModeAuto},
		Seq:    1, ModeChanged: false,
	})
	assert.Equal(t, tracker.ModeManual, m.mode)

	m, _ = step(t, m, tracker.StatusMsg{
		Status: tracker.Status{Mode: tracker.ModeAuto},
		Seq:    2, ModeChanged: true,
	})
	assert.Equal(t, tracker.ModeAuto, m.mode)
}

func TestStatusUpdatesHistoryAndAngle(t *testing.T) {
	m, _ := newTestModel(t)

	for i := 1; i <= 3; i++ {
		m, _ = step(t, m, tracker.StatusMsg{
			Status: tracker.Status{RSSIA: float64(1000 * i), RSSIB: 500, AngleDegrees: 73},
			Seq:    uint64(i),
		})
	}

	assert.Equal(t, 3, m.shared.history.Len())
	a, b := m.shared.history.Last()
	assert.Equal(t, 3000.0, a)
	assert.Equal(t, 500.0, b)
	assert.Equal(t, 73.0, m.antenna.CurrentAngle)
}

func clickMap(t *testing.T, m AppModel, col, row int) (AppModel, tea.Cmd) {
	ox, oy, _, _ := m.mapInner()
	return step(t, m, tea.MouseMsg{
		X: ox + col, Y: oy + row,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
}

func TestTwoPhaseBaseSetup(t *testing.T) {
	m, _ := newTestModel(t)
	m = sized(t, m)
	_, _, w, h := m.mapInner()

	// first click drops the base marker, direction still missing
	m, cmd := clickMap(t, m, w/2, h/2)
	assert.Nil(t, cmd)
	require.NotNil(t, m.basePending)
	assert.False(t, m.antenna.Ready())

	// second click to the east fixes the boresight bearing
	m, cmd = clickMap(t, m, w/2+10, h/2)
	require.NotNil(t, cmd)
	assert.Nil(t, m.basePending)
	assert.True(t, m.antenna.HasBase)
	assert.True(t, m.antenna.HasDirection)
	assert.InDelta(t, 90.0, m.antenna.BaseDirection, 1.0)

	// the push command round-trips against the simulated tracker
	msg := cmd()
	res, ok := msg.(CommandResultMsg)
	require.True(t, ok)
	assert.NoError(t, res.Err)
	assert.Equal(t, "set_base", res.Op)
}

func TestEscapeAbandonsPendingBase(t *testing.T) {
	m, _ := newTestModel(t)
	m = sized(t, m)
	_, _, w, h := m.mapInner()

	m, _ = clickMap(t, m, w/2, h/2)
	require.NotNil(t, m.basePending)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.basePending)
	assert.False(t, m.antenna.HasBase)
}

func TestStatePollDiscardedDuringBaseEdit(t *testing.T) {
	m, _ := newTestModel(t)
	m = sized(t, m)
	_, _, w, h := m.mapInner()

	m, _ = clickMap(t, m, w/2, h/2)
	require.NotNil(t, m.basePending)

	dir := 120.0
	m, _ = step(t, m, tracker.StateMsg{
		State: tracker.State{
			BasePoint:     &[2]float64{55.0, 37.0},
			BaseDirection: &dir,
		},
		Seq: 1,
	})

	assert.False(t, m.antenna.HasBase, "server state must not clobber a click in progress")
	assert.NotNil(t, m.basePending)
}

func TestStatePollAppliesWhenNotEditing(t *testing.T) {
	m, _ := newTestModel(t)

	dir := 120.0
	m, _ = step(t, m, tracker.StateMsg{
		State: tracker.State{
			BasePoint:     &[2]float64{55.0, 37.0},
			BaseDirection: &dir,
			CurrentAngle:  40,
			RangeKm:       25,
		},
		Seq: 1,
	})

	assert.True(t, m.antenna.Ready())
	assert.Equal(t, 120.0, m.antenna.BaseDirection)
	assert.Equal(t, 25.0, m.antenna.RangeKm)
	assert.Equal(t, 40.0, m.antenna.CurrentAngle)
}

func TestManualCommandsSuspendedDuringScan(t *testing.T) {
	m, _ := newTestModel(t)
	m.mode = tracker.ModeScan

	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd, "left must be ignored while a scan owns the servo")

	m.mode = tracker.ModeManual
	_, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.NotNil(t, cmd)
}

func TestVtxEditKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	require.NotNil(t, m.vtxEdit)
	startBand := m.vtxEdit.Band

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	assert.NotEqual(t, startBand, m.vtxEdit.Band)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	assert.Equal(t, 3, m.vtxEdit.Channel)

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.vtxEdit)
	require.NotNil(t, cmd)
	assert.True(t, m.shared.vtxLock.Locked(), "lock must survive the round trip")

	msg := cmd()
	res, ok := msg.(CommandResultMsg)
	require.True(t, ok)
	assert.NoError(t, res.Err, "demo tracker accepts any valid band/channel")

	// the acknowledgement, not the submit, releases the edit lock
	m, _ = step(t, m, res)
	assert.False(t, m.shared.vtxLock.Locked())
}

func TestVtxLockHeldAfterFailedAck(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.shared.vtxLock.Locked())

	m, _ = step(t, m, CommandResultMsg{Op: "vtx", Err: assert.AnError})
	assert.True(t, m.shared.vtxLock.Locked(), "a rejected change keeps the lock until the debounce expires")
}

func TestVtxEditEscapeCancels(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	require.NotNil(t, m.vtxEdit)

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.vtxEdit)
	assert.Nil(t, cmd)
	assert.False(t, m.shared.vtxLock.Locked())
}

func TestCalibrateKeySendsAcceptedCommand(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Equal(t, 1, m.calibPhase)
	require.NotNil(t, cmd)

	res, ok := cmd().(CommandResultMsg)
	require.True(t, ok)
	assert.Equal(t, "calibrate", res.Op)
	assert.NoError(t, res.Err, "tracker must accept the calibration start command")

	m.shared.calibrate.Stop()
}

func TestGotoBestScannedAngle(t *testing.T) {
	m, _ := newTestModel(t)
	m.scanResult = &tracker.ScanResult{ScanComplete: true, BestAngle: 88}

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	require.NotNil(t, cmd)
	res, ok := cmd().(CommandResultMsg)
	require.True(t, ok)
	assert.Equal(t, "set_angle", res.Op)
	assert.NoError(t, res.Err)

	// suspended while a scan owns the servo
	m.mode = tracker.ModeScan
	_, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Nil(t, cmd)
}

func TestCalibrationAdvancesToSecondPhase(t *testing.T) {
	m, _ := newTestModel(t)
	m.calibPhase = 1

	m, cmd := step(t, m, tracker.CalibrationPhaseDoneMsg{Mode: tracker.ModeManual})
	assert.Equal(t, 2, m.calibPhase)
	require.NotNil(t, cmd)
	res, ok := cmd().(CommandResultMsg)
	require.True(t, ok)
	assert.Equal(t, "calibrate_max", res.Op)
	assert.NoError(t, res.Err)

	m, cmd = step(t, m, tracker.CalibrationPhaseDoneMsg{Mode: tracker.ModeManual})
	assert.Equal(t, 0, m.calibPhase)
	assert.Nil(t, cmd)

	m.shared.calibrate.Stop()
}

func TestScanCompleteStoresResult(t *testing.T) {
	m, _ := newTestModel(t)
	m.scanning = true

	res := tracker.ScanResult{
		ScanComplete: true,
		BestAngle:    88,
		ScanData:     []tracker.ScanPoint{{Angle: 84, RSSI: 100}, {Angle: 88, RSSI: 200}},
	}
	m, _ = step(t, m, tracker.ScanCompleteMsg{Result: res})

	assert.False(t, m.scanning)
	require.NotNil(t, m.scanResult)
	assert.Equal(t, 88.0, m.scanResult.BestAngle)
}

func TestStreamMessagesUpdateIndicator(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = step(t, m, stream.StateMsg{State: stream.StateConnected})
	m, _ = step(t, m, stream.PlayingMsg{Playing: true})
	assert.True(t, m.playing)
	assert.Equal(t, stream.StateConnected, m.streamState)

	m, _ = step(t, m, stream.PlayingMsg{Playing: false})
	assert.False(t, m.playing)
}

func TestViewRendersDashboard(t *testing.T) {
	m, _ := newTestModel(t)
	m = sized(t, m)

	m, _ = step(t, m, tracker.StatusMsg{
		Status: tracker.Status{
			RSSIA: 5200, RSSIB: 5100, AngleDegrees: 73,
			Mode: tracker.ModeManual,
			Vtx:  &tracker.VtxStatus{Band: "B", Channel: 3, FrequencyMHz: 5771},
		},
		Seq: 1, Conn: tracker.StatusOnline,
	})

	out := m.View()
	assert.Contains(t, out, "ISABELLA")
	assert.Contains(t, out, "TELEMETRY")
	assert.Contains(t, out, "VIDEO RX")
	assert.Contains(t, out, "5771")
	assert.Contains(t, out, "hist A")
	assert.Contains(t, out, "hist B")
}

func TestSignalHistory(t *testing.T) {
	h := NewSignalHistory(3)
	assert.Equal(t, 0, h.Len())
	a, b := h.Last()
	assert.Equal(t, 0.0, a)
	assert.Equal(t, 0.0, b)

	for i := 1; i <= 4; i++ {
		h.Push(float64(i), float64(10*i))
	}
	assert.Equal(t, 3, h.Len())
	a, b = h.Last()
	assert.Equal(t, 4.0, a)
	assert.Equal(t, 40.0, b)
	assert.Equal(t, []float64{2, 3, 4}, h.A())
	assert.Equal(t, []float64{20, 30, 40}, h.B())
}
