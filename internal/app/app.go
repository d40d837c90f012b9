package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrisinglight/isabella/internal/chart"
	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/Rrisinglight/isabella/internal/coverage"
	"github.com/Rrisinglight/isabella/internal/geo"
	"github.com/Rrisinglight/isabella/internal/stream"
	"github.com/Rrisinglight/isabella/internal/tracker"
	"github.com/Rrisinglight/isabella/internal/ui"
	"github.com/Rrisinglight/isabella/internal/vtx"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	dispatcher   *tracker.Dispatcher
	statusPoller *tracker.StatusPoller
	statePoller  *tracker.StatePoller
	scan         *tracker.ScanCollector
	calibrate    *tracker.CalibrationWaiter
	negotiator   *stream.Negotiator
	mapView      *ui.MapView
	renderer     *coverage.Renderer
	chartSink    chart.Sink
	history      *SignalHistory
	vtxLock      *tracker.EditLock
	program      *tea.Program
	log          *logrus.Logger
}

// AppModel is the root Bubble Tea model for the tracker dashboard.
type AppModel struct {
	width  int
	height int

	server string
	conn   tracker.ConnectionStatus

	lastSeq      uint64
	lastStateSeq uint64
	status       tracker.Status
	haveStatus   bool
	mode         tracker.Mode

	antenna     coverage.AntennaState
	basePending *geo.Point // first click of the two-phase base setup

	scanning   bool
	scanResult *tracker.ScanResult

	vtxEdit *ui.VtxEdit

	calibPhase int // 0 idle, 1 min running, 2 max running

	streamState stream.State
	playing     bool

	notice string // transient error line for the status bar

	shared *shared
}

// Options carries the wiring main.go resolves from flags.
type Options struct {
	Server     string
	Dispatcher *tracker.Dispatcher
	Status     *tracker.StatusPoller
	State      *tracker.StatePoller
	Scan       *tracker.ScanCollector
	Calibrate  *tracker.CalibrationWaiter
	Negotiator *stream.Negotiator
	ChartSink  chart.Sink
	RangeKm    float64
	MapAnchor  geo.Point
	Log        *logrus.Logger
}

// New creates the root model.
func New(opts Options) AppModel {
	mapView := ui.NewMapView()
	mapView.SetCenter(opts.MapAnchor)
	mapView.SetSpanKm(opts.RangeKm * 2.5)

	antenna := coverage.DefaultState()
	if opts.RangeKm > 0 {
		antenna.RangeKm = opts.RangeKm
	}

	return AppModel{
		server:  opts.Server,
		conn:    tracker.StatusOffline,
		mode:    tracker.ModeManual,
		antenna: antenna,
		shared: &shared{
			dispatcher:   opts.Dispatcher,
			statusPoller: opts.Status,
			statePoller:  opts.State,
			scan:         opts.Scan,
			calibrate:    opts.Calibrate,
			negotiator:   opts.Negotiator,
			mapView:      mapView,
			renderer:     coverage.NewRenderer(mapView),
			chartSink:    opts.ChartSink,
			history:      NewSignalHistory(config.RSSIHistoryLen),
			vtxLock:      tracker.NewEditLock(),
			log:          opts.Log,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case TickMsg:
		// expired edit reverts to the polled value on the next frame
		if m.vtxEdit != nil && !m.shared.vtxLock.Locked() {
			m.vtxEdit = nil
		}
		return m, tickCmd()

	case tracker.StatusMsg:
		return m.applyStatus(msg)

	case tracker.StatusPollErrorMsg:
		m.conn = msg.Conn
		return m, nil

	case tracker.StateMsg:
		return m.applyState(msg)

	case tracker.ScanCompleteMsg:
		m.scanning = false
		res := msg.Result
		m.scanResult = &res
		return m, m.writeChartCmd(res)

	case tracker.CalibrationPhaseDoneMsg:
		return m.advanceCalibration(msg)

	case stream.StateMsg:
		m.streamState = msg.State
		if msg.Err != nil {
			m.notice = fmt.Sprintf("stream: %v", msg.Err)
		}
		return m, nil

	case stream.PlayingMsg:
		m.playing = msg.Playing
		return m, nil

	case stream.TrackMsg:
		m.shared.log.WithField("kind", msg.Kind).Info("media track started")
		return m, nil

	case CommandResultMsg:
		if msg.Op == "vtx" && msg.Err == nil {
			m.shared.vtxLock.Release()
		}
		if msg.Err != nil {
			m.notice = fmt.Sprintf("%s: %v", msg.Op, msg.Err)
		} else {
			m.notice = ""
		}
		return m, nil

	case ChartWrittenMsg:
		if msg.Err != nil {
			m.notice = fmt.Sprintf("chart: %v", msg.Err)
		}
		return m, nil
	}

	return m, nil
}

func (m AppModel) applyStatus(msg tracker.StatusMsg) (tea.Model, tea.Cmd) {
	if msg.Seq <= m.lastSeq {
		return m, nil
	}
	m.lastSeq = msg.Seq
	m.conn = msg.Conn
	m.status = msg.Status
	first := !m.haveStatus
	m.haveStatus = true

	m.shared.history.Push(msg.Status.RSSIA, msg.Status.RSSIB)

	// mode highlight moves only when the server actually changed mode
	if msg.ModeChanged {
		m.mode = msg.Status.Mode
	}

	// geometry only needs recomputing when the dish actually moved
	moved := geo.AngleDiffDeg(m.antenna.CurrentAngle, msg.Status.AngleDegrees) > 0.01
	m.antenna.CurrentAngle = msg.Status.AngleDegrees
	if first || moved {
		m.redrawCoverage()
	}
	return m, nil
}

func (m AppModel) applyState(msg tracker.StateMsg) (tea.Model, tea.Cmd) {
	if msg.Seq <= m.lastStateSeq {
		return m, nil
	}
	m.lastStateSeq = msg.Seq

	// a click-in-progress owns the base fields until pushed or abandoned
	if m.basePending != nil {
		return m, nil
	}

	st := msg.State
	if st.BasePoint != nil {
		m.antenna.Base = geo.Point{Lat: st.BasePoint[0], Lng: st.BasePoint[1]}
		m.antenna.HasBase = true
		m.shared.mapView.SetCenter(m.antenna.Base)
	}
	if st.BaseDirection != nil {
		m.antenna.BaseDirection = geo.NormalizeDeg(*st.BaseDirection)
		m.antenna.HasDirection = true
	}
	if st.RangeKm > 0 {
		m.antenna.RangeKm = st.RangeKm
		m.shared.mapView.SetSpanKm(st.RangeKm * 2.5)
	}
	m.antenna.CurrentAngle = st.CurrentAngle
	m.redrawCoverage()
	return m, nil
}

func (m *AppModel) redrawCoverage() {
	if m.basePending != nil {
		m.shared.renderer.RenderPending(*m.basePending)
		return
	}
	if !m.antenna.Ready() {
		m.shared.renderer.Clear()
		return
	}
	g, err := coverage.Compute(m.antenna, config.ArcStep)
	if err != nil {
		m.shared.log.WithError(err).Warn("coverage geometry")
		return
	}
	m.shared.renderer.Render(g)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.vtxEdit != nil {
		return m.handleVtxKey(msg)
	}

	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.shutdown()
		return m, tea.Quit

	case "m", "M":
		return m, m.commandCmd("manual")

	case "a", "A":
		return m, m.commandCmd("auto")

	case "s", "S":
		m.scanning = true
		if err := m.shared.scan.Start(m.shared.program); err != nil {
			m.shared.log.WithError(err).Warn("scan collector")
		}
		return m, m.commandCmd("scan")

	case "c", "C":
		m.calibPhase = 1
		if err := m.shared.calibrate.Start(m.shared.program); err != nil {
			m.shared.log.WithError(err).Warn("calibration waiter")
		}
		return m, m.commandCmd("calibrate")

	case "left":
		if !m.mode.SuspendsManual() {
			return m, m.commandCmd("left")
		}

	case "right":
		if !m.mode.SuspendsManual() {
			return m, m.commandCmd("right")
		}

	case "h", "H":
		if !m.mode.SuspendsManual() {
			return m, m.commandCmd("home")
		}

	case "g", "G":
		// jump to the best angle of the last sweep
		if m.scanResult != nil && !m.mode.SuspendsManual() {
			return m, m.setAngleCmd(m.scanResult.BestAngle)
		}

	case "v", "V":
		edit := &ui.VtxEdit{Band: vtx.BandA, Channel: 1}
		if m.status.Vtx != nil {
			edit.Band = vtx.Band(m.status.Vtx.Band)
			edit.Channel = m.status.Vtx.Channel
		}
		m.vtxEdit = edit
		m.shared.vtxLock.Touch()

	case "b", "B":
		return m, m.vtxScanCmd()

	case "p", "P":
		return m.toggleStream()

	case "esc":
		if m.basePending != nil {
			m.basePending = nil
			m.redrawCoverage()
		}
	}

	return m, nil
}

func (m AppModel) handleVtxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "b", "B":
		m.vtxEdit.NextBand()
		m.shared.vtxLock.Touch()

	case "1", "2", "3", "4", "5", "6", "7", "8":
		m.vtxEdit.Channel = int(msg.String()[0] - '0')
		m.shared.vtxLock.Touch()

	case "enter":
		edit := *m.vtxEdit
		m.vtxEdit = nil
		// lock stays armed until the server acknowledges the change
		m.shared.vtxLock.Touch()
		return m, m.setVtxCmd(edit.Band, edit.Channel)

	case "esc":
		m.vtxEdit = nil
		m.shared.vtxLock.Release()
	}
	return m, nil
}

func (m AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	col, row, ok := m.mapCell(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	_, _, innerW, innerH := m.mapInner()
	p := m.shared.mapView.CellToPoint(col, row, innerW, innerH)

	if m.basePending == nil {
		// phase one: drop the base marker, direction still unset
		m.basePending = &p
		m.shared.mapView.SetCenter(p)
		m.redrawCoverage()
		return m, nil
	}

	// phase two: second click fixes the boresight bearing
	base := *m.basePending
	direction := geo.Bearing(base, p)
	m.basePending = nil
	m.antenna.Base = base
	m.antenna.HasBase = true
	m.antenna.BaseDirection = direction
	m.antenna.HasDirection = true
	m.redrawCoverage()
	return m, m.setBaseCmd(base, direction)
}

func (m AppModel) advanceCalibration(msg tracker.CalibrationPhaseDoneMsg) (tea.Model, tea.Cmd) {
	switch m.calibPhase {
	case 1:
		m.calibPhase = 2
		if err := m.shared.calibrate.Start(m.shared.program); err != nil {
			m.shared.log.WithError(err).Warn("calibration waiter")
		}
		return m, m.commandCmd("calibrate_max")
	case 2:
		m.calibPhase = 0
		m.notice = ""
		m.shared.log.WithField("mode", msg.Mode).Info("calibration finished")
	}
	return m, nil
}

func (m AppModel) toggleStream() (tea.Model, tea.Cmd) {
	if m.shared.negotiator == nil {
		m.notice = "no stream endpoint configured"
		return m, nil
	}
	if m.playing || m.streamState == stream.StateConnected {
		m.shared.negotiator.Stop(m.shared.program)
	} else {
		m.shared.negotiator.Start(m.shared.program)
	}
	return m, nil
}

func (m AppModel) commandCmd(name string) tea.Cmd {
	d := m.shared.dispatcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout)
		defer cancel()
		return CommandResultMsg{Op: name, Err: d.SendCommand(ctx, name)}
	}
}

func (m AppModel) setVtxCmd(band vtx.Band, channel int) tea.Cmd {
	d := m.shared.dispatcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout)
		defer cancel()
		_, err := d.SetVtx(ctx, band, channel)
		return CommandResultMsg{Op: "vtx", Err: err}
	}
}

func (m AppModel) vtxScanCmd() tea.Cmd {
	d := m.shared.dispatcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout)
		defer cancel()
		return CommandResultMsg{Op: "vtx-scan", Err: d.StartVtxScan(ctx)}
	}
}

func (m AppModel) setAngleCmd(angle float64) tea.Cmd {
	d := m.shared.dispatcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout)
		defer cancel()
		_, err := d.UpdateAngle(ctx, angle)
		return CommandResultMsg{Op: "set_angle", Err: err}
	}
}

func (m AppModel) setBaseCmd(base geo.Point, direction float64) tea.Cmd {
	d := m.shared.dispatcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout)
		defer cancel()
		return CommandResultMsg{Op: "set_base", Err: d.SetBase(ctx, base, direction)}
	}
}

func (m AppModel) writeChartCmd(res tracker.ScanResult) tea.Cmd {
	sink := m.shared.chartSink
	if sink == nil {
		return nil
	}
	points := make([]chart.Point, 0, len(res.ScanData))
	for _, p := range res.ScanData {
		points = append(points, chart.Point{
			Label: fmt.Sprintf("%.0f", p.Angle),
			Value: p.RSSI,
		})
	}
	best := res.BestAngle
	return func() tea.Msg {
		sink.SetSeries(points)
		if s, ok := sink.(*chart.HTMLFile); ok {
			s.SetSubtitle(fmt.Sprintf("best angle %.0f deg", best))
		}
		return ChartWrittenMsg{Err: sink.Redraw()}
	}
}

// layout

func (m AppModel) dims() (bodyH, mapW, sideW int) {
	bodyH = m.height - 2
	if bodyH < 5 {
		bodyH = 5
	}
	mapW = m.width * 3 / 5
	if mapW < 30 {
		mapW = 30
	}
	sideW = m.width - mapW
	if sideW < 24 {
		sideW = 24
		mapW = m.width - sideW
	}
	return bodyH, mapW, sideW
}

// mapInner returns the screen origin and size of the map grid inside the
// bordered panel.
func (m AppModel) mapInner() (x, y, w, h int) {
	bodyH, mapW, _ := m.dims()
	w = mapW - 4
	h = bodyH - 4
	if w < 10 {
		w = 10
	}
	if h < 5 {
		h = 5
	}
	return 2, 2, w, h
}

func (m AppModel) mapCell(x, y int) (col, row int, ok bool) {
	ox, oy, w, h := m.mapInner()
	col = x - ox
	row = y - oy
	if col < 0 || col >= w || row < 0 || row >= h {
		return 0, 0, false
	}
	return col, row, true
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	bodyH, mapW, sideW := m.dims()
	_, _, innerW, innerH := m.mapInner()

	menuBar := ui.RenderMenuBar(m.width, m.server, m.conn)

	hint := "[click] set base"
	switch {
	case m.basePending != nil:
		hint = "waiting for direction: click a second point"
	case m.calibPhase == 1:
		hint = "calibrating minimum endpoint..."
	case m.calibPhase == 2:
		hint = "calibrating maximum endpoint..."
	case m.notice != "":
		hint = m.notice
	}
	mapPanel := ui.RenderMapPanel(mapW, bodyH, m.shared.mapView.Render(innerW, innerH), hint)

	telemetry := ui.RenderTelemetryPanel(sideW, m.status.RSSIA, m.status.RSSIB,
		m.shared.history.A(), m.shared.history.B(), m.status.AngleDegrees, m.mode)
	vtxPanel := ui.RenderVtxPanel(sideW, m.status.Vtx, m.status.VtxScan, m.vtxEdit)
	scanPanel := ui.RenderScanPanel(sideW, bodyH-12, m.scanResult, m.scanning)
	side := ui.ComposeSideColumn(telemetry, vtxPanel, scanPanel)

	statusBar := ui.RenderStatusBar(m.width, string(m.mode), m.status.AngleDegrees,
		m.antenna.RangeKm, m.streamState.String(), m.playing, m.antenna.Ready())

	return ui.ComposeLayout(menuBar, mapPanel, side, statusBar)
}

// StartPollers wires the pollers to the running program. Must be called
// before p.Run().
func (m *AppModel) StartPollers(p *tea.Program) error {
	m.shared.program = p
	if err := m.shared.statusPoller.Start(p); err != nil {
		return err
	}
	return m.shared.statePoller.Start(p)
}

func (m *AppModel) shutdown() {
	m.shared.statusPoller.Stop()
	m.shared.statePoller.Stop()
	m.shared.scan.Stop()
	m.shared.calibrate.Stop()
	if m.shared.negotiator != nil {
		m.shared.negotiator.Stop(m.shared.program)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
