package tracker

import (
	"encoding/json"
	"math"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/Rrisinglight/isabella/internal/vtx"
)

// DemoServer is an in-process tracker that speaks the full REST contract,
// so the dashboard runs with no hardware. RSSI wobbles sinusoidally, scans
// synthesize a single lobe, calibration phases finish on their own.
type DemoServer struct {
	mu sync.Mutex

	mode      Mode
	angle     float64
	vtxSet    vtx.Setting
	scanDone  *ScanResult
	modeSince time.Time
	phase     float64

	base      *[2]float64
	baseDir   *float64
	rangeKm   float64
	startedAt time.Time

	srv *http.Server
	ln  net.Listener
}

func NewDemoServer() *DemoServer {
	return &DemoServer{
		mode:      ModeManual,
		angle:     (config.MinAngle + config.MaxAngle) / 2,
		vtxSet:    vtx.Setting{Band: vtx.BandR, Channel: 1},
		rangeKm:   config.DefaultRangeKm,
		modeSince: time.Now(),
		startedAt: time.Now(),
		phase:     rand.Float64() * 2 * math.Pi,
	}
}

// Start listens on a loopback port and returns the base URL.
func (d *DemoServer) Start() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	d.ln = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/status", d.handleStatus)
	mux.HandleFunc("/command", d.handleCommand)
	mux.HandleFunc("/scan-results", d.handleScanResults)
	mux.HandleFunc("/vtx", d.handleVtx)
	mux.HandleFunc("/vtx-scan", d.handleVtxScan)
	mux.HandleFunc("/api/state", d.handleState)
	mux.HandleFunc("/api/set_base", d.handleSetBase)
	mux.HandleFunc("/api/update_angle", d.handleUpdateAngle)

	d.srv = &http.Server{Handler: mux}
	go d.srv.Serve(ln)
	return "http://" + ln.Addr().String(), nil
}

func (d *DemoServer) Stop() {
	if d.srv != nil {
		d.srv.Close()
	}
}

// step advances the simulation to the current instant.
func (d *DemoServer) step() {
	now := time.Now()
	elapsed := now.Sub(d.modeSince)

	switch d.mode {
	case ModeScan:
		if elapsed > 5*time.Second {
			d.scanDone = d.synthScan()
			d.mode = ModeAuto
			d.modeSince = now
		}
	case ModeCalibrateMin, ModeCalibrateMax:
		if elapsed > 3*time.Second {
			d.mode = ModeManual
			d.modeSince = now
		}
	case ModeAuto:
		// slow hunt around the midpoint
		t := now.Sub(d.startedAt).Seconds()
		mid := (config.MinAngle + config.MaxAngle) / 2
		d.angle = mid + 30*math.Sin(t/6+d.phase)
	}
}

func (d *DemoServer) synthScan() *ScanResult {
	best := config.MinAngle + rand.Float64()*(config.MaxAngle-config.MinAngle)
	res := &ScanResult{ScanComplete: true, BestAngle: best}
	for a := config.MinAngle; a <= config.MaxAngle; a += 2 {
		dist := a - best
		rssi := 9000*math.Exp(-dist*dist/800) + 800 + rand.Float64()*200
		res.ScanData = append(res.ScanData, ScanPoint{Angle: a, RSSI: rssi})
	}
	return res
}

func (d *DemoServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	d.step()
	t := time.Since(d.startedAt).Seconds()
	st := Status{
		RSSIA:        5200 + 600*math.Sin(t/2+d.phase) + rand.Float64()*150,
		RSSIB:        5100 + 600*math.Cos(t/2+d.phase) + rand.Float64()*150,
		AngleDegrees: d.angle,
		Mode:         d.mode,
		Vtx: &VtxStatus{
			Band:         string(d.vtxSet.Band),
			Channel:      d.vtxSet.Channel,
			FrequencyMHz: d.vtxSet.FrequencyMHz(),
		},
	}
	d.mu.Unlock()
	writeJSON(w, st)
}

func (d *DemoServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, commandResponse{Success: false, Error: "bad request"})
		return
	}

	d.mu.Lock()
	ok := true
	switch req.Command {
	case "left":
		d.mode = ModeManual
		d.angle = math.Max(config.MinAngle, d.angle-3)
	case "right":
		d.mode = ModeManual
		d.angle = math.Min(config.MaxAngle, d.angle+3)
	case "home":
		d.mode = ModeManual
		d.angle = (config.MinAngle + config.MaxAngle) / 2
	case "auto":
		d.mode = ModeAuto
	case "manual":
		d.mode = ModeManual
	case "scan":
		d.mode = ModeScan
		d.scanDone = nil
	case "calibrate":
		d.mode = ModeCalibrateMin
	case "calibrate_max":
		d.mode = ModeCalibrateMax
	default:
		ok = false
	}
	if ok {
		d.modeSince = time.Now()
	}
	d.mu.Unlock()

	if !ok {
		writeJSON(w, commandResponse{Success: false, Error: "unknown command"})
		return
	}
	writeJSON(w, commandResponse{Success: true})
}

func (d *DemoServer) handleScanResults(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	d.step()
	res := d.scanDone
	d.mu.Unlock()

	if res == nil {
		writeJSON(w, struct{}{})
		return
	}
	writeJSON(w, res)
}

func (d *DemoServer) handleVtx(w http.ResponseWriter, r *http.Request) {
	var req vtxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, vtxResponse{Success: false, Error: "bad request"})
		return
	}
	setting, err := vtx.New(vtx.Band(req.Band), req.Channel)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, vtxResponse{Success: false, Error: err.Error()})
		return
	}

	d.mu.Lock()
	d.vtxSet = setting
	d.mu.Unlock()

	writeJSON(w, vtxResponse{Success: true, Vtx: VtxStatus{
		Band:         string(setting.Band),
		Channel:      setting.Channel,
		FrequencyMHz: setting.FrequencyMHz(),
	}})
}

func (d *DemoServer) handleVtxScan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, commandResponse{Success: true})
}

func (d *DemoServer) handleState(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	st := State{
		BasePoint:     d.base,
		BaseDirection: d.baseDir,
		CurrentAngle:  d.angle,
		RangeKm:       d.rangeKm,
	}
	d.mu.Unlock()
	writeJSON(w, st)
}

func (d *DemoServer) handleSetBase(w http.ResponseWriter, r *http.Request) {
	var req setBaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	d.mu.Lock()
	bp := req.BasePoint
	dir := req.BaseDirection
	d.base = &bp
	d.baseDir = &dir
	d.mu.Unlock()
	writeJSON(w, struct{}{})
}

func (d *DemoServer) handleUpdateAngle(w http.ResponseWriter, r *http.Request) {
	var req updateAngleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	d.mu.Lock()
	d.angle = math.Max(config.MinAngle, math.Min(config.MaxAngle, req.Angle))
	a := d.angle
	d.mu.Unlock()
	writeJSON(w, updateAngleResponse{Angle: a})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
