// Package tracker is the HTTP client side of the antenna-tracker controller:
// wire types, command dispatch, and the background pollers that mirror
// server state into the UI event loop.
package tracker

// Mode is the tracker operating mode. The server is authoritative: the
// client never transitions modes locally, it sends a command and waits for
// the next status poll to confirm.
type Mode string

const (
	ModeManual       Mode = "manual"
	ModeAuto         Mode = "auto"
	ModeScan         Mode = "scan"
	ModeCalibrateMin Mode = "calibrate_min"
	ModeCalibrateMax Mode = "calibrate_max"
)

// Calibrating reports whether the tracker is in either calibration phase.
func (m Mode) Calibrating() bool {
	return m == ModeCalibrateMin || m == ModeCalibrateMax
}

// SuspendsManual reports whether manual left/right commands are ignored
// until the server returns to manual/auto.
func (m Mode) SuspendsManual() bool {
	return m == ModeScan || m.Calibrating()
}

// ConnectionStatus is derived from poll success and data staleness; it is
// recomputed on every poll and never persisted.
type ConnectionStatus int

const (
	StatusOnline ConnectionStatus = iota
	StatusWarning
	StatusOffline
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusWarning:
		return "warning"
	case StatusOffline:
		return "offline"
	default:
		return "online"
	}
}

// VtxStatus mirrors the receiver channel state reported by the server.
type VtxStatus struct {
	Band         string `json:"band"`
	Channel      int    `json:"channel"`
	FrequencyMHz int    `json:"frequency_mhz"`
}

// VtxScanBest is the strongest channel found by a receiver band scan.
type VtxScanBest struct {
	Band    string  `json:"band"`
	Channel int     `json:"channel"`
	RSSI    float64 `json:"rssi"`
}

// VtxScanStatus mirrors the receiver band-scan progress.
type VtxScanStatus struct {
	InProgress bool        `json:"in_progress"`
	Best       VtxScanBest `json:"best"`
}

// Status is the /status response.
type Status struct {
	RSSIA        float64        `json:"rssi_a"`
	RSSIB        float64        `json:"rssi_b"`
	AngleDegrees float64        `json:"angle_degrees"`
	Mode         Mode           `json:"mode"`
	Vtx          *VtxStatus     `json:"vtx,omitempty"`
	VtxScan      *VtxScanStatus `json:"vtx_scan,omitempty"`
}

// ScanPoint is one sample of the angular RF scan.
type ScanPoint struct {
	Angle float64 `json:"angle"`
	RSSI  float64 `json:"rssi"`
}

// ScanResult is the /scan-results response. The server returns an empty
// object until the scan finishes, so ScanComplete gates everything else.
type ScanResult struct {
	ScanComplete bool        `json:"scan_complete"`
	BestAngle    float64     `json:"best_angle"`
	ScanData     []ScanPoint `json:"scan_data"`
}

// State is the /api/state response. BasePoint and BaseDirection are null
// until the two-phase base setup has been pushed.
type State struct {
	BasePoint     *[2]float64 `json:"base_point"`     // [lat, lng]
	BaseDirection *float64    `json:"base_direction"` // degrees [0,360)
	CurrentAngle  float64     `json:"current_angle"`
	RangeKm       float64     `json:"range_km"`
}

type commandRequest struct {
	Command string `json:"command"`
}

type commandResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type vtxRequest struct {
	Band    string `json:"band"`
	Channel int    `json:"channel"`
}

type vtxResponse struct {
	Success bool      `json:"success"`
	Vtx     VtxStatus `json:"vtx"`
	Error   string    `json:"error,omitempty"`
}

type setBaseRequest struct {
	BasePoint     [2]float64 `json:"base_point"`
	BaseDirection float64    `json:"base_direction"`
}

type updateAngleRequest struct {
	Angle float64 `json:"angle"`
}

type updateAngleResponse struct {
	Angle float64 `json:"angle"`
}
