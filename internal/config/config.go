package config

import "time"

const (
	// Geodesy
	EarthRadiusKm = 6371.0 // spherical Earth model shared with the tracker server

	// Servo sweep
	MinAngle = 0.0   // degrees, left end of the servo travel
	MaxAngle = 146.0 // degrees, right end of the servo travel
	ArcStep  = 4.0   // degrees between coverage-ring samples

	// Coverage display
	DefaultRangeKm = 10.0 // coverage ring radius
	AspectRatio    = 0.5  // terminal char aspect correction (chars are ~2:1 tall)
	TargetFPS      = 30   // target frames per second

	// Polling cadences
	StatusPollInterval = 200 * time.Millisecond // /status
	ScanPollInterval   = time.Second            // /scan-results
	CalibratePollWait  = time.Second            // calibration phase wait
	StatePollInterval  = time.Second            // /api/state refresh

	// Synchronization
	EditingDebounce = 1500 * time.Millisecond // editing lock release after last user edit
	StaleTelemetry  = 5 * time.Second         // no telemetry for this long degrades status to warning
	RequestTimeout  = 5 * time.Second         // per-request HTTP deadline

	// Streaming
	ICEGatherTimeout = 1500 * time.Millisecond // bound on non-trickle candidate gathering
	DefaultStream    = "isabella"              // WHEP stream path name

	// Map anchor before any base point exists
	DefaultLat = 12.9716
	DefaultLng = 77.5946

	// Telemetry history
	RSSIHistoryLen = 120 // samples kept per receiver for the sparkline

	// App
	AppName    = "ISABELLA"
	AppVersion = "1.0"
)
