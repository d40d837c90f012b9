package tracker

import (
	"context"
	"fmt"

	"github.com/Rrisinglight/isabella/internal/geo"
	"github.com/Rrisinglight/isabella/internal/vtx"
	"github.com/sirupsen/logrus"
)

// Dispatcher sends user-triggered commands and mutations to the tracker.
// Failed commands are logged and dropped: the next status poll reconciles
// whatever the server actually did.
type Dispatcher struct {
	tracker *Client // /status, /command, /vtx family
	state   *Client // /api family (map/state service, may be the same host)
	log     *logrus.Logger
}

func NewDispatcher(trackerClient, stateClient *Client, log *logrus.Logger) *Dispatcher {
	if stateClient == nil {
		stateClient = trackerClient
	}
	return &Dispatcher{tracker: trackerClient, state: stateClient, log: log}
}

// SendCommand posts a command token ("left", "right", "home", "auto",
// "manual", "scan", "calibrate", "calibrate_max") and interprets the
// success flag. There is no retry.
func (d *Dispatcher) SendCommand(ctx context.Context, name string) error {
	var resp commandResponse
	if err := d.tracker.postJSON(ctx, "/command", commandRequest{Command: name}, &resp); err != nil {
		d.log.WithError(err).WithField("command", name).Warn("command send failed")
		return err
	}
	if !resp.Success {
		err := &ProtocolError{Op: "POST /command", Msg: fmt.Sprintf("command %q rejected: %s", name, resp.Error)}
		d.log.WithField("command", name).Warn(err.Error())
		return err
	}
	d.log.WithField("command", name).Debug("command acknowledged")
	return nil
}

// SetVtx validates the band/channel pair against the frequency table before
// any network call, then pushes it to the receiver.
func (d *Dispatcher) SetVtx(ctx context.Context, band vtx.Band, channel int) (vtx.Setting, error) {
	setting, err := vtx.New(band, channel)
	if err != nil {
		return vtx.Setting{}, &ValidationError{Msg: err.Error()}
	}

	var resp vtxResponse
	if err := d.tracker.postJSON(ctx, "/vtx", vtxRequest{Band: string(band), Channel: channel}, &resp); err != nil {
		return vtx.Setting{}, err
	}
	if !resp.Success {
		return vtx.Setting{}, &ProtocolError{Op: "POST /vtx", Msg: resp.Error}
	}
	return setting, nil
}

// StartVtxScan kicks off the receiver band scan. Progress arrives inside
// subsequent /status responses.
func (d *Dispatcher) StartVtxScan(ctx context.Context) error {
	var resp commandResponse
	if err := d.tracker.postJSON(ctx, "/vtx-scan", nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &ProtocolError{Op: "POST /vtx-scan", Msg: resp.Error}
	}
	return nil
}

// SetBase pushes the two-phase base setup result to the state service.
func (d *Dispatcher) SetBase(ctx context.Context, base geo.Point, directionDeg float64) error {
	req := setBaseRequest{
		BasePoint:     [2]float64{base.Lat, base.Lng},
		BaseDirection: geo.NormalizeDeg(directionDeg),
	}
	return d.state.postJSON(ctx, "/api/set_base", req, nil)
}

// UpdateAngle pushes a servo angle and returns the clamped angle the server
// settled on.
func (d *Dispatcher) UpdateAngle(ctx context.Context, angle float64) (float64, error) {
	var resp updateAngleResponse
	if err := d.state.postJSON(ctx, "/api/update_angle", updateAngleRequest{Angle: angle}, &resp); err != nil {
		return 0, err
	}
	return resp.Angle, nil
}

// FetchState reads the current antenna state mirror.
func (d *Dispatcher) FetchState(ctx context.Context) (State, error) {
	var st State
	if err := d.state.getJSON(ctx, "/api/state", &st); err != nil {
		return State{}, err
	}
	return st, nil
}
