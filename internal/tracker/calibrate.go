package tracker

import (
	"context"
	"time"

	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/sirupsen/logrus"
)

// CalibrationWaiter blocks one calibration phase: it polls /status until
// the mode leaves calibrate_min/calibrate_max, then delivers a
// CalibrationPhaseDoneMsg so the UI can prompt for the next phase.
//
// The wait is deliberately unbounded; the tracker gives no upper bound on a
// calibration pass. Stop (or teardown) is the only way out of a stuck one.
type CalibrationWaiter struct {
	client   *Client
	log      *logrus.Logger
	interval time.Duration

	sender Sender
	cancel context.CancelFunc
}

func NewCalibrationWaiter(client *Client, log *logrus.Logger) *CalibrationWaiter {
	return &CalibrationWaiter{client: client, log: log, interval: config.CalibratePollWait}
}

// Start begins the wait. A second Start supersedes the first.
func (w *CalibrationWaiter) Start(sender Sender) error {
	w.Stop()
	w.sender = sender
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.loop(ctx)
	return nil
}

// Stop cancels the wait.
func (w *CalibrationWaiter) Stop() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *CalibrationWaiter) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var st Status
		err := w.client.getJSON(ctx, "/status", &st)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			w.log.WithError(err).Debug("calibration wait poll failed")
			continue
		}
		if !st.Mode.Calibrating() {
			w.log.WithField("mode", st.Mode).Info("calibration phase finished")
			w.sender.Send(CalibrationPhaseDoneMsg{Mode: st.Mode})
			return
		}
	}
}
