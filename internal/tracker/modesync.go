package tracker

import (
	"context"
	"time"

	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/sirupsen/logrus"
)

// StatusPoller mirrors server truth into the event loop. It polls /status
// on a fixed cadence with exactly one outstanding request, detects mode
// changes, and derives the connection status from poll success and data
// staleness. Mode transitions are server-driven only.
type StatusPoller struct {
	client   *Client
	log      *logrus.Logger
	interval time.Duration
	stale    time.Duration

	sender Sender
	cancel context.CancelFunc

	seq      uint64
	lastMode Mode
	lastData time.Time
}

func NewStatusPoller(client *Client, log *logrus.Logger) *StatusPoller {
	return &StatusPoller{
		client:   client,
		log:      log,
		interval: config.StatusPollInterval,
		stale:    config.StaleTelemetry,
		lastMode: ModeManual, // UI starts with the manual highlight
	}
}

// Start begins polling in a goroutine. Results are sent as StatusMsg /
// StatusPollErrorMsg via sender.Send.
func (p *StatusPoller) Start(sender Sender) error {
	p.sender = sender
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.loop(ctx)
	return nil
}

// Stop halts the poller. Safe to call more than once.
func (p *StatusPoller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *StatusPoller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		// Each poll runs to completion before the next tick is consumed,
		// so responses can never race-apply out of order.
		p.pollOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *StatusPoller) pollOnce(ctx context.Context) {
	var st Status
	err := p.client.getJSON(ctx, "/status", &st)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.log.WithError(err).Debug("status poll failed")
		p.sender.Send(StatusPollErrorMsg{Err: err, Conn: p.connAfterFailure()})
		return
	}

	p.seq++
	p.lastData = time.Now()

	changed := st.Mode != p.lastMode
	if changed {
		p.log.WithFields(logrus.Fields{"from": p.lastMode, "to": st.Mode}).Info("tracker mode changed")
	}
	p.lastMode = st.Mode

	p.sender.Send(StatusMsg{
		Status:      st,
		Seq:         p.seq,
		ModeChanged: changed,
		Conn:        StatusOnline,
	})
}

// connAfterFailure grades a failed poll: warning while the last good data
// is still fresh, offline once it has gone stale.
func (p *StatusPoller) connAfterFailure() ConnectionStatus {
	if !p.lastData.IsZero() && time.Since(p.lastData) < p.stale {
		return StatusWarning
	}
	return StatusOffline
}

// StatePoller refreshes the antenna base state mirror from /api/state.
type StatePoller struct {
	dispatcher *Dispatcher
	log        *logrus.Logger
	interval   time.Duration

	sender Sender
	cancel context.CancelFunc
	seq    uint64
}

func NewStatePoller(d *Dispatcher, log *logrus.Logger) *StatePoller {
	return &StatePoller{dispatcher: d, log: log, interval: config.StatePollInterval}
}

func (p *StatePoller) Start(sender Sender) error {
	p.sender = sender
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.loop(ctx)
	return nil
}

func (p *StatePoller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *StatePoller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		st, err := p.dispatcher.FetchState(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.log.WithError(err).Debug("state poll failed")
		} else {
			p.seq++
			p.sender.Send(StateMsg{State: st, Seq: p.seq})
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
