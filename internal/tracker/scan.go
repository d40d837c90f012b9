package tracker

import (
	"context"
	"time"

	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/sirupsen/logrus"
)

// ScanCollector polls /scan-results for completion of a long-running
// angular RF scan. Polling continues until the server reports completion or
// Stop is called; there is no cap, the user cancels via the stop command.
type ScanCollector struct {
	client   *Client
	log      *logrus.Logger
	interval time.Duration

	sender Sender
	cancel context.CancelFunc
}

func NewScanCollector(client *Client, log *logrus.Logger) *ScanCollector {
	return &ScanCollector{client: client, log: log, interval: config.ScanPollInterval}
}

// Start begins polling. On completion a single ScanCompleteMsg is delivered
// and the collector stops itself. A second Start supersedes the first.
func (s *ScanCollector) Start(sender Sender) error {
	s.Stop()
	s.sender = sender
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx)
	return nil
}

// Stop cancels the poll loop client-side.
func (s *ScanCollector) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *ScanCollector) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		var res ScanResult
		err := s.client.getJSON(ctx, "/scan-results", &res)
		if ctx.Err() != nil {
			return
		}
		switch {
		case err != nil:
			// keep polling; the scan may still be running
			s.log.WithError(err).Debug("scan-results poll failed")
		case res.ScanComplete:
			s.log.WithFields(logrus.Fields{
				"points":     len(res.ScanData),
				"best_angle": res.BestAngle,
			}).Info("scan complete")
			s.sender.Send(ScanCompleteMsg{Result: res})
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
