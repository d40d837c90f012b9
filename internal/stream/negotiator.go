package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/Rrisinglight/isabella/internal/tracker"
	"github.com/pion/webrtc/v4"
	"github.com/sirupsen/logrus"
)

// State is the negotiation state machine position.
type State int

const (
	StateIdle State = iota
	StateOffering
	StateAwaitingICE
	StatePosting
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateOffering:
		return "offering"
	case StateAwaitingICE:
		return "awaiting-ice"
	case StatePosting:
		return "posting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// StateMsg reports a state-machine transition. Err is set only for
// StateFailed.
type StateMsg struct {
	State State
	Err   error
}

// PlayingMsg tracks the externally visible playing flag, driven by the peer
// connection state callbacks.
type PlayingMsg struct {
	Playing bool
}

// TrackMsg reports an inbound media track starting.
type TrackMsg struct {
	Kind string
}

// Negotiator performs WHEP session establishment: a recv-only peer
// connection, a local offer, a bounded non-trickle ICE wait, and the
// encoded POST exchange. Failure is terminal until the user retries; there
// is no automatic reconnection.
type Negotiator struct {
	endpoint string
	http     *http.Client
	log      *logrus.Logger
	chain    []Encoding
	gather   time.Duration

	mu     sync.Mutex
	state  State
	pc     *webrtc.PeerConnection
	cancel context.CancelFunc
}

func NewNegotiator(endpoint string, log *logrus.Logger) *Negotiator {
	return &Negotiator{
		endpoint: endpoint,
		http:     &http.Client{Timeout: config.RequestTimeout},
		log:      log,
		chain:    DefaultEncodings(),
		gather:   config.ICEGatherTimeout,
	}
}

// State returns the current machine position.
func (n *Negotiator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *Negotiator) setState(sender tracker.Sender, s State, err error) {
	n.mu.Lock()
	n.state = s
	n.mu.Unlock()
	if err != nil {
		n.log.WithError(err).WithField("state", s.String()).Warn("stream negotiation")
	} else {
		n.log.WithField("state", s.String()).Debug("stream negotiation")
	}
	sender.Send(StateMsg{State: s, Err: err})
}

// Start runs the negotiation in a goroutine, reporting transitions via
// sender. Starting while a session exists tears the old one down first.
func (n *Negotiator) Start(sender tracker.Sender) {
	n.Stop(sender)

	ctx, cancel := context.WithCancel(context.Background())
	n.mu.Lock()
	n.cancel = cancel
	n.mu.Unlock()

	go n.negotiate(ctx, sender)
}

func (n *Negotiator) negotiate(ctx context.Context, sender tracker.Sender) {
	n.setState(sender, StateOffering, nil)

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		n.setState(sender, StateFailed, err)
		return
	}
	n.mu.Lock()
	n.pc = pc
	n.mu.Unlock()

	// recv-only: the client sends no media
	for _, kind := range []webrtc.RTPCodecType{webrtc.RTPCodecTypeVideo, webrtc.RTPCodecTypeAudio} {
		if _, err := pc.AddTransceiverFromKind(kind, webrtc.RTPTransceiverInit{
			Direction: webrtc.RTPTransceiverDirectionRecvonly,
		}); err != nil {
			n.teardownPC()
			n.setState(sender, StateFailed, err)
			return
		}
	}

	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		n.log.WithField("kind", track.Kind().String()).Info("media track started")
		sender.Send(TrackMsg{Kind: track.Kind().String()})
	})
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		switch s {
		case webrtc.PeerConnectionStateConnected:
			sender.Send(PlayingMsg{Playing: true})
		case webrtc.PeerConnectionStateFailed,
			webrtc.PeerConnectionStateDisconnected,
			webrtc.PeerConnectionStateClosed:
			sender.Send(PlayingMsg{Playing: false})
		}
	})

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		n.teardownPC()
		n.setState(sender, StateFailed, err)
		return
	}

	n.setState(sender, StateAwaitingICE, nil)
	gatherDone := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(offer); err != nil {
		n.teardownPC()
		n.setState(sender, StateFailed, err)
		return
	}

	// Trickle ICE is not used: wait for gathering, but never longer than the
	// bound. Hitting the bound is success with partial candidates.
	select {
	case <-gatherDone:
	case <-time.After(n.gather):
		n.log.Debug("ICE gathering bound reached, posting partial candidates")
	case <-ctx.Done():
		n.teardownPC()
		return
	}

	n.setState(sender, StatePosting, nil)
	local := pc.LocalDescription()
	if local == nil {
		n.teardownPC()
		n.setState(sender, StateFailed, &tracker.ProtocolError{Op: "WHEP offer", Msg: "no local description"})
		return
	}

	answer, err := exchange(ctx, n.http, n.endpoint, local.SDP, n.chain, n.log)
	if err != nil {
		n.teardownPC()
		n.setState(sender, StateFailed, err)
		return
	}

	if err := pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  answer,
	}); err != nil {
		n.teardownPC()
		n.setState(sender, StateFailed, err)
		return
	}

	n.setState(sender, StateConnected, nil)
}

// Stop tears the session down: close the connection, stop every receiver
// track defensively, and reset to idle so a manual retry starts clean.
func (n *Negotiator) Stop(sender tracker.Sender) {
	n.mu.Lock()
	cancel := n.cancel
	n.cancel = nil
	n.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	n.teardownPC()

	n.mu.Lock()
	wasIdle := n.state == StateIdle
	n.state = StateIdle
	n.mu.Unlock()

	if !wasIdle {
		sender.Send(PlayingMsg{Playing: false})
		sender.Send(StateMsg{State: StateIdle})
	}
}

func (n *Negotiator) teardownPC() {
	n.mu.Lock()
	pc := n.pc
	n.pc = nil
	n.mu.Unlock()
	if pc == nil {
		return
	}

	for _, recv := range pc.GetReceivers() {
		if track := recv.Track(); track != nil {
			_ = recv.Stop() // individual stop errors are ignored
		}
	}
	if err := pc.Close(); err != nil {
		n.log.WithError(err).Debug("peer connection close")
	}
}
