package stream

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type msgCollector struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (c *msgCollector) Send(msg tea.Msg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *msgCollector) states() []State {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []State
	for _, m := range c.msgs {
		if sm, ok := m.(StateMsg); ok {
			out = append(out, sm.State)
		}
	}
	return out
}

func (c *msgCollector) waitForState(t *testing.T, want State, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, s := range c.states() {
			if s == want {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("never reached state %v; saw %v", want, c.states())
}

// whepAnswerer builds a WHEP endpoint backed by a real answering peer.
func whepAnswerer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	var peers []*webrtc.PeerConnection
	var mu sync.Mutex

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offer, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
		require.NoError(t, err)
		mu.Lock()
		peers = append(peers, pc)
		mu.Unlock()

		require.NoError(t, pc.SetRemoteDescription(webrtc.SessionDescription{
			Type: webrtc.SDPTypeOffer, SDP: string(offer),
		}))
		answer, err := pc.CreateAnswer(nil)
		require.NoError(t, err)
		done := webrtc.GatheringCompletePromise(pc)
		require.NoError(t, pc.SetLocalDescription(answer))
		<-done

		w.Header().Set("Content-Type", "application/sdp")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, pc.LocalDescription().SDP)
	}))

	return srv, func() {
		srv.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, pc := range peers {
			pc.Close()
		}
	}
}

func TestNegotiatorReachesConnected(t *testing.T) {
	srv, cleanup := whepAnswerer(t)
	defer cleanup()

	n := NewNegotiator(srv.URL+"/isabella/whep", quietLog())
	col := &msgCollector{}
	n.Start(col)
	defer n.Stop(col)

	col.waitForState(t, StateConnected, 10*time.Second)

	states := col.states()
	// offering -> awaiting-ice -> posting -> connected, in order
	want := []State{StateOffering, StateAwaitingICE, StatePosting, StateConnected}
	idx := 0
	for _, s := range states {
		if idx < len(want) && s == want[idx] {
			idx++
		}
	}
	assert.Equal(t, len(want), idx, "state order %v must embed %v", states, want)
	assert.Equal(t, StateConnected, n.State())
}

func TestNegotiatorFailsTerminallyWhenBothEncodingsFail(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "stream not found", http.StatusNotFound)
	}))
	defer srv.Close()

	n := NewNegotiator(srv.URL+"/isabella/whep", quietLog())
	col := &msgCollector{}
	n.Start(col)
	defer n.Stop(col)

	col.waitForState(t, StateFailed, 10*time.Second)
	assert.Equal(t, int32(2), hits.Load(), "one attempt per encoding, no automatic retry")

	// terminal: no further POSTs without an explicit restart
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, StateFailed, n.State())
}

func TestNegotiatorStopResetsToIdle(t *testing.T) {
	srv, cleanup := whepAnswerer(t)
	defer cleanup()

	n := NewNegotiator(srv.URL+"/isabella/whep", quietLog())
	col := &msgCollector{}
	n.Start(col)
	col.waitForState(t, StateConnected, 10*time.Second)

	n.Stop(col)
	assert.Equal(t, StateIdle, n.State())

	playingFalse := false
	col.mu.Lock()
	for _, m := range col.msgs {
		if pm, ok := m.(PlayingMsg); ok && !pm.Playing {
			playingFalse = true
		}
	}
	col.mu.Unlock()
	assert.True(t, playingFalse, "teardown must drop the playing flag")
}
