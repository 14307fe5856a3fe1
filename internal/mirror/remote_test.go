package mirror

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/server"
	"github.com/infinite-sweeper/sweeperd/internal/wire"
	"github.com/infinite-sweeper/sweeperd/internal/world"
)

func newTestRemoteSocket(t *testing.T) *RemoteSocket {
	t.Helper()
	w := world.New(9)
	t.Cleanup(w.Close)
	srv := server.Config{World: w}.New()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	s, err := DialRemoteSocket(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// awaitMessage polls NextMessage until it sees one of the given kinds or
// times out, since delivery crosses a real (loopback) socket.
func awaitMessage(t *testing.T, s *RemoteSocket, kinds ...wire.MessageKind) wire.ServerMessage {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if msg, ok := s.NextMessage(); ok {
			for _, k := range kinds {
				if msg.Kind == k {
					return msg
				}
			}
			continue
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for a message of kind %v", kinds)
	return wire.ServerMessage{}
}

func TestRemoteSocketReceivesWelcomeAfterConnecting(t *testing.T) {
	s := newTestRemoteSocket(t)
	msg := awaitMessage(t, s, wire.MsgWelcome)
	if msg.Player == nil || msg.Player.ID == "" {
		t.Fatalf("expected a populated player record, got %+v", msg.Player)
	}
}

func TestRemoteSocketQueryMirrorsChunkIntoLocalWorld(t *testing.T) {
	s := newTestRemoteSocket(t)
	awaitMessage(t, s, wire.MsgWelcome)

	s.Send(wire.ClientMessage{Kind: wire.CMQuery, Query: pos.Rect{Left: 0, Top: 0, Right: 16, Bottom: 16}})
	awaitMessage(t, s, wire.MsgChunk)

	var loaded int
	<-s.World().Exec(func(tx *world.Tx) { loaded = tx.World().LoadedChunkCount() })
	if loaded == 0 {
		t.Fatal("expected the queried chunk to be mirrored into the local world")
	}
}

func TestRemoteSocketClickMirrorsEventIntoLocalWorld(t *testing.T) {
	s := newTestRemoteSocket(t)
	awaitMessage(t, s, wire.MsgWelcome)

	s.Send(wire.ClientMessage{Kind: wire.CMQuery, Query: pos.Rect{Left: 0, Top: 0, Right: 16, Bottom: 16}})
	awaitMessage(t, s, wire.MsgChunk)

	s.Send(wire.ClientMessage{Kind: wire.CMClick, At: pos.Position{X: 0, Y: 0}})
	msg := awaitMessage(t, s, wire.MsgEvent)
	if msg.Event.Kind != wire.Clicked {
		t.Fatalf("expected a Clicked event, got %+v", msg.Event)
	}
}
