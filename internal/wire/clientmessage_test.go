package wire

import (
	"testing"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
)

func TestDecodeClientMessageConnectedBareString(t *testing.T) {
	msg, ok := DecodeClientMessage([]byte(`"Connected"`))
	if !ok || msg.Kind != CMConnected {
		t.Fatalf("expected CMConnected, got ok=%v msg=%+v", ok, msg)
	}
}

func TestDecodeClientMessageConnectedObjectForm(t *testing.T) {
	msg, ok := DecodeClientMessage([]byte(`{"Connected":null}`))
	if !ok || msg.Kind != CMConnected {
		t.Fatalf("expected CMConnected, got ok=%v msg=%+v", ok, msg)
	}
}

func TestDecodeClientMessageClick(t *testing.T) {
	msg, ok := DecodeClientMessage([]byte(`{"Click":[3,-7]}`))
	if !ok || msg.Kind != CMClick || msg.At != (pos.Position{X: 3, Y: -7}) {
		t.Fatalf("unexpected decode: ok=%v msg=%+v", ok, msg)
	}
}

func TestDecodeClientMessageFlagAndDoubleClick(t *testing.T) {
	f, ok := DecodeClientMessage([]byte(`{"Flag":[1,2]}`))
	if !ok || f.Kind != CMFlag {
		t.Fatalf("expected CMFlag, got %+v", f)
	}
	d, ok := DecodeClientMessage([]byte(`{"DoubleClick":[1,2]}`))
	if !ok || d.Kind != CMDoubleClick {
		t.Fatalf("expected CMDoubleClick, got %+v", d)
	}
}

func TestDecodeClientMessageQuery(t *testing.T) {
	msg, ok := DecodeClientMessage([]byte(`{"Query":{"left":0,"top":0,"right":32,"bottom":32}}`))
	if !ok || msg.Kind != CMQuery {
		t.Fatalf("expected CMQuery, got ok=%v msg=%+v", ok, msg)
	}
	want := pos.Rect{Left: 0, Top: 0, Right: 32, Bottom: 32}
	if msg.Query != want {
		t.Fatalf("query bounds mismatch: got %v want %v", msg.Query, want)
	}
}

func TestClientMessageEncodeDecodeRoundTrip(t *testing.T) {
	cases := []ClientMessage{
		{Kind: CMConnected},
		{Kind: CMClick, At: pos.Position{X: 8, Y: 8}},
		{Kind: CMFlag, At: pos.Position{X: -1, Y: 4}},
		{Kind: CMDoubleClick, At: pos.Position{X: 100, Y: -100}},
		{Kind: CMQuery, Query: pos.Rect{Left: 0, Top: 0, Right: 16, Bottom: 16}},
	}
	for _, want := range cases {
		got, ok := DecodeClientMessage(EncodeClientMessage(want))
		if !ok || got != want {
			t.Fatalf("round trip mismatch: want %+v got %+v (ok=%v)", want, got, ok)
		}
	}
}

func TestDecodeClientMessageRejectsGarbage(t *testing.T) {
	if _, ok := DecodeClientMessage([]byte(`not json`)); ok {
		t.Fatalf("expected garbage input to be rejected")
	}
	if _, ok := DecodeClientMessage([]byte(`{"Click":[1,2],"Flag":[3,4]}`)); ok {
		t.Fatalf("expected multi-key object to be rejected")
	}
	if _, ok := DecodeClientMessage([]byte(`{"Unknown":1}`)); ok {
		t.Fatalf("expected unknown tag to be rejected")
	}
}
