package wire

import (
	"encoding/json"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
)

// ClientMessageKind enumerates the messages a client may send, per
// spec.md §6.
type ClientMessageKind int

const (
	CMConnected ClientMessageKind = iota
	CMClick
	CMFlag
	CMDoubleClick
	CMQuery
)

// ClientMessage is a decoded JSON text frame received over the WebSocket.
type ClientMessage struct {
	Kind  ClientMessageKind
	At    pos.Position // CMClick, CMFlag, CMDoubleClick
	Query pos.Rect     // CMQuery
}

type queryBounds struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

// DecodeClientMessage parses a single JSON text frame. It accepts both the
// bare-string form of the unit variant ("Connected") and the single-key
// object form ({"Connected":null}), since browser clients serialize unit
// enum variants either way depending on their JSON library. Any frame that
// doesn't parse is reported via ok=false so the caller can drop it per the
// MalformedInbound policy in spec.md §7, instead of tearing down the
// connection.
func DecodeClientMessage(data []byte) (ClientMessage, bool) {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if asString == "Connected" {
			return ClientMessage{Kind: CMConnected}, true
		}
		return ClientMessage{}, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || len(obj) != 1 {
		return ClientMessage{}, false
	}

	for key, raw := range obj {
		switch key {
		case "Connected":
			return ClientMessage{Kind: CMConnected}, true
		case "Click", "Flag", "DoubleClick":
			var xy [2]int32
			if err := json.Unmarshal(raw, &xy); err != nil {
				return ClientMessage{}, false
			}
			kind := CMClick
			switch key {
			case "Flag":
				kind = CMFlag
			case "DoubleClick":
				kind = CMDoubleClick
			}
			return ClientMessage{Kind: kind, At: pos.Position{X: xy[0], Y: xy[1]}}, true
		case "Query":
			var b queryBounds
			if err := json.Unmarshal(raw, &b); err != nil {
				return ClientMessage{}, false
			}
			return ClientMessage{
				Kind:  CMQuery,
				Query: pos.Rect{Left: b.Left, Top: b.Top, Right: b.Right, Bottom: b.Bottom},
			}, true
		}
	}
	return ClientMessage{}, false
}

// EncodeClientMessage is DecodeClientMessage's inverse, used by Go clients
// (the in-process local mirror's remote-socket implementation) rather than
// the browser frontend spec.md §6 was written for; it always emits the
// single-key object form.
func EncodeClientMessage(msg ClientMessage) []byte {
	switch msg.Kind {
	case CMConnected:
		return []byte(`{"Connected":null}`)
	case CMClick, CMFlag, CMDoubleClick:
		key := map[ClientMessageKind]string{CMClick: "Click", CMFlag: "Flag", CMDoubleClick: "DoubleClick"}[msg.Kind]
		payload, _ := json.Marshal(map[string][2]int32{key: {msg.At.X, msg.At.Y}})
		return payload
	case CMQuery:
		payload, _ := json.Marshal(map[string]queryBounds{
			"Query": {Left: msg.Query.Left, Top: msg.Query.Top, Right: msg.Query.Right, Bottom: msg.Query.Bottom},
		})
		return payload
	}
	return nil
}
