// Package server exposes the authoritative World over a WebSocket endpoint:
// one connection per client, a single-writer fan-out hub, and the
// message-loop dispatch table from spec.md §4.10.
package server

import (
	"log/slog"
	"sync"

	"github.com/segmentio/fasthash/fnv1a"
	"golang.org/x/sync/errgroup"

	"github.com/infinite-sweeper/sweeperd/internal/wire"
)

// outboxSize bounds how many pending bundles a slow connection may queue
// before the hub starts dropping messages for it, per spec.md §5's
// backpressure policy: the world loop never blocks on a slow client.
const outboxSize = 32

// connection is a single client's outbound mailbox and identity.
type connection struct {
	playerID string
	outbox   chan []byte
}

// Hub owns the set of live connections and fans server messages out to
// them, adapted from leanlp-BTC-coinjoin's websocket Hub: unlike that
// broadcaster, Hub never blocks on a full outbox, since spec.md §5 demands
// the fan-out drop frames for a single slow connection rather than stall
// every other client.
type Hub struct {
	log *slog.Logger

	mu    sync.Mutex
	conns map[string]*connection
}

// NewHub constructs an empty Hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{log: log, conns: make(map[string]*connection)}
}

// Register adds playerID's mailbox to the hub and returns it so the
// connection's write pump can drain it.
func (h *Hub) Register(playerID string) *connection {
	c := &connection{playerID: playerID, outbox: make(chan []byte, outboxSize)}
	h.mu.Lock()
	h.conns[playerID] = c
	h.mu.Unlock()
	return c
}

// Unregister removes a connection, e.g. once its socket has closed.
func (h *Hub) Unregister(playerID string) {
	h.mu.Lock()
	delete(h.conns, playerID)
	h.mu.Unlock()
}

// Broadcast delivers a bundle to every connection except optionally the
// sender (pass "" to exclude no one), fanning the per-connection delivery
// out across goroutines so one connection's contention never delays
// another's.
func (h *Hub) Broadcast(messages []wire.ServerMessage, except string) {
	if len(messages) == 0 {
		return
	}
	h.mu.Lock()
	targets := make([]*connection, 0, len(h.conns))
	for id, c := range h.conns {
		if id == except {
			continue
		}
		targets = append(targets, c)
	}
	h.mu.Unlock()

	payload := wire.EncodeBundle(messages)
	// bundleID correlates the per-connection drop/deliver log lines below
	// back to a single Broadcast call without logging the payload itself.
	bundleID := fnv1a.HashBytes64(payload)
	var g errgroup.Group
	for _, c := range targets {
		c := c
		g.Go(func() error {
			h.deliverPayload(c, payload, bundleID)
			return nil
		})
	}
	_ = g.Wait()
}

// deliver encodes messages and hands them to a single connection's mailbox,
// used for replies addressed to one connection only (Welcome, Query
// results).
func (h *Hub) deliver(c *connection, messages []wire.ServerMessage) {
	payload := wire.EncodeBundle(messages)
	h.deliverPayload(c, payload, fnv1a.HashBytes64(payload))
}

// deliverPayload pushes an already-encoded bundle onto c's mailbox,
// dropping it if the mailbox is full rather than blocking the caller.
func (h *Hub) deliverPayload(c *connection, payload []byte, bundleID uint64) {
	select {
	case c.outbox <- payload:
	default:
		h.log.Warn("server: dropping bundle for slow connection", "player_id", c.playerID, "bundle_id", bundleID)
	}
}
