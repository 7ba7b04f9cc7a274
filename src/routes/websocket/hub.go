package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/emjjkk/portfolio-backend/src/lib/metrics"
	"github.com/emjjkk/portfolio-backend/src/lib/presence"
	"github.com/emjjkk/portfolio-backend/src/types"
	"go.uber.org/zap"
)

// SnapshotFunc reports the current header state for newly connected pages.
type SnapshotFunc func() presence.Snapshot

type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	snapshot SnapshotFunc
	logger   *zap.Logger
	mu       sync.RWMutex

	// closed when Run returns
	done chan struct{}
}

func NewHub(snapshot SnapshotFunc, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		snapshot:   snapshot,
		logger:     logger.Named("ws"),
		done:       make(chan struct{}),
	}
}

// Run serves register/unregister until ctx ends, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			metrics.SetWSClients(n)

			h.logger.Debug("client connected", zap.String("session", client.sessionID))
			client.Send(&Message{
				Op:   OpReady,
				Data: ReadyPayload{SessionID: client.sessionID, Line: h.snapshot()},
			})

		case client := <-h.unregister:
			h.handleUnregister(client)
		}
	}
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	client.closeSend()
	metrics.SetWSClients(len(h.clients))
	h.logger.Debug("client disconnected", zap.String("session", client.sessionID))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		client.closeSend()
	}
	metrics.SetWSClients(0)
}

// Dispatch sends one event to every connected page.
func (h *Hub) Dispatch(event EventType, data any) {
	payload, err := json.Marshal(&Message{Op: OpDispatch, Event: event, Data: data})
	if err != nil {
		h.logger.Error("marshal error", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		client.sendRaw(payload)
	}
}

// ActivityUpdated is called after the webhook stored a new activity.
func (h *Hub) ActivityUpdated(activity *types.Activity) {
	h.Dispatch(EventActivityUpdate, ActivityUpdatePayload{ActiveActivity: activity})
}

// PresenceEvent forwards header line changes from the display.
func (h *Hub) PresenceEvent(ev presence.Event) {
	if ev.Kind != presence.EventLine {
		return
	}
	h.Dispatch(EventPresenceLine, ev.Snapshot)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
