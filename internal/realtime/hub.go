package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/protocol"
	"github.com/mcoot/rpsarena/internal/services/arena"
)

// Bound on storage work done inside a single hub event
const opTimeout = 5 * time.Second

type inbound struct {
	client *Client
	cmd    protocol.Command
}

type query struct {
	fn   func(ctx context.Context, engine *arena.Engine)
	done chan struct{}
}

// Hub is the single writer for the arena engine.
// Every connect, disconnect, command and query runs on the Run goroutine, one at a time.
type Hub struct {
	engine  *arena.Engine
	clients map[model.Handle]*Client
	logger  *slog.Logger

	// Unbuffered so a client's events reach the engine in the order it sent them
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	queries    chan query
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub around the engine
func NewHub(engine *arena.Engine, logger *slog.Logger) *Hub {
	return &Hub{
		engine:     engine,
		clients:    make(map[model.Handle]*Client),
		logger:     logger.With(slog.String("component", "realtime")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		queries:    make(chan query),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("hub started")
	for {
		select {
		case client := <-h.register:
			h.clients[client.handle] = client
			h.withTimeout(func(ctx context.Context) {
				_, out := h.engine.Connect(ctx, client.handle)
				h.deliver(out)
			})
			h.logger.Debug("client registered",
				slog.String("handle", string(client.handle)),
				slog.Int("total_clients", len(h.clients)))

		case client := <-h.unregister:
			if current, ok := h.clients[client.handle]; !ok || current != client {
				continue
			}
			delete(h.clients, client.handle)
			close(client.send)
			h.withTimeout(func(ctx context.Context) {
				h.deliver(h.engine.Disconnect(ctx, client.handle))
			})
			h.logger.Debug("client unregistered",
				slog.String("handle", string(client.handle)),
				slog.Duration("connection_duration", time.Since(client.connectedAt)),
				slog.Int("total_clients", len(h.clients)))

		case msg := <-h.inbound:
			if current, ok := h.clients[msg.client.handle]; !ok || current != msg.client {
				continue
			}
			h.withTimeout(func(ctx context.Context) {
				h.deliver(h.engine.Handle(ctx, msg.client.handle, msg.cmd))
			})

		case q := <-h.queries:
			h.withTimeout(func(ctx context.Context) {
				q.fn(ctx, h.engine)
			})
			close(q.done)

		case <-h.done:
			clientCount := len(h.clients)
			for handle, client := range h.clients {
				close(client.send)
				delete(h.clients, handle)
			}
			h.logger.Info("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

func (h *Hub) withTimeout(fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	fn(ctx)
}

// deliver fans notifications out without ever blocking the loop
func (h *Hub) deliver(out arena.Outbox) {
	for _, n := range out {
		message, err := protocol.Encode(n.Event, n.Payload)
		if err != nil {
			h.logger.Error("encoding notification",
				slog.String("event", string(n.Event)),
				slog.String("error", err.Error()))
			continue
		}

		if n.Broadcast {
			dropped := 0
			for _, client := range h.clients {
				if !h.trySend(client, n.Event, message) {
					dropped++
				}
			}
			if dropped > 0 {
				h.logger.Warn("broadcast partial failure",
					slog.String("event", string(n.Event)),
					slog.Int("sent", len(h.clients)-dropped),
					slog.Int("dropped", dropped))
			}
			continue
		}

		client, ok := h.clients[n.To]
		if !ok {
			h.logger.Debug("notification for departed client",
				slog.String("handle", string(n.To)),
				slog.String("event", string(n.Event)))
			continue
		}
		h.trySend(client, n.Event, message)
	}
}

func (h *Hub) trySend(client *Client, event model.EventType, message []byte) bool {
	select {
	case client.send <- message:
		return true
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("handle", string(client.handle)),
			slog.String("event", string(event)))
		return false
	}
}

// Register adds a client and connects its handle to the arena
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return model.ErrHubClosed
	}
}

// Unregister removes a client and disconnects its handle from the arena
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Submit forwards a decoded command from the client
func (h *Hub) Submit(client *Client, cmd protocol.Command) {
	select {
	case h.inbound <- inbound{client: client, cmd: cmd}:
	case <-h.done:
	}
}

// Query runs fn on the hub goroutine and waits for it to finish
func (h *Hub) Query(ctx context.Context, fn func(ctx context.Context, engine *arena.Engine)) error {
	q := query{fn: fn, done: make(chan struct{})}
	select {
	case h.queries <- q:
	case <-h.done:
		return model.ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of the arena taken on the hub goroutine
func (h *Hub) Stats(ctx context.Context) (model.ArenaStats, error) {
	var stats model.ArenaStats
	err := h.Query(ctx, func(ctx context.Context, engine *arena.Engine) {
		stats = engine.Stats(ctx)
	})
	if err != nil {
		return model.ArenaStats{}, err
	}
	return stats, nil
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount(ctx context.Context) (int, error) {
	var count int
	err := h.Query(ctx, func(ctx context.Context, engine *arena.Engine) {
		count = len(h.clients)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close shuts down the hub, closing every client's send channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}
