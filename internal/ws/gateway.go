// Package ws is the live delivery edge: one websocket connection per
// subscribed thread, fed by the broker. Auth and access are checked before
// the upgrade, so a rejected client only ever sees a bare HTTP status.
package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/model"
)

const (
	sendBufferSize = 64
	writeWait      = 10 * time.Second
)

// StatusEvent is the first frame sent after a successful upgrade.
type StatusEvent struct {
	Type  string `json:"type"`
	State string `json:"state"`
}

type Gateway struct {
	resolver IdentityResolver
	access   Access
	broker   Broker
	upgrader websocket.Upgrader
}

func New(resolver IdentityResolver, access Access, brk Broker) *Gateway {
	return &Gateway{
		resolver: resolver,
		access:   access,
		broker:   brk,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws/{kind}/{threadID}?token=. It blocks until the
// client disconnects.
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("Serve")

	identity := g.resolver.Resolve(r.URL.Query().Get("token"))
	if identity.Anonymous {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	kind, err := model.ParseThreadKind(chi.URLParam(r, "kind"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	threadID, err := uuid.Parse(chi.URLParam(r, "threadID"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	thread := model.ThreadRef{Kind: kind, ID: threadID}

	allowed, err := g.access.CanJoin(r.Context(), identity.UserID, thread)
	if errors.Is(err, model.ErrUnknownThread) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check thread access: %v", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !allowed {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	socket, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Error(fmt.Sprintf("failed to upgrade connection: %v", err))
		return
	}

	c := newConn(socket)

	connected, err := json.Marshal(StatusEvent{Type: "status", State: "connected"})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to marshal status event: %v", err))
		c.close()
		return
	}
	c.Deliver(connected)

	group := thread.GroupID()
	g.broker.Subscribe(group, c)

	go c.writePump()
	c.readLoop()

	g.broker.Unsubscribe(group, c)
	c.close()
}

// conn wraps one websocket connection. All writes go through the send
// channel so the broker never blocks on a slow client.
type conn struct {
	socket *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func newConn(socket *websocket.Conn) *conn {
	return &conn{
		socket: socket,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// Deliver queues a payload for the write pump. A full buffer or a closed
// connection drops the payload.
func (c *conn) Deliver(payload []byte) {
	select {
	case <-c.done:
	case c.send <- payload:
	default:
	}
}

func (c *conn) writePump() {
	defer c.close()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

// readLoop discards inbound frames; its only job is to notice the close.
func (c *conn) readLoop() {
	defer c.close()

	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *conn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.socket.Close()
	})
}
