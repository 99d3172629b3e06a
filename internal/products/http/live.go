package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"inventory-tracker/internal/products"
	"inventory-tracker/internal/products/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 16
	reloadTimeout  = 5 * time.Second
)

const (
	msgSearch   = "search"
	msgStock    = "stock"
	msgCategory = "category"
	msgAdded    = "added"
	msgQuantity = "quantity"
	msgSort     = "sort"
	msgPage     = "page"
	msgPageSize = "page_size"

	msgSnapshot = "snapshot"
	msgError    = "error"
)

type InventoryLoader interface {
	Inventory(ctx context.Context) ([]products.Product, error)
}

type clientMessage struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
	Min   *int            `json:"min"`
	Max   *int            `json:"max"`
	Order string          `json:"order"`
}

type serverMessage struct {
	Type     string             `json:"type"`
	Page     *pipeline.Page     `json:"page,omitempty"`
	LowStock []products.Product `json:"low_stock,omitempty"`
	Search   string             `json:"search,omitempty"`
	Message  string             `json:"message,omitempty"`
}

// Hub keeps one list view per live connection and refreshes all of them
// whenever the inventory changes.
type Hub struct {
	loader   InventoryLoader
	logger   *slog.Logger
	debounce func() *pipeline.Debouncer
	now      func() time.Time
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
}

func NewHub(loader InventoryLoader, logger *slog.Logger, searchDebounce time.Duration) *Hub {
	return &Hub{
		loader:   loader,
		logger:   logger,
		debounce: func() *pipeline.Debouncer { return pipeline.NewDebouncer(searchDebounce) },
		now:      time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[*session]struct{}),
	}
}

// Reload reloads the full product list into every open view and pushes a
// new snapshot to each client.
func (h *Hub) Reload() {
	h.mu.Lock()
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	if len(sessions) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()
	items, err := h.loader.Inventory(ctx)
	if err != nil {
		h.logger.Error("live reload failed", "error", err)
		return
	}

	for _, s := range sessions {
		s.view.Load(items)
		s.push()
	}
}

func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// ServeLive godoc
// @Summary      Live inventory list over a websocket
// @Description  Send {"type":"search|stock|category|added|quantity|sort|page|page_size",...}; receive {"type":"snapshot",...}. Search is applied after typing pauses.
// @Tags         products
// @Security     BearerAuth
// @Param        access_token  query  string  false  "Bearer token, for clients that cannot set headers"
// @Success      101
// @Router       /products/live [get]
func (h *Hub) ServeLive(c *gin.Context) {
	items, err := h.loader.Inventory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get products"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	s := h.newSession(conn)
	s.view.Load(items)
	h.register(s)
	s.push()

	go s.writePump()
	go s.readPump()
}

func (h *Hub) newSession(conn *websocket.Conn) *session {
	s := &session{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	s.view = pipeline.NewView(h.debounce(), s.push)
	return s
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	n := len(h.sessions)
	h.mu.Unlock()
	h.logger.Info("live client connected", "total", n)
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	_, ok := h.sessions[s]
	delete(h.sessions, s)
	n := len(h.sessions)
	h.mu.Unlock()

	if ok {
		s.close()
		h.logger.Info("live client disconnected", "total", n)
	}
}

type session struct {
	hub  *Hub
	conn *websocket.Conn
	view *pipeline.View

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func (s *session) readPump() {
	defer func() {
		s.hub.unregister(s)
		s.conn.Close()
	}()
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.logger.Warn("live connection closed unexpectedly", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendMessage(serverMessage{Type: msgError, Message: "malformed message"})
			continue
		}
		if err := s.handle(msg); err != nil {
			s.sendMessage(serverMessage{Type: msgError, Message: err.Error()})
		}
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle applies one client command to the view. Search is deferred to the
// debouncer, which pushes once it fires; everything else pushes right away.
func (s *session) handle(msg clientMessage) error {
	value := rawString(msg.Value)

	switch msg.Type {
	case msgSearch:
		s.view.SetSearch(value)
		return nil
	case msgStock:
		s.view.SetStock(pipeline.ParseStock(value))
	case msgCategory:
		s.view.SetCategory(pipeline.ParseCategory(value))
	case msgAdded:
		s.view.SetDateFilter(pipeline.ParseDateFilter(value))
	case msgQuantity:
		s.view.SetQuantityRange(msg.Min, msg.Max)
	case msgSort:
		key := pipeline.ParseSort(value)
		if desc, ok := pipeline.ParseOrder(msg.Order); ok {
			s.view.SetSort(key, desc)
		} else {
			s.view.ToggleSort(key)
		}
	case msgPage:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid page %q", value)
		}
		s.view.SetPage(n)
	case msgPageSize:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid page size %q", value)
		}
		s.view.SetPageSize(n)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	s.push()
	return nil
}

func (s *session) push() {
	page := s.view.Snapshot(s.hub.now())
	s.sendMessage(serverMessage{
		Type:     msgSnapshot,
		Page:     &page,
		LowStock: s.view.LowStock(),
		Search:   s.view.Query().Search,
	})
}

func (s *session) sendMessage(msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.hub.logger.Error("marshal live message failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- data:
	default:
		// Slow client; it gets the next snapshot instead.
	}
}

func (s *session) close() {
	s.view.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// rawString accepts both "10" and 10 as a value.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	return strings.TrimSpace(string(raw))
}
