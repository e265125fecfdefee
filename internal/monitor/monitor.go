// Package monitor streams transmitted frames and diagnostics to browser
// clients over websockets and accepts live control messages.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/internal/diag"
)

const (
	writeWait = 200 * time.Millisecond
	// sendQueue is how many messages a client may fall behind before new
	// ones are dropped for it.
	sendQueue = 8
)

// Info describes the chain being monitored.
type Info struct {
	Driver  string `json:"driver"`
	Chipset string `json:"chipset"`
	Pixels  int    `json:"pixels"`
	FPS     int    `json:"fps"`
}

// Control is a client request. Nil or empty fields are left unchanged.
type Control struct {
	Brightness *float64 `json:"brightness,omitempty"`
	Pattern    string   `json:"runTest,omitempty"`
}

// client owns one websocket. Only its writer goroutine writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	mu          sync.Mutex
	log         zerolog.Logger
	info        Info
	clients     map[*client]bool
	diagClients map[*client]bool
	upgrader    websocket.Upgrader
	startTime   time.Time
	onControl   func(Control)

	frames   uint64
	dropped  uint64
	lastSeq  uint64
	lastTook time.Duration
	lastDiag *diag.Diagnostic
}

var _ driver.Observer = (*Hub)(nil)

func New(info Info, log zerolog.Logger) *Hub {
	return &Hub{
		log:         log,
		info:        info,
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		startTime:   time.Now(),
	}
}

// OnControl registers the handler for /control messages.
func (h *Hub) OnControl(fn func(Control)) {
	h.mu.Lock()
	h.onControl = fn
	h.mu.Unlock()
}

// Handler routes /ws, /diag, /control and /health.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/health", h.HandleHealth)
	return withCORS(mux)
}

// ObserveFrame queues the frame's wire bytes for every /ws client. It never
// waits on the network; a client that is behind misses frames.
func (h *Hub) ObserveFrame(f driver.Frame) {
	type frame struct {
		Type    string `json:"type"`
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		Chipset string `json:"chipset"`
		Words   []byte `json:"words"`
		TookUs  int64  `json:"took_us"`
	}
	b, err := json.Marshal(frame{
		Type:    "frame",
		T:       time.Now().UnixNano(),
		FrameID: f.Seq,
		Chipset: f.Chipset,
		Words:   f.Words,
		TookUs:  f.Took.Microseconds(),
	})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames++
	h.lastSeq = f.Seq
	h.lastTook = f.Took
	h.broadcast(h.clients, b)
}

// Report pushes a diagnostic to every /diag client and keeps it for /health.
func (h *Hub) Report(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastDiag = &d
	h.broadcast(h.diagClients, b)
}

// broadcast must be called with h.mu held.
func (h *Hub) broadcast(to map[*client]bool, b []byte) {
	for c := range to {
		select {
		case c.send <- b:
		default:
			h.dropped++
		}
	}
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendQueue)}
	c.send <- h.infoMessage()
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	go h.write(c)
	go h.drain(c, h.clients)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendQueue)}
	h.mu.Lock()
	h.diagClients[c] = true
	h.mu.Unlock()
	go h.write(c)
	go h.drain(c, h.diagClients)
}

// write sends queued messages until the queue is closed.
func (h *Hub) write(c *client) {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.Debug().Err(err).Str("remote", c.conn.RemoteAddr().String()).Msg("monitor write")
		}
	}
}

// drain reads until the client goes away, then forgets it.
func (h *Hub) drain(c *client, set map[*client]bool) {
	defer func() {
		h.mu.Lock()
		delete(set, c)
		close(c.send)
		h.mu.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Debug().Err(err).Msg("bad control message")
			continue
		}
		h.mu.Lock()
		fn := h.onControl
		h.mu.Unlock()
		if fn != nil {
			fn(msg)
		}
	}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := map[string]any{
		"driver":       h.info.Driver,
		"chipset":      h.info.Chipset,
		"count":        h.info.Pixels,
		"fps":          h.info.FPS,
		"frames":       h.frames,
		"frame_id":     h.lastSeq,
		"last_took_us": h.lastTook.Microseconds(),
		"uptime_s":     time.Since(h.startTime).Seconds(),
		"clients":      len(h.clients),
		"dropped":      h.dropped,
	}
	if h.lastDiag != nil {
		resp["last_diag"] = h.lastDiag
	}
	h.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Clients is the number of connected /ws clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped is the number of messages skipped for clients that were behind.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

func (h *Hub) infoMessage() []byte {
	b, _ := json.Marshal(struct {
		Type string `json:"type"`
		Info
	}{"info", h.info})
	return b
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
