// Package debugsrv streams per-frame CPU/PPU state snapshots to an
// external inspector over a websocket, grounded on the teacher's
// pkg/display/web hub/client broadcast pattern but reduced to a single
// one-way snapshot feed (no player sync, no compression negotiation)
// since this core's --debug flag only needs outbound state, not input.
package debugsrv

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Snapshot is one frame's worth of inspectable state: the CPU registers
// and the PPU's LY, LCDC and STAT. It carries no APU state.
type Snapshot struct {
	PC, SP     uint16
	A, F       uint8
	B, C       uint8
	D, E       uint8
	H, L       uint8
	LY, LCDC   uint8
	STAT       uint8
}

// LogTracer implements mmu.Tracer by logging bus traffic at Trace level,
// optionally restricted to a set of watched addresses (an empty Watch
// traces everything, which is usually too noisy to be useful outside a
// single-instruction investigation).
type LogTracer struct {
	Watch map[uint16]bool
	log   *logrus.Entry
}

// NewLogTracer returns a LogTracer bound to log, watching only the
// given addresses (none given watches every address).
func NewLogTracer(log *logrus.Entry, watch ...uint16) *LogTracer {
	w := make(map[uint16]bool, len(watch))
	for _, a := range watch {
		w[a] = true
	}
	return &LogTracer{Watch: w, log: log}
}

func (t *LogTracer) wanted(address uint16) bool {
	return len(t.Watch) == 0 || t.Watch[address]
}

// OnRead logs a bus read if address is watched.
func (t *LogTracer) OnRead(address uint16, value uint8) {
	if t.wanted(address) {
		t.log.WithField("addr", address).WithField("value", value).Trace("bus read")
	}
}

// OnWrite logs a bus write if address is watched.
func (t *LogTracer) OnWrite(address uint16, value uint8) {
	if t.wanted(address) {
		t.log.WithField("addr", address).WithField("value", value).Trace("bus write")
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub broadcasts Snapshot values to every connected client.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
	log     *logrus.Entry
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New returns a Hub ready to Serve connections and Broadcast snapshots.
func New(log *logrus.Entry) *Hub {
	return &Hub{clients: make(map[*client]bool), log: log}
}

// Serve upgrades incoming HTTP connections on addr to websockets and
// fans broadcast snapshots out to each one. It runs until the listener
// fails and returns that error; callers typically run it in a
// goroutine.
func (h *Hub) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.WithError(err).Warn("debugsrv: upgrade failed")
			return
		}
		c := &client{conn: conn, send: make(chan []byte, 8)}
		h.mu.Lock()
		h.clients[c] = true
		h.mu.Unlock()
		go h.writePump(c)
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return http.Serve(ln, mux)
}

func (h *Hub) writePump(c *client) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		c.conn.Close()
	}()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Broadcast marshals snap and sends it to every connected client,
// dropping the frame for any client whose send buffer is full (a slow
// debug client must never stall the emulation thread).
func (h *Hub) Broadcast(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("debugsrv: dropped snapshot, client send buffer full")
		}
	}
}
