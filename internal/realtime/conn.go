package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harshaaa-5/aivy-1/internal/auth"
)

// Conn represents ONE admitted websocket. Its identity is fixed at admission
// and never reassigned.
type Conn struct {
	ws          *websocket.Conn
	identity    auth.Identity
	hub         *Hub
	out         chan []byte
	connectedAt time.Time

	sendMu    sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func (c *Conn) Identity() auth.Identity { return c.identity }

// Send queues an outbound frame. Delivery is send-and-forget: a full queue or
// torn-down connection drops the frame without affecting the sender.
func (c *Conn) Send(payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		droppedSendsTotal.Inc()
		return nil
	}
	select {
	case c.out <- b:
	default: // slow consumer, drop
		droppedSendsTotal.Inc()
	}
	return nil
}

// Close tears the connection down exactly once: hub deregistration first, so
// no new frames are routed here, then the transport.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.hub.disconnect(c)
		c.sendMu.Lock()
		c.closed = true
		close(c.out)
		c.sendMu.Unlock()
		_ = c.ws.Close()
	})
}

// ----------------------------------------------------------
// private loops
// ----------------------------------------------------------

// readLoop processes inbound frames strictly in receipt order, so events
// from one connection never interleave with each other.
func (c *Conn) readLoop() {
	defer c.Close()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return // closed
		}
		c.hub.Dispatch(c, data)
	}
}

func (c *Conn) writeLoop() {
	tick := time.NewTicker(25 * time.Second)
	defer tick.Stop()

	for {
		select {
		case msg, ok := <-c.out:
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			_ = c.ws.WriteMessage(websocket.TextMessage, msg)

		case <-tick.C:
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ------------------------------------------------------------------
// Helper, called from the HTTP upgrader after admission
// ------------------------------------------------------------------

func NewConn(identity auth.Identity, ws *websocket.Conn, hub *Hub) *Conn {
	conn := &Conn{
		ws:          ws,
		identity:    identity,
		hub:         hub,
		out:         make(chan []byte, 16),
		connectedAt: time.Now(),
	}
	hub.register(conn)

	go conn.writeLoop()
	go conn.readLoop()

	return conn
}
