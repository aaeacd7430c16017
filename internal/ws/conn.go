package ws

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// socket is the write side of a websocket connection. *websocket.Conn
// satisfies it; tests substitute an in-memory sink.
type socket interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Conn is one live connection in the hub's arena. Everything that refers to
// a connection elsewhere (topic subscriptions, presence) holds only its ID.
type Conn struct {
	ID          string
	UserID      int
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time

	mu   sync.Mutex
	sock socket
}

// NewConn wraps a socket in a Conn with a fresh connection id.
func NewConn(userID int, sock socket) *Conn {
	return &Conn{
		ID:          newConnID(),
		UserID:      userID,
		ConnectedAt: time.Now(),
		sock:        sock,
	}
}

// Write sends one text frame. Writes are serialized per connection; the
// websocket transport permits a single concurrent writer.
func (c *Conn) Write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sock.WriteMessage(websocket.TextMessage, payload)
}

// Close closes the underlying socket.
func (c *Conn) Close() error {
	return c.sock.Close()
}

func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
