package ws

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"messaging-service/internal/observability"
)

// Topic key constructors. A topic exists only while at least one connection
// is subscribed to it.
func ChatTopic(chatID uuid.UUID) string { return "chat:" + chatID.String() }
func CallTopic(callID uuid.UUID) string { return "call:" + callID.String() }
func UserTopic(userID int) string       { return "user:" + strconv.Itoa(userID) }

// ChatTopicPrefix selects chat topics in TopicsFor.
const ChatTopicPrefix = "chat:"

// Hub is the topic broker. It owns the authoritative connection arena and
// the topic -> subscriber mapping; connections themselves never hold
// references to each other.
type Hub struct {
	mu         sync.RWMutex
	conns      map[string]*Conn
	topics     map[string]map[string]struct{}
	connTopics map[string]map[string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conns:      make(map[string]*Conn),
		topics:     make(map[string]map[string]struct{}),
		connTopics: make(map[string]map[string]struct{}),
	}
}

// Register adds a connection to the arena.
func (h *Hub) Register(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn.ID] = conn
}

// Unregister removes a connection and every subscription it holds. Further
// publishes simply no longer see it; store writes it caused earlier are
// unaffected.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(connID)
}

func (h *Hub) removeLocked(connID string) {
	for topic := range h.connTopics[connID] {
		if subs, ok := h.topics[topic]; ok {
			delete(subs, connID)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	delete(h.connTopics, connID)
	delete(h.conns, connID)
}

// Subscribe adds the connection to a topic's subscriber set.
func (h *Hub) Subscribe(topic string, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[connID]; !ok {
		return
	}
	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[string]struct{})
	}
	h.topics[topic][connID] = struct{}{}
	if _, ok := h.connTopics[connID]; !ok {
		h.connTopics[connID] = make(map[string]struct{})
	}
	h.connTopics[connID][topic] = struct{}{}
}

// Unsubscribe removes the connection from one topic.
func (h *Hub) Unsubscribe(topic string, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	if topics, ok := h.connTopics[connID]; ok {
		delete(topics, topic)
	}
}

// TopicsFor returns the distinct topics with the given prefix that any of
// the listed connections is subscribed to.
func (h *Hub) TopicsFor(connIDs []string, prefix string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]struct{})
	var topics []string
	for _, id := range connIDs {
		for topic := range h.connTopics[id] {
			if !strings.HasPrefix(topic, prefix) {
				continue
			}
			if _, ok := seen[topic]; ok {
				continue
			}
			seen[topic] = struct{}{}
			topics = append(topics, topic)
		}
	}
	return topics
}

// Publish delivers event to every current subscriber of topic except the
// connection identified by exclude. A failed write never surfaces to the
// publisher: the broken connection is closed and evicted, which doubles as
// its unsubscribe.
func (h *Hub) Publish(topic string, event any, exclude string) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("event marshal error: %v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*Conn, 0, len(h.topics[topic]))
	for connID := range h.topics[topic] {
		if connID == exclude {
			continue
		}
		if conn, ok := h.conns[connID]; ok {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	kind := kindForTopic(topic)
	for _, conn := range targets {
		if err := conn.Write(payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.Unregister(conn.ID)
			h.publishWSError(kind, topic, conn, err)
		}
	}
	observability.IncWSEvent(kind, "publish")
}

func (h *Hub) publishWSError(kind, topic string, conn *Conn, err error) {
	headers := observability.BuildHeaders(conn.RequestID, conn.TraceID)
	payload := observability.WSEventPayload(observability.WSEventInfo{
		Kind:       kind,
		Topic:      topic,
		Event:      "ws_error",
		ConnID:     conn.ID,
		DurationMS: time.Since(conn.ConnectedAt).Milliseconds(),
		Reason:     err.Error(),
		UserID:     conn.UserID,
		DeviceID:   conn.DeviceID,
		IP:         conn.IP,
	})
	_ = observability.PublishEvent(context.Background(), wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent(kind, "ws_error")
}

func kindForTopic(topic string) string {
	switch {
	case strings.HasPrefix(topic, "chat:"):
		return "chat"
	case strings.HasPrefix(topic, "call:"):
		return "call"
	case strings.HasPrefix(topic, "user:"):
		return "notify"
	}
	return "unknown"
}

func wsRoutingKey(kind string) string {
	switch kind {
	case "call":
		return "ws_events.calls"
	case "notify":
		return "ws_events.notifications"
	}
	return "ws_events.chats"
}
