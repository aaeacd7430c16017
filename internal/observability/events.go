package observability

type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

// WSEventInfo describes one websocket lifecycle event for the event bus.
type WSEventInfo struct {
	Kind       string
	Topic      string
	Event      string
	ConnID     string
	DurationMS int64
	Reason     string
	UserID     int
	DeviceID   string
	IP         string
}

// WSEventPayload shapes a lifecycle event into the bus envelope payload.
func WSEventPayload(info WSEventInfo) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        info.Kind,
			"topic":       info.Topic,
			"event":       info.Event,
			"conn_id":     info.ConnID,
			"duration_ms": info.DurationMS,
			"reason":      info.Reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
