package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Inbound event kinds (client → server).
const (
	KindJoinRoom            = "join-room"
	KindCollaborationUpdate = "collaboration-update"
	KindPracticeUpdate      = "practice-update"
	KindTyping              = "typing"
	KindHeartbeat           = "heartbeat"
)

// Outbound event kinds (server → client).
const (
	KindUserOnline      = "user-online"
	KindUserOffline     = "user-offline"
	KindUserJoinedGroup = "user-joined-group"
	KindUserTyping      = "user-typing"
	KindHeartbeatAck    = "heartbeat-ack"
)

var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrUnknownEvent   = errors.New("unknown event kind")
)

// Envelope is the wire frame for both directions: a kind tag plus a
// kind-specific payload.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// InboundEvent is a closed set: exactly one struct per inbound kind. The hub
// dispatches on the concrete type, so adding a kind without handling it is a
// compile-visible hole rather than a silent string mismatch.
type InboundEvent interface {
	Kind() string
}

type JoinRoom struct {
	RoomID string `json:"roomId"`
}

type CollaborationUpdate struct {
	RoomID     string          `json:"roomId"`
	UpdateType string          `json:"type"`
	Content    json.RawMessage `json:"content"`
}

type PracticeUpdate struct {
	SessionID string  `json:"sessionId"`
	Progress  float64 `json:"progress"`
	Accuracy  float64 `json:"accuracy"`
}

type Typing struct {
	RoomID string `json:"roomId"`
}

type Heartbeat struct{}

func (JoinRoom) Kind() string            { return KindJoinRoom }
func (CollaborationUpdate) Kind() string { return KindCollaborationUpdate }
func (PracticeUpdate) Kind() string      { return KindPracticeUpdate }
func (Typing) Kind() string              { return KindTyping }
func (Heartbeat) Kind() string           { return KindHeartbeat }

// DecodeInbound parses a raw frame into a typed event. Missing required
// fields yield ErrMalformedEvent; an unrecognized tag yields ErrUnknownEvent.
// Payload content beyond the required fields is not validated (the relay is
// lenient and forwards verbatim).
func DecodeInbound(data []byte) (InboundEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch env.Type {
	case KindJoinRoom:
		var ev JoinRoom
		if err := json.Unmarshal(env.Payload, &ev); err != nil || ev.RoomID == "" {
			return nil, fmt.Errorf("%w: %s requires roomId", ErrMalformedEvent, env.Type)
		}
		return ev, nil

	case KindCollaborationUpdate:
		var ev CollaborationUpdate
		if err := json.Unmarshal(env.Payload, &ev); err != nil || ev.RoomID == "" || ev.UpdateType == "" {
			return nil, fmt.Errorf("%w: %s requires roomId and type", ErrMalformedEvent, env.Type)
		}
		return ev, nil

	case KindPracticeUpdate:
		var ev PracticeUpdate
		if err := json.Unmarshal(env.Payload, &ev); err != nil || ev.SessionID == "" {
			return nil, fmt.Errorf("%w: %s requires sessionId", ErrMalformedEvent, env.Type)
		}
		return ev, nil

	case KindTyping:
		var ev Typing
		if err := json.Unmarshal(env.Payload, &ev); err != nil || ev.RoomID == "" {
			return nil, fmt.Errorf("%w: %s requires roomId", ErrMalformedEvent, env.Type)
		}
		return ev, nil

	case KindHeartbeat:
		return Heartbeat{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
}

// SessionRoom names the broadcast room for a practice session.
func SessionRoom(sessionID string) string { return "session:" + sessionID }

// GroupRoom names the broadcast room for a study group.
func GroupRoom(groupID uuid.UUID) string { return "group:" + groupID.String() }

// UserRoom names the per-user room used for direct notifications.
func UserRoom(userID uuid.UUID) string { return "user:" + userID.String() }

// ---------- Outbound payloads ----------

type UserOnlinePayload struct {
	UserID    uuid.UUID `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type UserOfflinePayload struct {
	UserID    uuid.UUID `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type UserJoinedGroupPayload struct {
	UserID    uuid.UUID `json:"userId"`
	GroupID   string    `json:"groupId"`
	Timestamp time.Time `json:"timestamp"`
}

type CollaborationUpdatePayload struct {
	UserID     uuid.UUID       `json:"userId"`
	UpdateType string          `json:"type"`
	Content    json.RawMessage `json:"content"`
	Timestamp  time.Time       `json:"timestamp"`
}

type PracticeUpdatePayload struct {
	UserID    uuid.UUID `json:"userId"`
	Progress  float64   `json:"progress"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type UserTypingPayload struct {
	UserID    uuid.UUID `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type HeartbeatAckPayload struct {
	Timestamp time.Time `json:"timestamp"`
}

// Outbound wraps a payload into the wire envelope.
func Outbound(kind string, payload any) Envelope {
	b, _ := json.Marshal(payload)
	return Envelope{Type: kind, Payload: b}
}
