package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInboundJoinRoom(t *testing.T) {
	ev, err := DecodeInbound([]byte(`{"type":"join-room","payload":{"roomId":"g1"}}`))
	require.NoError(t, err)
	join, ok := ev.(JoinRoom)
	require.True(t, ok)
	assert.Equal(t, "g1", join.RoomID)
	assert.Equal(t, KindJoinRoom, ev.Kind())
}

func TestDecodeInboundCollaborationUpdate(t *testing.T) {
	raw := `{"type":"collaboration-update","payload":{"roomId":"g1","type":"note","content":{"text":"hello"}}}`
	ev, err := DecodeInbound([]byte(raw))
	require.NoError(t, err)
	upd, ok := ev.(CollaborationUpdate)
	require.True(t, ok)
	assert.Equal(t, "g1", upd.RoomID)
	assert.Equal(t, "note", upd.UpdateType)
	assert.JSONEq(t, `{"text":"hello"}`, string(upd.Content))
}

func TestDecodeInboundPracticeUpdate(t *testing.T) {
	raw := `{"type":"practice-update","payload":{"sessionId":"s1","progress":40,"accuracy":87.5}}`
	ev, err := DecodeInbound([]byte(raw))
	require.NoError(t, err)
	upd := ev.(PracticeUpdate)
	assert.Equal(t, "s1", upd.SessionID)
	assert.Equal(t, 40.0, upd.Progress)
	assert.Equal(t, 87.5, upd.Accuracy)
}

func TestDecodeInboundHeartbeatNeedsNoPayload(t *testing.T) {
	ev, err := DecodeInbound([]byte(`{"type":"heartbeat"}`))
	require.NoError(t, err)
	assert.IsType(t, Heartbeat{}, ev)
}

func TestDecodeInboundMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":                      `{{{`,
		"join-room without roomId":      `{"type":"join-room","payload":{}}`,
		"collaboration without roomId":  `{"type":"collaboration-update","payload":{"type":"note"}}`,
		"collaboration without type":    `{"type":"collaboration-update","payload":{"roomId":"g1"}}`,
		"practice without sessionId":    `{"type":"practice-update","payload":{"progress":10}}`,
		"typing without roomId":         `{"type":"typing","payload":{}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeInbound([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformedEvent)
		})
	}
}

func TestDecodeInboundUnknownKind(t *testing.T) {
	_, err := DecodeInbound([]byte(`{"type":"teleport","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestOutboundEnvelopeShape(t *testing.T) {
	env := Outbound(KindHeartbeatAck, map[string]string{"x": "y"})
	b, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"heartbeat-ack","payload":{"x":"y"}}`, string(b))
}

func TestRoomNaming(t *testing.T) {
	assert.Equal(t, "session:abc", SessionRoom("abc"))
}
