package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshaaa-5/aivy-1/internal/auth"
)

// ------------------------------------------------------------------
// test doubles & helpers
// ------------------------------------------------------------------

type stubVerifier struct {
	identities map[string]auth.Identity
}

func (v stubVerifier) Verify(token string) (auth.Identity, error) {
	id, ok := v.identities[token]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return id, nil
}

type recordingStore struct {
	mu      sync.Mutex
	fail    bool
	online  []uuid.UUID
	offline []uuid.UUID
}

func (s *recordingStore) SetOnline(_ context.Context, userID uuid.UUID, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("store unavailable")
	}
	s.online = append(s.online, userID)
	return nil
}

func (s *recordingStore) SetOffline(_ context.Context, userID uuid.UUID, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("store unavailable")
	}
	s.offline = append(s.offline, userID)
	return nil
}

func (s *recordingStore) offlineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.offline)
}

type testEnv struct {
	hub      *Hub
	srv      *httptest.Server
	verifier stubVerifier
	u1, u2   uuid.UUID
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		hub: NewHub(opts...),
		u1:  uuid.New(),
		u2:  uuid.New(),
	}
	env.verifier = stubVerifier{identities: map[string]auth.Identity{
		"token-u1": {UserID: env.u1, Email: "u1@test.dev"},
		"token-u2": {UserID: env.u2, Email: "u2@test.dev"},
	}}
	env.srv = httptest.NewServer(Handler(env.hub, env.verifier))
	t.Cleanup(func() {
		env.srv.Close()
		env.hub.Close()
	})
	return env
}

func (e *testEnv) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http")
	if token != "" {
		url += "?token=" + token
	}
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func sendRaw(t *testing.T, ws *websocket.Conn, raw string) {
	t.Helper()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(raw)))
}

// waitFor reads frames until one of the wanted kind arrives or the deadline
// passes. Other kinds (e.g. user-online chatter) are skipped.
func waitFor(t *testing.T, ws *websocket.Conn, kind string) Envelope {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	require.NoError(t, ws.SetReadDeadline(deadline))
	for {
		_, data, err := ws.ReadMessage()
		require.NoError(t, err, "waiting for %q", kind)
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		if env.Type == kind {
			_ = ws.SetReadDeadline(time.Time{})
			return env
		}
	}
}

// expectSilence asserts no frame of the given kind arrives within the window.
func expectSilence(t *testing.T, ws *websocket.Conn, kind string, window time.Duration) {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(window)))
	defer ws.SetReadDeadline(time.Time{})
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return // timeout: silence, as expected
		}
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		require.NotEqual(t, kind, env.Type, "unexpected %q frame", kind)
	}
}

func joinRoom(t *testing.T, ws *websocket.Conn, roomID string) {
	t.Helper()
	sendRaw(t, ws, `{"type":"join-room","payload":{"roomId":"`+roomID+`"}}`)
}

// ------------------------------------------------------------------
// connection gate
// ------------------------------------------------------------------

func TestGateRejectsMissingToken(t *testing.T) {
	env := newTestEnv(t)

	url := "ws" + strings.TrimPrefix(env.srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Empty(t, env.hub.Presence().Snapshot(), "rejected attempts must not create presence")
}

func TestGateRejectsInvalidToken(t *testing.T) {
	env := newTestEnv(t)

	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "?token=bogus"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, env.hub.Presence().Snapshot())
}

func TestGateAcceptsBearerHeader(t *testing.T) {
	env := newTestEnv(t)

	url := "ws" + strings.TrimPrefix(env.srv.URL, "http")
	header := http.Header{"Authorization": []string{"Bearer token-u1"}}
	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer ws.Close()

	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

// ------------------------------------------------------------------
// presence lifecycle
// ------------------------------------------------------------------

func TestAdmissionCreatesExactlyOnePresenceEntry(t *testing.T) {
	store := &recordingStore{}
	env := newTestEnv(t, WithStatusStore(store))

	env.dial(t, "token-u1")

	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, env.hub.Presence().Snapshot(), 1)

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.online) == 1 && store.online[0] == env.u1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReconnectReplacesNotDuplicates(t *testing.T) {
	env := newTestEnv(t)

	ws1 := env.dial(t, "token-u1")
	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	ws2 := env.dial(t, "token-u1")

	// Still exactly one entry.
	require.Eventually(t, func() bool {
		return len(env.hub.Presence().Snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Tearing down the stale transport must not clobber the new entry.
	require.NoError(t, ws1.Close())
	time.Sleep(200 * time.Millisecond)
	_, ok := env.hub.Presence().Get(env.u1)
	assert.True(t, ok, "stale teardown removed the replacement entry")

	// Closing the current transport removes it.
	require.NoError(t, ws2.Close())
	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUserOnlineBroadcastReachesOthers(t *testing.T) {
	env := newTestEnv(t)

	ws1 := env.dial(t, "token-u1")
	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	env.dial(t, "token-u2")

	env1 := waitFor(t, ws1, KindUserOnline)
	var payload UserOnlinePayload
	require.NoError(t, json.Unmarshal(env1.Payload, &payload))
	assert.Equal(t, env.u2, payload.UserID)
	assert.False(t, payload.Timestamp.IsZero())
}

// ------------------------------------------------------------------
// room membership & relay
// ------------------------------------------------------------------

func TestJoinRoomAddsMemberAndNotifiesOthersOnly(t *testing.T) {
	env := newTestEnv(t)

	ws1 := env.dial(t, "token-u1")
	ws2 := env.dial(t, "token-u2")

	joinRoom(t, ws1, "g1")
	require.Eventually(t, func() bool {
		return len(env.hub.Rooms().Members("g1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	joinRoom(t, ws2, "g1")

	// The prior member sees the join; the sender does not.
	got := waitFor(t, ws1, KindUserJoinedGroup)
	var payload UserJoinedGroupPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, env.u2, payload.UserID)
	assert.Equal(t, "g1", payload.GroupID)

	expectSilence(t, ws2, KindUserJoinedGroup, 300*time.Millisecond)

	assert.Len(t, env.hub.Rooms().Members("g1"), 2)
}

func TestCollaborationUpdateReachesRoomButNotSender(t *testing.T) {
	env := newTestEnv(t)

	ws1 := env.dial(t, "token-u1")
	ws2 := env.dial(t, "token-u2")

	joinRoom(t, ws1, "g1")
	require.Eventually(t, func() bool {
		return len(env.hub.Rooms().Members("g1")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	joinRoom(t, ws2, "g1")
	waitFor(t, ws1, KindUserJoinedGroup) // u2's join is now processed

	sendRaw(t, ws1, `{"type":"collaboration-update","payload":{"roomId":"g1","type":"note","content":"hello"}}`)

	got := waitFor(t, ws2, KindCollaborationUpdate)
	var payload CollaborationUpdatePayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, env.u1, payload.UserID)
	assert.Equal(t, "note", payload.UpdateType)
	assert.JSONEq(t, `"hello"`, string(payload.Content))
	assert.False(t, payload.Timestamp.IsZero())

	expectSilence(t, ws1, KindCollaborationUpdate, 300*time.Millisecond)
}

func TestPracticeUpdateRelaysToSessionRoom(t *testing.T) {
	env := newTestEnv(t)

	ws1 := env.dial(t, "token-u1")
	ws2 := env.dial(t, "token-u2")

	joinRoom(t, ws1, SessionRoom("s1"))
	require.Eventually(t, func() bool {
		return len(env.hub.Rooms().Members(SessionRoom("s1"))) == 1
	}, 2*time.Second, 10*time.Millisecond)
	joinRoom(t, ws2, SessionRoom("s1"))
	waitFor(t, ws1, KindUserJoinedGroup)

	sendRaw(t, ws1, `{"type":"practice-update","payload":{"sessionId":"s1","progress":40,"accuracy":87.5}}`)

	got := waitFor(t, ws2, KindPracticeUpdate)
	var payload PracticeUpdatePayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, env.u1, payload.UserID)
	assert.Equal(t, 40.0, payload.Progress)
	assert.Equal(t, 87.5, payload.Accuracy)
}

func TestTypingNoticeIsLightweight(t *testing.T) {
	env := newTestEnv(t)

	ws1 := env.dial(t, "token-u1")
	ws2 := env.dial(t, "token-u2")

	joinRoom(t, ws1, "g1")
	require.Eventually(t, func() bool {
		return len(env.hub.Rooms().Members("g1")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	joinRoom(t, ws2, "g1")
	waitFor(t, ws1, KindUserJoinedGroup)

	sendRaw(t, ws2, `{"type":"typing","payload":{"roomId":"g1"}}`)

	got := waitFor(t, ws1, KindUserTyping)
	var payload UserTypingPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, env.u2, payload.UserID)

	expectSilence(t, ws2, KindUserTyping, 300*time.Millisecond)
}

// ------------------------------------------------------------------
// heartbeat
// ------------------------------------------------------------------

func TestHeartbeatAcksOnlySenderAndRefreshesLastSeen(t *testing.T) {
	env := newTestEnv(t)

	ws1 := env.dial(t, "token-u1")
	ws2 := env.dial(t, "token-u2")

	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	before, _ := env.hub.Presence().Get(env.u1)

	time.Sleep(10 * time.Millisecond)
	sendRaw(t, ws1, `{"type":"heartbeat"}`)

	got := waitFor(t, ws1, KindHeartbeatAck)
	var ack HeartbeatAckPayload
	require.NoError(t, json.Unmarshal(got.Payload, &ack))
	assert.False(t, ack.Timestamp.IsZero())

	after, _ := env.hub.Presence().Get(env.u1)
	assert.True(t, after.LastSeenAt.After(before.LastSeenAt), "lastSeenAt must strictly increase")

	expectSilence(t, ws2, KindHeartbeatAck, 300*time.Millisecond)
}

// ------------------------------------------------------------------
// disconnect
// ------------------------------------------------------------------

func TestDisconnectCleansUpAndBroadcastsOffline(t *testing.T) {
	store := &recordingStore{}
	env := newTestEnv(t, WithStatusStore(store))

	ws1 := env.dial(t, "token-u1")
	ws2 := env.dial(t, "token-u2")

	joinRoom(t, ws1, "g1")
	require.Eventually(t, func() bool {
		return len(env.hub.Rooms().Members("g1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ws1.Close())

	got := waitFor(t, ws2, KindUserOffline)
	var payload UserOfflinePayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, env.u1, payload.UserID)

	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return !ok && len(env.hub.Rooms().Members("g1")) == 0
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool { return store.offlineCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestDisconnectWithoutJoinsStillBroadcastsOffline(t *testing.T) {
	env := newTestEnv(t)

	ws1 := env.dial(t, "token-u1")
	ws2 := env.dial(t, "token-u2")
	require.Eventually(t, func() bool {
		return len(env.hub.Presence().Snapshot()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ws1.Close())

	got := waitFor(t, ws2, KindUserOffline)
	var payload UserOfflinePayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, env.u1, payload.UserID)

	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

// ------------------------------------------------------------------
// error handling
// ------------------------------------------------------------------

func TestMalformedEventIsDroppedConnectionStaysOpen(t *testing.T) {
	env := newTestEnv(t)

	ws1 := env.dial(t, "token-u1")
	ws2 := env.dial(t, "token-u2")

	joinRoom(t, ws1, "g1")
	require.Eventually(t, func() bool {
		return len(env.hub.Rooms().Members("g1")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	joinRoom(t, ws2, "g1")
	waitFor(t, ws1, KindUserJoinedGroup)

	// Missing roomId: dropped, no broadcast.
	sendRaw(t, ws1, `{"type":"collaboration-update","payload":{"type":"note","content":"hello"}}`)
	expectSilence(t, ws2, KindCollaborationUpdate, 300*time.Millisecond)

	// The same connection still works afterwards.
	sendRaw(t, ws1, `{"type":"heartbeat"}`)
	waitFor(t, ws1, KindHeartbeatAck)
}

func TestStatusPersistFailureIsInvisibleToClients(t *testing.T) {
	store := &recordingStore{fail: true}
	env := newTestEnv(t, WithStatusStore(store))

	ws1 := env.dial(t, "token-u1")

	sendRaw(t, ws1, `{"type":"heartbeat"}`)
	waitFor(t, ws1, KindHeartbeatAck)

	require.NoError(t, ws1.Close())
	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

// ------------------------------------------------------------------
// idle eviction (opt-in)
// ------------------------------------------------------------------

func TestIdleEvictionWhenOptedIn(t *testing.T) {
	env := newTestEnv(t, WithIdleTimeout(300*time.Millisecond))

	env.dial(t, "token-u1")
	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	// No heartbeats: the reaper should evict once lastSeen falls behind.
	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return !ok
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNoEvictionByDefault(t *testing.T) {
	env := newTestEnv(t)

	env.dial(t, "token-u1")
	require.Eventually(t, func() bool {
		_, ok := env.hub.Presence().Get(env.u1)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	// Stay silent well past any plausible timeout: still registered.
	time.Sleep(500 * time.Millisecond)
	_, ok := env.hub.Presence().Get(env.u1)
	assert.True(t, ok, "a silent connection must stay registered until transport teardown")
}
