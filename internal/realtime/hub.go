package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harshaaa-5/aivy-1/pkg/log"
)

// UserStatusStore persists online/offline transitions outside the process.
// Calls are fire-and-forget: the hub never blocks on them and never retries.
type UserStatusStore interface {
	SetOnline(ctx context.Context, userID uuid.UUID, at time.Time) error
	SetOffline(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// Hub owns the presence registry and the room index, admits connections,
// and relays typed events between them. All shared state is reached through
// the hub; nothing in this package is a package-level global.
type Hub struct {
	presence *Presence
	rooms    *Rooms

	store       UserStatusStore // optional
	idleTimeout time.Duration   // 0 = never evict (the default)

	mu    sync.Mutex
	conns map[uuid.UUID]*Conn // current connection per identity
	all   map[*Conn]struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

type Option func(*Hub)

// WithStatusStore enables best-effort persistence of online/offline status.
func WithStatusStore(s UserStatusStore) Option {
	return func(h *Hub) { h.store = s }
}

// WithIdleTimeout opts in to server-side eviction of connections whose
// lastSeenAt is older than d. Off by default: a silent connection stays
// registered until its transport tears down.
func WithIdleTimeout(d time.Duration) Option {
	return func(h *Hub) { h.idleTimeout = d }
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		presence: NewPresence(),
		rooms:    NewRooms(),
		conns:    make(map[uuid.UUID]*Conn),
		all:      make(map[*Conn]struct{}),
		stop:     make(chan struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	if h.idleTimeout > 0 {
		go h.reap()
	}
	return h
}

// Close stops background work. Open connections are left to their transports.
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Presence exposes the registry for diagnostics endpoints.
func (h *Hub) Presence() *Presence { return h.presence }

// Rooms exposes the room index, primarily for tests and diagnostics.
func (h *Hub) Rooms() *Rooms { return h.rooms }

// ------------------------------------------------------------------
// Connection lifecycle
// ------------------------------------------------------------------

func (h *Hub) register(c *Conn) {
	userID := c.identity.UserID

	h.mu.Lock()
	h.all[c] = struct{}{}
	h.conns[userID] = c // a reconnect replaces the prior owner
	h.mu.Unlock()

	h.presence.Register(userID)
	connectionsGauge.Inc()

	log.Logger.Info().Str("user_id", userID.String()).Msg("realtime connection admitted")

	// Everyone else learns the user came online.
	h.broadcastAll(c, Outbound(KindUserOnline, UserOnlinePayload{
		UserID:    userID,
		Timestamp: time.Now(),
	}))
	h.persistStatus(userID, true)
}

// disconnect runs on transport teardown for any reason. Room membership and
// presence go synchronously; the status write is fire-and-forget.
func (h *Hub) disconnect(c *Conn) {
	userID := c.identity.UserID

	h.mu.Lock()
	if _, ok := h.all[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.all, c)
	// A stale connection (replaced by a reconnect) must not clobber the
	// newer registration.
	owner := h.conns[userID] == c
	if owner {
		delete(h.conns, userID)
	}
	h.mu.Unlock()

	h.rooms.LeaveAll(c)
	connectionsGauge.Dec()

	if !owner {
		log.Logger.Debug().Str("user_id", userID.String()).Msg("stale realtime connection torn down")
		return
	}

	h.presence.Remove(userID)
	log.Logger.Info().Str("user_id", userID.String()).Msg("realtime connection closed")

	h.broadcastAll(nil, Outbound(KindUserOffline, UserOfflinePayload{
		UserID:    userID,
		Timestamp: time.Now(),
	}))
	h.persistStatus(userID, false)
}

// ------------------------------------------------------------------
// Event relay
// ------------------------------------------------------------------

// Dispatch routes one inbound frame from a connection. Malformed frames are
// logged and dropped; the connection stays open.
func (h *Hub) Dispatch(c *Conn, data []byte) {
	ev, err := DecodeInbound(data)
	if err != nil {
		if errors.Is(err, ErrMalformedEvent) || errors.Is(err, ErrUnknownEvent) {
			malformedEventsTotal.Inc()
			log.Logger.Warn().
				Err(err).
				Str("user_id", c.identity.UserID.String()).
				Msg("dropping malformed realtime event")
			return
		}
		return
	}
	eventsTotal.WithLabelValues(ev.Kind()).Inc()

	now := time.Now()
	sender := c.identity.UserID

	switch ev := ev.(type) {
	case JoinRoom:
		h.rooms.Join(c, ev.RoomID)
		h.broadcastRoom(ev.RoomID, c, Outbound(KindUserJoinedGroup, UserJoinedGroupPayload{
			UserID:    sender,
			GroupID:   ev.RoomID,
			Timestamp: now,
		}))

	case CollaborationUpdate:
		h.broadcastRoom(ev.RoomID, c, Outbound(KindCollaborationUpdate, CollaborationUpdatePayload{
			UserID:     sender,
			UpdateType: ev.UpdateType,
			Content:    ev.Content,
			Timestamp:  now,
		}))

	case PracticeUpdate:
		h.broadcastRoom(SessionRoom(ev.SessionID), c, Outbound(KindPracticeUpdate, PracticeUpdatePayload{
			UserID:    sender,
			Progress:  ev.Progress,
			Accuracy:  ev.Accuracy,
			Timestamp: now,
		}))

	case Typing:
		h.broadcastRoom(ev.RoomID, c, Outbound(KindUserTyping, UserTypingPayload{
			UserID:    sender,
			Timestamp: now,
		}))

	case Heartbeat:
		h.presence.Touch(sender)
		_ = c.Send(Outbound(KindHeartbeatAck, HeartbeatAckPayload{Timestamp: now}))
	}
}

// PublishToRoom lets server-side components (e.g. the group-chat service)
// fan an outbound event to a room without a triggering connection.
func (h *Hub) PublishToRoom(roomID string, env Envelope) {
	h.broadcastRoom(roomID, nil, env)
}

// broadcastRoom fans out to the room's members, excluding the sender.
// Send-and-forget: delivery failures are swallowed.
func (h *Hub) broadcastRoom(roomID string, exclude *Conn, env Envelope) {
	for _, m := range h.rooms.Members(roomID) {
		if m == exclude {
			continue
		}
		_ = m.Send(env)
	}
}

// broadcastAll fans out to every admitted connection except the excluded one.
func (h *Hub) broadcastAll(exclude *Conn, env Envelope) {
	h.mu.Lock()
	targets := make([]*Conn, 0, len(h.all))
	for c := range h.all {
		if c == exclude {
			continue
		}
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		_ = c.Send(env)
	}
}

// ------------------------------------------------------------------
// Background work
// ------------------------------------------------------------------

func (h *Hub) persistStatus(userID uuid.UUID, online bool) {
	if h.store == nil {
		return
	}
	at := time.Now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var err error
		if online {
			err = h.store.SetOnline(ctx, userID, at)
		} else {
			err = h.store.SetOffline(ctx, userID, at)
		}
		if err != nil {
			// The connection is already gone; there is no retry channel.
			statusPersistFailuresTotal.Inc()
			log.Logger.Error().
				Err(err).
				Str("user_id", userID.String()).
				Bool("online", online).
				Msg("online-status persist failed")
		}
	}()
}

// reap closes connections whose lastSeenAt fell behind the idle timeout.
// Runs only when WithIdleTimeout was given.
func (h *Hub) reap() {
	interval := h.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-tick.C:
			cutoff := time.Now().Add(-h.idleTimeout)
			for userID, e := range h.presence.Snapshot() {
				if e.LastSeenAt.After(cutoff) {
					continue
				}
				h.mu.Lock()
				c := h.conns[userID]
				h.mu.Unlock()
				if c != nil {
					log.Logger.Info().Str("user_id", userID.String()).Msg("evicting idle realtime connection")
					c.Close()
				}
			}
		}
	}
}
