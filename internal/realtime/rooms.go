package realtime

import "sync"

// Rooms indexes which connections joined which named broadcast groups.
// Rooms need no explicit creation or deletion: an entry exists exactly while
// it has members. Membership is connection-scoped, so tearing down a
// connection removes it from every room.
type Rooms struct {
	mu     sync.RWMutex
	byRoom map[string]map[*Conn]struct{}
	byConn map[*Conn]map[string]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{
		byRoom: make(map[string]map[*Conn]struct{}),
		byConn: make(map[*Conn]map[string]struct{}),
	}
}

// Join subscribes the connection to the room. Idempotent; reports whether
// the membership is new.
func (r *Rooms) Join(c *Conn, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.byRoom[roomID]
	if members == nil {
		members = make(map[*Conn]struct{})
		r.byRoom[roomID] = members
	}
	if _, ok := members[c]; ok {
		return false
	}
	members[c] = struct{}{}

	joined := r.byConn[c]
	if joined == nil {
		joined = make(map[string]struct{})
		r.byConn[c] = joined
	}
	joined[roomID] = struct{}{}
	return true
}

// Members returns the connections currently subscribed to the room.
func (r *Rooms) Members(roomID string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.byRoom[roomID]
	out := make([]*Conn, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

// JoinedRooms returns the rooms the connection belongs to.
func (r *Rooms) JoinedRooms(c *Conn) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byConn[c]))
	for roomID := range r.byConn[c] {
		out = append(out, roomID)
	}
	return out
}

// LeaveAll removes the connection from every room it joined and returns the
// rooms it left. Empty rooms are dropped from the index.
func (r *Rooms) LeaveAll(c *Conn) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined := r.byConn[c]
	left := make([]string, 0, len(joined))
	for roomID := range joined {
		if members, ok := r.byRoom[roomID]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(r.byRoom, roomID)
			}
		}
		left = append(left, roomID)
	}
	delete(r.byConn, c)
	return left
}

// RoomCount reports how many rooms currently have members.
func (r *Rooms) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byRoom)
}
