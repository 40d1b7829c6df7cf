package services

import "sync"

// OnlineUser is the public projection of a connected user, as sent to
// clients in presenceUpdate snapshots. SocketID is included so clients can
// match themselves against the online list.
type OnlineUser struct {
	ID       string `json:"id"`
	Alias    string `json:"alias"`
	Gender   string `json:"gender"`
	SocketID string `json:"socketId"`
}

// PresenceEntry is the per-connection presence record. It is process-local
// and rebuilt from scratch when the process restarts; it is the sole source
// of truth for who is online on this instance.
type PresenceEntry struct {
	ConnID     string
	UserID     uint64
	User       OnlineUser
	TenantSlug string
	TenantID   uint64
	RoomIDs    []uint64
}

// PresenceService is the in-memory presence registry. It is owned by the
// sockets gateway and mutated only through this narrow interface.
type PresenceService struct {
	mu      sync.RWMutex
	entries map[string]*PresenceEntry
}

func NewPresenceService() *PresenceService {
	return &PresenceService{
		entries: map[string]*PresenceEntry{},
	}
}

// Set registers (or replaces) the presence entry for a connection.
func (s *PresenceService) Set(connID string, entry *PresenceEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ConnID = connID
	s.entries[connID] = entry
}

// Get returns the presence entry for a connection, or nil if the connection
// has not joined.
func (s *PresenceService) Get(connID string) *PresenceEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[connID]
}

// Remove deletes the entry for a connection and returns it, or nil if no
// entry existed. Callers rebroadcast presence for the tenant when the
// returned entry is non-nil.
func (s *PresenceService) Remove(connID string) *PresenceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[connID]
	if !ok {
		return nil
	}
	delete(s.entries, connID)
	return entry
}

// UpdateRooms writes the resolved tenant id and room list back onto the
// stored entry. It returns false if the connection disconnected while the
// room list was being fetched; callers must not join any rooms in that case.
func (s *PresenceService) UpdateRooms(connID string, tenantID uint64, roomIDs []uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[connID]
	if !ok {
		return false
	}
	entry.TenantID = tenantID
	entry.RoomIDs = roomIDs
	return true
}

// ListByTenant returns a snapshot of every user online in the tenant.
func (s *PresenceService) ListByTenant(tenantSlug string) []*OnlineUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []*OnlineUser{}
	for _, entry := range s.entries {
		if entry.TenantSlug != tenantSlug {
			continue
		}
		user := entry.User
		users = append(users, &user)
	}
	return users
}
