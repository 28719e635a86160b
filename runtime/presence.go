package runtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"affinity-engine/contract"
	"affinity-engine/domain/event"
)

const presenceEvent = "presence"

type presenceEntry struct {
	UserID string `json:"userId"`
}

// PresenceTracker maintains the set of currently online users, fed by
// pushed events on the shared signaling channel. It is observational:
// nothing in the engine gates on it.
type PresenceTracker struct {
	mu     sync.RWMutex
	log    *slog.Logger
	events chan<- event.DomainEvent
	online map[string]struct{}
	off    func()
}

func NewPresenceTracker(log *slog.Logger, events chan<- event.DomainEvent) *PresenceTracker {
	return &PresenceTracker{
		log:    log,
		events: events,
		online: make(map[string]struct{}),
	}
}

// Attach subscribes to presence pushes. The subscription is scoped to
// the session; Detach must be called when it ends.
func (p *PresenceTracker) Attach(channel contract.ISignalChannel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.off = channel.On(presenceEvent, p.handlePresence)
}

func (p *PresenceTracker) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.off != nil {
		p.off()
		p.off = nil
	}
}

func (p *PresenceTracker) handlePresence(payload []byte) {
	var entries []presenceEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		p.log.Warn("Discarding malformed presence push", "error", err)
		return
	}

	online := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.UserID == "" {
			continue
		}
		online[entry.UserID] = struct{}{}
		ids = append(ids, entry.UserID)
	}

	p.mu.Lock()
	p.online = online
	p.mu.Unlock()

	if p.events != nil {
		select {
		case p.events <- event.PresenceChanged{Online: ids}:
		default:
			p.log.Debug("Event channel full, dropping presence change")
		}
	}
}

// IsOnline reports whether the user is currently known to be online.
func (p *PresenceTracker) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.online[userID]
	return ok
}
