package intake

import (
	"log/slog"
	"sync"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

// Registry is the process-wide set of live conversations, keyed by contact
// key and shared by every channel. Entries are single-writer resources:
// Begin serializes turns per contact key, so concurrent inbound messages
// for the same caller queue instead of interleaving.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	mu sync.Mutex
	// deleted marks an entry that was removed from the map while a waiter
	// was queued on its lock. Written only by the goroutine holding mu.
	deleted bool
	conv    *models.Conversation
}

// NewRegistry creates an empty conversation registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Begin returns the conversation for the contact key, creating it when the
// key is unseen, and acquires the per-key lock. The returned release func
// must be called when the turn ends. A waiter that wakes up on an entry
// deleted by a terminal transition starts over with a fresh conversation.
func (r *Registry) Begin(contactKey string, channel models.Channel) (*models.Conversation, func()) {
	for {
		r.mu.Lock()
		e, ok := r.entries[contactKey]
		if !ok {
			e = &registryEntry{conv: models.NewConversation(contactKey, channel)}
			r.entries[contactKey] = e
			slog.Debug("Registry created conversation", "contactKey", contactKey, "channel", channel)
		}
		r.mu.Unlock()

		e.mu.Lock()
		if e.deleted {
			e.mu.Unlock()
			continue
		}
		return e.conv, e.mu.Unlock
	}
}

// Delete removes the conversation for the contact key, freeing the identity
// for a future unrelated conversation. The caller must hold the entry via
// Begin; queued waiters for the same key will observe the deletion and
// start a brand-new conversation.
func (r *Registry) Delete(contactKey string) {
	r.mu.Lock()
	if e, ok := r.entries[contactKey]; ok {
		e.deleted = true
		delete(r.entries, contactKey)
		slog.Debug("Registry deleted conversation", "contactKey", contactKey)
	}
	r.mu.Unlock()
}

// Contains reports whether a live conversation exists for the contact key.
func (r *Registry) Contains(contactKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[contactKey]
	return ok
}

// Len returns the number of live conversations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
