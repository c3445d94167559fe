package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type registryImpl struct {
	mu      sync.RWMutex
	entries map[string]Conn
}

func NewRegistry() Registry {
	return &registryImpl{
		entries: make(map[string]Conn),
	}
}

func (r *registryImpl) Connect(username string, conn Conn) {
	r.mu.Lock()
	previous, replaced := r.entries[username]
	r.entries[username] = conn
	r.mu.Unlock()

	if replaced && previous != conn {
		// The old handle is dead weight once replaced; closing it
		// unblocks its reader so the transport can clean up.
		if err := previous.Close(); err != nil {
			log.Debug().Err(err).Str("username", username).Msg("failed to close replaced connection")
		}
	}

	log.Info().Str("username", username).Msg("presence registered")
}

func (r *registryImpl) Disconnect(username string, conn Conn) {
	r.mu.Lock()
	current, ok := r.entries[username]
	if ok && current == conn {
		delete(r.entries, username)
	}
	r.mu.Unlock()

	if ok && current == conn {
		log.Info().Str("username", username).Msg("presence removed")
	}
}

func (r *registryImpl) Get(username string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.entries[username]

	return conn, ok
}

func (r *registryImpl) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
