package app

import (
	"sync"

	"recruitflow/internal/common"
)

// keyring serializes work per application. Steps for one conversation must
// apply in submission order, so a step that arrives while the previous one
// is still persisting is rejected rather than interleaved.
type keyring struct {
	mu   sync.Mutex
	held map[common.UUID]struct{}
}

func newKeyring() *keyring {
	return &keyring{held: make(map[common.UUID]struct{})}
}

func (k *keyring) acquire(id common.UUID) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, busy := k.held[id]; busy {
		return false
	}
	k.held[id] = struct{}{}
	return true
}

func (k *keyring) release(id common.UUID) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.held, id)
}
