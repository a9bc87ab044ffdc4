package store

import (
	"sync"

	"github.com/settled-dev/settled/internal/model"
)

// Registry retains funding transactions by id so later disputes can reference
// them. Ids are unique: the first transaction stored under an id stays
// authoritative.
//
// In the single-consumer pipeline the engine is the only writer; the locking
// exists so sharded consumers can share one registry without lost updates.
type Registry struct {
	mu  sync.RWMutex
	txs map[uint32]model.Transaction
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{txs: make(map[uint32]model.Transaction)}
}

// InsertIfAbsent stores txn under its id unless the id is already taken.
// Returns false without overwriting when the id exists.
func (r *Registry) InsertIfAbsent(txn model.Transaction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[txn.ID]; ok {
		return false
	}
	r.txs[txn.ID] = txn
	return true
}

// Get returns a copy of the transaction stored under id.
func (r *Registry) Get(id uint32) (model.Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	txn, ok := r.txs[id]
	return txn, ok
}

// Update applies mutate to the stored transaction under the registry lock.
// Returns false if the id is unknown.
func (r *Registry) Update(id uint32, mutate func(*model.Transaction)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txs[id]
	if !ok {
		return false
	}
	mutate(&txn)
	r.txs[id] = txn
	return true
}

// Len returns the number of stored transactions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.txs)
}
