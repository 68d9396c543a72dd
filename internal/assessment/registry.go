package assessment

import "sync"

// Registry holds the live orchestrators keyed by session token. Each
// session's state machine is independent; the registry only guards the map.
type Registry struct {
	mu      sync.RWMutex
	single  map[string]*Orchestrator
	batched map[string]*BatchOrchestrator
}

func NewRegistry() *Registry {
	return &Registry{
		single:  make(map[string]*Orchestrator),
		batched: make(map[string]*BatchOrchestrator),
	}
}

func (r *Registry) Get(token string) (*Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.single[token]
	return o, ok
}

func (r *Registry) Put(token string, o *Orchestrator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.single[token] = o
}

func (r *Registry) GetBatch(token string) (*BatchOrchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.batched[token]
	return b, ok
}

func (r *Registry) PutBatch(token string, b *BatchOrchestrator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batched[token] = b
}

func (r *Registry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.single, token)
	delete(r.batched, token)
}
