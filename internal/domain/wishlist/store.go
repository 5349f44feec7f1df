package wishlist

import "sync"

// Store guarda el estado de wishlist por sesión. Toda mutación pasa por
// acá, serializada bajo el mutex (el equivalente a reducers que nunca
// se intercalan).
type Store struct {
	mu        sync.RWMutex
	bySession map[string]State
}

func NewStore() *Store {
	return &Store{bySession: map[string]State{}}
}

func (st *Store) Get(sessionID string) State {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.bySession[sessionID]
	if !ok {
		return emptyState()
	}
	return s
}

// setIf escribe solo si cond() sigue siendo cierta, evaluada bajo el
// lock: el guard de generación y la escritura son atómicos respecto de
// clear().
func (st *Store) setIf(sessionID string, s State, cond func() bool) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if cond != nil && !cond() {
		return false
	}
	st.bySession[sessionID] = s
	return true
}

func (st *Store) clear(sessionID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.bySession, sessionID)
}
