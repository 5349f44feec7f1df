package wishlist

import "petnest-frontend-core/internal/ports/upstream"

// State es la slice de wishlist de una sesión.
// Invariante: IDs es exactamente la proyección de Items (ids únicos,
// mismo orden). Solo se construye vía newState, nunca a mano.
type State struct {
	Items []upstream.Pet
	IDs   []string
}

func newState(items []upstream.Pet) State {
	out := State{
		Items: make([]upstream.Pet, 0, len(items)),
		IDs:   make([]string, 0, len(items)),
	}
	seen := map[string]struct{}{}
	for _, p := range items {
		if p.ID == "" {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out.Items = append(out.Items, p)
		out.IDs = append(out.IDs, p.ID)
	}
	return out
}

func emptyState() State {
	return State{Items: []upstream.Pet{}, IDs: []string{}}
}

func (s State) Contains(petID string) bool {
	for _, id := range s.IDs {
		if id == petID {
			return true
		}
	}
	return false
}
