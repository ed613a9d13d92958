package model

// historyDepth is the number of recent universe hashes kept for cycle detection
const historyDepth = 5

// History tracks recent universe hashes to spot still lifes and short cycles
type History struct {
	hashes []string
}

// UpdateHistory adds the store's current state to history and maintains size
func (h *History) UpdateHistory(s *Store) {
	h.hashes = append(h.hashes, s.Hash())

	if len(h.hashes) > historyDepth {
		h.hashes = h.hashes[1:]
	}
}

// IsStagnant checks if the latest state repeats one of the three before it,
// covering still lifes and period-2 and period-3 oscillators
func (h *History) IsStagnant() bool {
	n := len(h.hashes)
	if n < 3 {
		return false
	}

	current := h.hashes[n-1]
	for back := 2; back <= 4 && back <= n; back++ {
		if h.hashes[n-back] == current {
			return true
		}
	}
	return false
}

// Reset forgets all recorded states
func (h *History) Reset() {
	h.hashes = nil
}
