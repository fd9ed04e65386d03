package monitor

import "time"

// Status is a snapshot of the latest probe round.
type Status struct {
	Components map[string]bool `json:"components"`
	LastCheck  time.Time       `json:"last_check"`
}

// Healthy reports whether every probed component is up.
// A status that was never refreshed is not healthy.
func (s Status) Healthy() bool {
	if s.LastCheck.IsZero() {
		return false
	}
	for _, up := range s.Components {
		if !up {
			return false
		}
	}
	return true
}
