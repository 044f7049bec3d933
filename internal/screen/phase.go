// Package screen holds the controller logic shared by every screen: the
// lifecycle state machine, the stale-response guard, parallel loading,
// in-memory collection patching and the notice/error taxonomy.
package screen

// Phase is a screen's lifecycle state.
type Phase int

const (
	Loading Phase = iota
	Ready
	NotFound
	Denied
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case NotFound:
		return "not found"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Event drives Phase transitions.
type Event int

const (
	// Loaded means every read of a load settled successfully.
	Loaded Event = iota
	// LoadFailed means at least one read of a load failed.
	LoadFailed
	// Mutated means a create/update/delete response arrived, success or not.
	Mutated
	// Rejected means the role gate denied the viewer.
	Rejected
)

// Next is the single transition function. NotFound and Denied are
// terminal. A failed refresh on a ready screen keeps it ready; a failed
// initial load leaves it not found.
func (p Phase) Next(e Event) Phase {
	if p == NotFound || p == Denied {
		return p
	}
	switch e {
	case Rejected:
		return Denied
	case Loaded:
		return Ready
	case LoadFailed:
		if p == Loading {
			return NotFound
		}
		return p
	case Mutated:
		return p
	}
	return p
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool { return p == NotFound || p == Denied }
