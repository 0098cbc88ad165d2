package actor

// Fate is returned by a message handler to signal whether the actor
// instance that handled the message should live on or be torn down
// (spec.md §4.4, grounded on original_source's messaging.rs Fate enum).
type Fate int8

const (
	// Live means the actor continues to exist after handling the message.
	Live Fate = iota
	// Die means the actor's slot is reclaimed as soon as the handler that
	// returned it finishes, before the next packet is dispatched.
	Die
)

func (f Fate) String() string {
	switch f {
	case Live:
		return "Live"
	case Die:
		return "Die"
	default:
		return "Fate(?)"
	}
}
