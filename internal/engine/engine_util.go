package engine

// NewIdleState is the baseline a room starts in and returns to on reset.
func NewIdleState() State {
	return State{Status: StatusIdle}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
