package model

// Status tracks an item through its lifecycle.
type Status string

// Item statuses.
const (
	StatusSearching Status = "searching"
	StatusMatched   Status = "matched"
	StatusClaimed   Status = "claimed"
	StatusResolved  Status = "resolved"
)

// transitions lists the statuses reachable from each status.
// Resolved is terminal.
var transitions = map[Status][]Status{
	StatusSearching: {StatusMatched, StatusClaimed},
	StatusMatched:   {StatusSearching, StatusClaimed},
	StatusClaimed:   {StatusSearching, StatusResolved},
	StatusResolved:  nil,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether an item in status s may move to next.
// Staying in the same status is always allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// PredecessorsOf returns every status from which next can be reached,
// including next itself.
func PredecessorsOf(next Status) []Status {
	var from []Status
	for _, s := range []Status{StatusSearching, StatusMatched, StatusClaimed, StatusResolved} {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}
