package fleet

import (
	"encoding/json"
	"strings"
)

// Status is the canonical trip status. Two naming generations coexist on the
// server (SCHEDULED/COMPLETED are the older spellings of TO_DO/DONE), so
// aliases are normalized here, at the JSON boundary, and never leak past it.
type Status string

const (
	StatusToDo       Status = "TO_DO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// NormalizeStatus maps a raw server status, canonical or legacy alias, to its
// canonical form. Unknown values pass through upper-cased so free text still
// round-trips.
func NormalizeStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TO_DO", "SCHEDULED":
		return StatusToDo
	case "IN_PROGRESS":
		return StatusInProgress
	case "DONE", "COMPLETED":
		return StatusDone
	default:
		return Status(strings.ToUpper(strings.TrimSpace(raw)))
	}
}

// ParseStatus is NormalizeStatus restricted to the closed enum.
// ok is false for anything outside the three canonical states.
func ParseStatus(raw string) (Status, bool) {
	s := NormalizeStatus(raw)
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return s, true
	default:
		return s, false
	}
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NormalizeStatus(raw)
	return nil
}

// Phase is the coarse bucket a status falls into, used for grouping and
// display. Every alias of a canonical state lands in the same bucket.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhasePending
	PhaseActive
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Classify buckets the status into pending/active/complete.
func (s Status) Classify() Phase {
	switch NormalizeStatus(string(s)) {
	case StatusToDo:
		return PhasePending
	case StatusInProgress:
		return PhaseActive
	case StatusDone:
		return PhaseComplete
	default:
		return PhaseUnknown
	}
}

// Label returns the human-readable form shown in listings.
func (s Status) Label() string {
	switch s.Classify() {
	case PhasePending:
		return "To Do"
	case PhaseActive:
		return "In Progress"
	case PhaseComplete:
		return "Done"
	default:
		return strings.ReplaceAll(string(s), "_", " ")
	}
}
