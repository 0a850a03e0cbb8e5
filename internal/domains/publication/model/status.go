package model

// Status represents the editorial lifecycle state of a publication.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusInReview  Status = "IN_REVIEW"
	StatusApproved  Status = "APPROVED"
	StatusPublished Status = "PUBLISHED"
	StatusRejected  Status = "REJECTED"
)

// statusTransitions maps each status to the statuses it may move to.
// PUBLISHED is terminal and deliberately has no outgoing edges.
var statusTransitions = map[Status][]Status{
	StatusDraft:     {StatusInReview, StatusRejected},
	StatusInReview:  {StatusApproved, StatusRejected, StatusDraft},
	StatusApproved:  {StatusPublished},
	StatusPublished: {},
	StatusRejected:  {StatusDraft, StatusInReview},
}

// AllStatuses lists every status in a stable order. Used by the stats
// endpoint so the per-status counts always include zero entries.
var AllStatuses = []Status{
	StatusDraft,
	StatusInReview,
	StatusApproved,
	StatusPublished,
	StatusRejected,
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusApproved, StatusPublished, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition can ever leave this status.
func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0 && s.IsValid()
}

// ParseStatus converts a raw string to a Status, rejecting unknown values.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, s.IsValid()
}

// CanTransition reports whether the lifecycle graph has an edge from
// one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the outgoing edges for a status.
func AllowedTransitions(from Status) []Status {
	edges := statusTransitions[from]
	out := make([]Status, len(edges))
	copy(out, edges)
	return out
}
