package domain

// Status is a stage in the sample lifecycle.
type Status string

// Sample statuses.
const (
	StatusReceived    Status = "received"
	StatusInAnalysis  Status = "in_analysis"
	StatusFinalized   Status = "finalized"
	StatusInQuotation Status = "in_quotation"
	StatusRejected    Status = "rejected"
	StatusAccepted    Status = "accepted"
)

// allowedTransitions lists, per status, the statuses it may move to.
// Statuses without entries are terminal.
var allowedTransitions = map[Status][]Status{
	StatusReceived:    {StatusInAnalysis, StatusInQuotation, StatusRejected, StatusAccepted},
	StatusInAnalysis:  {StatusFinalized, StatusInQuotation, StatusRejected, StatusAccepted},
	StatusInQuotation: {StatusAccepted, StatusRejected},
	StatusAccepted:    {StatusInAnalysis},
	StatusFinalized:   nil,
	StatusRejected:    nil,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.Valid() && len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether the table allows moving from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ParseStatus converts a raw value into a Status.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
