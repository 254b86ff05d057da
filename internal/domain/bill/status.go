package bill

// Status is the workflow state of a bill
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// Statuses lists the known status codes in workflow order
func Statuses() []Status {
	return []Status{StatusPending, StatusAccepted, StatusRefused}
}

// IsValid checks if the status is one of the known codes
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}
