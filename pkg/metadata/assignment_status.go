package metadata

import "fmt"

type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "Active"
	AssignmentReturned AssignmentStatus = "Returned"
)

func NewAssignmentStatus(value string) (AssignmentStatus, error) {
	status := AssignmentStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid assignment status: %s", value)
	}
	return status, nil
}

func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentActive, AssignmentReturned:
		return true
	default:
		return false
	}
}

// IsTerminal is true for Returned; a returned assignment is never reactivated.
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentReturned
}
