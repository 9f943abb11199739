package metadata

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusAvailable   Status = "Available"
	StatusInUse       Status = "In Use"
	StatusDamaged     Status = "Damaged"
	StatusMaintenance Status = "Maintenance"
	StatusRetired     Status = "Retired"
)

// transitions lists the statuses reachable from each status. In Use is only
// entered by an assignment and only left by a return; Retired is terminal.
var transitions = map[Status][]Status{
	StatusAvailable:   {StatusInUse, StatusDamaged, StatusMaintenance, StatusRetired},
	StatusInUse:       {StatusAvailable},
	StatusDamaged:     {StatusAvailable, StatusMaintenance, StatusRetired},
	StatusMaintenance: {StatusAvailable, StatusDamaged, StatusRetired},
	StatusRetired:     {},
}

func NewStatus(value string) (Status, error) {
	trimmed := strings.TrimSpace(value)
	for status := range transitions {
		if strings.EqualFold(string(status), trimmed) {
			return status, nil
		}
	}

	return "", fmt.Errorf(
		"invalid status: %q, only valid values are: %s, %s, %s, %s, %s",
		value, StatusAvailable, StatusInUse, StatusDamaged, StatusMaintenance, StatusRetired,
	)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RequiresHolder reports whether an asset in this status must reference an employee.
func (s Status) RequiresHolder() bool {
	return s == StatusInUse
}

func (s Status) String() string {
	return string(s)
}
