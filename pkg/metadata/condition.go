package metadata

import (
	"fmt"
	"strings"
)

type Condition string

const (
	ConditionNew  Condition = "New"
	ConditionGood Condition = "Good"
	ConditionFair Condition = "Fair"
	ConditionPoor Condition = "Poor"
)

func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	default:
		return false
	}
}

// NewCondition falls back to Good for an empty value.
func NewCondition(value string) (Condition, error) {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return ConditionGood, nil
	}

	for _, c := range []Condition{ConditionNew, ConditionGood, ConditionFair, ConditionPoor} {
		if strings.EqualFold(string(c), normalized) {
			return c, nil
		}
	}

	return "", fmt.Errorf(
		"value not valid, only valid values are: %s, %s, %s, %s",
		ConditionNew, ConditionGood, ConditionFair, ConditionPoor,
	)
}

func (c Condition) String() string {
	return string(c)
}
