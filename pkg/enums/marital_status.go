package enums

import (
	"fmt"
	"strings"
)

// MaritalStatus is the normalized marital status stored on a profile.
type MaritalStatus string

const (
	MaritalStatusSingle  MaritalStatus = "single"
	MaritalStatusMarried MaritalStatus = "married"
	MaritalStatusOther   MaritalStatus = "other"
)

var validMaritalStatuses = []MaritalStatus{
	MaritalStatusSingle,
	MaritalStatusMarried,
	MaritalStatusOther,
}

// String implements fmt.Stringer.
func (m MaritalStatus) String() string {
	return string(m)
}

// IsValid reports whether the value matches a known MaritalStatus.
func (m MaritalStatus) IsValid() bool {
	for _, candidate := range validMaritalStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaritalStatus accepts the form values (Single, Married, Other) case-insensitively.
func ParseMaritalStatus(value string) (MaritalStatus, error) {
	normalized := MaritalStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid marital status %q", value)
}
