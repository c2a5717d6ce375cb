package enums

import "fmt"

// RegistrationStatus tracks how far an account has progressed through sign-up.
type RegistrationStatus string

const (
	// RegistrationStatusPendingProfile marks an account created by step one that
	// has not completed its profile yet. Such accounts cannot log in.
	RegistrationStatusPendingProfile RegistrationStatus = "pending_profile"
	RegistrationStatusActive         RegistrationStatus = "active"
)

var validRegistrationStatuses = []RegistrationStatus{
	RegistrationStatusPendingProfile,
	RegistrationStatusActive,
}

// String implements fmt.Stringer.
func (s RegistrationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known RegistrationStatus.
func (s RegistrationStatus) IsValid() bool {
	for _, candidate := range validRegistrationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// pending_profile may be re-entered until it becomes active; active only
// re-enters itself.
func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	switch s {
	case RegistrationStatusPendingProfile:
		return next == RegistrationStatusPendingProfile || next == RegistrationStatusActive
	case RegistrationStatusActive:
		return next == RegistrationStatusActive
	}
	return false
}

// ParseRegistrationStatus converts raw input into a RegistrationStatus.
func ParseRegistrationStatus(value string) (RegistrationStatus, error) {
	for _, candidate := range validRegistrationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid registration status %q", value)
}
