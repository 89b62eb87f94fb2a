package version

import "fmt"

// MalformedVersionError indicates a version string that cannot be parsed
// into an Order. This reflects invalid caller input, never a failed match.
type MalformedVersionError struct {
	Version string
	Reason  string
}

func newMalformedVersionError(version, reason string) *MalformedVersionError {
	return &MalformedVersionError{
		Version: version,
		Reason:  reason,
	}
}

func (e *MalformedVersionError) Error() string {
	return fmt.Sprintf("malformed version string %q: %s", e.Version, e.Reason)
}

// MalformedSpecError indicates a constraint expression that cannot be
// compiled into a matcher.
type MalformedSpecError struct {
	Spec   string
	Reason string
}

// NewMalformedSpecError returns a MalformedSpecError for the given constraint expression.
func NewMalformedSpecError(spec, reason string) *MalformedSpecError {
	return &MalformedSpecError{
		Spec:   spec,
		Reason: reason,
	}
}

func (e *MalformedSpecError) Error() string {
	return fmt.Sprintf("invalid spec %q: %s", e.Spec, e.Reason)
}
