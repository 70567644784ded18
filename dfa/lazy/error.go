package lazy

import "fmt"

// ErrorKind classifies DFA errors
type ErrorKind uint8

const (
	// InvalidConfig indicates configuration validation failed
	InvalidConfig ErrorKind = iota

	// Internal indicates a broken invariant (a bug, not a user error)
	Internal
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case InvalidConfig:
		return "InvalidConfig"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// ErrInvalidConfig is the sentinel for configuration validation failures.
// Use errors.Is against it; the concrete error carries the offending field.
var ErrInvalidConfig = &DFAError{Kind: InvalidConfig, Message: "invalid DFA configuration"}

// DFAError is a kinded DFA error.
type DFAError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface
func (e *DFAError) Error() string {
	return fmt.Sprintf("lazy dfa: %s: %s", e.Kind, e.Message)
}

// Is matches any DFAError of the same kind, so sentinels work with
// errors.Is regardless of the message.
func (e *DFAError) Is(target error) bool {
	t, ok := target.(*DFAError)
	return ok && t.Kind == e.Kind
}
