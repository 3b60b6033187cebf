package auth

import "fmt"

// AuthenticationError reports a bearer token that could not be verified:
// malformed, expired, bad signature, wrong audience or wrong issuer. All
// verification failures surface as this one kind with a human-readable cause.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

func authErr(reason string, err error) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Err: err}
}

// AuthorizationError reports a verified identity that lacks every role
// required for the requested operation.
type AuthorizationError struct {
	Required []string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("insufficient role, required one of %v", e.Required)
}
