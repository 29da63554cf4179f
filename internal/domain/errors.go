package domain

import "fmt"

// TokenAcquisitionError reports a failed login against the Sankhya API:
// transport failure, timeout, non-success status, or a response missing the
// credential field.
type TokenAcquisitionError struct {
	Status int // HTTP status from the login endpoint, zero on transport errors
	Reason string
	Err    error
}

func (e *TokenAcquisitionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sankhya login failed: %s (status=%d)", e.Reason, e.Status)
	}
	return fmt.Sprintf("sankhya login failed: %s", e.Reason)
}

func (e *TokenAcquisitionError) Unwrap() error {
	return e.Err
}

// UpstreamCallError reports a failed ERP call made after a token was
// obtained. Callers decide whether to propagate it or degrade to a default.
type UpstreamCallError struct {
	Method string
	URL    string
	Status int
	Err    error
}

func (e *UpstreamCallError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sankhya call failed: %s %s (status=%d)", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("sankhya call failed: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *UpstreamCallError) Unwrap() error {
	return e.Err
}
