package api

import (
	"errors"
	"fmt"
	"strings"
)

// RemoteError is the untranslated failure shape: the service rejected the
// request and no more specific decoding applies. Never retried automatically.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("service returned http %d", e.Status)
	}
	return fmt.Sprintf("service returned http %d: %s", e.Status, body)
}

// AuthError covers invalid credentials and duplicate-account rejections.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

// TenantMismatchError indicates the account exists but is not a member of
// the requested tenant.
type TenantMismatchError struct {
	TenantID string
}

func (e *TenantMismatchError) Error() string {
	return fmt.Sprintf("account has no access to tenant %q", e.TenantID)
}

// InsufficientCreditError is the one recoverable failure: a credit-gated
// operation was rejected. RemediationURL carries the service-supplied top-up
// link verbatim when present; Payload carries the raw response body otherwise.
// Recovery is a user-initiated top-up followed by re-invoking the same
// operation.
type InsufficientCreditError struct {
	RemediationURL string
	Payload        string
}

func (e *InsufficientCreditError) Error() string {
	if e.RemediationURL != "" {
		return "insufficient credits; top up at " + e.RemediationURL
	}
	if strings.TrimSpace(e.Payload) != "" {
		return "insufficient credits: " + strings.TrimSpace(e.Payload)
	}
	return "insufficient credits"
}

// NotFoundError indicates the resource is unknown or not owned by the
// active tenant.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return e.Resource + " not found"
}

// JobCreationError wraps any failure to turn a submission into a job.
type JobCreationError struct {
	Err error
}

func (e *JobCreationError) Error() string {
	if e.Err == nil {
		return "job creation failed"
	}
	return "job creation failed: " + e.Err.Error()
}

func (e *JobCreationError) Unwrap() error { return e.Err }

// AsRemote unwraps err into a RemoteError when one is in the chain.
func AsRemote(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote, true
	}
	return nil, false
}
