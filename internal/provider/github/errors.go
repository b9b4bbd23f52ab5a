package github

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument marks caller input rejected before any request is made.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks an account or project the API cannot resolve.
	ErrNotFound = errors.New("not found")
	// ErrUpstream marks a rejected request or an unattributable GraphQL error.
	ErrUpstream = errors.New("github upstream error")
)

// UpstreamError carries the details of a failed GitHub call. It matches
// ErrUpstream with errors.Is.
type UpstreamError struct {
	StatusCode int
	Status     string
	Messages   []string
}

func (e *UpstreamError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("github API error: %s", strings.Join(e.Messages, "; "))
	}
	if e.Status != "" {
		return fmt.Sprintf("github API error: %s", e.Status)
	}
	return fmt.Sprintf("github API error: status %d", e.StatusCode)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
