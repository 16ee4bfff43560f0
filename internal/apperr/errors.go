// Package apperr classifies failures of the external providers so callers can
// pick between retrying and surfacing the problem to the user.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a provider failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindAuth
	KindRateLimited
	KindUpstream
	KindMalformed
)

// Category sentinels, matched through errors.Is on an *Error.
var (
	ErrNetwork     = errors.New("provider unreachable")
	ErrAuth        = errors.New("provider authentication failed")
	ErrRateLimited = errors.New("provider rate limit exceeded")
	ErrUpstream    = errors.New("provider returned an error")
	ErrMalformed   = errors.New("provider response malformed")
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstream:
		return "upstream"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindAuth:
		return ErrAuth
	case KindRateLimited:
		return ErrRateLimited
	case KindUpstream:
		return ErrUpstream
	case KindMalformed:
		return ErrMalformed
	default:
		return nil
	}
}

// Error is a classified provider failure.
type Error struct {
	Provider   string
	Kind       Kind
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

// New builds a classified error.
func New(provider string, kind Kind, status int, err error) *Error {
	return &Error{Provider: provider, Kind: kind, StatusCode: status, Err: err}
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAuth) and friends match on the kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// KindForStatus maps a non-success HTTP status to a Kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 400:
		return KindUpstream
	default:
		return KindUnknown
	}
}

// KindOf returns the Kind of err, or KindUnknown if err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus picks the status code a handler should answer with for err.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
