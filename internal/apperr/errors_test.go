package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := New("serpapi", KindAuth, http.StatusUnauthorized, errors.New("Invalid API key"))

	assert.True(t, errors.Is(err, ErrAuth))
	assert.False(t, errors.Is(err, ErrRateLimited))
	assert.Contains(t, err.Error(), "serpapi: auth (status 401)")
}

func TestErrorSurvivesWrapping(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("synthesize: %w", New("azure", KindNetwork, 0, inner))

	require.True(t, errors.Is(err, ErrNetwork))
	require.True(t, errors.Is(err, inner))
	require.Equal(t, KindNetwork, KindOf(err))
	require.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestKindForStatus(t *testing.T) {
	cases := map[int]Kind{
		http.StatusUnauthorized:        KindAuth,
		http.StatusForbidden:           KindAuth,
		http.StatusTooManyRequests:     KindRateLimited,
		http.StatusBadRequest:          KindUpstream,
		http.StatusInternalServerError: KindUpstream,
		http.StatusOK:                  KindUnknown,
	}
	for status, want := range cases {
		assert.Equal(t, want, KindForStatus(status), "status %d", status)
	}
}

func TestHTTPStatusForUnclassified(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(errors.New("boom")))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(New("x", KindRateLimited, 429, errors.New("slow down"))))
}
