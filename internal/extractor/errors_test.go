package extractor_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentlens/internal/extractor"
)

func TestNewRateLimitError_Defaults(t *testing.T) {
	err := extractor.NewRateLimitError("openai", errors.New("429"), 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)

	err = extractor.NewRateLimitError("openai", errors.New("429"), 30)
	assert.Equal(t, 30*time.Second, err.RetryAfter)
}

func TestRateLimitError_Unwrap(t *testing.T) {
	inner := errors.New("too many requests")
	err := extractor.NewRateLimitError("claude", inner, 10)

	assert.ErrorIs(t, err, inner)

	var rlErr *extractor.RateLimitError
	require.True(t, errors.As(error(err), &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader("Wed, 21 Oct 2026 07:28:00 GMT"))
	assert.Equal(t, 45, extractor.ParseRetryAfterHeader("45"))
}
