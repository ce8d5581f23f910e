package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentlens/internal/config"
	"rentlens/internal/extractor"
	"rentlens/internal/port"
	"rentlens/mocks"
)

func TestNewExtractor_RegisteredProvider(t *testing.T) {
	stub := new(mocks.MockListingExtractor)
	extractor.RegisterProvider("stub", func(cfg *config.ExtractorProviderConfig) (port.ListingExtractor, error) {
		return stub, nil
	})

	e, err := extractor.NewExtractor(&config.ExtractorProviderConfig{Provider: "stub"})
	require.NoError(t, err)
	assert.Same(t, stub, e)
}

func TestNewExtractor_UnknownProvider(t *testing.T) {
	_, err := extractor.NewExtractor(&config.ExtractorProviderConfig{Provider: "gemini-nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extractor provider")
}
