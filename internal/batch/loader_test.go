package batch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentlens/internal/batch"
)

func writeListingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadListings(t *testing.T) {
	path := writeListingsFile(t, "Cozy 2BR apartment\n$2,500/mo\n\nStudio downtown\nutilities included\n\n\n  \n\nLarge house")

	listings, err := batch.LoadListings(path)
	require.NoError(t, err)

	require.Len(t, listings, 3)
	assert.Equal(t, "Cozy 2BR apartment\n$2,500/mo", listings[0])
	assert.Equal(t, "Studio downtown\nutilities included", listings[1])
	assert.Equal(t, "Large house", listings[2])
}

func TestLoadListings_CRLF(t *testing.T) {
	path := writeListingsFile(t, "first listing\r\n\r\nsecond listing\r\n")

	listings, err := batch.LoadListings(path)
	require.NoError(t, err)

	require.Len(t, listings, 2)
	assert.Equal(t, "first listing", listings[0])
	assert.Equal(t, "second listing", listings[1])
}

func TestLoadListings_EmptyFile(t *testing.T) {
	path := writeListingsFile(t, "")

	listings, err := batch.LoadListings(path)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestLoadListings_MissingFile(t *testing.T) {
	_, err := batch.LoadListings(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
