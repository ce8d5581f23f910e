// Package batch runs the extract-and-validate pipeline over a file of listing
// texts without touching the database.
package batch

import (
	"fmt"
	"os"
	"strings"
)

// LoadListings reads a text file of rental listings separated by blank lines.
// Each block is trimmed; empty blocks are dropped.
func LoadListings(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading listings file: %w", err)
	}

	blocks := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n\n")
	listings := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			listings = append(listings, trimmed)
		}
	}
	return listings, nil
}
