package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsaril/Data-Collection-SIS-2/models"
)

// JSONWriter snapshots the final record set to a JSON file. Specifications
// stay a native mapping here; only SQL storage flattens them to a string.
type JSONWriter struct {
	path string
}

// NewJSONWriter creates a JSONWriter targeting path, creating intermediate
// directories as needed.
func NewJSONWriter(path string) (*JSONWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("json: create output dir: %w", err)
	}
	return &JSONWriter{path: path}, nil
}

// Write replaces the snapshot file with the given records.
func (w *JSONWriter) Write(products []models.Product, searchQuery string) error {
	payload := struct {
		SearchQuery string           `json:"search_query"`
		Products    []models.Product `json:"products"`
	}{SearchQuery: searchQuery, Products: products}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", w.path, err)
	}
	return nil
}

// Close is a no-op; the file is written atomically per Write call.
func (w *JSONWriter) Close() error { return nil }
