package locations

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileTable serves location lookups from a JSON file mapping business ID to
// location IDs, loaded once at startup.
type FileTable struct {
	entries map[string][]string
}

// NewFileTable loads the table from the given JSON file.
func NewFileTable(path string) (*FileTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}

	entries := make(map[string][]string)

	err = json.Unmarshal(data, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to parse locations file: %w", err)
	}

	return &FileTable{entries: entries}, nil
}

// NewStaticTable builds a table from an in-memory map, mainly for tests.
func NewStaticTable(entries map[string][]string) *FileTable {
	return &FileTable{entries: entries}
}

// Locations returns the location IDs for the business.
func (t *FileTable) Locations(_ context.Context, businessID string) ([]string, error) {
	ids, ok := t.entries[businessID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBusiness, businessID)
	}

	return ids, nil
}
