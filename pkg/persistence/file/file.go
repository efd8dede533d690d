// Package file provides a file system backed persistence implementation for
// generation runs. Each run is one JSON document under <root>/runs/.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/persistence"
)

const dirMode = 0o755
const fileMode = 0o644

// Persistence implements persistence.Persistence using the file system.
type Persistence struct {
	root string
}

// NewPersistence creates a file persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (fp *Persistence) runsDir() string {
	return filepath.Join(fp.root, "runs")
}

func (fp *Persistence) runPath(id string) string {
	return filepath.Join(fp.runsDir(), id+".json")
}

func (fp *Persistence) SaveRun(_ context.Context, run *models.GenerationRun) error {
	err := os.MkdirAll(fp.runsDir(), dirMode)
	if err != nil {
		return &persistence.RunError{Op: "SaveRun", RunID: run.ID, Err: err}
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return &persistence.RunError{Op: "SaveRun", RunID: run.ID, Err: err}
	}

	err = os.WriteFile(fp.runPath(run.ID), data, fileMode)
	if err != nil {
		return &persistence.RunError{Op: "SaveRun", RunID: run.ID, Err: err}
	}

	return nil
}

func (fp *Persistence) RunByID(_ context.Context, id string) (*models.GenerationRun, error) {
	data, err := os.ReadFile(fp.runPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: persistence.ErrRunNotFound}
		}

		return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: err}
	}

	var run models.GenerationRun

	err = json.Unmarshal(data, &run)
	if err != nil {
		return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: err}
	}

	return &run, nil
}

func (fp *Persistence) Runs(ctx context.Context) ([]*models.GenerationRun, error) {
	root := os.DirFS(fp.runsDir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, &persistence.RunError{Op: "Runs", Err: err}
	}

	runs := make([]*models.GenerationRun, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := file[:len(file)-len(".json")]

		run, err := fp.RunByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load run %s: %w", id, err)
		}

		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	return runs, nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. There is nothing to clean up for
// file persistence.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}
