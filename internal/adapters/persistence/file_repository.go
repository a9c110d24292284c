package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"staffing/internal/domain"
	"staffing/internal/ports"
)

type fileState struct {
	People []domain.Person `json:"people"`
}

// FileRepository keeps the snapshot in memory and persists every replacement
// to a single JSON document.
type FileRepository struct {
	path           string
	mu             sync.RWMutex
	state          fileState
	persistedState fileState
}

var _ ports.SnapshotStore = (*FileRepository)(nil)

func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		path = "./staffing_snapshot.json"
	}

	repo := &FileRepository{
		path:  path,
		state: fileState{People: []domain.Person{}},
	}
	repo.persistedState = cloneFileState(repo.state)

	if err := repo.load(); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *FileRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	content, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r.persistLocked()
		}
		return err
	}

	if len(content) == 0 {
		return nil
	}

	if err := json.Unmarshal(content, &r.state); err != nil {
		return fmt.Errorf("decode repository data: %w", err)
	}
	if r.state.People == nil {
		r.state.People = []domain.Person{}
	}
	r.persistedState = cloneFileState(r.state)
	return nil
}

func (r *FileRepository) persistLocked() error {
	body, err := json.MarshalIndent(r.state, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		r.state = cloneFileState(r.persistedState)
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o600); err != nil {
		_ = os.Remove(tmp)
		r.state = cloneFileState(r.persistedState)
		return err
	}

	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		r.state = cloneFileState(r.persistedState)
		return err
	}
	r.persistedState = cloneFileState(r.state)
	return nil
}

func (r *FileRepository) ListPeople(ctx context.Context, filter ports.PeopleFilter) ([]domain.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterPeople(r.state.People, filter), nil
}

func (r *FileRepository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSnapshot(domain.Snapshot{People: r.state.People}), nil
}

// ReplaceSnapshot swaps the whole snapshot. On a failed write the previous
// state is kept in memory and on disk.
func (r *FileRepository) ReplaceSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = fileState{People: cloneSnapshot(snapshot).People}
	return r.persistLocked()
}

func (r *FileRepository) Close() error {
	return nil
}

func cloneFileState(state fileState) fileState {
	return fileState{People: cloneSnapshot(domain.Snapshot{People: state.People}).People}
}
