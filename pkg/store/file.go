package store

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/observability"
)

// FileStore keeps one JSON file per run in a directory.
// Files are sharded by the first two hex digits of the hashed run ID.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes r, replacing any run with the same ID.
func (s *FileStore) Save(ctx context.Context, r *Run) error {
	if err := checkRun(r); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSerialization, err, "encode run %s", r.ID)
	}

	path := s.path(r.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create shard")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write run %s", r.ID)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeStorage, err, "write run %s", r.ID)
	}
	observability.Store().OnStoreSave(ctx, BackendFile, len(data))
	return nil
}

// Get reads the run with the given ID.
func (s *FileStore) Get(ctx context.Context, id string) (*Run, error) {
	if err := errors.ValidateRunID(id); err != nil {
		return nil, err
	}
	r, err := readRun(s.path(id))
	if os.IsNotExist(err) {
		observability.Store().OnStoreMiss(ctx, BackendFile)
		return nil, notFound(id)
	}
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeStorage, err, "read run %s", id)
		}
		return nil, err
	}
	observability.Store().OnStoreHit(ctx, BackendFile)
	return r, nil
}

// Latest returns the most recently created run.
func (s *FileStore) Latest(ctx context.Context) (*Run, error) {
	runs, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		observability.Store().OnStoreMiss(ctx, BackendFile)
		return nil, notFound("")
	}
	observability.Store().OnStoreHit(ctx, BackendFile)
	return runs[0], nil
}

// List returns summaries of all runs, newest first.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	runs, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, len(runs))
	for i, r := range runs {
		out[i] = r.Summary()
	}
	return out, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// all decodes every run in the directory, newest first. Unreadable entries
// are skipped.
func (s *FileStore) all(ctx context.Context) ([]*Run, error) {
	var runs []*Run
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		if r, err := readRun(path); err == nil {
			runs = append(runs, r)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan %s", s.dir)
	}
	sortNewestFirst(runs)
	return runs, nil
}

func (s *FileStore) path(id string) string {
	hash := Hash([]byte(id))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

func readRun(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Run
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode %s", filepath.Base(path))
	}
	return &r, nil
}

func sortNewestFirst(runs []*Run) {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
}

var _ Store = (*FileStore)(nil)
