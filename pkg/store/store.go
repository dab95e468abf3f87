package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
)

// ErrNotFound is wrapped by every backend when a run does not exist.
// Check with the standard library's errors.Is or with the RUN_NOT_FOUND code.
var ErrNotFound error = errors.New(errors.ErrCodeRunNotFound, "run not found")

// Run is one finished calibration: the monitors it was run against and the
// results it produced.
type Run struct {
	ID        string             `json:"id" bson:"_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	Monitors  []monitor.Monitor  `json:"monitors" bson:"monitors"`
	Results   []calibrate.Result `json:"results" bson:"results"`
}

// NewRun stamps a finished calibration with a fresh ID and the current time.
func NewRun(ms []monitor.Monitor, results []calibrate.Result) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Monitors:  ms,
		Results:   results,
	}
}

// Summary is the listing view of a run.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	Monitors  int       `json:"monitors" bson:"monitor_count"`
	Pairs     int       `json:"pairs" bson:"pair_count"`
}

// Summary returns the listing view of r.
func (r *Run) Summary() Summary {
	return Summary{ID: r.ID, CreatedAt: r.CreatedAt, Monitors: len(r.Monitors), Pairs: len(r.Results)}
}

// Store persists calibration runs.
//
// List returns summaries newest first. Get and Latest return an error
// wrapping [ErrNotFound] when there is nothing to return.
type Store interface {
	Save(ctx context.Context, r *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	Latest(ctx context.Context) (*Run, error)
	List(ctx context.Context) ([]Summary, error)
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend string `toml:"backend"`
	// Path is the directory of the file backend or the sqlite database file.
	Path string `toml:"path"`

	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Open connects to the backend named in opts. An empty backend name selects
// the file backend in [DefaultDir].
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		dir := opts.Path
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return NewFileStore(dir)
	case BackendSQLite:
		path := opts.Path
		if path == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(d, "runs.db")
		}
		return OpenSQLite(ctx, path)
	case BackendRedis:
		return OpenRedis(ctx, RedisOptions{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	case BackendMongo:
		return OpenMongo(ctx, opts.URI, opts.Database)
	case BackendNone, "null":
		return NewNullStore(), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", opts.Backend)
	}
}

// DefaultDir returns ~/.cache/spancal, the default location for stored runs.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "locate cache directory")
	}
	return filepath.Join(base, "spancal"), nil
}

func notFound(id string) error {
	if id == "" {
		return errors.Wrap(errors.ErrCodeRunNotFound, ErrNotFound, "no stored runs")
	}
	return errors.Wrap(errors.ErrCodeRunNotFound, ErrNotFound, "run %s", id)
}

func checkRun(r *Run) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil run")
	}
	return errors.ValidateRunID(r.ID)
}
