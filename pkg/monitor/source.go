package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spancal/pkg/errors"
)

// Source enumerates the monitors attached to the system. Implementations may
// talk to the OS display APIs or read synthetic fixtures; the core only sees
// the resulting records.
type Source interface {
	Monitors(ctx context.Context) ([]Monitor, error)
}

// Format selects the fixture encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath guesses the fixture format from a file extension.
// Unknown extensions are treated as TOML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

type tomlFixture struct {
	Monitors []Monitor `toml:"monitor"`
}

// ReadFixture decodes a monitor fixture from r.
//
// TOML fixtures use one [[monitor]] table per display. JSON fixtures are
// either a bare array of monitors or an object with a "monitors" array.
//
// Monitors are assigned their enumeration index as ID and enriched with
// best-effort physical-size information (see [Enrich]).
func ReadFixture(r io.Reader, format Format) ([]Monitor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var ms []Monitor
	switch format {
	case FormatJSON:
		ms, err = decodeJSONFixture(data)
	case FormatTOML:
		var f tomlFixture
		err = toml.Unmarshal(data, &f)
		ms = f.Monitors
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown fixture format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s fixture", format)
	}

	for i := range ms {
		ms[i].ID = i
		Enrich(&ms[i])
	}
	return ms, nil
}

func decodeJSONFixture(data []byte) ([]Monitor, error) {
	var ms []Monitor
	if err := json.Unmarshal(data, &ms); err == nil {
		return ms, nil
	}
	var wrapped struct {
		Monitors []Monitor `json:"monitors"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Monitors, nil
}

// FileSource reads monitors from a fixture file and applies optional
// physical-size overrides before handing them out.
type FileSource struct {
	Path      string
	Overrides Overrides
}

// Monitors implements [Source].
func (s FileSource) Monitors(ctx context.Context) ([]Monitor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(s.Path); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "monitor fixture %s", s.Path)
		}
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	ms, err := ReadFixture(f, FormatFromPath(s.Path))
	if err != nil {
		return nil, err
	}
	return s.Overrides.Apply(ms), nil
}

// Static is a [Source] over a fixed slice, used by tests and by callers that
// already hold monitor records.
type Static []Monitor

// Monitors implements [Source]. The returned slice is a copy.
func (s Static) Monitors(context.Context) ([]Monitor, error) {
	return append([]Monitor(nil), s...), nil
}
