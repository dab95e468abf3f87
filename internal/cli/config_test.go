package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/store"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
monitors = "monitors.toml"
overrides = "/etc/spancal/overrides.toml"

[store]
backend = "sqlite"
path = "data/runs.db"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := readConfig(path, true)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if want := filepath.Join(dir, "monitors.toml"); cfg.Monitors != want {
		t.Errorf("Monitors = %q, want %q", cfg.Monitors, want)
	}
	if cfg.Overrides != "/etc/spancal/overrides.toml" {
		t.Errorf("Overrides = %q, want absolute path unchanged", cfg.Overrides)
	}
	if want := filepath.Join(dir, "data", "runs.db"); cfg.Store.Path != want || cfg.Store.Backend != store.BackendSQLite {
		t.Errorf("Store = %+v, want sqlite at %s", cfg.Store, want)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q, want 127.0.0.1:9000", cfg.Server.Addr)
	}
}

func TestReadConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := readConfig(filepath.Join(dir, "missing.toml"), false)
	if err != nil {
		t.Fatalf("readConfig of missing optional file: %v", err)
	}
	if cfg != defaultConfig() {
		t.Errorf("config = %+v, want defaults", cfg)
	}

	partial := writeFile(t, dir, "partial.toml", `monitors = "m.json"`)
	cfg, err = readConfig(partial, true)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.Server.Addr != defaultServerAddr || cfg.Store.Backend != store.BackendFile {
		t.Errorf("unset sections should keep defaults, got %+v", cfg)
	}
}

func TestReadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		path     string
		required bool
		want     errors.Code
	}{
		{"required but missing", filepath.Join(dir, "none.toml"), true, errors.ErrCodeNotFound},
		{"bad syntax", writeFile(t, dir, "bad.toml", "monitors = "), true, errors.ErrCodeInvalidFormat},
		{"unknown key", writeFile(t, dir, "typo.toml", "[store]\nbackedn = \"redis\"\n"), true, errors.ErrCodeInvalidFormat},
		{"empty path", "", false, errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readConfig(tt.path, tt.required)
			if !errors.Is(err, tt.want) {
				t.Errorf("readConfig() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, appName), "config.toml", "monitors = \"from-config.toml\"\n[store]\nbackend = \"sqlite\"\n")

	c := New(io.Discard, LogInfo)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Store.Backend != store.BackendSQLite || filepath.Base(cfg.Monitors) != "from-config.toml" {
		t.Errorf("config from XDG dir not applied: %+v", cfg)
	}

	c.monitorsPath = "flag.json"
	c.storeBackend = store.BackendNone
	cfg, err = c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Monitors != "flag.json" || cfg.Store.Backend != store.BackendNone {
		t.Errorf("flags did not override config: %+v", cfg)
	}
}
