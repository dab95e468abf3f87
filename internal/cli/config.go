package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/store"
)

const defaultServerAddr = ":8080"

// Config is the on-disk configuration, read from config.toml:
//
//	monitors = "monitors.toml"
//	overrides = "overrides.toml"
//
//	[store]
//	backend = "sqlite"
//	path = "runs.db"
//
//	[server]
//	addr = ":8080"
//
// Relative paths are resolved against the directory of the config file.
type Config struct {
	Monitors  string        `toml:"monitors"`
	Overrides string        `toml:"overrides"`
	Store     store.Options `toml:"store"`
	Server    ServerConfig  `toml:"server"`
}

// ServerConfig configures spancal serve.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

func defaultConfig() Config {
	return Config{
		Store:  store.Options{Backend: store.BackendFile},
		Server: ServerConfig{Addr: defaultServerAddr},
	}
}

// configDir returns the config directory using XDG standard (~/.config/spancal/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// readConfig loads path on top of the defaults. A missing file yields the
// defaults unless required is set.
func readConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if required {
			return cfg, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown key %q", path, undecoded[0].String())
	}

	base := filepath.Dir(path)
	cfg.Monitors = resolvePath(base, cfg.Monitors)
	cfg.Overrides = resolvePath(base, cfg.Overrides)
	switch cfg.Store.Backend {
	case "", store.BackendFile, store.BackendSQLite:
		cfg.Store.Path = resolvePath(base, cfg.Store.Path)
	}
	return cfg, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
