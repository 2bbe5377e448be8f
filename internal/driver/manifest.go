package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is an optional swayir.toml found next to (or above) the
// module file. Flags always win over manifest values.
type Manifest struct {
	Path   string
	Root   string
	Config ManifestConfig
}

// ManifestConfig mirrors the TOML layout.
type ManifestConfig struct {
	Opt OptConfig `toml:"opt"`
}

// OptConfig configures the optimizer pipeline.
type OptConfig struct {
	Passes []string `toml:"passes"`
	Jobs   int      `toml:"jobs"`
}

// FindManifest walks up from startDir looking for swayir.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "swayir.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the nearest manifest. The second result
// is false when no manifest exists, which is not an error.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadManifestConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func loadManifestConfig(path string) (ManifestConfig, error) {
	var cfg ManifestConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return ManifestConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for _, p := range cfg.Opt.Passes {
		if p != PassFoldAggregates && p != PassVerify {
			return ManifestConfig{}, fmt.Errorf("%s: unknown pass %q", path, p)
		}
	}
	return cfg, nil
}
