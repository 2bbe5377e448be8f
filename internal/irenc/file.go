package irenc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Natalie359738/sway/internal/ir"
	"github.com/Natalie359738/sway/internal/irtype"
)

// Save writes a module file atomically: encode to a temp file in the
// target directory, then rename over the destination.
func Save(path string, m *ir.Module, tys *irtype.Interner) error {
	var buf bytes.Buffer
	if err := Encode(&buf, m, tys); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "tmp-*.swir")
	if err != nil {
		return fmt.Errorf("irenc: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("irenc: write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("irenc: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("irenc: rename %s: %w", tmp, err)
	}
	return nil
}

// Load reads a module file.
func Load(path string) (*ir.Module, *irtype.Interner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("irenc: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
