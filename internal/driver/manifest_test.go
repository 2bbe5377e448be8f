package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Natalie359738/sway/internal/driver"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "swayir.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, `
[opt]
passes = ["fold-aggregates", "verify"]
jobs = 4
`)

	m, ok, err := driver.LoadManifest(root)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected manifest to be found")
	}
	if m.Path != want {
		t.Errorf("expected path %s, got %s", want, m.Path)
	}
	if m.Root != root {
		t.Errorf("expected root %s, got %s", root, m.Root)
	}
	if m.Config.Opt.Jobs != 4 {
		t.Errorf("expected jobs 4, got %d", m.Config.Opt.Jobs)
	}
	if len(m.Config.Opt.Passes) != 2 || m.Config.Opt.Passes[0] != driver.PassFoldAggregates {
		t.Errorf("expected pass list from manifest, got %v", m.Config.Opt.Passes)
	}
}

func TestLoadManifest_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[opt]\njobs = 2\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	m, ok, err := driver.LoadManifest(nested)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected manifest found from nested dir")
	}
	if m.Root != root {
		t.Errorf("expected root %s, got %s", root, m.Root)
	}
}

func TestLoadManifest_Absent(t *testing.T) {
	_, ok, err := driver.LoadManifest(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error for missing manifest, got %v", err)
	}
	if ok {
		t.Errorf("expected ok=false when no manifest exists")
	}
}

func TestLoadManifest_UnknownPass(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[opt]\npasses = [\"inline\"]\n")

	_, ok, err := driver.LoadManifest(root)
	if !ok {
		t.Fatalf("expected manifest to be found")
	}
	if err == nil {
		t.Errorf("expected unknown pass error")
	}
}
