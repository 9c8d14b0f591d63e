package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `[package]
name = "demo"
entry = "src/main.arrow"

[build]
jobs = 2
cache = false
`)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	cfg := m.Config
	if cfg.Package.Name != "demo" || cfg.Package.Version != "0.1.0" || cfg.Package.Main != "main" {
		t.Fatalf("package = %+v", cfg.Package)
	}
	if cfg.Build.Jobs != 2 || cfg.Build.JobCount() != 2 || cfg.Build.Cache {
		t.Fatalf("build = %+v", cfg.Build)
	}
	if cfg.Build.MaxDiagnostics != 100 || cfg.Trace.Level != "off" || cfg.Trace.Format != "text" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if got, want := m.EntryPath(), filepath.Join(root, "src", "main.arrow"); got != want {
		t.Fatalf("EntryPath = %q, want %q", got, want)
	}
	if got, want := m.CachePath(), filepath.Join(root, ".arrowc", "cache"); got != want {
		t.Fatalf("CachePath = %q, want %q", got, want)
	}
}

func TestLoadMissing(t *testing.T) {
	m, ok, err := Load(t.TempDir())
	if err != nil || ok || m != nil {
		t.Fatalf("Load = %v, %v, %v", m, ok, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"no package", "[build]\njobs = 1\n", "missing [package]"},
		{"no name", "[package]\nversion = \"1.0.0\"\n", "missing [package].name"},
		{"bad version", "[package]\nname = \"x\"\nversion = \"one\"\n", "[package].version"},
		{"bad entry", "[package]\nname = \"x\"\nentry = \"main.ts\"\n", "[package].entry"},
		{"negative jobs", "[package]\nname = \"x\"\n[build]\njobs = -1\n", "[build].jobs"},
		{"bad format", "[package]\nname = \"x\"\n[trace]\nformat = \"xml\"\n", "[trace].format"},
		{"unknown key", "[package]\nname = \"x\"\ncolour = true\n", "unknown key"},
		{"syntax", "[package\n", "failed to parse TOML"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tc.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestListSources(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.arrow", "a/c.arrow", "a/readme.md", ".arrowc/cache/x.arrow"} {
		writeFile(t, filepath.Join(root, p), "")
	}
	got, err := ListSources(root)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	want := []string{filepath.Join(root, "a", "c.arrow"), filepath.Join(root, "b.arrow")}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSnapshot(t *testing.T) {
	root := t.TempDir()
	a, b := filepath.Join(root, "a.arrow"), filepath.Join(root, "b.arrow")
	writeFile(t, a, "function a() {}")
	writeFile(t, b, "function b() {}")
	d1, err := Snapshot([]string{a, b})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	d2, _ := Snapshot([]string{b, a})
	if d1 != d2 {
		t.Fatalf("order changed the digest")
	}
	writeFile(t, b, "function b() { return }")
	if d3, _ := Snapshot([]string{a, b}); d3 == d1 {
		t.Fatalf("edit did not change the digest")
	}
	if _, err := Snapshot([]string{filepath.Join(root, "gone.arrow")}); err == nil {
		t.Fatalf("missing file accepted")
	}
}
