package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "test-app"
version = "0.1.0"

[run]
main-class = "demo/Main"
classpath = ["classes", "lib/app.kbnd"]
max-call-depth = 64
trace = true

[log]
verbosity = 2
file = "kaffee.log"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "test-app" {
		t.Errorf("project name = %q, want test-app", m.Project.Name)
	}
	if m.Project.Version != "0.1.0" {
		t.Errorf("project version = %q, want 0.1.0", m.Project.Version)
	}
	if m.Run.MainClass != "demo/Main" {
		t.Errorf("main class = %q, want demo/Main", m.Run.MainClass)
	}
	if len(m.Run.Classpath) != 2 {
		t.Errorf("classpath count = %d, want 2", len(m.Run.Classpath))
	}
	if m.Run.MaxCallDepth != 64 {
		t.Errorf("max call depth = %d, want 64", m.Run.MaxCallDepth)
	}
	if !m.Run.Trace {
		t.Error("trace = false, want true")
	}
	if m.Log.Verbosity != 2 {
		t.Errorf("verbosity = %d, want 2", m.Log.Verbosity)
	}
	if p := m.LogFilePath(); p == nil || *p != filepath.Join(m.Dir, "kaffee.log") {
		t.Errorf("log file path = %v", p)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "minimal"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(m.Run.Classpath) != 1 || m.Run.Classpath[0] != "." {
		t.Errorf("default classpath = %v, want [.]", m.Run.Classpath)
	}
	if m.Run.MaxCallDepth != DefaultMaxCallDepth {
		t.Errorf("default max call depth = %d", m.Run.MaxCallDepth)
	}
	if m.LogFilePath() != nil {
		t.Error("default log file should be stderr")
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Error("Load succeeded without a kaffee.toml")
	}

	writeManifest(t, dir, "[run\nmain-class = 1")
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("Load() error = %v, want parse error", err)
	}

	writeManifest(t, dir, "[run]\nmain-klass = \"Main\"\n")
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "run.main-klass") {
		t.Errorf("Load() error = %v, want unknown key", err)
	}
}

func TestFindAndLoad(t *testing.T) {
	// Create nested directory structure
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	writeManifest(t, dir, `[project]
name = "found-project"
`)

	// Should find manifest when starting from a deep subdirectory
	m, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Project.Name != "found-project" {
		t.Errorf("project name = %q, want found-project", m.Project.Name)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no kaffee.toml exists")
	}
}

func TestClasspathPaths(t *testing.T) {
	m := &Manifest{
		Dir: "/app",
		Run: Run{
			Classpath: []string{"classes", "/opt/lib/rt.kbnd"},
		},
	}

	paths := m.ClasspathPaths()
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	if paths[0] != filepath.Join("/app", "classes") {
		t.Errorf("paths[0] = %q, want /app/classes", paths[0])
	}
	if paths[1] != "/opt/lib/rt.kbnd" {
		t.Errorf("paths[1] = %q, want /opt/lib/rt.kbnd", paths[1])
	}
}

func TestDefault(t *testing.T) {
	m := Default()
	if got := m.ClasspathPaths(); len(got) != 1 || got[0] != "." {
		t.Errorf("Default().ClasspathPaths() = %v", got)
	}
	if m.Run.MaxCallDepth != DefaultMaxCallDepth {
		t.Errorf("Default().Run.MaxCallDepth = %d", m.Run.MaxCallDepth)
	}
}
