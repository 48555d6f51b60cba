// Package manifest handles kaffee.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the project configuration file.
const FileName = "kaffee.toml"

// DefaultMaxCallDepth is used when run.max-call-depth is unset.
const DefaultMaxCallDepth = 1024

// Manifest represents a kaffee.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Run     Run     `toml:"run"`
	Log     Log     `toml:"log"`

	// Dir is the directory containing the kaffee.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Run configures how the interpreter starts.
type Run struct {
	MainClass    string   `toml:"main-class"`
	Classpath    []string `toml:"classpath"`
	MaxCallDepth int      `toml:"max-call-depth"`
	Trace        bool     `toml:"trace"`
}

// Log configures logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no kaffee.toml exists.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if len(m.Run.Classpath) == 0 {
		m.Run.Classpath = []string{"."}
	}
	if m.Run.MaxCallDepth <= 0 {
		m.Run.MaxCallDepth = DefaultMaxCallDepth
	}
}

// Load parses a kaffee.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

// FindAndLoad walks up from startDir to find a kaffee.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// ClasspathPaths returns the classpath entries resolved against the
// manifest directory. Absolute entries are kept as they are.
func (m *Manifest) ClasspathPaths() []string {
	var paths []string
	for _, e := range m.Run.Classpath {
		if filepath.IsAbs(e) || m.Dir == "" {
			paths = append(paths, e)
			continue
		}
		paths = append(paths, filepath.Join(m.Dir, e))
	}
	return paths
}

// LogFilePath returns the resolved log file path, or nil to log to stderr.
func (m *Manifest) LogFilePath() *string {
	if m.Log.File == "" {
		return nil
	}
	path := m.Log.File
	if !filepath.IsAbs(path) && m.Dir != "" {
		path = filepath.Join(m.Dir, path)
	}
	return &path
}
