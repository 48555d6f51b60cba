package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/kaffee/classfile"
	"github.com/chazu/kaffee/classpath"
	"github.com/chazu/kaffee/manifest"
	"github.com/chazu/kaffee/vm"
)

// runOptions are the merged settings of kaffee.toml and the command line.
type runOptions struct {
	classpath    []string
	target       string
	maxCallDepth int
	trace        bool
	verbosity    int
	logFile      *string
}

// loadProject returns the nearest manifest, or the defaults when there is none.
func loadProject() (*manifest.Manifest, error) {
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		return nil, fmt.Errorf("loading kaffee.toml: %w", err)
	}
	if m == nil {
		return manifest.Default(), nil
	}
	log.Debugf("using %s", filepath.Join(m.Dir, manifest.FileName))
	return m, nil
}

func parseRunFlags(args []string, m *manifest.Manifest, stderr io.Writer) (*runOptions, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cp := fs.String("cp", "", "Classpath (list of directories and .kbnd bundles)")
	trace := fs.Bool("trace", m.Run.Trace, "Log every executed instruction")
	maxDepth := fs.Int("max-depth", m.Run.MaxCallDepth, "Maximum call depth")
	verbosity := fs.Int("v", m.Log.Verbosity, "Log verbosity (1 info, 2 debug; 0 is silent, or notice level when [log] file is set)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: kaffee run [options] [Class|file.class]\n\n")
		fmt.Fprintf(stderr, "Without a class, runs run.main-class from kaffee.toml or the main\n")
		fmt.Fprintf(stderr, "class of the first bundle on the classpath.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return nil, fmt.Errorf("run takes one class, got %d", fs.NArg())
	}

	opts := &runOptions{
		classpath:    m.ClasspathPaths(),
		target:       m.Run.MainClass,
		maxCallDepth: *maxDepth,
		trace:        *trace,
		verbosity:    *verbosity,
		logFile:      m.LogFilePath(),
	}
	if *cp != "" {
		opts.classpath = classpath.Split(*cp)
	}
	if fs.NArg() == 1 {
		opts.target = fs.Arg(0)
	}
	if opts.trace && opts.verbosity < 2 {
		opts.verbosity = 2
	}
	return opts, nil
}

// handleRunCommand processes the `kaffee run` subcommand.
func handleRunCommand(args []string, stdout, stderr io.Writer) error {
	m, err := loadProject()
	if err != nil {
		return err
	}
	opts, err := parseRunFlags(args, m, stderr)
	if err != nil {
		return err
	}

	if opts.verbosity <= 0 && opts.logFile == nil {
		configureLogging(-4, nil)
	} else {
		configureLogging(opts.verbosity, opts.logFile)
	}

	path := classpath.New(opts.classpath...)
	entry, err := resolveEntry(opts.target, path)
	if err != nil {
		return err
	}

	rt := vm.NewRuntime(entry)
	rt.Stdout = stdout
	rt.Stderr = stderr
	rt.Classpath = path.Entries()
	rt.MaxCallDepth = opts.maxCallDepth
	rt.Trace = opts.trace
	rt.Loader = path

	log.Infof("running %s with classpath %s", entry.Name(), strings.Join(rt.Classpath, string(filepath.ListSeparator)))
	if err := rt.Run(); err != nil {
		// Run has already written the report.
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return nil
}

// resolveEntry loads the class to run. A target naming an existing file is
// parsed directly; anything else is a class name searched on the classpath.
func resolveEntry(target string, path *classpath.Path) (*classfile.ClassFile, error) {
	if target == "" {
		main, ok := path.MainClass()
		if !ok {
			return nil, errors.New("no class given and no main class configured")
		}
		target = main
	}

	if strings.HasSuffix(target, ".class") {
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			return classfile.ParseFile(target)
		}
	}
	return path.Find(target)
}
