package vm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/chazu/kaffee/classfile"
	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

// DefaultMaxCallDepth bounds nested invocations when MaxCallDepth is unset.
const DefaultMaxCallDepth = 1024

var log = commonlog.GetLogger("kaffee.vm")

// Runtime is the class registry and entry point of one program. Set the
// exported fields before calling Run; they are read during a run.
type Runtime struct {
	// Stdout receives the return value report, Stderr the failure report.
	Stdout io.Writer
	Stderr io.Writer

	// Classpath is carried for the loader; the interpreter never reads it.
	Classpath []string

	// MaxCallDepth limits nested invocations. Zero means DefaultMaxCallDepth.
	MaxCallDepth int

	// Trace logs every instruction with the frame state at debug level.
	Trace bool

	// Loader, when set, supplies classes that are referenced but not yet
	// loaded. Classes it returns stay registered.
	Loader ClassLoader

	classes map[string]*loadedClass
	entry   string
	runLog  commonlog.Logger
}

// ClassLoader finds a class by its internal name, e.g. "demo/Main".
type ClassLoader interface {
	Find(name string) (*classfile.ClassFile, error)
}

// NewRuntime creates a registry holding entry and records it as the class
// whose main method Run executes.
func NewRuntime(entry *classfile.ClassFile) *Runtime {
	rt := &Runtime{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Classpath: []string{"."},
		classes:   make(map[string]*loadedClass),
	}
	rt.LoadClass(entry)
	rt.entry = entry.Name()
	return rt
}

// LoadClass registers cf under its name, replacing any class loaded under
// the same name.
func (rt *Runtime) LoadClass(cf *classfile.ClassFile) {
	c := newLoadedClass(cf)
	rt.classes[c.name] = c
	log.Debugf("loaded class %s (%d methods, %d symbols)", c.name, len(cf.Methods), c.symbols.Len())
}

// EntryClass returns the name of the entry class.
func (rt *Runtime) EntryClass() string {
	return rt.entry
}

// Class returns the loaded class with the given name.
func (rt *Runtime) Class(name string) (*classfile.ClassFile, bool) {
	c, ok := rt.classes[name]
	if !ok {
		return nil, false
	}
	return c.file, true
}

// Symbols returns the symbol table built for a loaded class.
func (rt *Runtime) Symbols(name string) (*SymbolTable, bool) {
	c, ok := rt.classes[name]
	if !ok {
		return nil, false
	}
	return c.symbols, true
}

// Classes returns the names of all loaded classes in sorted order.
func (rt *Runtime) Classes() []string {
	names := make([]string, 0, len(rt.classes))
	for name := range rt.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (rt *Runtime) lookup(name string) (*loadedClass, error) {
	if c, ok := rt.classes[name]; ok {
		return c, nil
	}
	if rt.Loader == nil {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	cf, err := rt.Loader.Find(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrClassNotFound, name, err)
	}
	if cf.Name() != name {
		return nil, fmt.Errorf("%w: %s: loader returned %s", ErrClassNotFound, name, cf.Name())
	}
	rt.LoadClass(cf)
	return rt.classes[name], nil
}

func (rt *Runtime) maxCallDepth() int {
	if rt.MaxCallDepth > 0 {
		return rt.MaxCallDepth
	}
	return DefaultMaxCallDepth
}

func (rt *Runtime) logger() commonlog.Logger {
	if rt.runLog != nil {
		return rt.runLog
	}
	return log
}

// Execute runs main on the entry class with no arguments. hasValue is false
// when main is void. A missing main method yields ErrNoMainMethod; a
// missing entry class means the registry was corrupted and panics.
func (rt *Runtime) Execute() (Value, bool, error) {
	c, ok := rt.classes[rt.entry]
	if !ok {
		panic(fmt.Sprintf("vm: entry class %q is not loaded", rt.entry))
	}
	m := c.file.MethodNamed("main")
	if m == nil {
		return Value{}, false, fmt.Errorf("%w: class %s", ErrNoMainMethod, rt.entry)
	}
	return rt.invoke(c, m, nil, 0)
}

// Run executes main and reports the outcome: the return value on Stdout, a
// runtime error or a missing main method on Stderr. The error is returned
// so callers can set an exit status.
func (rt *Runtime) Run() error {
	id := uuid.New().String()
	rt.runLog = commonlog.NewKeyValueLogger(log, "run", id)
	defer func() { rt.runLog = nil }()

	rt.runLog.Infof("running %s.main", rt.entry)
	v, hasValue, err := rt.Execute()

	switch {
	case errors.Is(err, ErrNoMainMethod):
		fmt.Fprintf(rt.Stderr, "Class %s does not have a main method\n", rt.entry)
		rt.runLog.Warningf("class %s has no main method", rt.entry)
	case err != nil:
		fmt.Fprintf(rt.Stderr, "runtime error: %v\n", err)
		rt.runLog.Errorf("run failed: %v", err)
	case hasValue:
		fmt.Fprintf(rt.Stdout, "main return value: %s\n", v)
		rt.runLog.Infof("main returned %s", v)
	default:
		fmt.Fprintln(rt.Stdout, "main return value: void")
		rt.runLog.Info("main returned")
	}
	return err
}
