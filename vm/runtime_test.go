package vm

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/kaffee/classfile"
)

func runCapture(t *testing.T, rt *Runtime) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rt.Stdout = &out
	rt.Stderr = &errOut
	err = rt.Run()
	return out.String(), errOut.String(), err
}

func TestRunReportsReturnValue(t *testing.T) {
	rt := NewRuntime(mainReturning(0x05, 0x06, 0x60, 0xAC))
	stdout, stderr, err := runCapture(t, rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stdout != "main return value: Integer(5)\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if stderr != "" {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunReportsVoid(t *testing.T) {
	b := classfile.NewBuilder(mainClass)
	b.StaticMethod("main", "()V", 0, 0, 0xB1)
	stdout, _, err := runCapture(t, NewRuntime(b.Build()))
	if err != nil || stdout != "main return value: void\n" {
		t.Errorf("Run() = %q, %v", stdout, err)
	}
}

func TestRunReportsUndefinedSlot(t *testing.T) {
	rt := NewRuntime(mainReturning(0x1A, 0xAC))
	stdout, stderr, err := runCapture(t, rt)

	if !errors.Is(err, ErrUndefinedSlot) {
		t.Fatalf("Run() error = %v", err)
	}
	if stdout != "" {
		t.Errorf("failed run wrote to stdout: %q", stdout)
	}
	if !strings.HasPrefix(stderr, "runtime error: ") || !strings.Contains(stderr, "slot 0") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunWithoutMain(t *testing.T) {
	b := classfile.NewBuilder(mainClass)
	// Any instruction would fail: the body must never run.
	b.StaticMethod("helper", "()I", 0, 0, 0xFF)
	rt := NewRuntime(b.Build())

	stdout, stderr, err := runCapture(t, rt)
	if !errors.Is(err, ErrNoMainMethod) {
		t.Fatalf("Run() error = %v", err)
	}
	if stderr != "Class demo/Main does not have a main method\n" {
		t.Errorf("stderr = %q", stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestNewRuntime(t *testing.T) {
	rt := NewRuntime(mainReturning(0x04, 0xAC))
	if rt.EntryClass() != mainClass {
		t.Errorf("EntryClass() = %q", rt.EntryClass())
	}
	if !reflect.DeepEqual(rt.Classpath, []string{"."}) {
		t.Errorf("Classpath = %v", rt.Classpath)
	}
	if rt.maxCallDepth() != DefaultMaxCallDepth {
		t.Errorf("maxCallDepth() = %d", rt.maxCallDepth())
	}
	if _, ok := rt.Symbols(mainClass); !ok {
		t.Error("entry class has no symbol table")
	}
}

func TestLoadClassReplaces(t *testing.T) {
	rt := NewRuntime(mainReturning(0x04, 0xAC))

	util := classfile.NewBuilder("demo/Util")
	util.StaticMethod("f", "()I", 1, 0, 0x04, 0xAC)
	rt.LoadClass(util.Build())

	if got := rt.Classes(); !reflect.DeepEqual(got, []string{"demo/Main", "demo/Util"}) {
		t.Errorf("Classes() = %v", got)
	}

	rt.LoadClass(mainReturning(0x05, 0xAC))
	v, _, err := rt.Execute()
	if err != nil || v != Int(2) {
		t.Errorf("Execute() after reload = %s, %v", v, err)
	}
	if len(rt.Classes()) != 2 {
		t.Errorf("reload added an entry: %v", rt.Classes())
	}
	if _, ok := rt.Class("demo/Missing"); ok {
		t.Error("Class() found an unloaded class")
	}
}

func TestExecutePanicsWithoutEntryClass(t *testing.T) {
	rt := NewRuntime(mainReturning(0x04, 0xAC))
	delete(rt.classes, mainClass)
	defer func() {
		if recover() == nil {
			t.Error("Execute did not panic on a corrupted registry")
		}
	}()
	rt.Execute()
}

func TestRunMultipleTimes(t *testing.T) {
	rt := NewRuntime(mainReturning(0x07, 0xAC))
	for i := 0; i < 3; i++ {
		stdout, _, err := runCapture(t, rt)
		if err != nil || stdout != "main return value: Integer(4)\n" {
			t.Fatalf("run %d = %q, %v", i, stdout, err)
		}
	}
}

type mapLoader struct {
	classes map[string]*classfile.ClassFile
	calls   int
}

func (l *mapLoader) Find(name string) (*classfile.ClassFile, error) {
	l.calls++
	cf, ok := l.classes[name]
	if !ok {
		return nil, errors.New("no such class")
	}
	return cf, nil
}

func TestLoaderSuppliesMissingClasses(t *testing.T) {
	util := classfile.NewBuilder("demo/Util")
	util.StaticMethod("seven", "()I", 1, 0, 0x10, 0x07, 0xAC)

	b := classfile.NewBuilder(mainClass)
	f := b.MethodRef("demo/Util", "seven", "()I")
	b.StaticMethod("main", "()I", 2, 0, 0xB8, hi(f), lo(f), 0xB8, hi(f), lo(f), 0x60, 0xAC)

	loader := &mapLoader{classes: map[string]*classfile.ClassFile{"demo/Util": util.Build()}}
	rt := NewRuntime(b.Build())
	rt.Loader = loader

	v, _, err := rt.Execute()
	if err != nil || v != Int(14) {
		t.Fatalf("Execute() = %v, %v", v, err)
	}
	if loader.calls != 1 {
		t.Errorf("loader called %d times, want 1", loader.calls)
	}
	if !reflect.DeepEqual(rt.Classes(), []string{mainClass, "demo/Util"}) {
		t.Errorf("Classes() = %v", rt.Classes())
	}
}

func TestLoaderFailure(t *testing.T) {
	b := classfile.NewBuilder(mainClass)
	f := b.MethodRef("demo/Missing", "f", "()I")
	b.StaticMethod("main", "()I", 1, 0, 0xB8, hi(f), lo(f), 0xAC)

	rt := NewRuntime(b.Build())
	rt.Loader = &mapLoader{}
	_, _, err := rt.Execute()
	if !errors.Is(err, ErrClassNotFound) {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(err.Error(), "no such class") {
		t.Errorf("error lost the loader cause: %v", err)
	}
}
