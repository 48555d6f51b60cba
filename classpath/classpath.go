// Package classpath locates class files in directories and .kbnd bundles.
package classpath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/kaffee/bundle"
	"github.com/chazu/kaffee/classfile"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("kaffee.classpath")

var ErrClassNotFound = errors.New("class not found on classpath")

// Path is an ordered list of classpath entries. Earlier entries shadow
// later ones.
type Path struct {
	entries []string
	bundles map[string]*bundle.Bundle
}

// New returns a classpath over the given entries, or over "." when none are
// given.
func New(entries ...string) *Path {
	if len(entries) == 0 {
		entries = []string{"."}
	}
	return &Path{
		entries: append([]string(nil), entries...),
		bundles: make(map[string]*bundle.Bundle),
	}
}

// Split parses a list-separated classpath string such as "classes:lib/app.kbnd".
func Split(s string) []string {
	var out []string
	for _, e := range filepath.SplitList(s) {
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns the classpath entries in search order.
func (p *Path) Entries() []string {
	return append([]string(nil), p.entries...)
}

// InternalName converts "demo.Main" or "demo/Main.class" to "demo/Main".
func InternalName(name string) string {
	name = strings.TrimSuffix(name, ".class")
	return strings.ReplaceAll(name, ".", "/")
}

func isBundle(entry string) bool {
	return strings.HasSuffix(entry, bundle.Extension)
}

func (p *Path) bundle(path string) (*bundle.Bundle, error) {
	if b, ok := p.bundles[path]; ok {
		return b, nil
	}
	b, err := bundle.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("opened bundle %s (%d classes)", path, len(b.Entries))
	p.bundles[path] = b
	return b, nil
}

// Find searches the entries in order for the named class.
func (p *Path) Find(name string) (*classfile.ClassFile, error) {
	name = InternalName(name)
	for _, entry := range p.entries {
		if isBundle(entry) {
			b, err := p.bundle(entry)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					log.Warningf("skipping missing classpath entry %s", entry)
					continue
				}
				return nil, err
			}
			if _, ok := b.Find(name); ok {
				log.Debugf("found %s in %s", name, entry)
				return b.Class(name)
			}
			continue
		}

		path := filepath.Join(entry, filepath.FromSlash(name)+".class")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		log.Debugf("found %s at %s", name, path)
		return classfile.ParseFile(path)
	}
	return nil, fmt.Errorf("%w: %s (searched %s)", ErrClassNotFound, name, strings.Join(p.entries, string(filepath.ListSeparator)))
}

// LoadAll decodes every class reachable from the classpath. When two
// entries define the same class the earlier one wins.
func (p *Path) LoadAll() ([]*classfile.ClassFile, error) {
	seen := make(map[string]bool)
	var out []*classfile.ClassFile
	add := func(cf *classfile.ClassFile, where string) {
		name := cf.Name()
		if seen[name] {
			log.Debugf("%s in %s is shadowed", name, where)
			return
		}
		seen[name] = true
		out = append(out, cf)
	}

	for _, entry := range p.entries {
		if isBundle(entry) {
			b, err := p.bundle(entry)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					log.Warningf("skipping missing classpath entry %s", entry)
					continue
				}
				return nil, err
			}
			classes, err := b.Classes()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", entry, err)
			}
			for _, cf := range classes {
				add(cf, entry)
			}
			continue
		}

		info, err := os.Stat(entry)
		if err != nil || !info.IsDir() {
			log.Warningf("skipping classpath entry %s: not a directory", entry)
			continue
		}
		err = filepath.WalkDir(entry, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".class" {
				return nil
			}
			cf, err := classfile.ParseFile(path)
			if err != nil {
				return err
			}
			add(cf, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	log.Infof("loaded %d classes from %d classpath entries", len(out), len(p.entries))
	return out, nil
}

// MainClass returns the main class declared by the first bundle on the
// classpath that declares one.
func (p *Path) MainClass() (string, bool) {
	for _, entry := range p.entries {
		if !isBundle(entry) {
			continue
		}
		b, err := p.bundle(entry)
		if err != nil || b.MainClass == "" {
			continue
		}
		return b.MainClass, true
	}
	return "", false
}
