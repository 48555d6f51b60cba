// Package bundle implements the .kbnd class archive: a small header followed
// by a canonical CBOR body that carries raw class files by name. Each entry
// is content-addressed with SHA-256 so a corrupted archive is detected on
// read.
package bundle

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/chazu/kaffee/classfile"
	"github.com/fxamacker/cbor/v2"
)

// Magic opens every bundle.
var Magic = [4]byte{'K', 'B', 'N', 'D'}

// Version is the current bundle format version.
const Version uint16 = 1

// Extension is the file extension the classpath recognizes as a bundle.
const Extension = ".kbnd"

var (
	ErrInvalidMagic    = errors.New("invalid magic number: expected KBND")
	ErrVersionMismatch = errors.New("unsupported bundle version")
	ErrHashMismatch    = errors.New("class content hash mismatch")
	ErrDuplicateClass  = errors.New("duplicate class in bundle")
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bundle: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Entry is one class file in a bundle.
type Entry struct {
	Name string   `cbor:"1,keyasint"`
	Hash [32]byte `cbor:"2,keyasint"`
	Data []byte   `cbor:"3,keyasint"`
}

// Bundle is an in-memory class archive.
type Bundle struct {
	// MainClass optionally names the class to run.
	MainClass string  `cbor:"1,keyasint,omitempty"`
	Entries   []Entry `cbor:"2,keyasint"`
}

// AddBytes adds a raw class file. The bytes are parsed to learn the class
// name and are stored unchanged.
func (b *Bundle) AddBytes(data []byte) (string, error) {
	cf, err := classfile.Parse(data)
	if err != nil {
		return "", err
	}
	name := cf.Name()
	if _, ok := b.Find(name); ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateClass, name)
	}
	b.Entries = append(b.Entries, Entry{Name: name, Hash: sha256.Sum256(data), Data: data})
	return name, nil
}

// Add encodes cf and adds it.
func (b *Bundle) Add(cf *classfile.ClassFile) error {
	data, err := cf.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", cf.Name(), err)
	}
	_, err = b.AddBytes(data)
	return err
}

// Find returns the entry for a class name.
func (b *Bundle) Find(name string) (*Entry, bool) {
	for i := range b.Entries {
		if b.Entries[i].Name == name {
			return &b.Entries[i], true
		}
	}
	return nil, false
}

// Names returns the class names in the bundle in sorted order.
func (b *Bundle) Names() []string {
	names := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}

// Class decodes the entry for name.
func (b *Bundle) Class(name string) (*classfile.ClassFile, error) {
	e, ok := b.Find(name)
	if !ok {
		return nil, fmt.Errorf("class %s is not in the bundle", name)
	}
	cf, err := classfile.Parse(e.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cf, nil
}

// Classes decodes every entry in name order.
func (b *Bundle) Classes() ([]*classfile.ClassFile, error) {
	var out []*classfile.ClassFile
	for _, name := range b.Names() {
		cf, err := b.Class(name)
		if err != nil {
			return nil, err
		}
		out = append(out, cf)
	}
	return out, nil
}

// Write serializes b to w. Entries are written in name order so equal
// bundles produce equal bytes.
func Write(w io.Writer, b *Bundle) error {
	sorted := *b
	sorted.Entries = append([]Entry(nil), b.Entries...)
	sort.Slice(sorted.Entries, func(i, j int) bool { return sorted.Entries[i].Name < sorted.Entries[j].Name })

	body, err := cborEncMode.Marshal(&sorted)
	if err != nil {
		return fmt.Errorf("bundle: marshal: %w", err)
	}

	var header [6]byte
	copy(header[:4], Magic[:])
	binary.BigEndian.PutUint16(header[4:], Version)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// Read deserializes a bundle and verifies every entry's hash.
func Read(r io.Reader) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < 6 || !bytes.Equal(data[:4], Magic[:]) {
		return nil, ErrInvalidMagic
	}
	if v := binary.BigEndian.Uint16(data[4:6]); v != Version {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrVersionMismatch, v, Version)
	}

	var b Bundle
	if err := cbor.Unmarshal(data[6:], &b); err != nil {
		return nil, fmt.Errorf("bundle: unmarshal: %w", err)
	}
	seen := make(map[string]bool, len(b.Entries))
	for _, e := range b.Entries {
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateClass, e.Name)
		}
		seen[e.Name] = true
		if sha256.Sum256(e.Data) != e.Hash {
			return nil, fmt.Errorf("%w: %s", ErrHashMismatch, e.Name)
		}
	}
	return &b, nil
}

// WriteFile writes b to path.
func WriteFile(path string, b *Bundle) error {
	var buf bytes.Buffer
	if err := Write(&buf, b); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a bundle from path.
func ReadFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()
	b, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
