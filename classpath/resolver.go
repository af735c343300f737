package classpath

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/fusion/classfile"
	"github.com/dhamidi/fusion/errors"
)

var log = commonlog.GetLogger("fusion.classpath")

// Finder resolves binary class names to parsed class files.
type Finder interface {
	Resolve(name string) (*classfile.ClassFile, error)
}

// Resolver searches its roots on every call. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	roots []Root
}

func NewResolver(roots ...Root) *Resolver {
	return &Resolver{roots: append([]Root(nil), roots...)}
}

func (r *Resolver) Roots() []Root {
	return append([]Root(nil), r.roots...)
}

// Resolve finds and parses the class called name.
//
// Directory roots are searched first, in order, each walked in lexical
// order; the first file whose slash-separated path contains
// "<name>.class" decides the outcome. Archive roots are consulted only when
// no directory file matched, and only for an entry named exactly
// "<name>.class". Failures carry an errors.Kind.
func (r *Resolver) Resolve(name string) (*classfile.ClassFile, error) {
	name = Normalize(name)
	if name == "" {
		return nil, errors.DependencyNotResolved(name)
	}
	key := name + ".class"

	if path, ok := r.findInDirectories(key); ok {
		log.Debugf("resolved %s to %s", name, path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.IO(name, err)
		}
		return parse(name, data)
	}

	for _, root := range r.roots {
		if !root.IsArchive() {
			continue
		}
		data, found, err := readArchiveEntry(root.Path, key)
		if err != nil {
			return nil, err
		}
		if found {
			log.Debugf("resolved %s in %s", name, root.Path)
			return parse(name, data)
		}
	}

	log.Debugf("no class file for %s on %d roots", name, len(r.roots))
	return nil, errors.DependencyNotResolved(name)
}

func parse(name string, data []byte) (*classfile.ClassFile, error) {
	cf, err := classfile.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.ClassFormat(name, err)
	}
	return cf, nil
}

func (r *Resolver) findInDirectories(key string) (string, bool) {
	var found string
	for _, root := range r.roots {
		if root.IsArchive() {
			continue
		}
		_ = filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Debugf("skipping %s: %s", path, err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if strings.Contains(filepath.ToSlash(path), key) {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// readArchiveEntry reads the entry called key from the archive at path.
// A missing entry is not an error. An archive that cannot be opened, or is
// a directory, is not found.
func readArchiveEntry(path, key string) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, errors.ArchiveNotFound(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, false, errors.IO(path, err)
	}
	if info.IsDir() {
		return nil, false, errors.ArchiveNotFound(path, errors.Newf("%s is a directory", path))
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, false, archiveError(path, err)
	}

	for _, entry := range zr.File {
		if entry.Name != key {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, false, archiveError(path, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, false, archiveError(path, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

func archiveError(path string, err error) error {
	if errors.IsAny(err, zip.ErrFormat, zip.ErrAlgorithm, zip.ErrChecksum) {
		return errors.ArchiveFormat(path, err)
	}
	return errors.IO(path, err)
}

// DirectoryClasses lists the binary names of all class files below the
// directory roots, in root order and lexical order within a root. Archive
// roots are not listed.
func (r *Resolver) DirectoryClasses() []string {
	var names []string
	seen := make(map[string]bool)
	for _, root := range r.roots {
		if root.IsArchive() {
			continue
		}
		var local []string
		_ = filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".class") {
				return nil
			}
			rel, err := filepath.Rel(root.Path, path)
			if err != nil {
				return nil
			}
			local = append(local, strings.TrimSuffix(filepath.ToSlash(rel), ".class"))
			return nil
		})
		sort.Strings(local)
		for _, name := range local {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
