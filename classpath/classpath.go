// Package classpath locates compiled classes by binary name across an
// ordered list of directory and archive roots.
package classpath

import (
	"os"
	"path/filepath"
	"strings"
)

type RootKind int

const (
	Directory RootKind = iota
	Archive
)

func (k RootKind) String() string {
	if k == Archive {
		return "archive"
	}
	return "directory"
}

// Root is one classpath entry.
type Root struct {
	Path string
	Kind RootKind
}

// ParseRoot classifies path: names ending in .jar or .zip, in any case,
// are archives and everything else is a directory. The file system is not
// consulted.
func ParseRoot(path string) Root {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jar" || ext == ".zip" {
		return Root{Path: path, Kind: Archive}
	}
	return Root{Path: path, Kind: Directory}
}

func (r Root) IsArchive() bool { return r.Kind == Archive }

func (r Root) String() string { return r.Kind.String() + ":" + r.Path }

// Parse splits an OS path list such as "build/classes:lib/a.jar" into
// roots, dropping empty elements.
func Parse(list string) []Root {
	var roots []Root
	for _, p := range filepath.SplitList(list) {
		if p = strings.TrimSpace(p); p != "" {
			roots = append(roots, ParseRoot(p))
		}
	}
	return roots
}

// ParseAll classifies each path.
func ParseAll(paths []string) []Root {
	roots := make([]Root, 0, len(paths))
	for _, p := range paths {
		roots = append(roots, Parse(p)...)
	}
	return roots
}

// Join renders roots as an OS path list.
func Join(roots []Root) string {
	paths := make([]string, len(roots))
	for i, r := range roots {
		paths[i] = r.Path
	}
	return strings.Join(paths, string(os.PathListSeparator))
}

// Normalize turns a dotted or slashed binary name into its slashed form.
func Normalize(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// EntryName is the file or archive entry name a class is stored under.
func EntryName(name string) string {
	return Normalize(name) + ".class"
}
