package classpath

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/fusion/classfile"
	"github.com/dhamidi/fusion/errors"
	"github.com/dhamidi/fusion/internal/classtest"
)

func fooWithField(field string) *classtest.Class {
	return &classtest.Class{
		Name:   "com/example/Foo",
		Fields: []classtest.Field{{Flags: classtest.Public, Name: field, Descriptor: "I"}},
	}
}

func TestParseRoot(t *testing.T) {
	tests := []struct {
		path string
		want RootKind
	}{
		{"build/classes", Directory},
		{"lib/a.jar", Archive},
		{"lib/A.JAR", Archive},
		{"lib/sources.zip", Archive},
		{"lib/jar", Directory},
		{"weird.jar.d", Directory},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRoot(tt.path).Kind, tt.path)
	}
}

func TestParse(t *testing.T) {
	list := "build/classes" + string(os.PathListSeparator) + string(os.PathListSeparator) + "lib/a.jar"
	roots := Parse(list)

	require.Len(t, roots, 2)
	assert.Equal(t, Root{Path: "build/classes", Kind: Directory}, roots[0])
	assert.Equal(t, Root{Path: "lib/a.jar", Kind: Archive}, roots[1])
	assert.Equal(t, "build/classes"+string(os.PathListSeparator)+"lib/a.jar", Join(roots))
}

func TestResolveFromArchive(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "classes")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	jar := filepath.Join(tmp, "lib.jar")
	classtest.WriteJar(t, jar, fooWithField("fromJar"))

	r := NewResolver(ParseRoot(dir), ParseRoot(jar))
	cf, err := r.Resolve("com.example.Foo")

	require.NoError(t, err)
	assert.Equal(t, "com/example/Foo", cf.ClassName())
	assert.NotNil(t, cf.Field("fromJar"))
}

func TestDirectoriesTakePriority(t *testing.T) {
	tmp := t.TempDir()
	jar := filepath.Join(tmp, "lib.jar")
	dir := filepath.Join(tmp, "classes")
	classtest.WriteJar(t, jar, fooWithField("fromJar"))
	classtest.WriteDir(t, dir, fooWithField("fromDir"))

	// The archive is declared first and still loses.
	r := NewResolver(ParseRoot(jar), ParseRoot(dir))
	cf, err := r.Resolve("com/example/Foo")

	require.NoError(t, err)
	assert.NotNil(t, cf.Field("fromDir"))
	assert.Nil(t, cf.Field("fromJar"))
}

func TestDirectoryOrder(t *testing.T) {
	tmp := t.TempDir()
	first := filepath.Join(tmp, "first")
	second := filepath.Join(tmp, "second")
	classtest.WriteDir(t, first, fooWithField("one"))
	classtest.WriteDir(t, second, fooWithField("two"))

	cf, err := NewResolver(ParseRoot(second), ParseRoot(first)).Resolve("com.example.Foo")

	require.NoError(t, err)
	assert.NotNil(t, cf.Field("two"))
}

func TestDirectoryMatchIsContainment(t *testing.T) {
	tmp := t.TempDir()
	classtest.WriteDir(t, filepath.Join(tmp, "out", "main"), fooWithField("nested"))

	cf, err := NewResolver(ParseRoot(tmp)).Resolve("com.example.Foo")

	require.NoError(t, err)
	assert.NotNil(t, cf.Field("nested"))
}

func TestResolveMiss(t *testing.T) {
	tmp := t.TempDir()
	jar := filepath.Join(tmp, "lib.jar")
	classtest.WriteJar(t, jar, &classtest.Class{Name: "com/example/Other"})

	r := NewResolver(ParseRoot(tmp), ParseRoot(filepath.Join(tmp, "missing-dir")), ParseRoot(jar))
	_, err := r.Resolve("com.example.Foo")

	require.Error(t, err)
	assert.Equal(t, errors.KindDependencyNotResolved, errors.KindOf(err))
	assert.True(t, errors.Is(err, errors.ErrDependencyNotResolved))
	assert.Equal(t, "com/example/Foo", errors.NameOf(err))
}

func TestResolveEmptyName(t *testing.T) {
	_, err := NewResolver().Resolve("")
	assert.Equal(t, errors.KindDependencyNotResolved, errors.KindOf(err))
}

func TestCorruptCandidateDoesNotFallBack(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "classes")
	jar := filepath.Join(tmp, "lib.jar")
	classtest.WriteFile(t, filepath.Join(dir, "com", "example", "Foo.class"), []byte("not a class"))
	classtest.WriteJar(t, jar, fooWithField("fromJar"))

	_, err := NewResolver(ParseRoot(dir), ParseRoot(jar)).Resolve("com.example.Foo")

	require.Error(t, err)
	assert.Equal(t, errors.KindClassFormat, errors.KindOf(err))
	assert.True(t, errors.Is(err, classfile.ErrFormat))
}

func TestArchiveFailures(t *testing.T) {
	tmp := t.TempDir()
	garbage := filepath.Join(tmp, "garbage.jar")
	classtest.WriteFile(t, garbage, []byte("definitely not a zip archive"))
	corrupt := filepath.Join(tmp, "corrupt.jar")
	classtest.WriteZip(t, corrupt, map[string][]byte{"com/example/Foo.class": []byte{0xCA, 0xFE}})
	notDir := filepath.Join(tmp, "file.txt")
	classtest.WriteFile(t, notDir, []byte("x"))
	dirJar := filepath.Join(tmp, "dir.jar")
	require.NoError(t, os.Mkdir(dirJar, 0o755))

	tests := []struct {
		name string
		root string
		want errors.Kind
	}{
		{"missing archive", filepath.Join(tmp, "missing.jar"), errors.KindArchiveNotFound},
		{"unopenable archive", filepath.Join(notDir, "lib.jar"), errors.KindArchiveNotFound},
		{"directory archive", dirJar, errors.KindArchiveNotFound},
		{"invalid archive", garbage, errors.KindArchiveFormat},
		{"corrupt entry", corrupt, errors.KindClassFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(ParseRoot(tt.root)).Resolve("com.example.Foo")
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.KindOf(err), "%v", err)
		})
	}
}

func TestDirectoryClasses(t *testing.T) {
	tmp := t.TempDir()
	classtest.WriteDir(t, tmp,
		&classtest.Class{Name: "com/example/B"},
		&classtest.Class{Name: "com/example/A"},
	)
	classtest.WriteFile(t, filepath.Join(tmp, "README.txt"), []byte("x"))

	names := NewResolver(ParseRoot(tmp), ParseRoot(filepath.Join(tmp, "x.jar"))).DirectoryClasses()
	assert.Equal(t, []string{"com/example/A", "com/example/B"}, names)
}

type countingFinder struct {
	calls atomic.Int32
	inner Finder
}

func (f *countingFinder) Resolve(name string) (*classfile.ClassFile, error) {
	f.calls.Add(1)
	return f.inner.Resolve(name)
}

func TestCacheSharesLookups(t *testing.T) {
	tmp := t.TempDir()
	classtest.WriteDir(t, tmp, fooWithField("x"))
	finder := &countingFinder{inner: NewResolver(ParseRoot(tmp))}
	cache := NewCache(finder)

	var wg sync.WaitGroup
	results := make([]*classfile.ClassFile, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "com.example.Foo"
			if i%2 == 0 {
				name = "com/example/Foo"
			}
			cf, err := cache.Resolve(name)
			assert.NoError(t, err)
			results[i] = cf
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), finder.calls.Load())
	for _, cf := range results {
		assert.Same(t, results[0], cf)
	}
}

func TestCacheRemembersFailures(t *testing.T) {
	finder := &countingFinder{inner: NewResolver(ParseRoot(t.TempDir()))}
	cache := NewCache(finder)

	_, err1 := cache.Resolve("com.example.Missing")
	_, err2 := cache.Resolve("com.example.Missing")

	assert.Equal(t, errors.KindDependencyNotResolved, errors.KindOf(err1))
	assert.Equal(t, err1, err2)
	assert.Equal(t, int32(1), finder.calls.Load())
	assert.Equal(t, 1, cache.Len())
}
