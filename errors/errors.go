// Package errors is the failure vocabulary shared by the classpath resolver,
// the translator and the generator.
//
// It re-exports github.com/cockroachdb/errors so that callers wrap, mark and
// inspect errors through a single import, and it defines the flat taxonomy
// of failure kinds:
//
//	archive not found        a configured archive root does not exist or cannot be opened
//	dependency not resolved  a class name matched nothing on the classpath
//	io                       a read failed on a directory entry or archive stream
//	archive format           an archive root is not a valid zip container
//	class format             bytes were read but are not a valid class file
//	translation              a class member cannot be mapped to TypeScript
//
// Every failure raised by this module is an *Error carrying its Kind and the
// class or archive it concerns. Use KindOf to classify an error through any
// amount of wrapping, or Is against the per-kind sentinels:
//
//	if errors.Is(err, errors.ErrDependencyNotResolved) {
//	    // nothing on the classpath matched
//	}
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	WithStack = crdb.WithStack
	Mark      = crdb.Mark
	Join      = crdb.Join
)

// User-facing hints and details
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Kind classifies a failure. The zero value is KindUnknown, used for errors
// that did not originate in this module.
type Kind int

const (
	KindUnknown Kind = iota
	KindArchiveNotFound
	KindDependencyNotResolved
	KindIO
	KindArchiveFormat
	KindClassFormat
	KindTranslation
)

var kindNames = [...]string{
	KindUnknown:               "unknown",
	KindArchiveNotFound:       "archive not found",
	KindDependencyNotResolved: "dependency not resolved",
	KindIO:                    "io",
	KindArchiveFormat:         "archive format",
	KindClassFormat:           "class format",
	KindTranslation:           "translation",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Sentinels, one per kind. An *Error matches the sentinel of its own kind
// under Is.
var (
	ErrArchiveNotFound       = New("archive not found")
	ErrDependencyNotResolved = New("dependency not resolved")
	ErrIO                    = New("io failure")
	ErrArchiveFormat         = New("invalid archive")
	ErrClassFormat           = New("invalid class file")
	ErrTranslation           = New("translation failed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindArchiveNotFound:
		return ErrArchiveNotFound
	case KindDependencyNotResolved:
		return ErrDependencyNotResolved
	case KindIO:
		return ErrIO
	case KindArchiveFormat:
		return ErrArchiveFormat
	case KindClassFormat:
		return ErrClassFormat
	case KindTranslation:
		return ErrTranslation
	}
	return nil
}

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Name is the class (binary name) or archive path the failure is about.
	Name string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NameOf returns the class or archive name recorded on the first *Error in
// err's chain.
func NameOf(err error) string {
	var e *Error
	if As(err, &e) {
		return e.Name
	}
	return ""
}

func ArchiveNotFound(path string, cause error) error {
	return WithHint(&Error{Kind: KindArchiveNotFound, Name: path, Err: cause},
		"check that every .jar on the classpath exists")
}

func DependencyNotResolved(name string) error {
	return WithHintf(&Error{Kind: KindDependencyNotResolved, Name: name},
		"add the directory or archive containing %s.class to the classpath", name)
}

func IO(name string, cause error) error {
	return &Error{Kind: KindIO, Name: name, Err: cause}
}

func ArchiveFormat(path string, cause error) error {
	return &Error{Kind: KindArchiveFormat, Name: path, Err: cause}
}

func ClassFormat(name string, cause error) error {
	return &Error{Kind: KindClassFormat, Name: name, Err: cause}
}

func Translation(name string, cause error) error {
	return &Error{Kind: KindTranslation, Name: name, Err: cause}
}

// Translationf builds a translation failure for class name with a formatted cause.
func Translationf(name, format string, args ...any) error {
	return Translation(name, Newf(format, args...))
}
