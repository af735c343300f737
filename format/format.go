// Package format renders class models for people: as JSON or as a Java
// declaration outline.
package format

import (
	"encoding"
	"io"

	"github.com/dhamidi/fusion/errors"
	"github.com/dhamidi/fusion/java"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.ClassModel) error
}

// New returns the encoder called name ("json" or "java") writing to w.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "java", "":
		return NewJavaEncoder(w), nil
	}
	return nil, errors.Newf("unknown format %q (expected json or java)", name)
}
