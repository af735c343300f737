package generator

import (
	"fmt"
	"strings"

	"github.com/dhamidi/fusion/errors"
)

// Error reports the entries that failed in a run. Each failure keeps its
// original error, so its kind is still available through errors.KindOf.
type Error struct {
	Failures []Failure
}

func (e *Error) Error() string {
	var b strings.Builder
	if len(e.Failures) == 1 {
		b.WriteString("1 entry failed")
	} else {
		fmt.Fprintf(&b, "%d entries failed", len(e.Failures))
	}
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n  %s: %s", f.Entry, f.Err)
	}
	return b.String()
}

// Unwrap exposes the per-entry errors to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Kinds lists the kind of every failure, in entry order.
func (e *Error) Kinds() []errors.Kind {
	kinds := make([]errors.Kind, len(e.Failures))
	for i, f := range e.Failures {
		kinds[i] = errors.KindOf(f.Err)
	}
	return kinds
}

// Has reports whether any entry failed with kind.
func (e *Error) Has(kind errors.Kind) bool {
	for _, f := range e.Failures {
		if errors.KindOf(f.Err) == kind {
			return true
		}
	}
	return false
}
