// Package resolver turns a user-supplied field identifier or display name
// into exactly one field descriptor.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"brassworks.dev/fieldsmith/internal/field"
	"brassworks.dev/fieldsmith/internal/remote"
)

var (
	// ErrNotFound marks resolution failures where no field matched.
	ErrNotFound = errors.New("field not found")

	// ErrAmbiguous marks resolution failures where a display name matched
	// more than one field.
	ErrAmbiguous = errors.New("ambiguous field name")
)

// NotFoundError wraps ErrNotFound with the query that produced it.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("field not found: %q", e.Query)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AmbiguousError wraps ErrAmbiguous with the full candidate list so a human
// can disambiguate by switching to an id-based lookup.
type AmbiguousError struct {
	Name       string
	Candidates []field.Field
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "field name %q matches %d fields:", e.Name, len(e.Candidates))
	for _, c := range e.Candidates {
		fmt.Fprintf(&b, " %s (%s)", c.ID, c.Name)
	}
	return b.String()
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Resolver resolves field identifiers and display names against the remote
// field service. It performs read-only queries and never retries.
type Resolver struct {
	svc remote.Service
	log *zap.Logger
}

func New(svc remote.Service, log *zap.Logger) *Resolver {
	return &Resolver{svc: svc, log: log}
}

// Resolve produces the single field descriptor named by idOrName.
//
// Input matching the machine-generated id convention is looked up directly.
// Anything else is a case-sensitive display-name search: zero exact matches
// is a NotFoundError, more than one is an AmbiguousError carrying every
// candidate.
func (r *Resolver) Resolve(ctx context.Context, idOrName string) (*field.Field, error) {
	if field.IsID(idOrName) {
		f, err := r.svc.GetByID(ctx, idOrName)
		if errors.Is(err, remote.ErrNotFound) {
			return nil, &NotFoundError{Query: idOrName}
		}
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	found, err := r.svc.SearchByName(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	// The remote search may match loosely; only exact name matches count.
	var exact []field.Field
	for _, f := range found {
		if f.Name == idOrName {
			exact = append(exact, f)
		}
	}

	switch len(exact) {
	case 0:
		return nil, &NotFoundError{Query: idOrName}
	case 1:
		f := exact[0]
		r.log.Debug("resolved field by name",
			zap.String("name", idOrName), zap.String("id", f.ID))
		return &f, nil
	default:
		return nil, &AmbiguousError{Name: idOrName, Candidates: exact}
	}
}
