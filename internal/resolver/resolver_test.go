package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"brassworks.dev/fieldsmith/internal/field"
	"brassworks.dev/fieldsmith/internal/remote"
)

// stubService matches names loosely, the way a remote search endpoint does,
// so the resolver's exact-match filtering is exercised.
type stubService struct {
	fields []field.Field
}

func (s *stubService) GetByID(_ context.Context, id string) (*field.Field, error) {
	for _, f := range s.fields {
		if f.ID == id {
			cp := f
			return &cp, nil
		}
	}
	return nil, remote.ErrNotFound
}

func (s *stubService) SearchByName(_ context.Context, name string) ([]field.Field, error) {
	var out []field.Field
	for _, f := range s.fields {
		if strings.Contains(strings.ToLower(f.Name), strings.ToLower(name)) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubService) ListFields(context.Context) ([]field.Field, error) {
	return s.fields, nil
}

func (s *stubService) GetOptions(context.Context, string) ([]field.Option, error) {
	return nil, nil
}

func newResolver(fields ...field.Field) *Resolver {
	return New(&stubService{fields: fields}, zap.NewNop())
}

func TestResolve_ByIDIsDeterministic(t *testing.T) {
	r := newResolver(
		field.Field{ID: "customfield_100", Name: "Developer"},
		field.Field{ID: "customfield_200", Name: "Developer"},
	)

	f, err := r.Resolve(context.Background(), "customfield_100")
	require.NoError(t, err)
	assert.Equal(t, "customfield_100", f.ID)
}

func TestResolve_UnknownIDIsNotFound(t *testing.T) {
	r := newResolver()

	_, err := r.Resolve(context.Background(), "customfield_999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_UniqueNameSucceeds(t *testing.T) {
	r := newResolver(
		field.Field{ID: "customfield_100", Name: "Story Points"},
		field.Field{ID: "customfield_200", Name: "Sprint"},
	)

	f, err := r.Resolve(context.Background(), "Sprint")
	require.NoError(t, err)
	assert.Equal(t, "customfield_200", f.ID)
}

func TestResolve_AmbiguousNameListsEveryCandidate(t *testing.T) {
	r := newResolver(
		field.Field{ID: "customfield_100", Name: "Developer"},
		field.Field{ID: "customfield_200", Name: "Developer"},
	)

	_, err := r.Resolve(context.Background(), "Developer")
	require.ErrorIs(t, err, ErrAmbiguous)

	var amb *AmbiguousError
	require.ErrorAs(t, err, &amb)
	require.Len(t, amb.Candidates, 2)
	assert.Equal(t, "customfield_100", amb.Candidates[0].ID)
	assert.Equal(t, "customfield_200", amb.Candidates[1].ID)
	assert.Contains(t, err.Error(), "customfield_100")
	assert.Contains(t, err.Error(), "customfield_200")
}

func TestResolve_NameMatchingIsCaseSensitive(t *testing.T) {
	r := newResolver(field.Field{ID: "customfield_100", Name: "Developer"})

	_, err := r.Resolve(context.Background(), "developer")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_LooseRemoteMatchesAreFilteredOut(t *testing.T) {
	r := newResolver(
		field.Field{ID: "customfield_100", Name: "Developer"},
		field.Field{ID: "customfield_300", Name: "Developer Lead"},
	)

	f, err := r.Resolve(context.Background(), "Developer")
	require.NoError(t, err)
	assert.Equal(t, "customfield_100", f.ID)
}
