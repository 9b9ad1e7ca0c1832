package session

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should Set and Get successfully", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		id := uuid.Must(uuid.NewV4())

		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: id, WorkspaceRoot: "/repo"}))
		val, err := repository.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, val.UUID)
		assert.Equal(t, "/repo", val.WorkspaceRoot)
	})

	t.Run("should return copies", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		id := uuid.Must(uuid.NewV4())
		s := &entity.Session{UUID: id}
		require.NoError(t, repository.Set(ctx, s))

		s.WorkspaceRoot = "/changed"
		val, err := repository.Get(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, val.WorkspaceRoot)
	})

	t.Run("should fail to get something that was not Set", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		id := uuid.Must(uuid.NewV4())

		_, err := repository.Get(ctx, id)
		var nf *errors.UUIDNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, id, nf.UUID)
	})

	t.Run("should reject nil", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		assert.Error(t, repository.Set(ctx, nil))
	})

	t.Run("should Get from context", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		id := uuid.Must(uuid.NewV4())
		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: id}))

		val, err := repository.GetFromContext(context.WithValue(ctx, entity.SessionContextKey, id))
		require.NoError(t, err)
		assert.Equal(t, id, val.UUID)

		_, err = repository.GetFromContext(ctx)
		var ns *errors.NoSessionFoundError
		assert.ErrorAs(t, err, &ns)
	})

	t.Run("should Delete and count", func(t *testing.T) {
		scope := tally.NewTestScope("testing", nil)
		repository := New(scope)
		a, b := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: a}))
		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: b}))

		count, err := repository.SessionCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		require.NoError(t, repository.Delete(ctx, a))
		count, err = repository.SessionCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, float64(1), scope.Snapshot().Gauges()["testing.active_connections+"].Value())
	})

	t.Run("should filter by workspace root", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		a, b, c := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: a, WorkspaceRoot: "/one"}))
		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: b, WorkspaceRoot: "/two"}))
		require.NoError(t, repository.Set(ctx, &entity.Session{UUID: c, WorkspaceRoot: "/one"}))

		found, err := repository.GetAllFromWorkspaceRoot(ctx, "/one")
		require.NoError(t, err)
		ids := []uuid.UUID{}
		for _, s := range found {
			ids = append(ids, s.UUID)
		}
		assert.ElementsMatch(t, []uuid.UUID{a, c}, ids)

		found, err = repository.GetAllFromWorkspaceRoot(ctx, "/missing")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
