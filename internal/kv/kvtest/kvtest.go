// Package kvtest checks a kv.Store implementation against the contract.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualco/internal/kv"
)

// Run exercises s, which must start empty.
func Run(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, kv.ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, "missing"), kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "simulation:u1:b", []byte(`{"id":"b"}`)))
	require.NoError(t, s.Set(ctx, "simulation:u1:a", []byte(`{"id":"a"}`)))
	require.NoError(t, s.Set(ctx, "simulation:u2:c", []byte(`{"id":"c"}`)))
	require.NoError(t, s.Set(ctx, "settings:u1", []byte(`{}`)))

	got, err := s.Get(ctx, "simulation:u1:a")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a"}`, string(got))

	require.NoError(t, s.Set(ctx, "simulation:u1:a", []byte(`{"id":"a2"}`)))
	got, err = s.Get(ctx, "simulation:u1:a")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a2"}`, string(got))

	list, err := s.List(ctx, "simulation:u1:")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "simulation:u1:a", list[0].Key)
	assert.Equal(t, "simulation:u1:b", list[1].Key)
	assert.Equal(t, `{"id":"b"}`, string(list[1].Value))

	list, err = s.List(ctx, "nothing:")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.Delete(ctx, "simulation:u1:a"))
	_, err = s.Get(ctx, "simulation:u1:a")
	require.ErrorIs(t, err, kv.ErrNotFound)
	list, err = s.List(ctx, "simulation:")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
