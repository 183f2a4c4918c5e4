package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime() time.Time {
	return time.UnixMilli(1_760_000_000_000)
}

func TestMemoryBackend_GetMissing(t *testing.T) {
	b := NewMemoryBackend()
	_, err := b.Get(context.Background(), "stream/ine")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBackend_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	value := []byte("abc")
	require.NoError(t, b.Put(ctx, "k", value))
	value[0] = 'x'

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _ := b.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryBackend_ListSortedByPrefix(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	for _, k := range []string{"stream/lilpa", "stream/ine", "offtime/ine", "stream/gosegu"} {
		require.NoError(t, b.Put(ctx, k, []byte("1")))
	}

	keys, err := b.List(ctx, "stream/")
	require.NoError(t, err)
	assert.Equal(t, []string{"stream/gosegu", "stream/ine", "stream/lilpa"}, keys)

	keys, err = b.List(ctx, "nothing/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryBackend_EmptyKeyRejected(t *testing.T) {
	assert.ErrorIs(t, NewMemoryBackend().Put(context.Background(), "", []byte("1")), ErrInvalidInput)
}

func TestMemoryBackend_DeleteMissingIsNoop(t *testing.T) {
	assert.NoError(t, NewMemoryBackend().Delete(context.Background(), "absent"))
}
