package blog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteSource(t *testing.T) *SQLiteSource {
	t.Helper()
	src, err := NewSQLiteSource(filepath.Join(t.TempDir(), "data", "posts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

func TestSQLiteSource_SeedAndList(t *testing.T) {
	src := newTestSQLiteSource(t)

	require.NoError(t, src.Seed([]Post{{ID: 2, Title: "two"}, {ID: 1, Title: "one"}}))
	// Existing ids are left alone.
	require.NoError(t, src.Seed([]Post{{ID: 1, Title: "renamed"}, {ID: 3, Title: "three"}}))

	posts, err := src.List()
	require.NoError(t, err)
	assert.Equal(t, []Post{{ID: 2, Title: "two"}, {ID: 1, Title: "one"}, {ID: 3, Title: "three"}}, posts)
}

func TestSQLiteSource_Get(t *testing.T) {
	src := newTestSQLiteSource(t)
	require.NoError(t, src.Seed(samplePosts))

	p, ok, err := src.Get(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Post{ID: 2, Title: "More fun stuff..."}, p)

	_, ok, err = src.Get(999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteSource_EmptyTable(t *testing.T) {
	src := newTestSQLiteSource(t)

	posts, err := src.List()
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestSQLiteSource_SeedRejectsInvalidPost(t *testing.T) {
	src := newTestSQLiteSource(t)

	err := src.Seed([]Post{{ID: 1, Title: "ok"}, {ID: 2}})
	assert.ErrorIs(t, err, ErrInvalidDataset)

	posts, err := src.List()
	require.NoError(t, err)
	assert.Empty(t, posts, "seed is all or nothing")
}

func TestService_WithSQLiteSource(t *testing.T) {
	src := newTestSQLiteSource(t)
	require.NoError(t, src.Seed(samplePosts))
	svc, _ := newTestService(t, WithSource(src))

	post, ok, err := svc.GetPost(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, more, post)

	posts, err := svc.GetPosts()
	require.NoError(t, err)
	assert.Equal(t, []Post{welcome, more}, posts)
}
