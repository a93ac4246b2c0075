package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"news-api/core"
	"news-api/stores/jsondoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWritesOneFilePerDocument(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store, err := NewDocumentStore(base)
	require.NoError(t, err)

	id, err := store.Create(ctx, core.ArticleCollection, &core.Article{Title: "A", Category: "news"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(base, core.ArticleCollection, id))
	require.NoError(t, err)

	native, err := store.ParseID(id)
	require.NoError(t, err)
	docs, err := store.Find(ctx, core.ArticleCollection, core.Filter{core.NativeIDField: native}, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "A", docs[0]["title"])
}

func TestFindMissing(t *testing.T) {
	ctx := context.Background()
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	docs, err := store.Find(ctx, core.ArticleCollection, nil, 20)
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = store.Find(ctx, core.ArticleCollection, core.Filter{core.NativeIDField: jsondoc.NewID()}, 1)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFindFiltersInCreationOrder(t *testing.T) {
	ctx := context.Background()
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	for _, a := range []core.Article{
		{Title: "1", Category: "tech"},
		{Title: "2", Category: "news"},
		{Title: "3", Category: "tech"},
		{Title: "4", Category: "tech"},
	} {
		_, err := store.Create(ctx, core.ArticleCollection, &a)
		require.NoError(t, err)
	}

	docs, err := store.Find(ctx, core.ArticleCollection, core.Filter{"category": "tech"}, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "1", docs[0]["title"])
	assert.Equal(t, "3", docs[1]["title"])

	names, err := store.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.ArticleCollection}, names)
	assert.True(t, store.Connected())
}

func TestRejectsPathCollections(t *testing.T) {
	ctx := context.Background()
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Create(ctx, "../escape", &core.Article{})
	assert.ErrorIs(t, err, core.ErrWriteFailure)

	_, err = store.Find(ctx, "../escape", nil, 1)
	assert.Error(t, err)
}
