package memory

import (
	"context"
	"encoding/json"
	"testing"

	"news-api/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	id, err := store.Create(ctx, core.ArticleCollection, &core.Article{Title: "A", Content: "C", Author: "Bob", Category: "news", Tags: []string{}})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	native, err := store.ParseID(id)
	require.NoError(t, err)

	docs, err := store.Find(ctx, core.ArticleCollection, core.Filter{core.NativeIDField: native}, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "A", docs[0]["title"])
	assert.Equal(t, native, docs[0][core.NativeIDField])
}

func TestFindFiltersAndLimits(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	for _, category := range []string{"tech", "news", "tech", "tech"} {
		_, err := store.Create(ctx, core.ArticleCollection, &core.Article{Title: "t", Content: "c", Author: "a", Category: category})
		require.NoError(t, err)
	}

	docs, err := store.Find(ctx, core.ArticleCollection, core.Filter{"category": "tech"}, 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	for _, doc := range docs {
		assert.Equal(t, "tech", doc["category"])
	}

	docs, err = store.Find(ctx, core.ArticleCollection, nil, 10)
	require.NoError(t, err)
	assert.Len(t, docs, 4)

	docs, err = store.Find(ctx, "missing", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFindReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	_, err := store.Create(ctx, core.ArticleCollection, &core.Article{Title: "A", Category: "news"})
	require.NoError(t, err)

	docs, err := store.Find(ctx, core.ArticleCollection, nil, 1)
	require.NoError(t, err)
	docs[0]["title"] = "changed"

	docs, err = store.Find(ctx, core.ArticleCollection, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", docs[0]["title"])
}

func TestCollections(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	_, err := store.Create(ctx, "b", map[string]string{"k": "v"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "a", map[string]string{"k": "v"})
	require.NoError(t, err)

	names, err := store.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.True(t, store.Connected())
	assert.Equal(t, "memory", store.Name())
}

func TestFindKeepsEmptyTags(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	_, err := store.Create(ctx, core.ArticleCollection, &core.Article{Title: "A", Category: "news", Tags: []string{}})
	require.NoError(t, err)

	docs, err := store.Find(ctx, core.ArticleCollection, nil, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, []any{}, docs[0]["tags"])
	data, err := json.Marshal(docs[0]["tags"])
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
