package articles_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"news-api/core"
	"news-api/handlers/api/articles"
	"news-api/stores/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type created struct {
	id      string
	article core.Article
}

// recordingNotifier keeps every article it is told about.
type recordingNotifier struct {
	created []created
}

func (n *recordingNotifier) ArticleCreated(id string, article *core.Article) {
	n.created = append(n.created, created{id: id, article: *article})
}

// failingStore rejects every write and read.
type failingStore struct {
	core.DocumentStore
}

func (failingStore) Create(context.Context, string, any) (string, error) {
	return "", core.ErrWriteFailure
}

func (failingStore) Find(context.Context, string, core.Filter, int64) ([]core.Document, error) {
	return nil, core.ErrStoreUnavailable
}

func post(t *testing.T, h http.HandlerFunc, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h(rr, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr.Code, out
}

const validBody = `{"title":"A","content":"C","author":"Bob","category":"news"}`

func TestHandleCreatePublishesArticle(t *testing.T) {
	notifier := &recordingNotifier{}
	collection := core.NewCollection[core.Article](memory.NewDocumentStore(), core.ArticleCollection)

	code, out := post(t, articles.HandleCreate(collection, notifier), validBody)

	require.Equal(t, http.StatusOK, code)
	require.Len(t, notifier.created, 1)
	assert.Equal(t, out["id"], notifier.created[0].id)
	assert.Equal(t, core.Article{Title: "A", Content: "C", Author: "Bob", Category: "news", Tags: []string{}}, notifier.created[0].article)
}

func TestHandleCreateWithoutNotifier(t *testing.T) {
	collection := core.NewCollection[core.Article](memory.NewDocumentStore(), core.ArticleCollection)

	code, out := post(t, articles.HandleCreate(collection, nil), validBody)

	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, out["id"])
}

func TestHandleCreateStoreFailureIsNotPublished(t *testing.T) {
	notifier := &recordingNotifier{}
	collection := core.NewCollection[core.Article](failingStore{}, core.ArticleCollection)

	code, out := post(t, articles.HandleCreate(collection, notifier), validBody)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, core.ErrWriteFailure.Error(), out["detail"])
	assert.Empty(t, notifier.created)
}

func TestHandleCreateInvalidPayloadIsNotPublished(t *testing.T) {
	notifier := &recordingNotifier{}
	collection := core.NewCollection[core.Article](memory.NewDocumentStore(), core.ArticleCollection)

	code, _ := post(t, articles.HandleCreate(collection, notifier), validBody+`{"rating":5}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Empty(t, notifier.created)
}

func TestHandleCreateRejectsOversizedBody(t *testing.T) {
	collection := core.NewCollection[core.Article](memory.NewDocumentStore(), core.ArticleCollection)
	body := `{"title":"A","content":"` + strings.Repeat("x", 2<<20) + `","author":"Bob","category":"news"}`

	code, out := post(t, articles.HandleCreate(collection, nil), body)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, out["detail"])

	docs, err := collection.Find(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestHandleListStoreFailure(t *testing.T) {
	collection := core.NewCollection[core.Article](failingStore{}, core.ArticleCollection)
	rr := httptest.NewRecorder()

	articles.HandleList(collection)(rr, httptest.NewRequest(http.MethodGet, "/api/articles", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), core.ErrStoreUnavailable.Error())
}

func TestBindDefaultsAndRejectsTags(t *testing.T) {
	req := &articles.ArticleCreateRequest{Title: "A", Content: "C", Author: "Bob", Category: "news"}
	require.NoError(t, req.Bind(nil))
	assert.Equal(t, []string{}, req.Tags)

	req.Tags = []string{"go", ""}
	assert.ErrorIs(t, req.Bind(nil), core.ErrValidation)
}
