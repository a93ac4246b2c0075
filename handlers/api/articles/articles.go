package articles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"news-api/core"
	"news-api/handlers/api/apierror"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

const (
	defaultLimit = 20
	maxBodyBytes = 1 << 20
)

type (
	ArticleCreateRequest struct {
		Title    string   `json:"title"`
		Summary  *string  `json:"summary"`
		Content  string   `json:"content"`
		Author   string   `json:"author"`
		Category string   `json:"category"`
		ImageURL *string  `json:"image_url"`
		Tags     []string `json:"tags"`
	}
	ArticleCreateResponse struct {
		ID string `json:"id"`
	}
	ArticleListResponse struct {
		Items []core.Document `json:"items"`
	}

	// Notifier is told about every stored article.
	Notifier interface {
		ArticleCreated(id string, article *core.Article)
	}
)

func (body *ArticleCreateRequest) Bind(r *http.Request) error {
	for _, field := range []struct{ name, value string }{
		{"title", body.Title},
		{"content", body.Content},
		{"author", body.Author},
		{"category", body.Category},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", core.ErrValidation, field.name)
		}
	}
	if body.Tags == nil {
		body.Tags = []string{}
	}
	for i, tag := range body.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: tags[%d] must be a non-empty string", core.ErrValidation, i)
		}
	}
	return nil
}

func (body *ArticleCreateRequest) Article() *core.Article {
	return &core.Article{
		Title:    body.Title,
		Summary:  body.Summary,
		Content:  body.Content,
		Author:   body.Author,
		Category: body.Category,
		ImageURL: body.ImageURL,
		Tags:     body.Tags,
	}
}

// decode reads a single JSON object of at most maxBodyBytes, rejecting
// unknown fields and trailing data, then runs the binder.
func decode(w http.ResponseWriter, r *http.Request, v render.Binder) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", core.ErrValidation, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body must contain a single JSON object", core.ErrValidation)
	}
	return v.Bind(r)
}

func HandleCreate(articles *core.Collection[core.Article], notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := &ArticleCreateRequest{}
		if err := decode(w, r, data); err != nil {
			apierror.Write(w, r, err)
			return
		}

		article := data.Article()
		id, err := articles.Insert(r.Context(), article)
		if err != nil {
			apierror.Write(w, r, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"document_id": id,
			"category":    article.Category,
		}).Info("Article created")

		if notifier != nil {
			notifier.ArticleCreated(id, article)
		}

		render.JSON(w, r, ArticleCreateResponse{ID: id})
	}
}

func HandleList(articles *core.Collection[core.Article]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := int64(defaultLimit)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n < 1 {
				render.Render(w, r, apierror.BadRequest("limit must be a positive integer"))
				return
			}
			limit = n
		}

		filter := core.Filter{}
		if category := r.URL.Query().Get("category"); category != "" {
			filter["category"] = category
		}

		docs, err := articles.Find(r.Context(), filter, limit)
		if err != nil {
			apierror.Write(w, r, err)
			return
		}

		items := make([]core.Document, 0, len(docs))
		for _, doc := range docs {
			items = append(items, core.NormalizeID(articles.Store(), doc))
		}
		render.JSON(w, r, ArticleListResponse{Items: items})
	}
}

func HandleGet(articles *core.Collection[core.Article]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		doc, err := articles.FindID(r.Context(), id)
		switch {
		case errors.Is(err, core.ErrInvalidID):
			render.Render(w, r, apierror.BadRequest("Invalid article id"))
			return
		case errors.Is(err, core.ErrNotFound):
			render.Render(w, r, apierror.NotFound("Article not found"))
			return
		case err != nil:
			apierror.Write(w, r, err)
			return
		}

		render.JSON(w, r, core.NormalizeID(articles.Store(), doc))
	}
}
