package handlers

import (
	"net/http"

	"news-api/core"
	"news-api/handlers/api/articles"
	"news-api/handlers/api/diagnostics"
	"news-api/handlers/feed"
	"news-api/handlers/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Store    core.DocumentStore
	Feed     *feed.Hub // optional
	Settings diagnostics.Settings
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logrus.StandardLogger(), NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	collection := core.NewCollection[core.Article](opts.Store, core.ArticleCollection)
	var notifier articles.Notifier
	if opts.Feed != nil {
		notifier = opts.Feed
	}

	r.Get("/", diagnostics.HandleRoot())
	r.Get("/test", diagnostics.HandleTest(opts.Store, opts.Settings))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/articles", func(r chi.Router) {
		r.Post("/", articles.HandleCreate(collection, notifier))
		r.Get("/", articles.HandleList(collection))
		r.Get("/{id}", articles.HandleGet(collection))
	})

	if opts.Feed != nil {
		r.Handle("/socket.io/", opts.Feed.Handler())
	}
	return r
}
