package diagnostics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"news-api/core"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

const (
	maxCollections = 10
	maxErrorLength = 50
	probeTimeout   = 5 * time.Second
)

type (
	RootResponse struct {
		Message string `json:"message"`
	}

	// Settings reports which store settings were present at startup.
	Settings struct {
		DatabaseURLSet  bool
		DatabaseNameSet bool
	}

	Status struct {
		Backend          string   `json:"backend"`
		Database         string   `json:"database"`
		DatabaseURL      string   `json:"database_url"`
		DatabaseName     string   `json:"database_name"`
		ConnectionStatus string   `json:"connection_status"`
		Collections      []string `json:"collections"`
	}
)

func HandleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, RootResponse{Message: "News API is running"})
	}
}

// HandleTest reports liveness and best-effort store reachability. It always
// answers 200; failures are folded into the status strings.
func HandleTest(store core.DocumentStore, settings Settings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, Check(r.Context(), store, settings))
	}
}

func Check(ctx context.Context, store core.DocumentStore, settings Settings) Status {
	status := Status{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	probe(ctx, store, &status)

	status.DatabaseURL = setOrNot(settings.DatabaseURLSet)
	status.DatabaseName = setOrNot(settings.DatabaseNameSet)
	return status
}

func probe(ctx context.Context, store core.DocumentStore, status *Status) {
	defer func() {
		if rec := recover(); rec != nil {
			status.Database = "❌ Error: " + truncate(fmt.Sprint(rec))
			logrus.WithField("panic", rec).Warn("Database diagnostic failed")
		}
	}()

	if store == nil || !store.Connected() {
		status.Database = "⚠️  Available but not initialized"
		return
	}
	status.Database = "✅ Available"
	status.ConnectionStatus = "Connected"

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	names, err := store.Collections(ctx)
	if err != nil {
		status.Database = "⚠️  Connected but Error: " + truncate(err.Error())
		logrus.WithError(err).Warn("Listing collections failed")
		return
	}
	if len(names) > maxCollections {
		names = names[:maxCollections]
	}
	status.Collections = append(status.Collections, names...)
	status.Database = "✅ Connected & Working"
}

func setOrNot(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxErrorLength {
		return s
	}
	return string(runes[:maxErrorLength])
}
