// Package apierror renders failures as {"detail": "..."} payloads.
package apierror

import (
	"errors"
	"net/http"

	"news-api/core"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	Detail string `json:"detail"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func BadRequest(detail string) render.Renderer {
	return &ErrResponse{HTTPStatusCode: http.StatusBadRequest, Detail: detail}
}

func NotFound(detail string) render.Renderer {
	return &ErrResponse{HTTPStatusCode: http.StatusNotFound, Detail: detail}
}

// Internal reports err verbatim with a 500 status.
func Internal(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusInternalServerError, Detail: err.Error()}
}

// Write maps err onto its HTTP kind and renders it. Validation failures are
// the client's fault; everything else unknown is a server error.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	var resp render.Renderer
	switch {
	case errors.Is(err, core.ErrValidation):
		resp = BadRequest(err.Error())
	case errors.Is(err, core.ErrNotFound):
		resp = NotFound(err.Error())
	default:
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("Request failed")
		resp = Internal(err)
	}
	render.Render(w, r, resp)
}
