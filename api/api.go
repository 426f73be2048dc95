// Package api serves the thoughts REST API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultLimit = 100
	welcome      = "Welcome to the Thought Board API MVP!"
)

// A DB provides a storage layer that persists thoughts.
type DB interface {
	// ListThoughts returns thoughts newest first, skipping offset and
	// returning at most limit.
	ListThoughts(ctx context.Context, limit int, offset int) ([]Thought, error)
	// InsertThought stores a thought and returns it with the fields the
	// storage assigned.
	InsertThought(ctx context.Context, t Thought) (Thought, error)
}

// API provides the REST endpoints for the application.
type API struct {
	Logger *slog.Logger
	DB     DB

	once     sync.Once
	mux      *http.ServeMux
	validate *validator.Validate
}

func (a *API) setupRoutes() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.root)
	mux.HandleFunc("GET /thoughts/{$}", a.listThoughts)
	mux.HandleFunc("POST /thoughts/{$}", a.createThought)

	a.mux = mux
	a.validate = validator.New(validator.WithRequiredStructEnabled())
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.once.Do(a.setupRoutes)
	a.Logger.Info("Request received", "method", r.Method, "path", r.URL.Path)
	a.mux.ServeHTTP(w, r)
}

func (a *API) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.Logger.Error("Could not encode JSON body", "error", err.Error())
	}
}

func (a *API) respondError(w http.ResponseWriter, status int, err error, msg string) {
	type response struct {
		Error string `json:"error"`
	}
	a.Logger.Error("Error", "error", err.Error())
	a.respond(w, status, response{Error: msg})
}

type thought struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func toResponse(t Thought) thought {
	return thought{
		ID:        t.ID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (a *API) root(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Message string `json:"message"`
	}
	a.respond(w, http.StatusOK, response{Message: welcome})
}

// queryInt reads a non-negative integer query parameter, returning def when
// it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must not be negative", name)
	}
	return n, nil
}

func (a *API) listThoughts(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		a.respondError(w, http.StatusUnprocessableEntity, err, "skip must be a non-negative integer")
		return
	}
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		a.respondError(w, http.StatusUnprocessableEntity, err, "limit must be a non-negative integer")
		return
	}
	if limit == 0 {
		a.respond(w, http.StatusOK, []thought{})
		return
	}

	thoughts, err := a.DB.ListThoughts(r.Context(), limit, skip)
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, err, "Could not list thoughts")
		return
	}
	a.Logger.Info("Got thoughts from DB", "count", len(thoughts))

	out := make([]thought, len(thoughts))
	for i, t := range thoughts {
		out[i] = toResponse(t)
	}
	a.respond(w, http.StatusOK, out)
}

func (a *API) createThought(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Content *string `json:"content" validate:"required"`
	}

	var body request
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err, "Could not decode request body")
		return
	}
	r.Body.Close()

	if err := a.validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			a.respondError(w, http.StatusUnprocessableEntity, err, "content is required")
			return
		}
		a.respondError(w, http.StatusBadRequest, err, "Could not validate request body")
		return
	}

	t, err := a.DB.InsertThought(r.Context(), Thought{
		Content:   *body.Content,
		CreatedAt: time.Now(),
	})
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, err, "Could not insert thought")
		return
	}

	a.respond(w, http.StatusOK, toResponse(t))
}
