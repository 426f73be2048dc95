// Package web serves the thought board front end: the route table and the
// server-rendered views behind it.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leopalladium/thoughtboard/client"
)

// Thoughts is the part of the thoughts API the views use.
type Thoughts interface {
	ListThoughts(ctx context.Context) ([]client.Thought, error)
	CreateThought(ctx context.Context, content string) (client.Thought, error)
}

var _ Thoughts = (*client.Client)(nil)

// Web serves the pages listed in Routes.
type Web struct {
	Logger   *slog.Logger
	Thoughts Thoughts

	once   sync.Once
	router chi.Router
}

func (s *Web) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.logRequests)

	views := map[View]http.HandlerFunc{
		ViewHome:         s.home,
		ViewThoughtBoard: s.board,
	}
	for _, route := range Routes {
		r.Get(route.Path, views[route.View])
	}
	r.Post(mustLookup(ViewThoughtBoard).Path, s.createThought)
	r.NotFound(s.notFound)

	s.router = r
}

func (s *Web) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.once.Do(s.setupRoutes)
	s.router.ServeHTTP(w, r)
}

func (s *Web) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Logger.Info("Request received", "method", r.Method, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	})
}

func (s *Web) render(w http.ResponseWriter, r *http.Request, status int, route Route, body templ.Component) {
	templ.Handler(page(route, body), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (s *Web) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, mustLookup(ViewHome), homeView())
}

func (s *Web) board(w http.ResponseWriter, r *http.Request) {
	thoughts, err := s.Thoughts.ListThoughts(r.Context())
	if err != nil {
		s.Logger.Error("Could not list thoughts", "error", err.Error())
		s.render(w, r, http.StatusBadGateway, mustLookup(ViewThoughtBoard), boardView(boardData{
			Error: "Could not load thoughts. Please try again later.",
		}))
		return
	}
	s.render(w, r, http.StatusOK, mustLookup(ViewThoughtBoard), boardView(boardData{Thoughts: thoughts}))
}

func (s *Web) createThought(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.Logger.Error("Could not parse form", "error", err.Error())
		s.render(w, r, http.StatusBadRequest, mustLookup(ViewThoughtBoard), boardView(boardData{
			Error: "Could not read the submitted form.",
		}))
		return
	}
	content := r.PostFormValue("content")

	if _, err := s.Thoughts.CreateThought(r.Context(), content); err != nil {
		s.Logger.Error("Could not create thought", "error", err.Error())
		s.render(w, r, http.StatusBadGateway, mustLookup(ViewThoughtBoard), boardView(boardData{
			Error: "Could not post your thought. Please try again later.",
			Draft: content,
		}))
		return
	}

	http.Redirect(w, r, mustLookup(ViewThoughtBoard).Path, http.StatusSeeOther)
}

func (s *Web) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, Route{Title: "Page not found"}, notFoundView(r.URL.Path))
}
