// Package server implements a local /foods backend compatible with the
// dashboard's HTTP client.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dbmrq/gorestaurant/internal/api"
	apperrors "github.com/dbmrq/gorestaurant/internal/errors"
	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/logging"
	"github.com/dbmrq/gorestaurant/internal/store"
	"github.com/dbmrq/gorestaurant/internal/version"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves a food store over HTTP.
type Server struct {
	store  *store.Store
	log    *logging.Logger
	router *mux.Router
	info   *version.Info
}

// New creates a server for st. Every successful mutation is saved to the
// store's file before the response is written.
func New(st *store.Store, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Global()
	}
	s := &Server{
		store: st,
		log:   log.With("component", "server"),
		info:  version.NewInfo("dev", "none", "unknown"),
	}

	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog)

	r.Methods(http.MethodGet).Path("/foods").HandlerFunc(s.listFoods)
	r.Methods(http.MethodPost).Path("/foods").HandlerFunc(s.createFood)
	r.Methods(http.MethodGet).Path("/foods/{id:[0-9]+}").HandlerFunc(s.getFood)
	r.Methods(http.MethodPut).Path("/foods/{id:[0-9]+}").HandlerFunc(s.replaceFood)
	r.Methods(http.MethodPatch).Path("/foods/{id:[0-9]+}").HandlerFunc(s.patchFood)
	r.Methods(http.MethodDelete).Path("/foods/{id:[0-9]+}").HandlerFunc(s.deleteFood)
	r.Methods(http.MethodGet).Path(version.Path).HandlerFunc(s.serveVersion)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router = r
	return s
}

// SetVersion sets the build information served at /version.
func (s *Server) SetVersion(info *version.Info) {
	if info != nil {
		s.info = info
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "data", s.store.Path())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// requestID makes sure every request carries an X-Request-ID and echoes it.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(api.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(api.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.log.WithContext(r.Context()).Info("handled",
			"method", r.Method,
			"url", r.URL.String(),
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
		)
	})
}

func (s *Server) serveVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.info)
}

func (s *Server) listFoods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) getFood(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	it, found := s.store.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, apperrors.FoodNotFound(id).Message)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) createFood(w http.ResponseWriter, r *http.Request) {
	var it food.Item
	if !decodeBody(w, r, &it) {
		return
	}
	if err := food.DraftOf(it).Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var created food.Item
	if !s.commit(w, r, func(tx *store.Store) error {
		created = tx.Create(it)
		return nil
	}) {
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// replaceFood handles PUT: the body replaces every field but the ID, which
// always comes from the path.
func (s *Server) replaceFood(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var it food.Item
	if !decodeBody(w, r, &it) {
		return
	}
	it.ID = id
	s.update(w, r, it)
}

// patchFood handles PATCH: fields absent from the body keep their values.
func (s *Server) patchFood(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	it, found := s.store.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, apperrors.FoodNotFound(id).Message)
		return
	}
	if !decodeBody(w, r, &it) {
		return
	}
	it.ID = id
	s.update(w, r, it)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, it food.Item) {
	if err := food.DraftOf(it).Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var updated food.Item
	if !s.commit(w, r, func(tx *store.Store) error {
		var err error
		updated, err = tx.Update(it)
		return err
	}) {
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteFood(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.commit(w, r, func(tx *store.Store) error {
		return tx.Delete(id)
	}) {
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// commit applies fn to the store and persists it, writing the error
// response when either step fails. A failed save leaves the store as it was.
func (s *Server) commit(w http.ResponseWriter, r *http.Request, fn func(tx *store.Store) error) bool {
	err := s.store.Commit(fn)
	switch {
	case err == nil:
		return true
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, apperrors.UserMessage(err))
	default:
		s.log.WithContext(r.Context()).Error("failed to save store", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save")
	}
	return false
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
