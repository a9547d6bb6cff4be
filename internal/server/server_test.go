package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dbmrq/gorestaurant/internal/api"
	"github.com/dbmrq/gorestaurant/internal/config"
	apperrors "github.com/dbmrq/gorestaurant/internal/errors"
	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/listsync"
	"github.com/dbmrq/gorestaurant/internal/logging"
	"github.com/dbmrq/gorestaurant/internal/store"
	"github.com/dbmrq/gorestaurant/internal/version"
)

// logBuffer is written by server goroutines and read by the test.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestBackend(t *testing.T) (*httptest.Server, *store.Store, *logBuffer) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "foods.json"))
	logs := &logBuffer{}
	srv := httptest.NewServer(New(st, logging.NewWithWriter(logs, nil)).Handler())
	t.Cleanup(srv.Close)
	return srv, st, logs
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestServer_CRUD(t *testing.T) {
	srv, st, _ := newTestBackend(t)

	resp := do(t, http.MethodPost, srv.URL+"/foods", `{"name":"Feijoada","price":"59.90","available":true}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}
	created := decode[food.Item](t, resp)
	if created.ID != 1 || created.Name != "Feijoada" {
		t.Errorf("created = %+v", created)
	}

	resp = do(t, http.MethodGet, srv.URL+"/foods", "")
	list := decode[[]food.Item](t, resp)
	if len(list) != 1 || list[0].ID != 1 {
		t.Errorf("GET /foods = %+v", list)
	}

	resp = do(t, http.MethodPut, srv.URL+"/foods/1", `{"id":999,"name":"X","price":"10","available":false}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d", resp.StatusCode)
	}
	updated := decode[food.Item](t, resp)
	if updated.ID != 1 || updated.Name != "X" || updated.Available {
		t.Errorf("PUT result = %+v, id must come from the path", updated)
	}

	resp = do(t, http.MethodDelete, srv.URL+"/foods/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE status = %d", resp.StatusCode)
	}
	if st.Count() != 0 {
		t.Errorf("store count = %d after delete", st.Count())
	}

	// Mutations are persisted.
	reloaded := store.New(st.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if reloaded.Count() != 0 || reloaded.Metadata().NextID != 2 {
		t.Errorf("persisted store = %d items, next id %d", reloaded.Count(), reloaded.Metadata().NextID)
	}
}

func TestServer_Patch(t *testing.T) {
	srv, st, _ := newTestBackend(t)
	st.Create(food.Item{Name: "Pizza", Price: "40.00", Description: "cheese", Available: true})

	resp := do(t, http.MethodPatch, srv.URL+"/foods/1", `{"available":false}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PATCH status = %d", resp.StatusCode)
	}
	got := decode[food.Item](t, resp)
	if got.Available || got.Name != "Pizza" || got.Description != "cheese" {
		t.Errorf("PATCH result = %+v, want only availability changed", got)
	}
}

func TestServer_Errors(t *testing.T) {
	srv, _, _ := newTestBackend(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"get missing", http.MethodGet, "/foods/5", "", http.StatusNotFound},
		{"put missing", http.MethodPut, "/foods/5", `{"name":"x"}`, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/foods/5", "", http.StatusNotFound},
		{"bad json", http.MethodPost, "/foods", `{nope`, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/foods", `{"price":"1"}`, http.StatusBadRequest},
		{"bad price", http.MethodPost, "/foods", `{"name":"x","price":"abc"}`, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/drinks", "", http.StatusNotFound},
		{"non-numeric id", http.MethodGet, "/foods/abc", "", http.StatusNotFound},
		{"wrong method", http.MethodPost, "/foods/1", `{}`, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestServer_SaveFailureLeavesStoreUnchanged(t *testing.T) {
	// The data file's parent is a regular file, so every save fails.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	st := store.New(filepath.Join(blocker, "foods.json"))
	st.Create(food.Item{Name: "Pizza", Price: "30", Available: true})
	logs := &logBuffer{}
	srv := httptest.NewServer(New(st, logging.NewWithWriter(logs, nil)).Handler())
	t.Cleanup(srv.Close)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"create", http.MethodPost, "/foods", `{"name":"Feijoada","price":"59.90"}`},
		{"replace", http.MethodPut, "/foods/1", `{"name":"Calzone","price":"35"}`},
		{"patch", http.MethodPatch, "/foods/1", `{"available":false}`},
		{"delete", http.MethodDelete, "/foods/1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.body)
			if resp.StatusCode != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", resp.StatusCode)
			}

			items := decode[[]food.Item](t, do(t, http.MethodGet, srv.URL+"/foods", ""))
			want := []food.Item{{ID: 1, Name: "Pizza", Price: "30", Available: true}}
			if len(items) != 1 || items[0] != want[0] {
				t.Errorf("GET /foods = %+v, want %+v", items, want)
			}
		})
	}

	if !strings.Contains(logs.String(), "failed to save store") {
		t.Errorf("save failure not logged:\n%s", logs.String())
	}
	if md := st.Metadata(); md.NextID != 2 {
		t.Errorf("NextID = %d, want 2", md.NextID)
	}
}

func TestServer_RequestIDAndAccessLog(t *testing.T) {
	srv, _, logs := newTestBackend(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/foods", nil)
	req.Header.Set(api.RequestIDHeader, "req-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get(api.RequestIDHeader); got != "req-123" {
		t.Errorf("echoed request id = %q", got)
	}
	out := logs.String()
	for _, want := range []string{"msg=handled", "method=GET", "status=200", "request_id=req-123"} {
		if !strings.Contains(out, want) {
			t.Errorf("access log missing %q:\n%s", want, out)
		}
	}

	resp = do(t, http.MethodGet, srv.URL+"/foods", "")
	if resp.Header.Get(api.RequestIDHeader) == "" {
		t.Error("server should generate a request id when none is sent")
	}
}

// The dashboard's client and synchronizer against the real handler.
func TestServer_WithSynchronizer(t *testing.T) {
	srv, st, _ := newTestBackend(t)
	st.Create(food.Item{Name: "Feijoada", Price: "59.90", Available: true})

	client := api.New(config.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	client.Logger = logging.NewNoop()
	syncer := listsync.New(client, &listsync.Options{Logger: logging.NewNoop()})
	defer syncer.Close()

	ctx := context.Background()
	if err := syncer.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	pizza, err := syncer.Create(ctx, food.Draft{Name: "Pizza", Price: "40.00"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pizza.ID != 2 || !pizza.Available {
		t.Errorf("created = %+v", pizza)
	}

	syncer.SelectForEdit(syncer.Items()[0])
	if _, err := syncer.Update(ctx, food.Draft{Name: "Feijoada Completa", Price: "65.00"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := syncer.Delete(ctx, pizza.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	local := syncer.Items()
	remote := st.List()
	if len(local) != 1 || len(remote) != 1 || local[0] != remote[0] {
		t.Errorf("local %+v and remote %+v diverged", local, remote)
	}
	if local[0].Name != "Feijoada Completa" || !local[0].Available {
		t.Errorf("item = %+v", local[0])
	}

	// A delete the backend rejects leaves the local list alone.
	err = syncer.Delete(ctx, 42)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Delete(42) error = %v, want ErrNotFound", err)
	}
	if len(syncer.Items()) != 1 {
		t.Errorf("local list changed after failed delete")
	}
}

func TestServer_Version(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "foods.json"))
	s := New(st, logging.NewNoop())
	s.SetVersion(version.NewInfo("1.4.0", "abc123", "2026-10-01"))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	info, err := version.NewChecker(srv.URL, time.Second).ServerVersion(context.Background())
	if err != nil {
		t.Fatalf("ServerVersion() error = %v", err)
	}
	if info.Version != "1.4.0" || info.Commit != "abc123" {
		t.Errorf("served version = %+v", info)
	}
}

func TestServer_ListenAndServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	st := store.New(filepath.Join(t.TempDir(), "foods.json"))
	s := New(st, logging.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/foods")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
