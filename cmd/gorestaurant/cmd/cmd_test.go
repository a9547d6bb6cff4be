package cmd

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
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbmrq/gorestaurant/internal/config"
	apperrors "github.com/dbmrq/gorestaurant/internal/errors"
	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/listsync"
	"github.com/dbmrq/gorestaurant/internal/logging"
	"github.com/dbmrq/gorestaurant/internal/server"
	"github.com/dbmrq/gorestaurant/internal/store"
	"github.com/dbmrq/gorestaurant/internal/version"
)

// newTestRoot creates a fresh command hierarchy for testing.
// Cobra commands keep flag state between runs.
func newTestRoot() *cobra.Command {
	root := newRootCmd()
	root.Version = "test"
	root.SetVersionTemplate("gorestaurant {{.Version}}\n")
	return root
}

// execute runs args against a fresh root and returns everything printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd := newTestRoot()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// inTempDir runs the test from an empty directory, so config and log files
// land there.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// newBackend starts a seeded backend and returns its URL and store.
func newBackend(t *testing.T) (string, *store.Store) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "foods.json"))
	st.Seed(store.SampleMenu())
	srv := server.New(st, logging.NewNoop())
	srv.SetVersion(version.NewInfo(Version, Commit, Date))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL, st
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "help flag",
			args:       []string{"--help"},
			wantErr:    false,
			wantOutput: "Available Commands:",
		},
		{
			name:       "help lists global flags",
			args:       []string{"--help"},
			wantErr:    false,
			wantOutput: "--api",
		},
		{
			name:       "version flag",
			args:       []string{"--version"},
			wantErr:    false,
			wantOutput: "gorestaurant test",
		},
		{
			name:    "unknown command",
			args:    []string{"unknown"},
			wantErr: true,
		},
		{
			name:       "dashboard help",
			args:       []string{"dashboard", "--help"},
			wantErr:    false,
			wantOutput: "interactive food dashboard",
		},
		{
			name:    "dashboard takes no args",
			args:    []string{"dashboard", "extra"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantOutput != "" && !strings.Contains(out, tt.wantOutput) {
				t.Errorf("Output = %q, want to contain %q", out, tt.wantOutput)
			}
		})
	}
}

func TestInitCommand(t *testing.T) {
	inTempDir(t)

	out, err := execute(t, "init", "--api", "http://10.0.0.5:3333")
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(out, "Created "+config.DefaultConfigPath) {
		t.Errorf("Output = %q", out)
	}

	cfg, err := config.Load(config.DefaultConfigPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:3333" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != config.DefaultTimeout {
		t.Errorf("Timeout = %v", cfg.API.Timeout)
	}

	if _, err := execute(t, "init"); err == nil {
		t.Error("init should refuse to overwrite without --force")
	}
	if _, err := execute(t, "init", "-f"); err != nil {
		t.Errorf("init -f error = %v", err)
	}

	cfg, _ = config.Load(config.DefaultConfigPath)
	if cfg.API.BaseURL != config.DefaultBaseURL {
		t.Errorf("forced init should write defaults, BaseURL = %q", cfg.API.BaseURL)
	}
}

func TestInitCommand_CustomPath(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "conf", "gorestaurant.yaml")

	if _, err := execute(t, "init", "--config", path); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written: %v", err)
	}
}

func TestInitCommand_InvalidAPI(t *testing.T) {
	inTempDir(t)
	if _, err := execute(t, "init", "--api", "not a url"); err == nil {
		t.Error("init should reject an invalid backend URL")
	}
}

func TestListCommand(t *testing.T) {
	inTempDir(t)
	url, _ := newBackend(t)

	out, err := execute(t, "list", "--api", url)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"NAME", "Ao molho", "$ 19.90", "Veggie", "A la Camarón"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestListCommand_JSON(t *testing.T) {
	inTempDir(t)
	url, _ := newBackend(t)

	out, err := execute(t, "list", "--json", "--api", url)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}

	var items []food.Item
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(items) != 3 || items[0].ID != 1 || items[2].Available {
		t.Errorf("items = %+v", items)
	}
}

func TestListCommand_BackendDown(t *testing.T) {
	inTempDir(t)
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := execute(t, "list", "--api", url)
	if !apperrors.Is(err, apperrors.ErrNetwork) {
		t.Errorf("list error = %v, want a network error", err)
	}
}

func TestFoodCommands(t *testing.T) {
	inTempDir(t)
	url, st := newBackend(t)

	out, err := execute(t, "add", "--api", url, "-n", "Feijoada", "-p", "59.90", "-d", "Black beans")
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	if !strings.Contains(out, "Added #4 Feijoada") {
		t.Errorf("add output = %q", out)
	}
	if it, ok := st.Get(4); !ok || !it.Available || it.Price != "59.90" {
		t.Errorf("stored item = %+v, %v", it, ok)
	}

	out, err = execute(t, "edit", "4", "--api", url, "--price", "61.00")
	if err != nil {
		t.Fatalf("edit error = %v", err)
	}
	if !strings.Contains(out, "Saved #4 Feijoada") {
		t.Errorf("edit output = %q", out)
	}
	it, _ := st.Get(4)
	if it.Price != "61.00" || it.Name != "Feijoada" || it.Description != "Black beans" || !it.Available {
		t.Errorf("edit should only change the price, got %+v", it)
	}

	if _, err := execute(t, "edit", "4", "--api", url, "--available=false"); err != nil {
		t.Fatalf("edit --available error = %v", err)
	}
	if it, _ := st.Get(4); it.Available || it.Price != "61.00" {
		t.Errorf("availability edit = %+v", it)
	}

	out, err = execute(t, "delete", "4", "--api", url)
	if err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if !strings.Contains(out, "Deleted item #4") {
		t.Errorf("delete output = %q", out)
	}
	if _, ok := st.Get(4); ok {
		t.Error("item should be deleted from the backend")
	}
}

func TestFoodCommands_Errors(t *testing.T) {
	inTempDir(t)
	url, _ := newBackend(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"add without name", []string{"add", "--api", url, "-p", "10"}, apperrors.ErrValidation},
		{"add with bad price", []string{"add", "--api", url, "-n", "Soup", "-p", "ten"}, apperrors.ErrValidation},
		{"edit unknown id", []string{"edit", "99", "--api", url, "-n", "Soup"}, apperrors.ErrNotFound},
		{"edit bad id", []string{"edit", "abc", "--api", url}, apperrors.ErrValidation},
		{"delete unknown id", []string{"delete", "99", "--api", url}, apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !apperrors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := execute(t, "delete", "--api", url); err == nil {
		t.Error("delete without an id should fail")
	}
}

func TestServeCommand(t *testing.T) {
	dir := inTempDir(t)
	dataFile := filepath.Join(dir, "data", "foods.json")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	buf := new(bytes.Buffer)
	cmd := newTestRoot()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"serve", "--addr", addr, "--data", dataFile, "--seed"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	var items []food.Item
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/foods")
		if err == nil {
			err = json.NewDecoder(resp.Body).Decode(&items)
			resp.Body.Close()
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(items) != 3 {
		t.Errorf("seeded backend has %d items", len(items))
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}

	if _, err := os.Stat(dataFile); err != nil {
		t.Errorf("data file not written: %v", err)
	}
	if !strings.Contains(buf.String(), "Seeded 3 sample foods") {
		t.Errorf("Output = %q", buf.String())
	}
}

func TestVersionCommand(t *testing.T) {
	inTempDir(t)

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "gorestaurant "+Version) || !strings.Contains(out, "OS/Arch:") {
		t.Errorf("Output = %q", out)
	}
}

func TestVersionCommand_Check(t *testing.T) {
	inTempDir(t)
	url, _ := newBackend(t)

	out, err := execute(t, "version", "--check", "--api", url)
	if err != nil {
		t.Fatalf("version --check error = %v", err)
	}
	if !strings.Contains(out, "versions match") {
		t.Errorf("Output = %q", out)
	}

	// A plain /foods backend has no version endpoint.
	plain := httptest.NewServer(http.NotFoundHandler())
	defer plain.Close()
	if _, err := execute(t, "version", "-c", "--api", plain.URL); err == nil {
		t.Error("version --check should fail against a backend without /version")
	}
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{"validation", apperrors.InvalidDraft("name", "is required"), exitUserError, "name is required"},
		{"config", apperrors.ConfigNotFound("gorestaurant.yaml"), exitUserError, "gorestaurant.yaml"},
		{"remote", apperrors.RemoteFailure(apperrors.OpList, 500, ""), exitFailure, ""},
		{"plain", errors.New("boom"), exitFailure, "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			if code := reportError(buf, tt.err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if buf.Len() == 0 {
				t.Error("nothing printed")
			}
			if tt.wantOut != "" && !strings.Contains(buf.String(), tt.wantOut) {
				t.Errorf("output = %q, want to contain %q", buf.String(), tt.wantOut)
			}
		})
	}
}

func TestStopSynchronizer_AbortsRunningRequest(t *testing.T) {
	inTempDir(t)

	received := make(chan struct{}, 1)
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(release) })

	cfg := config.NewConfig()
	cfg.API.BaseURL = ts.URL
	cfg.API.Timeout = time.Minute
	s := newSynchronizer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Delete(ctx, 1) }()

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("delete request never reached the backend")
	}

	stopped := make(chan struct{})
	go func() {
		stopSynchronizer(cancel, s)
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stopSynchronizer waited for the running request")
	}

	if err := <-done; err == nil {
		t.Error("the abandoned delete should fail")
	}
	if _, err := s.Create(context.Background(), food.Draft{Name: "Soup"}); !errors.Is(err, listsync.ErrClosed) {
		t.Errorf("Create after stop error = %v, want ErrClosed", err)
	}
}
