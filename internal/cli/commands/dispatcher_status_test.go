package commands

import (
	"Inventaris/internal/config"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Inventaris/internal/cli/api"
	"Inventaris/internal/cli/auth"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	// зарегистрированы команды из init()
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{}) })
	if !strings.Contains(out, "Inventaris CLI") {
		t.Fatalf("global help expected")
	}
	for _, name := range []string{"login", "logout", "items", "borrow", "return", "borrowings", "status"} {
		if _, ok := Get(name); !ok {
			t.Fatalf("command %q must be registered", name)
		}
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help"}) })
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("usage expected")
	}

	var code int
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"help", "borrow"}) })
	if code != 0 || !strings.Contains(out, "borrow <item-id> <qty> <purpose...>") {
		t.Fatalf("expected usage of borrow with code 0, got %d: %s", code, out)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help", "nope"}) })
	if !strings.Contains(out, "Unknown command") {
		t.Fatalf("unknown command message expected")
	}

	withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"no-such"}) })
	if code != 2 {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}
}

func TestDispatcher_RunPaths(t *testing.T) {
	// зарегистрируем временную команду
	cmdOK := fakeCmd{name: "x", usage: "x", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return nil }}
	RegisterCmd(cmdOK)
	if code := Dispatch(context.Background(), &config.Config{}, []string{"x"}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	cmdUsage := fakeCmd{name: "u", usage: "u <arg>", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return ErrUsage }}
	RegisterCmd(cmdUsage)
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"u"}) })
	if !strings.Contains(out, "Usage: u <arg>") || code != 2 {
		t.Fatalf("usage text and code 2 expected, got %d", code)
	}

	cmdErr := fakeCmd{name: "e", usage: "e", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }}
	RegisterCmd(cmdErr)
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"e"}) })
	if !strings.Contains(out, "e error: boom") || code != 1 {
		t.Fatalf("error line and code 1 expected, got %d: %s", code, out)
	}
}

func TestDispatcher_AliasesAndHints(t *testing.T) {
	c, ok := Get("loans")
	if !ok || c.Name() != "borrowings" {
		t.Fatalf("alias loans must resolve to borrowings")
	}
	if c, ok := Get("ls"); !ok || c.Name() != "items" {
		t.Fatalf("alias ls must resolve to items")
	}
	if !strings.Contains(FormatGlobalUsage(), "alias: loans") {
		t.Fatalf("aliases must be listed in help")
	}

	RegisterCmd(fakeCmd{name: "denied", usage: "denied", run: func(_ context.Context, _ *config.Config, _ []string) error {
		return &api.Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: "admin role required"}
	}})
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"denied"}) })
	if code != 1 || !strings.Contains(out, "hint: this action requires the admin role") {
		t.Fatalf("forbidden hint expected, got %d: %s", code, out)
	}

	RegisterCmd(fakeCmd{name: "expired", usage: "expired", run: func(_ context.Context, _ *config.Config, _ []string) error {
		return fmt.Errorf("items: %w", &api.Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED"})
	}})
	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"expired"}) })
	if !strings.Contains(out, "run: login") {
		t.Fatalf("login hint expected: %s", out)
	}
}

func TestStatus_Run_Success_Errors_and_Usage(t *testing.T) {
	// успех: 200 и корректный JSON
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/me" {
			t.Fatalf("path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":2,"name":"Alice","role":"user"}`))
	}))
	defer ts.Close()

	cfg := withTempConfig(t, ts.URL)

	// без токена: просим залогиниться
	if err := (statusCmd{}).Run(context.Background(), cfg, nil); err != auth.ErrNotLoggedIn {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}

	if err := auth.SaveToken(cfg.TokenFile, "tok"); err != nil {
		t.Fatal(err)
	}
	out := withStdoutCapture(t, func() {
		if err := (statusCmd{}).Run(context.Background(), cfg, []string{}); err != nil {
			t.Fatalf("status ok failed: %v", err)
		}
	})
	if !strings.Contains(out, "Alice (user, id 2)") {
		t.Fatalf("unexpected output: %s", out)
	}

	// non-200
	ts500 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts500.Close()
	cfg500 := *cfg
	cfg500.ServerURL = ts500.URL
	if err := (statusCmd{}).Run(context.Background(), &cfg500, []string{}); err == nil {
		t.Fatalf("status should fail on non-200")
	}

	// битый JSON
	tsBad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{"))
	}))
	defer tsBad.Close()
	cfgBad := *cfg
	cfgBad.ServerURL = tsBad.URL
	if err := (statusCmd{}).Run(context.Background(), &cfgBad, []string{}); err == nil {
		t.Fatalf("status must fail on bad json")
	}

	// ErrUsage при лишних аргументах
	if err := (statusCmd{}).Run(context.Background(), cfg, []string{"extra"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}
