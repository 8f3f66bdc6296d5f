package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/fetchkit/client"
)

const testConfig = `
timeout_seconds: 10
user_agent: cfgagent/1.0
headers:
  Accept: application/json
  X-Env: test
throttle:
  rps: 100
  burst: 10
no_follow_redirects: true
progress_poll_ms: 50
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fetchkit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := client.LoadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	want := &client.Config{
		TimeoutSeconds: 10,
		UserAgent:      "cfgagent/1.0",
		Headers:        map[string]string{"Accept": "application/json", "X-Env": "test"},
		Throttle:       client.ThrottleConfig{RPS: 100, Burst: 10},
		NoRedirects:    true,
		ProgressPollMS: 50,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := client.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("exp error for missing file")
	}

	if _, err := client.LoadConfig(writeConfig(t, "timeout_seconds: [not, a, number]")); err == nil {
		t.Error("exp error for malformed config")
	}
}

func TestConfig_Options_PartialFile(t *testing.T) {
	cfg, err := client.LoadConfig(writeConfig(t, "user_agent: partial/1.0\n"))
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	// Only the named field should generate an option.
	if got := len(cfg.Options()); got != 1 {
		t.Errorf("exp 1 option from partial config, got %d", got)
	}
}

func TestBuildFromFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "cfgagent/1.0" {
			t.Errorf("exp configured user agent, got %q", ua)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("exp configured default header, got %q", accept)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	e, err := client.BuildFromFile(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("failed to build from file: %v", err)
	}

	if _, err := e.Make(ts.URL).Send(context.Background()); err != nil {
		t.Errorf("exp nil err, got: %v", err)
	}
}

func TestBuildFromFile_ExtraOptionsWin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "override/2.0" {
			t.Errorf("exp overriding user agent, got %q", ua)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	e, err := client.BuildFromFile(writeConfig(t, testConfig), client.WithUserAgent("override/2.0"))
	if err != nil {
		t.Fatalf("failed to build from file: %v", err)
	}

	if _, err := e.Make(ts.URL).Send(context.Background()); err != nil {
		t.Errorf("exp nil err, got: %v", err)
	}
}
