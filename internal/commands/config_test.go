package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/monument-ai/athena/internal/api"
	"github.com/monument-ai/athena/internal/config"
)

func TestConfigCommand_SetAndShow(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})

	if err := env.run("config", "set", "base_url", "http://localhost:8000/"); err != nil {
		t.Fatalf("set error = %v", err)
	}
	if err := env.run("config", "set", "single_flight", "true"); err != nil {
		t.Fatalf("set error = %v", err)
	}

	saved, err := config.LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if saved.BaseURL != "http://localhost:8000" || !saved.SingleFlight {
		t.Errorf("saved config = %+v", saved)
	}

	env.stdout.Reset()
	if err := env.run("config", "show"); err != nil {
		t.Fatalf("show error = %v", err)
	}
	var shown config.Config
	if err := json.Unmarshal(env.stdout.Bytes(), &shown); err != nil {
		t.Fatalf("show output is not JSON: %v\n%s", err, env.stdout.String())
	}
	if shown.BaseURL != "http://localhost:8000" {
		t.Errorf("shown BaseURL = %q", shown.BaseURL)
	}
}

func TestConfigCommand_SetDoesNotPersistEnv(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	t.Setenv("ATHENA_BASE_URL", "http://env-only:1")

	if err := env.run("config", "set", "verbose", "true"); err != nil {
		t.Fatalf("set error = %v", err)
	}
	saved, err := config.LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if saved.BaseURL == "http://env-only:1" {
		t.Error("environment override leaked into the config file")
	}
}

func TestConfigCommand_SetErrors(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})

	cases := [][]string{
		{"config", "set", "nope", "x"},
		{"config", "set", "base_url", "not-a-url"},
		{"config", "set", "tui_theme", "neon"},
		{"config", "set", "base_url"},
	}
	for _, args := range cases {
		if err := env.run(args...); err == nil {
			t.Errorf("run(%v) should fail", args)
		}
	}
}

func TestConfigCommand_Path(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	if err := env.run("config", "path"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(env.stdout.String()), ".athena/config.json") {
		t.Errorf("path = %q", env.stdout.String())
	}
}

func TestConfigCommand_Themes(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	if err := env.run("config", "themes"); err != nil {
		t.Fatal(err)
	}
	out := env.stdout.String()
	for _, want := range []string{"tokyonight", "catppuccin", "nord", "dracula", "MARKDOWN STYLE", "notty"} {
		if !strings.Contains(out, want) {
			t.Errorf("themes output missing %q", want)
		}
	}
}
