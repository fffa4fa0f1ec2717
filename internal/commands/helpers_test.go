package commands

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/monument-ai/athena/internal/api"
	"github.com/monument-ai/athena/internal/chat"
	"github.com/monument-ai/athena/internal/config"
	"github.com/monument-ai/athena/internal/tui"
)

// testEnv bundles fake dependencies and captured output
type testEnv struct {
	deps    *Dependencies
	client  *api.MockClient
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	cfg     config.Config // last config passed to NewClient
	chatOpt *tui.Options
	copied  []string
}

// newTestEnv isolates HOME and the working directory so no real config,
// .env, or log file is touched
func newTestEnv(t *testing.T, client *api.MockClient) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error: %v", err)
	}
	if err := os.Chdir(home); err != nil {
		t.Fatalf("Chdir() error: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	env := &testEnv{
		client: client,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	env.deps = &Dependencies{
		NewClient: func(cfg config.Config) (api.AthenaClientInterface, error) {
			env.cfg = cfg
			return client, nil
		},
		RunChat: func(replier chat.Replier, opts tui.Options) error {
			env.chatOpt = &opts
			return nil
		},
		Clipboard: func(text string) error {
			env.copied = append(env.copied, text)
			return nil
		},
		IsTTY:  func() bool { return false },
		Stdout: env.stdout,
		Stderr: env.stderr,
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}
