package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/jot/internal/noteservice"
	"github.com/starford/jot/internal/ui"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Store.Dir = filepath.Join(dir, "dat")
	cfg.App.LogFile = filepath.Join(dir, "jot.log")
	cfg.Display.Colorize = ui.ColorNever
	return cfg
}

func TestOpen_RequiresConfig(t *testing.T) {
	if _, err := Open(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestOpen_CreatesStoreAndLists(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	app, err := Open(context.Background(), WithConfig(cfg), WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if _, err := os.Stat(cfg.Store.Path()); err != nil {
		t.Fatalf("store not created: %v", err)
	}

	ctx := context.Background()
	desc := "water the plants"
	if _, err := app.Notes().Add(ctx, noteservice.NoteInput{Description: &desc}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := app.Notes().List(ctx, &out, noteservice.ActiveList("")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "water the plants") {
		t.Errorf("table = %q", out.String())
	}
	if strings.Contains(out.String(), "\x1b[") {
		t.Errorf("colors emitted with colorize=never")
	}
}

func TestOpen_LogsToFile(t *testing.T) {
	cfg := testConfig(t)
	app, err := Open(context.Background(), WithConfig(cfg), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	app.Logger().Info("hello from test")
	if err := app.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(cfg.App.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello from test"`) {
		t.Errorf("log = %q", data)
	}
}

func TestNewLogger_Stderr(t *testing.T) {
	logger, closer := newLogger(ApplicationConfig{LogFile: "-"})
	if logger == nil || closer != nil {
		t.Errorf("stderr logger should have no closer")
	}
}
