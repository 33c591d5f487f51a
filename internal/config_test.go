package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestDisplayConfig_Validation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Display.Colorize = "sometimes"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown colorize mode should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Display.Palette.Todo = 300
	if err := cfg.Validate(); err == nil {
		t.Error("palette index above 255 should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Display.SnippetWidth = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero snippet width should fail")
	}
}

func TestStoreConfig_SetName(t *testing.T) {
	var c StoreConfig
	if err := c.SetName("work"); err != nil || c.Name != "work.sqlite" {
		t.Errorf("SetName(work) = %q, %v", c.Name, err)
	}
	if err := c.SetName("home.sqlite"); err != nil || c.Name != "home.sqlite" {
		t.Errorf("SetName(home.sqlite) = %q, %v", c.Name, err)
	}
	if err := c.SetName(""); err != nil || c.Name != "jot.sqlite" {
		t.Errorf("SetName('') = %q, %v", c.Name, err)
	}
	if err := c.SetName("a/b"); err == nil {
		t.Error("name with a separator should fail")
	}
}

func TestStoreConfig_SetDir(t *testing.T) {
	dir := t.TempDir()
	c := StoreConfig{Name: "jot.sqlite"}
	if err := c.SetDir(dir); err != nil {
		t.Fatal(err)
	}
	if c.Path() != filepath.Join(dir, "jot.sqlite") {
		t.Errorf("path = %q", c.Path())
	}
	if err := c.SetDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing directory should fail")
	}

	wd, _ := os.Getwd()
	if err := c.SetDir("pwd"); err != nil || c.Dir != wd {
		t.Errorf("SetDir(pwd) = %q, %v", c.Dir, err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/.jot/dat"); got != filepath.Join(home, ".jot/dat") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome = %q", got)
	}
}

func TestEditorConfig_Resolve(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")
	c := EditorConfig{}
	if got := c.Resolve(); got != "nano" {
		t.Errorf("Resolve = %q, want $EDITOR", got)
	}
	c.Command = "code --wait"
	if got := c.Resolve(); got != "code --wait" {
		t.Errorf("Resolve = %q", got)
	}
}
