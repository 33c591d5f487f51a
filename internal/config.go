package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/jot/internal/render"
	"github.com/starford/jot/internal/ui"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// StoreExt is appended to store names given without it.
const StoreExt = ".sqlite"

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Store   StoreConfig       `yaml:"store"`
	Display DisplayConfig     `yaml:"display"`
	Editor  EditorConfig      `yaml:"editor"`
	Pager   PagerConfig       `yaml:"pager"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Display.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives JSON logs; "-" means stderr.
	LogFile string     `yaml:"log_file"`
	HTTP    HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFile, validation.Required),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig locates the note database: Dir joined with Name.
type StoreConfig struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"`
}

var storeName = regexp.MustCompile(`^[^/\\]+\.sqlite$`)

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Name, validation.Required,
			validation.Match(storeName).Error("must be a file name ending in .sqlite")),
	)
}

// Path returns the database file path with a leading ~ expanded.
func (c *StoreConfig) Path() string {
	return filepath.Join(ExpandHome(c.Dir), c.Name)
}

// SetDir points the store at dir. "pwd" selects the working directory.
// The directory must exist.
func (c *StoreConfig) SetDir(dir string) error {
	if dir == "" || dir == "pwd" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = wd
	}
	abs, err := filepath.Abs(ExpandHome(dir))
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("database directory not found: %s", dir)
	}
	c.Dir = abs
	return nil
}

// SetName sets the store file name, appending .sqlite. An empty name
// restores the default.
func (c *StoreConfig) SetName(name string) error {
	if name == "" {
		name = "jot"
	}
	name = strings.TrimSuffix(name, StoreExt) + StoreExt
	if !storeName.MatchString(name) {
		return fmt.Errorf("invalid database name: %q", name)
	}
	c.Name = name
	return nil
}

// DisplayConfig controls the summary table.
type DisplayConfig struct {
	SnippetWidth int            `yaml:"snippet_width"`
	Colorize     string         `yaml:"colorize"`
	Palette      render.Palette `yaml:"palette"`
}

// Validate validates the display configuration.
func (c *DisplayConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.SnippetWidth, validation.Required, validation.Min(1), validation.Max(1000)),
		validation.Field(&c.Colorize, validation.Required, validation.In(ui.ColorAuto, ui.ColorAlways, ui.ColorNever)),
	); err != nil {
		return err
	}
	p := &c.Palette
	color := []validation.Rule{validation.Min(0), validation.Max(255)}
	return validation.ValidateStruct(p,
		validation.Field(&p.Line, color...),
		validation.Field(&p.Note, color...),
		validation.Field(&p.Todo, color...),
		validation.Field(&p.Done, color...),
		validation.Field(&p.Drop, color...),
		validation.Field(&p.Part, color...),
		validation.Field(&p.ID, color...),
		validation.Field(&p.Default, color...),
		validation.Field(&p.Text, color...),
	)
}

// EditorConfig names the long-entry editor. Empty falls back to $VISUAL,
// then $EDITOR, then vi.
type EditorConfig struct {
	Command string `yaml:"command"`
}

// Resolve returns the editor command to run.
func (c *EditorConfig) Resolve() string {
	for _, cmd := range []string{c.Command, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(cmd) != "" {
			return cmd
		}
	}
	return "vi"
}

// PagerConfig names the viewer for note pages. Empty prints directly.
type PagerConfig struct {
	Command string `yaml:"command"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultConfigPath is where the config file lives unless overridden.
const DefaultConfigPath = "~/.jot/config.yaml"

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			LogFile:  "~/.jot/jot.log",
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Dir:  "~/.jot/dat",
			Name: "jot" + StoreExt,
		},
		Display: DisplayConfig{
			SnippetWidth: 48,
			Colorize:     ui.ColorAuto,
			Palette:      render.DefaultPalette(),
		},
		Pager: PagerConfig{
			Command: "less -R",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
