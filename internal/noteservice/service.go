// Package noteservice implements jot's commands on top of the note store:
// resolving what to show, rendering it and applying edits.
package noteservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/starford/jot/internal/duedate"
	"github.com/starford/jot/internal/render"
	"github.com/starford/jot/internal/store"
)

// Editor collects long-entry text from the user.
type Editor interface {
	Edit(ctx context.Context, initial string) (text string, changed bool, err error)
}

// Pager displays a rendered note page.
type Pager interface {
	Page(ctx context.Context, text string) error
}

// Service coordinates the store, the renderer and the external editor.
type Service struct {
	store  store.NoteStore
	render *render.Renderer
	editor Editor
	pager  Pager
	due    *duedate.Parser
	out    io.Writer
	log    *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithEditor sets the long-entry editor.
func WithEditor(e Editor) Option {
	return func(s *Service) { s.editor = e }
}

// WithPager sets the viewer used by View.
func WithPager(p Pager) Option {
	return func(s *Service) { s.pager = p }
}

// WithOutput sets where command messages are written.
func WithOutput(w io.Writer) Option {
	return func(s *Service) { s.out = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the time source for modified stamps and due dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new note service.
func NewService(st store.NoteStore, r *render.Renderer, opts ...Option) *Service {
	s := &Service{
		store:  st,
		render: r,
		out:    io.Discard,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.due = duedate.New(s.now)
	return s
}

// Renderer returns the table renderer the service draws with.
func (s *Service) Renderer() *render.Renderer {
	return s.render
}

func (s *Service) say(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}
