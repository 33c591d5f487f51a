package api

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"

	"github.com/starford/jot/internal/apperr"
	"github.com/starford/jot/internal/noteservice"
)

// Service adapts the note service to the HTTP layer and renders note
// descriptions as HTML.
type Service struct {
	notes *noteservice.Service
	md    goldmark.Markdown
}

// NewService creates a new API service.
func NewService(notes *noteservice.Service) *Service {
	return &Service{notes: notes, md: goldmark.New()}
}

// Lookup resolves an id or alias token to a single note id.
func (s *Service) Lookup(ctx context.Context, token string) (int64, error) {
	ids, err := s.notes.ResolveIdentifiers(ctx, []string{token})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, apperr.ErrNotFound
	}
	return ids[0], nil
}

// Detail returns the note with its relations and HTML body.
func (s *Service) Detail(ctx context.Context, id int64) (*NoteDetail, error) {
	n, err := s.notes.Note(ctx, id)
	if err != nil {
		return nil, err
	}
	parents, children, err := s.notes.Relations(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(n.Description), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return &NoteDetail{
		Note:     *n,
		HTML:     buf.String(),
		Parents:  nonNil(parents),
		Children: nonNil(children),
	}, nil
}

// List returns the placed notes for a listing.
func (s *Service) List(ctx context.Context, opts noteservice.ListOptions) ([]noteservice.Entry, error) {
	entries, err := s.notes.Entries(ctx, opts)
	if err != nil {
		return nil, err
	}
	return nonNil(entries), nil
}

// Table renders the plain-text summary table.
func (s *Service) Table(ctx context.Context, opts noteservice.ListOptions) (string, error) {
	var buf bytes.Buffer
	if err := s.notes.List(ctx, &buf, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Create adds a note from an API request.
func (s *Service) Create(ctx context.Context, req CreateNoteRequest) (*NoteDetail, error) {
	in := noteservice.NoteInput{Description: &req.Description, Parent: req.Parent}
	if req.Status != 0 {
		in.StatusID = &req.Status
	}
	if req.Due != "" {
		in.Due = &req.Due
	}
	if req.Priority != 0 {
		in.Priority = &req.Priority
	}
	if req.Alias != "" {
		in.Alias = &req.Alias
	}
	id, err := s.notes.Add(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.Detail(ctx, id)
}

// Delete removes a note; its children are adopted by its parents.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.notes.Note(ctx, id); err != nil {
		return err
	}
	return s.notes.Remove(ctx, []int64{id})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

