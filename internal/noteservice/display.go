package noteservice

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/starford/jot/internal/apperr"
	"github.com/starford/jot/internal/hierarchy"
	"github.com/starford/jot/internal/models"
)

// ListOptions selects and shapes the summary table.
type ListOptions struct {
	Statuses []int
	Mode     models.Mode
	Find     string
	Full     bool
}

// ActiveList is the default listing: note, todo and part entries, nested.
func ActiveList(find string) ListOptions {
	return ListOptions{Statuses: models.ActiveStatuses, Mode: models.ModeNested, Find: find}
}

// VerboseList shows every status with full text.
func VerboseList(mode models.Mode, find string) ListOptions {
	return ListOptions{Statuses: models.AllStatuses, Mode: mode, Find: find, Full: true}
}

// Entry is one placed note with its rendered summary row.
type Entry struct {
	models.DisplayNode
	Note models.Note `json:"note"`
	Line string      `json:"line"`
}

// ResolveDisplayOrder places ids for display in the given mode.
func (s *Service) ResolveDisplayOrder(ctx context.Context, ids []int64, mode models.Mode) ([]models.DisplayNode, error) {
	if mode == models.ModeFlat {
		return hierarchy.Flat(ids), nil
	}
	edges, err := s.store.AllEdges(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.Order(mode, hierarchy.Build(edges), ids), nil
}

// Wanted returns the ids matching opts, ascending.
func (s *Service) Wanted(ctx context.Context, opts ListOptions) ([]int64, error) {
	var filter []int64
	if opts.Find != "" {
		found, err := s.store.SearchByDescription(ctx, opts.Find)
		if err != nil {
			return nil, err
		}
		filter = append([]int64{}, found...)
	}
	return s.store.NotesByStatus(ctx, opts.Statuses, filter)
}

// Entries resolves opts to placed notes. Notes deleted between the id query
// and the lookup are skipped.
func (s *Service) Entries(ctx context.Context, opts ListOptions) ([]Entry, error) {
	ids, err := s.Wanted(ctx, opts)
	if err != nil {
		return nil, err
	}
	order, err := s.ResolveDisplayOrder(ctx, ids, opts.Mode)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(order))
	for _, dn := range order {
		n, err := s.store.NoteByID(ctx, dn.ID)
		if errors.Is(err, apperr.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{DisplayNode: dn, Note: *n, Line: s.render.Line(*n, dn.Generation).String()})
	}
	return out, nil
}

// List writes the summary table selected by opts.
func (s *Service) List(ctx context.Context, w io.Writer, opts ListOptions) error {
	ids, err := s.Wanted(ctx, opts)
	if err != nil {
		return err
	}
	return s.RenderSummaryTable(ctx, w, ids, opts.Mode, opts.Find, opts.Full)
}

// RenderSummaryTable writes the table head, one row per placed note and the
// closing rule. In full mode every note is followed by its wrapped text and
// a rule of its own. A missing note is reported inline and skipped.
func (s *Service) RenderSummaryTable(ctx context.Context, w io.Writer, ids []int64, mode models.Mode, find string, full bool) error {
	order, err := s.ResolveDisplayOrder(ctx, ids, mode)
	if err != nil {
		return err
	}
	if err := s.render.Open(w); err != nil {
		return err
	}
	for _, dn := range order {
		n, err := s.store.NoteByID(ctx, dn.ID)
		if errors.Is(err, apperr.ErrNotFound) {
			fmt.Fprintf(w, "Note does not exist: %d\n", dn.ID)
			continue
		}
		if err != nil {
			return err
		}
		if err := s.render.WriteNote(w, *n, dn.Generation, find, full); err != nil {
			return err
		}
	}
	if full {
		return nil
	}
	return s.render.Close(w)
}

// Show writes the table head and the full rendering of each id in order.
func (s *Service) Show(ctx context.Context, w io.Writer, ids []int64) error {
	return s.RenderSummaryTable(ctx, w, ids, models.ModeFlat, "", true)
}

// RenderSingleNote writes the page for id: summary, excerpts for find, the
// raw description and its timestamps.
func (s *Service) RenderSingleNote(ctx context.Context, w io.Writer, id int64, find string) error {
	page, err := s.page(ctx, id, find)
	if errors.Is(err, apperr.ErrNotFound) {
		_, err = fmt.Fprintf(w, "Note does not exist: %d\n", id)
		return err
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, page)
	return err
}

// View sends each note page to the pager. Missing ids are reported and skipped.
func (s *Service) View(ctx context.Context, ids []int64, find string) error {
	for _, id := range ids {
		page, err := s.page(ctx, id, find)
		if errors.Is(err, apperr.ErrNotFound) {
			s.say("Note does not exist: %d", id)
			continue
		}
		if err != nil {
			return err
		}
		if s.pager == nil {
			_, err = io.WriteString(s.out, page)
		} else {
			err = s.pager.Page(ctx, page)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Note returns a single note.
func (s *Service) Note(ctx context.Context, id int64) (*models.Note, error) {
	return s.store.NoteByID(ctx, id)
}

func (s *Service) page(ctx context.Context, id int64, find string) (string, error) {
	n, err := s.store.NoteByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.render.Page(*n, find), nil
}

// Relations returns the direct parents and children of id.
func (s *Service) Relations(ctx context.Context, id int64) (parents, children []int64, err error) {
	if parents, err = s.store.Parents(ctx, id); err != nil {
		return nil, nil, err
	}
	if children, err = s.store.Children(ctx, id); err != nil {
		return nil, nil, err
	}
	return parents, children, nil
}
