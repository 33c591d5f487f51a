package noteservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/jot/internal/apperr"
	"github.com/starford/jot/internal/models"
	"github.com/starford/jot/internal/render"
)

const timestampLayout = "2006-01-02 15:04:05"

// NoteInput carries the attributes supplied on add or edit. Nil fields are
// left unchanged.
type NoteInput struct {
	Description *string
	LongEntry   bool // open the editor for the description
	StatusID    *int
	Due         *string // YYYY-MM-DD, natural language, or "none"
	Priority    *int
	Alias       *string
	Parent      *int64 // >0 adds, <0 removes that parent, 0 removes all
}

var nonDigit = regexp.MustCompile(`\D`)

func validateStatus(id int) error {
	return validation.Validate(id, validation.Required, validation.In(
		models.StatusNote, models.StatusTodo, models.StatusDone, models.StatusDrop, models.StatusPart))
}

// ResolveIdentifiers turns tokens into note ids. Numeric tokens must name an
// existing note; anything else is looked up as an alias. The result is
// ascending without duplicates.
func (s *Service) ResolveIdentifiers(ctx context.Context, tokens []string) ([]int64, error) {
	var nums []int64
	var aliases []string
	for _, tok := range tokens {
		if id, err := strconv.ParseInt(tok, 10, 64); err == nil && nonDigit.FindStringIndex(tok) == nil {
			nums = append(nums, id)
			continue
		}
		aliases = append(aliases, tok)
	}
	ids, err := s.store.ExistingIDs(ctx, nums)
	if err != nil {
		return nil, err
	}
	byAlias, err := s.store.IDsByAlias(ctx, aliases)
	if err != nil {
		return nil, err
	}
	ids = append(ids, byAlias...)
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// acceptAlias applies the alias rules: cut to the id field width, at most one
// target note, not purely numeric and not already taken. A rejected alias is
// reported and dropped.
func (s *Service) acceptAlias(ctx context.Context, alias string, targets int) (string, error) {
	if alias == "" {
		s.say("No Alias Provided")
		return "", nil
	}
	runes := []rune(alias)
	if len(runes) > render.IDWidth {
		alias = string(runes[:render.IDWidth])
	}
	err := validation.Validate(alias,
		validation.Match(nonDigit).Error("alias cannot be a number"),
	)
	if err != nil || targets > 1 {
		s.say("You cannot assign an alias to multiple ids at once; alias cannot be a number")
		return "", nil
	}
	taken, err := s.store.AliasExists(ctx, alias)
	if err != nil {
		return "", err
	}
	if taken {
		s.say("Alias NOT ACCEPTED: '%s' is already in use", alias)
		return "", nil
	}
	s.say("Alias '%s' is accepted", alias)
	return alias, nil
}

func (s *Service) parseDue(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	due, err := s.due.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

// Add creates a note and returns its id. Status defaults to note.
func (s *Service) Add(ctx context.Context, in NoteInput) (int64, error) {
	n := models.Note{StatusID: models.StatusNote}
	if in.StatusID != nil {
		n.StatusID = *in.StatusID
	}
	if err := validateStatus(n.StatusID); err != nil {
		return 0, fmt.Errorf("status %d: %w", n.StatusID, apperr.ErrInvalidInput)
	}
	due, err := s.parseDue(in.Due)
	if err != nil {
		return 0, err
	}
	if due != nil {
		n.Due = *due
	}
	if in.Priority != nil {
		n.Priority = *in.Priority
	}
	if in.Alias != nil {
		if n.Alias, err = s.acceptAlias(ctx, *in.Alias, 1); err != nil {
			return 0, err
		}
	}
	if in.Description != nil {
		n.Description = *in.Description
	}
	if in.LongEntry {
		if s.editor == nil {
			return 0, fmt.Errorf("long entry: %w", apperr.ErrInvalidInput)
		}
		text, _, err := s.editor.Edit(ctx, "")
		if err != nil {
			return 0, err
		}
		n.Description = text
	}

	id, err := s.store.CreateNote(ctx, n)
	if err != nil {
		return 0, err
	}
	s.log.Info("note added", "id", id, "status", n.StatusID)
	s.say("Added note number: %d", id)
	if in.Parent != nil {
		if err := s.SetParent(ctx, *in.Parent, id); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Edit applies in to every id. Missing ids are reported and skipped.
func (s *Service) Edit(ctx context.Context, ids []int64, in NoteInput) error {
	if in.StatusID != nil {
		if err := validateStatus(*in.StatusID); err != nil {
			return fmt.Errorf("status %d: %w", *in.StatusID, apperr.ErrInvalidInput)
		}
	}
	due, err := s.parseDue(in.Due)
	if err != nil {
		return err
	}
	var alias *string
	if in.Alias != nil {
		a, err := s.acceptAlias(ctx, *in.Alias, len(ids))
		if err != nil {
			return err
		}
		if a != "" {
			alias = &a
		}
	}

	for _, id := range ids {
		n, err := s.store.NoteByID(ctx, id)
		if errors.Is(err, apperr.ErrNotFound) {
			s.say("Note does not exist: %d", id)
			continue
		}
		if err != nil {
			return err
		}
		if in.StatusID != nil {
			n.StatusID = *in.StatusID
		}
		if due != nil {
			n.Due = *due
		}
		if in.Priority != nil {
			n.Priority = *in.Priority
		}
		if alias != nil {
			n.Alias = *alias
		}
		if in.Description != nil {
			n.Description = *in.Description
		}
		if in.LongEntry {
			if err := s.editDescription(ctx, n); err != nil {
				return err
			}
		}
		n.Modified = s.now().Format(timestampLayout)
		if err := s.store.UpdateNote(ctx, *n); err != nil {
			return err
		}
		s.log.Info("note edited", "id", id)
		s.say("Edited note number: %d", id)
		if in.Parent != nil {
			if err := s.SetParent(ctx, *in.Parent, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) editDescription(ctx context.Context, n *models.Note) error {
	if s.editor == nil {
		return fmt.Errorf("long entry: %w", apperr.ErrInvalidInput)
	}
	text, changed, err := s.editor.Edit(ctx, n.Description)
	if err != nil {
		return err
	}
	if !changed {
		s.log.Debug("description unchanged", "id", n.ID)
		return nil
	}
	n.Description = text
	return nil
}

// SetParent links, unlinks or orphans child. parent > 0 adds the edge,
// parent < 0 removes the edge from -parent, and 0 removes every parent.
// The parent of a new edge must exist.
func (s *Service) SetParent(ctx context.Context, parent, child int64) error {
	if child <= 0 {
		return fmt.Errorf("child %d: %w", child, apperr.ErrInvalidInput)
	}
	switch {
	case parent == child:
		return fmt.Errorf("note %d cannot be its own parent: %w", child, apperr.ErrInvalidInput)
	case parent > 0:
		if _, err := s.store.NoteByID(ctx, parent); errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("parent %d does not exist: %w", parent, apperr.ErrInvalidInput)
		} else if err != nil {
			return err
		}
		if err := s.store.AddEdge(ctx, parent, child); err != nil {
			return err
		}
		s.say("Parent defined as: %d", parent)
	case parent < 0:
		if err := s.store.RemoveEdge(ctx, -parent, child); err != nil {
			return err
		}
		s.say("Parent removed %d", -parent)
	default:
		if err := s.store.RemoveParents(ctx, child); err != nil {
			return err
		}
		s.say("All parents removed from note")
	}
	s.log.Info("nesting changed", "parent", parent, "child", child)
	return nil
}

// Remove deletes each id. The children of a removed note are adopted by its
// parents. Missing ids are reported and skipped.
func (s *Service) Remove(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		s.say("Deleting note_id = %d", id)
		adopted, err := s.store.RemoveNote(ctx, id)
		if errors.Is(err, apperr.ErrNotFound) {
			s.say("Note does not exist: %d", id)
			continue
		}
		if err != nil {
			return err
		}
		for _, e := range adopted {
			s.say("%d adopted %d", e.Parent, e.Child)
		}
		s.log.Info("note removed", "id", id, "adopted", len(adopted))
	}
	return nil
}
