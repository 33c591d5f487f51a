package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/jot/internal/apperr"
	"github.com/starford/jot/internal/models"
	"github.com/starford/jot/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// listOptions reads mode, find and all from the query string. all=true
// selects every status with full text, like the CLI's --all.
func listOptions(r *http.Request) noteservice.ListOptions {
	q := r.URL.Query()
	mode := models.ParseMode(q.Get("mode"))
	if all, _ := strconv.ParseBool(q.Get("all")); all {
		return noteservice.VerboseList(mode, q.Get("find"))
	}
	opts := noteservice.ActiveList(q.Get("find"))
	opts.Mode = mode
	return opts
}

// lookup resolves the {id} URL parameter, writing the error response itself.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (int64, bool) {
	token := chi.URLParam(r, "id")
	id, err := h.svc.Lookup(r.Context(), token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("lookup failed", slog.String("id", token), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return 0, false
	}
	return id, true
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes in display order
//	@Tags			notes
//	@Produce		json
//	@Param			mode	query		string	false	"nested or flat"	Enums(nested, flat)
//	@Param			find	query		string	false	"Substring filter"
//	@Param			all		query		bool	false	"Include done and dropped notes"
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context(), listOptions(r))
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: entries, Total: len(entries)})
}

// GetNote handles GET /api/notes/{id}. id may be an alias.
//
//	@Summary		Get a single note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id or alias"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	note, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("description is required"))
		return
	}
	note, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("create note failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note, re-parenting its children
//	@Tags			notes
//	@Param			id	path	string	true	"Note id or alias"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		slog.Error("delete note failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Table handles GET /api/table and returns the rendered summary table.
//
//	@Summary		Plain-text summary table
//	@Tags			notes
//	@Produce		plain
//	@Param			mode	query	string	false	"nested or flat"
//	@Param			find	query	string	false	"Substring filter"
//	@Param			all		query	bool	false	"Include done and dropped notes"
//	@Success		200		{string}	string
//	@Security		BearerAuth
//	@Router			/table [get]
func (h *Handler) Table(w http.ResponseWriter, r *http.Request) {
	table, err := h.svc.Table(r.Context(), listOptions(r))
	if err != nil {
		slog.Error("render table failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(table))
}
