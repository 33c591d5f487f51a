package api

import (
	"github.com/starford/jot/internal/models"
	"github.com/starford/jot/internal/noteservice"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Description string `json:"description" example:"buy milk" validate:"required"`
	Status      int    `json:"status,omitempty" example:"2"`
	Due         string `json:"due,omitempty" example:"2024-05-01"`
	Priority    int    `json:"priority,omitempty"`
	Alias       string `json:"alias,omitempty" example:"milk"`
	Parent      *int64 `json:"parent,omitempty"`
}

// NoteDetail is a note with its direct relations and HTML-rendered description.
type NoteDetail struct {
	models.Note
	HTML     string  `json:"html"`
	Parents  []int64 `json:"parents"`
	Children []int64 `json:"children"`
}

// NoteListResponse wraps a listing in display order.
type NoteListResponse struct {
	Notes []noteservice.Entry `json:"notes" validate:"required"`
	Total int                 `json:"total" example:"42" validate:"required"`
}
