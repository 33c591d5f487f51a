// Package models defines the domain types for jot.
package models

// Status identifiers. The Status table is seeded with exactly these rows.
const (
	StatusNote = 1
	StatusTodo = 2
	StatusDone = 3
	StatusDrop = 4
	StatusPart = 5
)

// ActiveStatuses are shown by the default listing.
var ActiveStatuses = []int{StatusNote, StatusTodo, StatusPart}

// AllStatuses covers every status value.
var AllStatuses = []int{StatusNote, StatusTodo, StatusDone, StatusDrop, StatusPart}

// Status is immutable reference data joined onto every note row.
type Status struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Glyph string `json:"glyph"`
}

// Note is one row of the Notes table joined with its Status.
type Note struct {
	ID          int64  `json:"id"`
	StatusID    int    `json:"status_id"`
	Due         string `json:"due,omitempty"` // YYYY-MM-DD or empty
	Description string `json:"description"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
	Priority    int    `json:"priority,omitempty"`
	Alias       string `json:"alias,omitempty"`
	Status      Status `json:"status"`
}

// Edge is one row of the Nest table.
type Edge struct {
	Parent int64 `json:"parent"`
	Child  int64 `json:"child"`
}

// DisplayNode is a note placed in the rendering order.
// Generation 0 is a free note, 1..N the depth under a true root and
// GenerationCircular marks a cycle member no root could reach.
type DisplayNode struct {
	ID         int64 `json:"id"`
	Generation int   `json:"generation"`
	Position   int   `json:"position"`
}

// GenerationCircular is the generation of unresolved cycle members.
const GenerationCircular = -1

// Mode selects nested or flat display ordering.
type Mode string

const (
	ModeNested Mode = "nested"
	ModeFlat   Mode = "flat"
)

// ParseMode maps user input to a Mode, defaulting to nested.
func ParseMode(s string) Mode {
	if Mode(s) == ModeFlat {
		return ModeFlat
	}
	return ModeNested
}
