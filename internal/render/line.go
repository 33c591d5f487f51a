// Package render turns notes into fixed-width, column-aligned table rows.
package render

import (
	"strconv"
	"strings"

	"github.com/starford/jot/internal/models"
)

// Fixed column widths of a summary row.
const (
	DueWidth    = 10
	StatusWidth = 3
	IDWidth     = 5
)

// SummaryWidth is the rune count of a summary row for a given note field width.
func SummaryWidth(noteWidth int) int {
	return max(noteWidth, 0) + 24
}

// FrameWidth is the rune count of border, header and text rows.
func FrameWidth(noteWidth int) int {
	return max(noteWidth, 0) + 23
}

// Marker is the last character of the note field.
type Marker rune

const (
	MarkerPlain     Marker = '|'
	MarkerTruncated Marker = '~'
	MarkerMultiline Marker = 'v'
	MarkerBoth      Marker = '&'
)

// Continued reports whether the summary hides part of the description.
func (m Marker) Continued() bool {
	return m != MarkerPlain
}

func pickMarker(tooLong, multiline bool) Marker {
	switch {
	case tooLong && multiline:
		return MarkerBoth
	case tooLong:
		return MarkerTruncated
	case multiline:
		return MarkerMultiline
	default:
		return MarkerPlain
	}
}

// GenerationGlyph returns the indent prefix for a nesting generation:
// "" for 0, "> " for 1, dashes right-filled to the generation followed by
// "> " for deeper levels ("-> ", "--> ") and "? " for unresolved cycles.
// The asymmetry between generation 1 and 2 is kept on purpose.
func GenerationGlyph(gen int) string {
	switch {
	case gen == 0:
		return ""
	case gen == 1:
		return "> "
	case gen > 1:
		return strings.Repeat("-", gen-1) + "> "
	default:
		return "? "
	}
}

// Line is a formatted summary row split into named zones. Joined with
// String, the zones form a row of exactly SummaryWidth runes.
type Line struct {
	Due    string
	Status string
	ID     string
	Indent string
	Body   string
	Marker Marker

	StatusID   int
	Generation int
}

// String composes the plain row.
func (l Line) String() string {
	var b strings.Builder
	b.WriteString("| ")
	b.WriteString(l.Due)
	b.WriteByte(' ')
	b.WriteString(l.Status)
	b.WriteString(l.ID)
	b.WriteByte(' ')
	b.WriteString(l.Indent)
	b.WriteString(l.Body)
	b.WriteRune(rune(l.Marker))
	b.WriteByte(' ')
	return b.String()
}

// FormatLine renders one note at a generation into a Line whose note field
// is width runes wide.
func FormatLine(n models.Note, gen, width int) Line {
	width = max(width, 0)
	glyph := GenerationGlyph(gen)
	first, _, multiline := strings.Cut(n.Description, "\n")

	text := []rune(glyph + first)
	tooLong := len(text) > width
	field := []rune(fit(string(text), width))
	cut := min(len([]rune(glyph)), width)

	id := strconv.FormatInt(n.ID, 10)
	if n.Alias != "" {
		id = n.Alias
	}

	return Line{
		Due:        truncate(center(n.Due, DueWidth, ' '), DueWidth),
		Status:     truncate(center(n.Status.Glyph, StatusWidth, '|'), StatusWidth),
		ID:         rjust(truncate(id, IDWidth), IDWidth, ' '),
		Indent:     string(field[:cut]),
		Body:       string(field[cut:]),
		Marker:     pickMarker(tooLong, multiline),
		StatusID:   n.StatusID,
		Generation: gen,
	}
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	n = max(n, 0)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ljust pads s on the right with fill up to n runes.
func ljust(s string, n int, fill rune) string {
	pad := n - len([]rune(s))
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(string(fill), pad)
}

// rjust pads s on the left with fill up to n runes.
func rjust(s string, n int, fill rune) string {
	pad := n - len([]rune(s))
	if pad <= 0 {
		return s
	}
	return strings.Repeat(string(fill), pad) + s
}

// fit truncates or right-pads s with spaces to exactly n runes.
func fit(s string, n int) string {
	return ljust(truncate(s, n), max(n, 0), ' ')
}

// center pads s on both sides to n runes. With an odd margin the extra
// fill goes left when n is odd, right otherwise.
func center(s string, n int, fill rune) string {
	l := len([]rune(s))
	marg := n - l
	if marg <= 0 {
		return s
	}
	left := marg/2 + (marg & n & 1)
	f := string(fill)
	return strings.Repeat(f, left) + s + strings.Repeat(f, marg-left)
}
