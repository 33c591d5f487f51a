package render

import (
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/starford/jot/internal/models"
)

// Palette holds ANSI-256 color indices for each zone of a row.
type Palette struct {
	Line    int `yaml:"line"`
	Note    int `yaml:"note"`
	Todo    int `yaml:"todo"`
	Done    int `yaml:"done"`
	Drop    int `yaml:"drop"`
	Part    int `yaml:"part"`
	ID      int `yaml:"id"`
	Default int `yaml:"default"`
	Text    int `yaml:"text"`
}

// DefaultPalette returns the stock colors.
func DefaultPalette() Palette {
	return Palette{Line: 248, Note: 217, Todo: 46, Done: 34, Drop: 136, Part: 36, ID: 147, Default: 15, Text: 180}
}

func (p Palette) status(id int) int {
	switch id {
	case models.StatusNote:
		return p.Note
	case models.StatusTodo:
		return p.Todo
	case models.StatusDone:
		return p.Done
	case models.StatusDrop:
		return p.Drop
	case models.StatusPart:
		return p.Part
	default:
		return p.Line
	}
}

// Styler decorates rows with ANSI colors. A disabled Styler returns rows
// unchanged. Styling never adds or removes printable characters.
type Styler struct {
	enabled bool
	palette Palette
	r       *lipgloss.Renderer
}

// NewStyler builds a Styler. Colors are always emitted with the 256-color
// profile when enabled; deciding whether the terminal wants them is the
// caller's job.
func NewStyler(enabled bool, p Palette) *Styler {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	return &Styler{enabled: enabled, palette: p, r: r}
}

// Enabled reports whether rows are decorated.
func (s *Styler) Enabled() bool {
	return s != nil && s.enabled
}

func (s *Styler) fg(color int) lipgloss.Style {
	return s.r.NewStyle().
		TabWidth(lipgloss.NoTabConversion).
		Foreground(lipgloss.Color(strconv.Itoa(color)))
}

// Line colors the zones of a summary row: border and marker in the line
// color, date and status by note status, the id field and any generation
// indent in the id color, and the marker bold and underlined when the
// summary is continued.
func (s *Styler) Line(l Line) string {
	if !s.Enabled() {
		return l.String()
	}
	p := s.palette
	border := s.fg(p.Line)
	status := s.fg(p.status(l.StatusID))
	id := s.fg(p.ID)
	indent := status
	if l.Generation != 0 {
		indent = s.fg(p.ID).Italic(true)
	}
	marker := border
	if l.Marker.Continued() {
		marker = marker.Bold(true).Underline(true)
	}

	return border.Render("|") +
		status.Render(" "+l.Due+" ") +
		status.Render(l.Status) +
		id.Render(l.ID+" ") +
		indent.Render(l.Indent) +
		status.Render(l.Body) +
		marker.Render(string(l.Marker)) +
		" "
}

// Frame colors a border or header row entirely in the line color.
func (s *Styler) Frame(row string) string {
	if !s.Enabled() {
		return row
	}
	return s.fg(s.palette.Line).Render(row)
}

// Text colors a full-text row: borders in the line color, body in the text
// color.
func (s *Styler) Text(left, body, right string) string {
	return s.boxed(left, body, right, s.palette.Text)
}

// Excerpt colors a search excerpt row.
func (s *Styler) Excerpt(left, body, right string) string {
	return s.boxed(left, body, right, s.palette.Default)
}

func (s *Styler) boxed(left, body, right string, color int) string {
	if !s.Enabled() {
		return left + body + right
	}
	border := s.fg(s.palette.Line)
	return border.Render(left) + s.fg(color).Render(body) + border.Render(right)
}
