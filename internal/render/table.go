package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/starford/jot/internal/models"
)

const (
	borderPrefix = "+------------+-+-----+"
	headerPrefix = "|     Date   |?|  ID   Note "
	excerptLead  = "|                     "
)

// Renderer writes the summary table, full-text blocks and note pages.
type Renderer struct {
	width  int
	source string
	style  *Styler
}

// New creates a Renderer for a note field of width runes. source is shown
// right-aligned in the header, usually the database path.
func New(width int, source string, style *Styler) *Renderer {
	if style == nil {
		style = NewStyler(false, DefaultPalette())
	}
	return &Renderer{width: max(width, 0), source: source, style: style}
}

// Width returns the note field width.
func (r *Renderer) Width() int {
	return r.width
}

// Border returns a horizontal table rule.
func (r *Renderer) Border() string {
	return r.style.Frame(borderPrefix + strings.Repeat("-", r.width) + "+")
}

// Header returns the column title row.
func (r *Renderer) Header() string {
	src := []rune(r.source)
	room := max(r.width-7, 0)
	if len(src) > room {
		src = src[len(src)-room:]
	}
	row := truncate(headerPrefix+rjust(string(src), room, ' ')+" |", FrameWidth(r.width))
	return r.style.Frame(row)
}

// Line formats a summary row without styling.
func (r *Renderer) Line(n models.Note, gen int) Line {
	return FormatLine(n, gen, r.width)
}

// Summary returns the styled summary row.
func (r *Renderer) Summary(n models.Note, gen int) string {
	return r.style.Line(r.Line(n, gen))
}

// FullText returns the wrapped description rows, or nothing when the
// summary already shows the whole description.
func (r *Renderer) FullText(desc string) []string {
	if len([]rune(desc)) <= r.width {
		return nil
	}
	inner := r.width + 20
	var rows []string
	for _, l := range strings.Split(Wrap(desc, inner), "\n") {
		rows = append(rows, r.style.Text("| ", fit(l, inner), "|"))
	}
	return rows
}

// Excerpts returns one row per description line matching find.
func (r *Renderer) Excerpts(desc, find string) []string {
	var rows []string
	for _, e := range Highlight(desc, find, r.width) {
		rows = append(rows, r.style.Excerpt(excerptLead, fit(e, r.width), "|"))
	}
	return rows
}

// Open writes the table head: rule, header, rule.
func (r *Renderer) Open(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", r.Border(), r.Header(), r.Border())
	return err
}

// Close writes the closing rule.
func (r *Renderer) Close(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Border())
	return err
}

// WriteNote writes the summary row of n and, when requested, its full text
// followed by a rule and its search excerpts.
func (r *Renderer) WriteNote(w io.Writer, n models.Note, gen int, find string, full bool) error {
	rows := []string{r.Summary(n, gen)}
	if full {
		rows = append(rows, r.FullText(n.Description)...)
		rows = append(rows, r.Border())
	}
	if find != "" {
		rows = append(rows, r.Excerpts(n.Description, find)...)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

// Page renders a single note for a pager: table head, summary, rule,
// matching excerpts when find is set, the raw description and a
// created/modified footer.
func (r *Renderer) Page(n models.Note, find string) string {
	var b strings.Builder
	_ = r.Open(&b)
	fmt.Fprintln(&b, r.Summary(n, 0))
	if find != "" {
		for _, row := range r.Excerpts(n.Description, find) {
			fmt.Fprintln(&b, row)
		}
	}
	fmt.Fprintln(&b, r.Border())
	fmt.Fprintln(&b, n.Description)
	fmt.Fprintln(&b)
	footer := ljust("created "+n.Created+" & modified "+n.Modified, r.width+17, '>')
	fmt.Fprintln(&b, rjust(footer, r.width+24, '<'))
	return b.String()
}
