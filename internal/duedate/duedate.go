// Package duedate turns user input into the YYYY-MM-DD due date stored on a note.
package duedate

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/starford/jot/internal/apperr"
)

// Layout is the stored due date format.
const Layout = "2006-01-02"

// Clear is the input that removes a due date.
const Clear = "none"

// Parser resolves absolute and natural-language dates.
type Parser struct {
	w   *when.Parser
	now func() time.Time
}

// New returns a Parser understanding English expressions such as
// "tomorrow" or "next friday". now supplies the reference time; nil means time.Now.
func New(now func() time.Time) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	if now == nil {
		now = time.Now
	}
	return &Parser{w: w, now: now}
}

// Parse returns the normalized due date for input. It returns "" with a nil
// error when input asks to clear the date.
func (p *Parser) Parse(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" || strings.EqualFold(s, Clear) {
		return "", nil
	}
	if t, err := time.ParseInLocation(Layout, s, time.Local); err == nil {
		return t.Format(Layout), nil
	}
	r, err := p.w.Parse(s, p.now())
	if err != nil {
		return "", fmt.Errorf("due date %q: %w", s, err)
	}
	if r == nil {
		return "", fmt.Errorf("due date %q: %w", s, apperr.ErrInvalidInput)
	}
	return r.Time.Format(Layout), nil
}
