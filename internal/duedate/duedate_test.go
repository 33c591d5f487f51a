package duedate

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/jot/internal/apperr"
)

func fixed() time.Time {
	return time.Date(2024, time.March, 14, 9, 0, 0, 0, time.Local)
}

func TestParseAbsolute(t *testing.T) {
	p := New(fixed)
	got, err := p.Parse(" 2025-12-31 ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "2025-12-31" {
		t.Errorf("got %q", got)
	}
}

func TestParseClear(t *testing.T) {
	p := New(fixed)
	for _, in := range []string{"", "none", "NONE"} {
		got, err := p.Parse(in)
		if err != nil || got != "" {
			t.Errorf("Parse(%q) = %q, %v", in, got, err)
		}
	}
}

func TestParseNatural(t *testing.T) {
	p := New(fixed)
	got, err := p.Parse("tomorrow")
	if err != nil {
		t.Fatal(err)
	}
	if got != "2024-03-15" {
		t.Errorf("tomorrow = %q", got)
	}
}

func TestParseGarbage(t *testing.T) {
	p := New(fixed)
	if _, err := p.Parse("qwxz"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
