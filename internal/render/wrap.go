package render

import (
	"strings"
	"unicode"
)

// Wrap hard-wraps text at width runes line by line. Each line keeps its
// leading whitespace as an indent of spaces, and continuation segments are
// indented two more spaces so they still fit in width.
func Wrap(text string, width int) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine([]rune(line), width))
	}
	return strings.Join(out, "\n")
}

func wrapLine(line []rune, width int) string {
	indent := 0
	for indent < len(line) && unicode.IsSpace(line[indent]) {
		indent++
	}
	rest := line[indent:]
	if len(rest) == 0 {
		return ""
	}

	first := max(width-indent, 1)
	next := max(first-2, 1)
	pad := strings.Repeat(" ", indent)

	var segs []string
	n := first
	for len(rest) > 0 {
		take := min(n, len(rest))
		segs = append(segs, pad+string(rest[:take]))
		rest = rest[take:]
		if n == first {
			n = next
			pad = strings.Repeat(" ", indent+2)
		}
	}
	return strings.Join(segs, "\n")
}

// Highlight picks the lines of text containing term (case-insensitive) and
// returns, for each, an excerpt around the first match at most width runes
// long with the match upper-cased. Context is cut from the longer side first;
// a side shorter than its half of the budget leaves the rest to the other.
func Highlight(text, term string, width int) []string {
	t := []rune(term)
	if len(t) == 0 {
		return nil
	}
	budget := max(width-len(t), 0)
	half1 := (budget + 1) / 2
	half2 := budget / 2

	var out []string
	for _, raw := range strings.Split(text, "\n") {
		line := []rune(raw)
		i := indexFold(line, t)
		if i < 0 {
			continue
		}
		before := line[:i]
		match := strings.ToUpper(string(line[i : i+len(t)]))
		after := line[i+len(t):]

		lb, la := len(before), len(after)
		if lb+la > budget {
			switch {
			case lb > half1 && la > half2:
				before = before[lb-half1:]
				after = after[:half2]
			case lb > half1:
				before = before[lb-(budget-la):]
			default:
				after = after[:budget-lb]
			}
		}
		out = append(out, string(before)+match+string(after))
	}
	return out
}

// indexFold returns the rune index of the first case-insensitive occurrence
// of sub in s, or -1.
func indexFold(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		ok := true
		for j, r := range sub {
			if unicode.ToLower(s[i+j]) != unicode.ToLower(r) {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}
