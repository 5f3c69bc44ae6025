package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type ErrorKind string

const (
	MissingMarker    ErrorKind = "missing_marker"
	NonSequentialDay ErrorKind = "non_sequential_day"
)

type FormatError struct {
	Kind ErrorKind
	// Line is 1-based; zero when the error is not tied to a line.
	Line   int
	Detail string
}

func (e *FormatError) Error() string {
	msg := "plan format: " + string(e.Kind)
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches any FormatError of the same kind, so callers can use
// errors.Is(err, ErrNonSequentialDay).
func (e *FormatError) Is(target error) bool {
	var t *FormatError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrMissingMarker    = &FormatError{Kind: MissingMarker}
	ErrNonSequentialDay = &FormatError{Kind: NonSequentialDay}
)

var (
	headerRe    = regexp.MustCompile(`^` + DayMarker + `\s*(?i:day)\s+(\d+)\s*[:.\-]?\s*(.*)$`)
	titleRe     = regexp.MustCompile(`^\*\*\s*(.+?)\s*\*\*$`)
	separatorRe = regexp.MustCompile(`^-{3,}$`)
)

// Parse converts provider text into a Plan. It fails with MissingMarker when
// no day header exists and with NonSequentialDay unless days run 1..N without
// gaps, repeats or reordering. Days are never renumbered.
func Parse(raw string) (*Plan, error) {
	text := normalizeNewlines(raw)
	lines := strings.Split(text, "\n")

	plan := &Plan{}
	var (
		preamble []string
		cur      *DayEntry
		body     []string
		expected = 1
	)
	closeDay := func() {
		if cur == nil {
			return
		}
		cur.Body = strings.Join(trimBlankLines(body), "\n")
		plan.Days = append(plan.Days, *cur)
		cur, body = nil, nil
	}

	for i, rawLine := range lines {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		if m := headerRe.FindStringSubmatch(unwrapHeader(trimmed)); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, &FormatError{Kind: NonSequentialDay, Line: i + 1, Detail: "day number out of range"}
			}
			if n != expected {
				return nil, &FormatError{
					Kind:   NonSequentialDay,
					Line:   i + 1,
					Detail: fmt.Sprintf("got day %d, want day %d", n, expected),
				}
			}
			expected++
			closeDay()
			cur = &DayEntry{Day: n, DateLabel: strings.TrimSpace(m[2])}
			continue
		}
		if cur == nil {
			preamble = append(preamble, line)
			continue
		}
		if separatorRe.MatchString(trimmed) {
			continue
		}
		if cur.Title == "" && len(trimBlankLines(body)) == 0 {
			if tm := titleRe.FindStringSubmatch(trimmed); tm != nil {
				cur.Title = tm[1]
				body = nil
				continue
			}
		}
		body = append(body, line)
	}
	closeDay()

	if len(plan.Days) == 0 {
		return nil, &FormatError{Kind: MissingMarker, Detail: "no \"" + DayMarker + " Day <n>:\" header found"}
	}
	plan.Preamble = strings.Join(trimBlankLines(preamble), "\n")
	return plan, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	// Some providers return the plan with escaped newlines.
	if !strings.Contains(s, "\n") && strings.Contains(s, `\n`) {
		s = strings.ReplaceAll(s, `\n`, "\n")
	}
	return s
}

// unwrapHeader drops markdown heading hashes and a bold wrapper that some
// providers put around the day header.
func unwrapHeader(s string) string {
	s = strings.TrimSpace(strings.TrimLeft(s, "#"))
	if strings.HasPrefix(s, TitleDelim) && strings.HasSuffix(s, TitleDelim) && len(s) > 2*len(TitleDelim) {
		s = strings.TrimSpace(s[len(TitleDelim) : len(s)-len(TitleDelim)])
	}
	return s
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
