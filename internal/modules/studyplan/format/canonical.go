package format

import "strings"

// Canonical rewrites p into the form Serialize can represent exactly, so
// that Parse(Serialize(p)).Days equals Canonical(p).Days:
//   - titles and date labels are single trimmed lines
//   - body lines lose trailing blanks; fence and separator lines are dropped
//   - a day marker that would start a new day inside text is removed
//   - an untitled day whose first body line is bold takes it as its title
//
// Day numbers are left alone. Canonical is idempotent.
func Canonical(p Plan) Plan {
	out := Plan{Preamble: canonicalText(p.Preamble)}
	if len(p.Days) > 0 {
		out.Days = make([]DayEntry, 0, len(p.Days))
	}
	for _, d := range p.Days {
		out.Days = append(out.Days, canonicalDay(d))
	}
	return out
}

func canonicalDay(d DayEntry) DayEntry {
	c := DayEntry{
		Day:       d.Day,
		DateLabel: singleLine(d.DateLabel),
		Title:     defuseHeader(singleLine(d.Title)),
	}
	c.Title = strings.TrimSpace(c.Title)

	lines := canonicalLines(d.Body)
	for c.Title == "" && len(lines) > 0 {
		tm := titleRe.FindStringSubmatch(strings.TrimSpace(lines[0]))
		if tm == nil {
			break
		}
		c.Title = strings.TrimSpace(tm[1])
		lines = trimBlankLines(lines[1:])
	}
	c.Body = strings.Join(lines, "\n")
	return c
}

func canonicalText(s string) string {
	return strings.Join(canonicalLines(s), "\n")
}

func canonicalLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	var lines []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimRight(defuseHeader(ln), " \t")
		trimmed := strings.TrimSpace(ln)
		if strings.HasPrefix(trimmed, "```") || separatorRe.MatchString(trimmed) {
			continue
		}
		lines = append(lines, ln)
	}
	return trimBlankLines(lines)
}

// defuseHeader strips day markers from a line that Parse would read as a
// day header.
func defuseHeader(s string) string {
	if headerRe.MatchString(unwrapHeader(strings.TrimSpace(s))) {
		return strings.ReplaceAll(s, DayMarker, "")
	}
	return s
}

func singleLine(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}
