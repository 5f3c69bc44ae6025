package format

import (
	"strconv"
	"strings"
)

func Separator() string {
	return strings.Repeat(SeparatorChar, separatorWidth)
}

func Header(day int, dateLabel string) string {
	h := DayMarker + " Day " + strconv.Itoa(day) + ":"
	if s := strings.TrimSpace(dateLabel); s != "" {
		h += " " + s
	}
	return h
}

// Serialize writes p in contract form. Entries are first brought into
// Canonical form; Parse(Serialize(p)) reproduces the day numbers, titles and
// bodies of Canonical(p).
func Serialize(p Plan) string {
	p = Canonical(p)
	var b strings.Builder
	if p.Preamble != "" {
		b.WriteString(p.Preamble)
		b.WriteString("\n\n")
	}
	for _, d := range p.Days {
		b.WriteString(Header(d.Day, d.DateLabel))
		b.WriteString("\n")
		if d.Title != "" {
			b.WriteString(TitleDelim + d.Title + TitleDelim)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if d.Body != "" {
			b.WriteString(d.Body)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(Separator())
		b.WriteString("\n\n")
	}
	return b.String()
}
