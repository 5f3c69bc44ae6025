package format

import (
	"strings"
	"unicode"
)

var doneMarkers = strings.NewReplacer(
	"✅", " ", "✔️", " ", "✔", " ", "☑️", " ", "☑", " ",
	"[x]", " ", "[X]", " ", "[ ]", " ",
)

// doneWords are dropped wherever they stand alone, so "Variables (Completed!)",
// "Read chapter 1 - Done" and "Completed: Read chapter 1" compare equal to the
// unmarked text.
var doneWords = map[string]bool{
	"done":      true,
	"complete":  true,
	"completed": true,
	"finished":  true,
}

// NormalizeContent reduces day text to comparable words: lowercase, done
// markers and punctuation removed, whitespace collapsed.
func NormalizeContent(s string) string {
	s = doneMarkers.Replace(strings.ToLower(s))
	s = strings.ReplaceAll(s, TitleDelim, " ")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if !doneWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// Preserved reports whether next still carries the title and body of prev.
// Extra text in next (a done marker, a review note, an annotation on a task
// line) is allowed. Either the whole of prev appears in next, or every line of
// prev appears, in order, inside some line of next.
func Preserved(prev, next DayEntry) bool {
	want := NormalizeContent(prev.Title + "\n" + prev.Body)
	if want == "" {
		return true
	}
	if containsWords(NormalizeContent(next.Title+"\n"+next.Body), want) {
		return true
	}
	return linesPreserved(normalizedLines(prev), normalizedLines(next))
}

func normalizedLines(d DayEntry) []string {
	var out []string
	for _, ln := range append([]string{d.Title}, strings.Split(d.Body, "\n")...) {
		if n := NormalizeContent(ln); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func linesPreserved(want, have []string) bool {
	j := 0
	for _, w := range want {
		for j < len(have) && !containsWords(have[j], w) {
			j++
		}
		if j == len(have) {
			return false
		}
		j++
	}
	return true
}

// containsWords is substring containment on whole words of normalized text.
func containsWords(hay, needle string) bool {
	return strings.Contains(" "+hay+" ", " "+needle+" ")
}
