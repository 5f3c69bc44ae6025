package format

import "strings"

// Version identifies the textual plan layout below. Bump it whenever the
// marker, title delimiter or separator rules change.
const Version = "v1"

const (
	DayMarker      = "📆"
	TitleDelim     = "**"
	SeparatorChar  = "-"
	separatorWidth = 90
)

type DayEntry struct {
	Day       int    `json:"day"`
	DateLabel string `json:"date_label"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// BodyLines returns the non-blank body lines, which the web client renders as
// individual checkable tasks.
func (d DayEntry) BodyLines() []string {
	var out []string
	for _, ln := range strings.Split(d.Body, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type Plan struct {
	// Preamble holds any text the provider emitted before the first day marker.
	Preamble string     `json:"preamble,omitempty"`
	Days     []DayEntry `json:"days"`
}

func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Days)
}

func (p *Plan) Day(n int) (DayEntry, bool) {
	if p == nil {
		return DayEntry{}, false
	}
	if n >= 1 && n <= len(p.Days) && p.Days[n-1].Day == n {
		return p.Days[n-1], true
	}
	for _, d := range p.Days {
		if d.Day == n {
			return d, true
		}
	}
	return DayEntry{}, false
}

// ExamplePlan is the worked example embedded in every prompt.
var ExamplePlan = Plan{Days: []DayEntry{
	{
		Day:       1,
		DateLabel: "sun july 20 2025",
		Title:     "Introduction to Web Development",
		Body: strings.Join([]string{
			"Familiarize yourself with the basics of HTML, CSS, and JavaScript.",
			"Install a code editor (e.g., Visual Studio Code, Sublime Text) and a web browser for testing (e.g., Google Chrome, Firefox).",
			"Complete a beginner's tutorial or course for each language.",
		}, "\n"),
	},
	{
		Day:       2,
		DateLabel: "mon july 21 2025",
		Title:     "HTML Deep Dive",
		Body: strings.Join([]string{
			"Study more in-depth HTML topics such as forms, tables, lists, and embedded media.",
			"Practice creating basic web pages and experiment with HTML structure.",
			"Use a validator tool like the W3C Markup Validation Service to check your HTML.",
		}, "\n"),
	},
}}

// Example renders ExamplePlan in contract form.
func Example() string {
	return Serialize(ExamplePlan)
}

const Rules = "Repeat this format for all days. Use bold (**) for the day title. " +
	"Do NOT return JSON, code blocks, curly braces, or markdown. Do NOT use triple backticks. " +
	"Do NOT include any explanation. Only return the formatted plan as shown above."

const IncorrectExample = "```\n[\n  { \"day\": 1, ... }\n]\n```"

const CorrectExample = DayMarker + " Day 1: ... (as above)"

// Instructions is the full contract block appended to every prompt.
func Instructions() string {
	var b strings.Builder
	b.WriteString(Example())
	b.WriteString("\n")
	b.WriteString(Rules)
	b.WriteString("\n\nINCORRECT:\n")
	b.WriteString(IncorrectExample)
	b.WriteString("\n\nCORRECT:\n")
	b.WriteString(CorrectExample)
	b.WriteString("\n")
	return b.String()
}
