package study

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type DayStatus string

const (
	StatusComplete   DayStatus = "complete"
	StatusSkipped    DayStatus = "skipped"
	StatusTooHard    DayStatus = "too_hard"
	StatusTooEasy    DayStatus = "too_easy"
	StatusIncomplete DayStatus = "incomplete"
)

var (
	dayKeyRe  = regexp.MustCompile(`^(?i)(?:day[\s_-]*)?(\d+)$`)
	taskKeyRe = regexp.MustCompile(`^(\d+)-(\d+)$`)
	checkedRe = regexp.MustCompile(`(?i)\[x\]`)
)

// ProgressPresent reports whether raw carries a progress value at all.
// An empty object counts as present; missing or JSON null does not.
func ProgressPresent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && !bytes.Equal(t, []byte("null"))
}

// DayStatuses derives per-day statuses from a progress blob. Recognized
// shapes are an object keyed by day ("3", "day3", "Day 3"), an array of
// {day, status|completed}, and the web client's "<dayIdx>-<taskIdx>": bool
// task map. For the task map (an empty object counts as one), tasks gives
// the task lines of each 1-based day. A task is checked when its key is true
// or its text carries an "[x]" mark, and a day is complete when all of its
// tasks are checked. Unrecognized shapes yield an empty map.
func DayStatuses(raw json.RawMessage, tasks map[int][]string) map[int]DayStatus {
	out := map[int]DayStatus{}
	if !ProgressPresent(raw) {
		return out
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		if isTaskMap(obj) {
			return taskMapStatuses(obj, tasks)
		}
		for k, v := range obj {
			m := dayKeyRe.FindStringSubmatch(strings.TrimSpace(k))
			if m == nil {
				continue
			}
			day, err := strconv.Atoi(m[1])
			if err != nil || day < 1 {
				continue
			}
			if s, ok := statusOf(v); ok {
				out[day] = s
			}
		}
		return out
	}

	var arr []map[string]any
	if err := json.Unmarshal(raw, &arr); err == nil {
		for _, item := range arr {
			day, ok := intOf(item["day"])
			if !ok || day < 1 {
				continue
			}
			if s, ok := statusOf(item); ok {
				out[day] = s
			}
		}
	}
	return out
}

// CompletedDays returns the days marked complete, ascending.
func CompletedDays(statuses map[int]DayStatus) []int {
	var days []int
	for d, s := range statuses {
		if s == StatusComplete {
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days
}

func ParseStatus(s string) DayStatus {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "complete", "completed", "done", "true", "finished":
		return StatusComplete
	case "skipped", "skip", "missed":
		return StatusSkipped
	case "too_hard", "hard", "difficult":
		return StatusTooHard
	case "too_easy", "easy":
		return StatusTooEasy
	default:
		return StatusIncomplete
	}
}

func statusOf(v any) (DayStatus, bool) {
	switch t := v.(type) {
	case bool:
		if t {
			return StatusComplete, true
		}
		return StatusIncomplete, true
	case string:
		return ParseStatus(t), true
	case map[string]any:
		if s, ok := t["status"].(string); ok {
			return ParseStatus(s), true
		}
		if b, ok := t["completed"].(bool); ok {
			return statusOf(b)
		}
	}
	return "", false
}

func intOf(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), t == float64(int(t))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}

func isTaskMap(obj map[string]any) bool {
	for k := range obj {
		if !taskKeyRe.MatchString(k) {
			return false
		}
	}
	return true
}

func taskMapStatuses(obj map[string]any, tasks map[int][]string) map[int]DayStatus {
	checked := map[int]map[int]bool{}
	for k, v := range obj {
		m := taskKeyRe.FindStringSubmatch(k)
		dayIdx, _ := strconv.Atoi(m[1])
		taskIdx, _ := strconv.Atoi(m[2])
		if b, ok := v.(bool); ok && b {
			if checked[dayIdx+1] == nil {
				checked[dayIdx+1] = map[int]bool{}
			}
			checked[dayIdx+1][taskIdx] = true
		}
	}

	out := map[int]DayStatus{}
	for day, lines := range tasks {
		for i, ln := range lines {
			if checkedRe.MatchString(ln) {
				if checked[day] == nil {
					checked[day] = map[int]bool{}
				}
				checked[day][i] = true
			}
		}
	}
	for day, marks := range checked {
		n := len(tasks[day])
		complete := n > 0
		for i := 0; i < n; i++ {
			if !marks[i] {
				complete = false
				break
			}
		}
		if complete {
			out[day] = StatusComplete
		} else {
			out[day] = StatusIncomplete
		}
	}
	return out
}
