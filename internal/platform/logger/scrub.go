package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// maxTextRunes bounds free text (prompts, plans, feedback) written to logs.
const maxTextRunes = 240

type scrubPolicy struct {
	enabled bool
	salt    string
}

var (
	policyOnce sync.Once
	policy     scrubPolicy
)

func currentPolicy() scrubPolicy {
	policyOnce.Do(func() {
		switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			policy.enabled = false
		default:
			policy.enabled = true
		}
		policy.salt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
	})
	return policy
}

// scrub rewrites key/value pairs before they reach zap: credentials are
// replaced, user ids are hashed and long study text is clipped.
func scrub(kv []any) []any {
	p := currentPolicy()
	if len(kv) == 0 || !p.enabled {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		out = append(out, kv[i], p.value(normKey(kv[i]), kv[i+1]))
	}
	return out
}

func (p scrubPolicy) value(key string, val any) any {
	switch keyKind(key) {
	case kindSecret:
		return "[REDACTED]"
	case kindUser:
		return p.hash(val)
	case kindText:
		if s, ok := val.(string); ok {
			return clip(s)
		}
	}
	if m, ok := val.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = p.value(normKey(k), v)
		}
		return out
	}
	return val
}

type kind int

const (
	kindPlain kind = iota
	kindSecret
	kindUser
	kindText
)

var secretFragments = []string{"authorization", "password", "secret", "api_key", "apikey"}

func keyKind(key string) kind {
	if key == "" {
		return kindPlain
	}
	// token counts ("max_tokens") are not credentials.
	if strings.Contains(key, "token") && !strings.HasSuffix(key, "tokens") {
		return kindSecret
	}
	for _, f := range secretFragments {
		if strings.Contains(key, f) {
			return kindSecret
		}
	}
	if key == "user_id" || strings.HasSuffix(key, "_user_id") {
		return kindUser
	}
	switch key {
	case "prompt", "plan", "adapted_plan", "completion", "feedback", "progress", "body", "goal":
		return kindText
	}
	return kindPlain
}

func (p scrubPolicy) hash(val any) string {
	raw := str(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	if p.salt != "" {
		_, _ = h.Write([]byte(p.salt))
	}
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

func clip(s string) string {
	n := utf8.RuneCountInString(s)
	if n <= maxTextRunes {
		return s
	}
	r := []rune(s)
	return fmt.Sprintf("%s...(+%d chars)", string(r[:maxTextRunes]), n-maxTextRunes)
}

func normKey(k any) string {
	return strings.ToLower(strings.TrimSpace(str(k)))
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
