package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redacted replaces the value of a sensitive attribute.
const Redacted = "***"

// Redactor masks credentials in log attributes.
type Redactor struct {
	sensitiveKeys []string
	patterns      []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a Redactor with the built-in rules.
func NewRedactor() *Redactor {
	return &Redactor{
		sensitiveKeys: []string{
			"password", "passwd", "secret", "token",
			"api_key", "apikey", "authorization", "passphrase",
			"private_key",
		},
		patterns: []redactPattern{
			{
				regex:       regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]+`),
				replacement: "Bearer " + Redacted,
			},
			{
				// GitHub personal, OAuth, app and refresh tokens
				regex:       regexp.MustCompile(`\b(gh[pousr]_)[A-Za-z0-9]{20,}\b`),
				replacement: "${1}" + Redacted,
			},
			{
				regex:       regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{20,}\b`),
				replacement: "github_pat_" + Redacted,
			},
		},
	}
}

// RedactString masks token shapes inside value.
func (r *Redactor) RedactString(value string) string {
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if r.isSensitiveKey(a.Key) {
		if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
			return a
		}
		return slog.String(a.Key, Redacted)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return a
}

func (r *Redactor) isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range r.sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}
