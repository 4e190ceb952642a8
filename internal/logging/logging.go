package logging

import (
	"log"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

var debugEnabled atomic.Bool

// EnableDebug turns on verbose debug logging for the application lifecycle.
func EnableDebug() {
	debugEnabled.Store(true)
	log.Printf("[DEBUG] debug logging enabled")
}

// DisableDebug turns debug logging back off.
func DisableDebug() {
	debugEnabled.Store(false)
}

// DebugEnabled reports whether debug logging is active.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Debugf emits a formatted debug log message when debugging is enabled.
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}

// Invocation tags the debug lines of a single command run.
type Invocation struct {
	ID   string
	Name string
}

// NewInvocation starts a new invocation of the named command.
func NewInvocation(name string) Invocation {
	return Invocation{ID: uuid.NewString(), Name: name}
}

// Debugf emits a debug line prefixed with the invocation name and id.
func (i Invocation) Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	log.Printf("[DEBUG] %s[%s] "+format, append([]interface{}{i.Name, shortID(i.ID)}, args...)...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SanitizeURL masks sensitive query parameters and passwords so the URL can
// be logged. Unparseable input is returned as-is.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u == nil {
		return raw
	}

	clone := *u

	if clone.RawQuery != "" {
		query := clone.Query()
		sanitized := false
		for key, values := range query {
			if isSensitiveKey(key) {
				sanitized = true
				for idx, value := range values {
					query[key][idx] = MaskIdentifier(value)
				}
			}
		}
		if sanitized {
			clone.RawQuery = query.Encode()
		}
	}

	if clone.User != nil {
		username := clone.User.Username()
		password, hasPassword := clone.User.Password()
		if hasPassword {
			clone.User = url.UserPassword(username, MaskIdentifier(password))
		}
	}

	return clone.String()
}

func isSensitiveKey(name string) bool {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "api-key"),
		strings.Contains(lower, "apikey"),
		strings.Contains(lower, "key"),
		strings.Contains(lower, "secret"),
		strings.Contains(lower, "token"):
		return true
	default:
		return false
	}
}

// MaskIdentifier obscures sensitive identifiers leaving only the last four characters visible.
func MaskIdentifier(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(trimmed)-4) + trimmed[len(trimmed)-4:]
}
