package hardcoded

import (
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/literal"
)

// DefaultAllowedNumbers are numeric literals never worth naming.
var DefaultAllowedNumbers = []float64{-1, 0, 1, 2, 10, 100, 1000}

// DefaultMinStringLength is the payload length at or below which strings are
// ignored.
const DefaultMinStringLength = 3

// timerCalls are callees whose numeric arguments are durations, counts or
// limits.
var timerCalls = []string{
	"setTimeout", "setInterval", "setImmediate", "sleep", "delay", "wait",
	"retry", "withRetry", "withTimeout", "timeout", "throttle", "debounce",
	"limit", "take", "skip", "setMaxListeners", "expire", "expireAt",
}

// domainTerms mark statements whose string literals are configuration or
// user-facing text rather than incidental values.
var domainTerms = []string{
	"url", "uri", "endpoint", "host", "hostname", "network", "api", "webhook",
	"database", "db", "dsn", "connection", "schema", "table", "collection",
	"env", "environment", "secret", "password", "token", "key", "credential",
	"auth", "security", "message", "label", "title", "description",
	"path", "bucket", "queue", "topic", "region", "email", "header", "origin",
	"redis", "mongo", "postgres", "mysql", "kafka", "smtp", "port",
}

var (
	criticalTerms = setOf([]string{
		"password", "passwd", "secret", "token", "credential", "private", "key",
		"salary", "price", "cost", "tax", "fee", "rate", "discount", "amount",
		"balance", "age", "ssn", "card", "iban", "currency",
	})
	highTerms = setOf([]string{
		"database", "db", "dsn", "host", "hostname", "endpoint", "url", "uri",
		"api", "port", "connection", "timeout", "server", "queue", "topic",
		"bucket", "region", "webhook", "redis", "smtp",
	})
	mediumTerms = setOf([]string{
		"limit", "max", "min", "retry", "retries", "size", "count", "threshold",
		"interval", "delay", "ttl", "page", "batch", "attempts",
	})
	lowTerms = setOf([]string{
		"color", "colour", "width", "height", "margin", "padding", "font",
		"style", "class", "classname", "label", "title", "placeholder", "css",
		"icon", "opacity", "border", "align", "text", "theme",
	})
)

// Tables holds the immutable lookup tables a Detector consults. Build one
// with DefaultTables and adjust it with WithConfig; a Tables value is never
// mutated after construction.
type Tables struct {
	AllowedNumbers  map[float64]bool
	MinStringLength int
	IgnoreValues    map[string]bool
	TimerCalls      map[string]bool
	DomainTerms     map[string]bool
	ConfigTerms     map[string]bool
}

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	t := Tables{
		AllowedNumbers:  make(map[float64]bool),
		MinStringLength: DefaultMinStringLength,
		IgnoreValues:    make(map[string]bool),
		TimerCalls:      setOf(timerCalls),
		DomainTerms:     setOf(domainTerms),
		ConfigTerms:     setOf(literal.DefaultConfigKeywords),
	}
	for _, n := range DefaultAllowedNumbers {
		t.AllowedNumbers[n] = true
	}
	return t
}

// WithConfig returns a copy of t extended by the project configuration.
// Allowed numbers and ignored values are added to the defaults.
func (t Tables) WithConfig(cfg domain.HardcodedConfig) Tables {
	out := t
	out.AllowedNumbers = make(map[float64]bool, len(t.AllowedNumbers)+len(cfg.AllowedNumbers))
	for n := range t.AllowedNumbers {
		out.AllowedNumbers[n] = true
	}
	for _, n := range cfg.AllowedNumbers {
		out.AllowedNumbers[n] = true
	}
	out.IgnoreValues = make(map[string]bool, len(t.IgnoreValues)+len(cfg.IgnoreValues))
	for v := range t.IgnoreValues {
		out.IgnoreValues[v] = true
	}
	for _, v := range cfg.IgnoreValues {
		out.IgnoreValues[v] = true
	}
	if cfg.MinStringLength != nil {
		out.MinStringLength = *cfg.MinStringLength
	}
	return out
}

func setOf(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// words splits source text into lower-cased identifier words, breaking on
// punctuation, underscores and camel-case humps.
func words(text string) []string {
	chunks := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, c := range chunks {
		for _, w := range camelcase.Split(c) {
			out = append(out, strings.ToLower(w))
		}
	}
	return out
}

// mentions reports whether any word matches a term. Terms of five letters or
// more also match as a prefix so plurals and suffixes count.
func mentions(ws []string, terms map[string]bool) bool {
	for _, w := range ws {
		if terms[w] {
			return true
		}
		for t := range terms {
			if len(t) >= 5 && strings.HasPrefix(w, t) {
				return true
			}
		}
	}
	return false
}
