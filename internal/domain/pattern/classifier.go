// Package pattern recognizes the semantic type of string literal payloads.
package pattern

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/openkraft/layerlint/internal/domain"
)

var (
	emailRe    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)
	jwtRe      = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*$`)
	apiKeyRe   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]{1,11}_[A-Za-z0-9_-]+$`)
	awsKeyRe   = regexp.MustCompile(`^(AKIA|ASIA)[0-9A-Z]{16}$`)
	urlRe      = regexp.MustCompile(`^(https?|wss?|ftp|mongodb(\+srv)?|postgres(ql)?|mysql|redis|amqps?)://[^\s]+$`)
	ipv4Re     = regexp.MustCompile(`^((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\.){3}(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(:\d{1,5})?$`)
	ipv6FullRe = regexp.MustCompile(`^([0-9A-Fa-f]{1,4}:){7}[0-9A-Fa-f]{1,4}$`)
	ipv6ZipRe  = regexp.MustCompile(`^(([0-9A-Fa-f]{1,4}:){0,6}[0-9A-Fa-f]{1,4})?::(([0-9A-Fa-f]{1,4}:){0,6}[0-9A-Fa-f]{1,4})?$`)
	unixPathRe = regexp.MustCompile(`^(/[A-Za-z0-9._@~-]+)+/?$`)
	winPathRe  = regexp.MustCompile(`^[A-Za-z]:\\([^\\\s]+\\?)*$`)
	dateRe     = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])(T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?)?$`)
	uuidRe     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	semverRe   = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)
	colorRe    = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	macRe      = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$|^([0-9A-Fa-f]{2}-){5}[0-9A-Fa-f]{2}$`)
	base64Re   = regexp.MustCompile(`^[A-Za-z0-9+/]{20,}={0,2}$`)
)

const (
	minAPIKeyLength = 20
	minBase64Length = 20
	plainMaxLength  = 20
)

// IsEmail matches RFC-lenient email addresses.
func IsEmail(v string) bool { return emailRe.MatchString(v) }

// IsJWT matches three dot-separated base64url segments whose header starts
// with an encoded JSON object.
func IsJWT(v string) bool { return jwtRe.MatchString(v) }

// IsAPIKey matches prefix_style tokens of at least 20 characters whose body
// mixes digits or letter cases, plus AWS access key ids.
func IsAPIKey(v string) bool {
	if awsKeyRe.MatchString(v) {
		return true
	}
	if len(v) < minAPIKeyLength || !apiKeyRe.MatchString(v) {
		return false
	}
	return looksRandom(v[strings.IndexByte(v, '_')+1:])
}

// IsURL matches http(s), websocket, ftp and database connection URLs.
func IsURL(v string) bool { return urlRe.MatchString(v) }

// IsIPAddress matches IPv4 (with optional port) and IPv6 addresses.
func IsIPAddress(v string) bool {
	return ipv4Re.MatchString(v) || ipv6FullRe.MatchString(v) || (strings.Contains(v, "::") && ipv6ZipRe.MatchString(v))
}

// IsFilePath matches Unix and Windows absolute paths.
func IsFilePath(v string) bool { return unixPathRe.MatchString(v) || winPathRe.MatchString(v) }

// IsDate matches ISO YYYY-MM-DD dates with an optional time part.
func IsDate(v string) bool { return dateRe.MatchString(v) }

// IsUUID matches canonical 8-4-4-4-12 UUIDs.
func IsUUID(v string) bool { return uuidRe.MatchString(v) }

// IsSemVer matches major.minor.patch[-pre][+build] with an optional v.
func IsSemVer(v string) bool { return semverRe.MatchString(v) }

// IsColor matches 3- and 6-digit hex colors.
func IsColor(v string) bool { return colorRe.MatchString(v) }

// IsMACAddress matches colon- or hyphen-separated MAC addresses.
func IsMACAddress(v string) bool { return macRe.MatchString(v) }

// IsBase64 matches padded base64 of at least 20 characters that is not a
// plain word.
func IsBase64(v string) bool {
	if len(v) < minBase64Length || len(v)%4 != 0 || !base64Re.MatchString(v) {
		return false
	}
	return looksRandom(strings.TrimRight(v, "="))
}

// Rule pairs a predicate with the classification it yields.
type Rule struct {
	Type  domain.ValueType
	Match func(string) bool
}

// DefaultRules is the priority order. Patterns overlap (a JWT is also
// base64-ish, an email contains a host name) so the first match wins.
var DefaultRules = []Rule{
	{domain.ValueEmail, IsEmail},
	{domain.ValueJWT, IsJWT},
	{domain.ValueAPIKey, IsAPIKey},
	{domain.ValueURL, IsURL},
	{domain.ValueIPAddress, IsIPAddress},
	{domain.ValueFilePath, IsFilePath},
	{domain.ValueDate, IsDate},
	{domain.ValueUUID, IsUUID},
	{domain.ValueSemVer, IsSemVer},
	{domain.ValueColor, IsColor},
	{domain.ValueMACAddress, IsMACAddress},
	{domain.ValueBase64, IsBase64},
}

// DefaultConfigValues are values that name an environment or a wire
// setting rather than arbitrary text.
var DefaultConfigValues = []string{
	"production", "development", "staging", "localhost", "testing",
	"utf-8", "utf8", "application/json", "text/html", "text/plain",
	"gzip", "bearer", "debug", "verbose",
}

// Classifier applies an ordered rule list. It is immutable after New.
type Classifier struct {
	rules        []Rule
	configValues map[string]bool
}

// New builds a Classifier from rules (evaluated in order) and fallback
// configuration values.
func New(rules []Rule, configValues []string) *Classifier {
	cv := make(map[string]bool, len(configValues))
	for _, v := range configValues {
		cv[strings.ToLower(v)] = true
	}
	return &Classifier{rules: append([]Rule(nil), rules...), configValues: cv}
}

// Default returns the Classifier with DefaultRules and DefaultConfigValues.
func Default() *Classifier {
	return New(DefaultRules, DefaultConfigValues)
}

// Classify returns the first matching classification. When no rule matches
// it falls back to ConfigKeyword for known configuration values, ValueNone
// for plain short strings and Generic otherwise.
func (c *Classifier) Classify(value string) domain.ValueType {
	v := strings.TrimSpace(value)
	if v == "" {
		return domain.ValueNone
	}
	for _, r := range c.rules {
		if r.Match(v) {
			return r.Type
		}
	}
	if c.configValues[strings.ToLower(v)] {
		return domain.ValueConfigKeyword
	}
	if isPlain(v) {
		return domain.ValueNone
	}
	return domain.ValueGeneric
}

// isPlain reports whether v reads like ordinary text: short, or containing
// whitespace (prose, labels, messages).
func isPlain(v string) bool {
	return len(v) < plainMaxLength || strings.ContainsAny(v, " \t\n")
}

// looksRandom reports whether s contains a digit, or both upper- and
// lower-case letters, which separates tokens from snake_case identifiers.
func looksRandom(s string) bool {
	var digit, upper, lower bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	return digit || (upper && lower)
}
