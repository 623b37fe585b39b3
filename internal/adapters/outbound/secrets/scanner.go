// Package secrets finds credentials in source text with the gitleaks rule
// set, plus a few extra rules gitleaks does not ship.
package secrets

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
	"github.com/zricethezav/gitleaks/v8/report"

	"github.com/openkraft/layerlint/internal/domain"
)

// Rule matches one kind of credential. Group selects the submatch reported
// as the secret; zero means the whole match.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Group   int
}

// ExtraRules cover credentials the gitleaks defaults miss: user and password
// embedded in a connection URL, and a bare private key header.
var ExtraRules = []Rule{
	{Name: "connection string credentials", Pattern: regexp.MustCompile(`\b((?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqps?)://[^:\s'"/]+:[^@\s'"]{3,}@[^\s'"]+)`), Group: 1},
	{Name: "private key", Pattern: regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY( BLOCK)?-----`)},
}

var placeholders = []string{"process.env", "example", "changeme", "xxxx", "****", "<", "${", "your_", "your-", "dummy", "placeholder"}

// genericRule is reported only when no specific rule matched the same spot.
const genericRule = "generic-api-key"

// Scanner implements domain.SecretScanner. The gitleaks config is loaded
// once; every scan gets its own detector.
type Scanner struct {
	extra []Rule

	once    sync.Once
	config  config.Config
	loadErr error
}

// New creates a Scanner with the gitleaks defaults and ExtraRules.
func New() *Scanner { return &Scanner{extra: ExtraRules} }

func (s *Scanner) load() (config.Config, error) {
	s.once.Do(func() {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			s.loadErr = fmt.Errorf("loading gitleaks rules: %w", err)
			return
		}
		s.config = d.Config
	})
	return s.config, s.loadErr
}

// Scan reports at most one finding per line and column. It returns
// ctx.Err() when the context ends before the detector finishes.
func (s *Scanner) Scan(ctx context.Context, text, filePath string) ([]domain.SecretFinding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}

	done := make(chan []report.Finding, 1)
	go func() {
		done <- detect.NewDetector(cfg).DetectString(text)
	}()

	var leaks []report.Finding
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case leaks = <-done:
	}

	lines := strings.Split(text, "\n")
	sort.SliceStable(leaks, func(i, j int) bool {
		return leaks[i].RuleID != genericRule && leaks[j].RuleID == genericRule
	})

	seen := make(map[[2]int]bool)
	var out []domain.SecretFinding
	add := func(f domain.SecretFinding) {
		k := [2]int{f.Line, f.Column}
		if seen[k] || isPlaceholder(f.MatchedText) {
			return
		}
		seen[k] = true
		out = append(out, f)
	}

	for _, l := range leaks {
		secret := l.Secret
		if secret == "" {
			secret = l.Match
		}
		line, col, ok := locate(lines, l.StartLine, secret)
		if !ok {
			continue
		}
		add(domain.SecretFinding{
			Line:        line,
			Column:      col,
			SecretType:  strings.ReplaceAll(l.RuleID, "-", " "),
			MatchedText: secret,
		})
	}
	for i, line := range lines {
		for _, f := range s.matchExtra(line) {
			f.Line = i + 1
			add(f)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	return out, nil
}

func (s *Scanner) matchExtra(line string) []domain.SecretFinding {
	var out []domain.SecretFinding
	for _, r := range s.extra {
		for _, m := range r.Pattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := m[0], m[1]
			if r.Group > 0 && len(m) > 2*r.Group+1 && m[2*r.Group] >= 0 {
				start, end = m[2*r.Group], m[2*r.Group+1]
			}
			out = append(out, domain.SecretFinding{
				Column:      start + 1,
				SecretType:  r.Name,
				MatchedText: line[start:end],
			})
		}
	}
	return out
}

// locate finds the 1-based line and column of secret. The detector's line
// hint is tried first; a multi-line secret is located by its first line.
func locate(lines []string, hint int, secret string) (int, int, bool) {
	needle, _, _ := strings.Cut(secret, "\n")
	if needle == "" {
		return 0, 0, false
	}
	for _, i := range []int{hint, hint - 1, hint + 1} {
		if i < 0 || i >= len(lines) {
			continue
		}
		if c := strings.Index(lines[i], needle); c >= 0 {
			return i + 1, c + 1, true
		}
	}
	for i, l := range lines {
		if c := strings.Index(l, needle); c >= 0 {
			return i + 1, c + 1, true
		}
	}
	return 0, 0, false
}

func isPlaceholder(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range placeholders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
