// Package framework flags framework and infrastructure packages imported by
// the inner layers.
package framework

import (
	"fmt"
	"strings"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/imports"
)

// packages maps npm package names to categories. A key ending in "/*"
// matches every package of that scope.
var packages = map[string]domain.FrameworkCategory{
	"@prisma/client":       domain.FrameworkORM,
	"prisma":               domain.FrameworkORM,
	"typeorm":              domain.FrameworkORM,
	"sequelize":            domain.FrameworkORM,
	"sequelize-typescript": domain.FrameworkORM,
	"mongoose":             domain.FrameworkORM,
	"@mikro-orm/*":         domain.FrameworkORM,
	"knex":                 domain.FrameworkORM,
	"drizzle-orm":          domain.FrameworkORM,
	"objection":            domain.FrameworkORM,
	"kysely":               domain.FrameworkORM,
	"pg":                   domain.FrameworkORM,
	"mysql2":               domain.FrameworkORM,
	"mongodb":              domain.FrameworkORM,
	"redis":                domain.FrameworkORM,
	"ioredis":              domain.FrameworkORM,

	"express":       domain.FrameworkWeb,
	"fastify":       domain.FrameworkWeb,
	"koa":           domain.FrameworkWeb,
	"@nestjs/*":     domain.FrameworkWeb,
	"@hapi/hapi":    domain.FrameworkWeb,
	"restify":       domain.FrameworkWeb,
	"hono":          domain.FrameworkWeb,
	"next":          domain.FrameworkWeb,
	"@trpc/*":       domain.FrameworkWeb,
	"apollo-server": domain.FrameworkWeb,

	"axios":      domain.FrameworkHTTPClient,
	"node-fetch": domain.FrameworkHTTPClient,
	"got":        domain.FrameworkHTTPClient,
	"superagent": domain.FrameworkHTTPClient,
	"undici":     domain.FrameworkHTTPClient,
	"ky":         domain.FrameworkHTTPClient,

	"amqplib":   domain.FrameworkMessaging,
	"kafkajs":   domain.FrameworkMessaging,
	"bullmq":    domain.FrameworkMessaging,
	"bull":      domain.FrameworkMessaging,
	"nats":      domain.FrameworkMessaging,
	"mqtt":      domain.FrameworkMessaging,
	"socket.io": domain.FrameworkMessaging,

	"@aws-sdk/*":      domain.FrameworkCloud,
	"aws-sdk":         domain.FrameworkCloud,
	"@google-cloud/*": domain.FrameworkCloud,
	"firebase":        domain.FrameworkCloud,
	"firebase-admin":  domain.FrameworkCloud,
	"@azure/*":        domain.FrameworkCloud,

	"winston": domain.FrameworkLogger,
	"pino":    domain.FrameworkLogger,
	"bunyan":  domain.FrameworkLogger,
	"log4js":  domain.FrameworkLogger,
	"morgan":  domain.FrameworkLogger,

	"class-validator":   domain.FrameworkValidation,
	"class-transformer": domain.FrameworkValidation,
	"joi":               domain.FrameworkValidation,
	"yup":               domain.FrameworkValidation,
	"ajv":               domain.FrameworkValidation,
}

// applicationForbidden are the categories the application layer may not
// import. The domain may import none of them.
var applicationForbidden = map[domain.FrameworkCategory]bool{
	domain.FrameworkORM: true,
	domain.FrameworkWeb: true,
}

var suggestions = map[domain.FrameworkCategory]string{
	domain.FrameworkORM:        "Keep persistence behind a repository port; only infrastructure adapters may use the ORM",
	domain.FrameworkWeb:        "Move request handling into an inbound adapter and call the application layer from it",
	domain.FrameworkHTTPClient: "Define a port for the remote service and implement it with the HTTP client in infrastructure",
	domain.FrameworkMessaging:  "Publish domain events through a port; the broker client belongs in infrastructure",
	domain.FrameworkCloud:      "Wrap the cloud service behind a port implemented in infrastructure",
	domain.FrameworkLogger:     "Return domain events or results instead of logging; inject a logger port if logging is required",
	domain.FrameworkValidation: "Express invariants in value object constructors rather than framework decorators",
}

// Detector is line based.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector { return &Detector{} }

// Detect flags framework imports in Domain and Application files.
func (d *Detector) Detect(unit *domain.SourceUnit) []*domain.FrameworkLeak {
	if unit.Layer != domain.LayerDomain && unit.Layer != domain.LayerApplication {
		return nil
	}
	var out []*domain.FrameworkLeak
	for i, line := range strings.Split(unit.Text, "\n") {
		if imports.IsComment(line) {
			continue
		}
		for _, imp := range imports.Find(line) {
			if imports.IsRelative(imp.Path) {
				continue
			}
			pkg := PackageName(imp.Path)
			cat, ok := CategoryOf(pkg)
			if !ok {
				continue
			}
			if unit.Layer == domain.LayerApplication && !applicationForbidden[cat] {
				continue
			}
			out = append(out, &domain.FrameworkLeak{
				Finding: domain.Finding{
					Type:       domain.KindFrameworkLeak,
					Severity:   severityOf(cat),
					File:       unit.Path,
					Line:       i + 1,
					Column:     imp.Column,
					Message:    fmt.Sprintf("%s layer imports %s (%s)", unit.Layer.Title(), pkg, cat),
					Suggestion: suggestions[cat],
				},
				PackageName: pkg,
				Category:    cat,
				Layer:       unit.Layer,
			})
		}
	}
	return out
}

// PackageName reduces an import specifier to its package: "@scope/name" for
// scoped packages, the first segment otherwise.
func PackageName(spec string) string {
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// CategoryOf looks a package up by exact name, then by scope.
func CategoryOf(pkg string) (domain.FrameworkCategory, bool) {
	if cat, ok := packages[pkg]; ok {
		return cat, true
	}
	if i := strings.Index(pkg, "/"); i > 0 && strings.HasPrefix(pkg, "@") {
		cat, ok := packages[pkg[:i]+"/*"]
		return cat, ok
	}
	return "", false
}

func severityOf(cat domain.FrameworkCategory) string {
	switch cat {
	case domain.FrameworkLogger, domain.FrameworkValidation:
		return domain.SeverityWarning
	default:
		return domain.SeverityError
	}
}
