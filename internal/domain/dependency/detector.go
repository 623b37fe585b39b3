// Package dependency flags imports that point against the allowed layer
// direction.
package dependency

import (
	"fmt"
	"path"
	"strings"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/imports"
)

const domainInfraExample = `// Before: src/domain/user/UserService.ts
import { PrismaClient } from '../../infrastructure/db';
export class UserService {
  constructor(private readonly db: PrismaClient) {}
}

// After: the domain owns the port, infrastructure implements it
// src/domain/user/IUserRepository.ts
export interface IUserRepository {
  findById(id: UserId): Promise<User | null>;
}
// src/infrastructure/persistence/PrismaUserRepository.ts
export class PrismaUserRepository implements IUserRepository { /* ... */ }`

const appInfraExample = `// Before: src/application/use-cases/CreateOrder.ts
import { PostgresOrderRepository } from '../../infrastructure/PostgresOrderRepository';
const repo = new PostgresOrderRepository();

// After: depend on the domain port and receive the adapter
import { IOrderRepository } from '../../domain/order/IOrderRepository';
export class CreateOrder {
  constructor(private readonly orders: IOrderRepository) {}
}
// The composition root wires PostgresOrderRepository into CreateOrder.`

// Detector is line based and needs no parse tree, so it still runs on files
// that failed to parse.
type Detector struct {
	layers domain.LayerClassifier
}

// New creates a Detector. When layers is non-nil it classifies relative
// import targets after joining them onto the importing file, so configured
// layer globs apply to import targets too. Otherwise folder names decide.
func New(layers domain.LayerClassifier) *Detector {
	return &Detector{layers: layers}
}

// Detect returns one violation per import whose target layer the file's
// layer may not depend on. Unclassified and Shared files are exempt.
func (d *Detector) Detect(unit *domain.SourceUnit) []*domain.DependencyDirection {
	from := unit.Layer
	if from == domain.LayerUnclassified || from == domain.LayerShared {
		return nil
	}
	var out []*domain.DependencyDirection
	for i, line := range strings.Split(unit.Text, "\n") {
		if imports.IsComment(line) {
			continue
		}
		for _, imp := range imports.Find(line) {
			to, ok := d.resolve(unit.Path, imp.Path)
			if !ok || !domain.IsViolation(from, to) {
				continue
			}
			out = append(out, newViolation(unit.Path, i+1, imp, from, to))
		}
	}
	return out
}

func (d *Detector) resolve(file, spec string) (domain.Layer, bool) {
	if d.layers != nil && imports.IsRelative(spec) {
		target := path.Join(path.Dir(strings.ReplaceAll(file, `\`, "/")), spec)
		if l := d.layers.LayerOf(target); l != domain.LayerUnclassified {
			return l, true
		}
	}
	return imports.Resolve(file, spec)
}

func newViolation(file string, line int, imp imports.Import, from, to domain.Layer) *domain.DependencyDirection {
	v := &domain.DependencyDirection{
		Finding: domain.Finding{
			Type:     domain.KindDependencyDirection,
			Severity: domain.SeverityError,
			File:     file,
			Line:     line,
			Column:   imp.Column,
			Message: fmt.Sprintf("%s layer imports %s layer (%s); allowed targets: %s",
				from.Title(), to.Title(), imp.Path, allowedList(from)),
		},
		FromLayer:  from,
		ToLayer:    to,
		ImportPath: imp.Path,
	}
	switch {
	case from == domain.LayerDomain && to == domain.LayerInfrastructure:
		v.Suggestion = "Declare a port interface in the domain and implement it in infrastructure so the domain never references persistence code"
		v.ExampleFix = domainInfraExample
	case from == domain.LayerApplication && to == domain.LayerInfrastructure:
		v.Suggestion = "Depend on a domain port and inject the infrastructure adapter from the composition root"
		v.ExampleFix = appInfraExample
	case from == domain.LayerDomain && to == domain.LayerApplication:
		v.Suggestion = "Move the shared concept into the domain, or have the application layer call the domain instead"
	default:
		v.Suggestion = fmt.Sprintf("Invert the dependency so that %s code does not import %s code", from, to)
	}
	return v
}

func allowedList(l domain.Layer) string {
	targets := l.AllowedTargets()
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
