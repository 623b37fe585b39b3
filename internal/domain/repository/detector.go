// Package repository checks the repository pattern at its two seams: domain
// repository interfaces must speak the domain language, and use cases must
// depend on those interfaces rather than concrete implementations.
package repository

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/filerole"
	"github.com/openkraft/layerlint/internal/domain/imports"
)

// ormTypes is the persistence vocabulary, most specific first.
var ormTypes = []*regexp.Regexp{
	regexp.MustCompile(`\bPrisma\.\w+`),
	regexp.MustCompile(`\b(?:PrismaClient|EntityManager|DataSource|QueryRunner|MikroORM|Kysely|DrizzleClient|Knex)\b`),
	regexp.MustCompile(`\b(?:SelectQueryBuilder|QueryBuilder|FindOptionsWhere|FindManyOptions|FindOneOptions|WhereOptions|FindOptions|FilterQuery|UpdateQuery)\b(?:<\w+>)?`),
	regexp.MustCompile(`\b(?:HydratedDocument|LeanDocument|ModelStatic|EntityRepository)\b(?:<\w+>)?`),
	regexp.MustCompile(`\b(?:mongoose|sequelize|typeorm)\.\w+`),
	regexp.MustCompile(`\b(?:Repository|Model|Document)<\w+>`),
	regexp.MustCompile(`@(?:Entity|Column|PrimaryGeneratedColumn|PrimaryColumn|ManyToOne|OneToMany|ManyToMany|OneToOne|JoinColumn|Table|Prop|Schema)\b`),
}

// domainMethods are the method names a repository port may declare.
var domainMethods = []*regexp.Regexp{
	regexp.MustCompile(`^findBy[A-Z]\w*$`),
	regexp.MustCompile(`^find[A-Z]\w*By[A-Z]\w*$`),
	regexp.MustCompile(`^findAll\w*$`),
	regexp.MustCompile(`^getBy[A-Z]\w*$`),
	regexp.MustCompile(`^(?:save|create|update|add|store)\w*$`),
	regexp.MustCompile(`^(?:delete|remove)\w*$`),
	regexp.MustCompile(`^(?:exists|has)\w*$`),
	regexp.MustCompile(`^count\w*$`),
	regexp.MustCompile(`^search\w*$`),
	regexp.MustCompile(`^next(?:Id|Identity)$`),
}

var (
	methodSig     = regexp.MustCompile(`^\s*(?:readonly\s+)?([A-Za-z_$][\w$]*)\s*\??\s*(?:<[^>]*>)?\s*\(`)
	propertySig   = regexp.MustCompile(`^\s*(?:readonly\s+)?([A-Za-z_$][\w$]*)\s*\??\s*:\s*(?:<[^>]*>)?\s*\(`)
	interfaceDecl = regexp.MustCompile(`\binterface\s+([A-Za-z_$][\w$]*)`)
	typedRepo     = regexp.MustCompile(`\b[A-Za-z_$][\w$]*\s*\??\s*:\s*([A-Z]\w*Repository)\b`)
	newRepo       = regexp.MustCompile(`\bnew\s+([A-Z]\w*Repository)\s*\(`)
	iPrefixed     = regexp.MustCompile(`^I[A-Z]`)
)

var notMethods = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true, "constructor": true, "super": true,
}

// Detector is line based.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector { return &Detector{} }

// Detect returns repository-pattern violations for repository interfaces
// and use cases. Files in neither role yield nothing.
func (d *Detector) Detect(unit *domain.SourceUnit) []*domain.RepositoryPattern {
	switch {
	case filerole.IsRepositoryInterface(unit.Path, unit.Layer):
		return checkInterface(unit)
	case filerole.IsUseCase(unit.Path, unit.Layer):
		return checkUseCase(unit)
	}
	return nil
}

func checkInterface(unit *domain.SourceUnit) []*domain.RepositoryPattern {
	var out []*domain.RepositoryPattern
	repoName := filerole.BaseName(unit.Path)
	for i, line := range strings.Split(unit.Text, "\n") {
		if imports.IsComment(line) {
			continue
		}
		if m := interfaceDecl.FindStringSubmatch(line); m != nil {
			repoName = m[1]
			continue
		}
		name, ok := signatureName(line)
		if !ok {
			continue
		}
		if loc, orm := findORMType(line); orm != "" {
			out = append(out, &domain.RepositoryPattern{
				Finding: domain.Finding{
					Type:       domain.KindRepositoryPattern,
					Severity:   domain.SeverityError,
					File:       unit.Path,
					Line:       i + 1,
					Column:     loc + 1,
					Message:    fmt.Sprintf("%s.%s exposes persistence type %s", repoName, name, orm),
					Suggestion: "Use domain types in repository signatures and map them to ORM types inside the infrastructure implementation",
					ExampleFix: fmt.Sprintf("%s(criteria: UserCriteria): Promise<User | null>;", name),
				},
				Rule:           domain.RuleORMTypeInInterface,
				ORMType:        orm,
				RepositoryName: repoName,
				MethodName:     name,
			})
		}
		if !isDomainMethod(name) {
			out = append(out, &domain.RepositoryPattern{
				Finding: domain.Finding{
					Type:       domain.KindRepositoryPattern,
					Severity:   domain.SeverityWarning,
					File:       unit.Path,
					Line:       i + 1,
					Column:     strings.Index(line, name) + 1,
					Message:    fmt.Sprintf("%s.%s is not a domain-language repository method", repoName, name),
					Suggestion: "Name repository methods after domain intent: findById, findByEmail, findAll, save, delete, exists, count",
					ExampleFix: "findById(id: UserId): Promise<User | null>;",
				},
				Rule:           domain.RuleNonDomainMethodName,
				RepositoryName: repoName,
				MethodName:     name,
			})
		}
	}
	return out
}

func checkUseCase(unit *domain.SourceUnit) []*domain.RepositoryPattern {
	var out []*domain.RepositoryPattern
	useCase := filerole.BaseName(unit.Path)
	for i, line := range strings.Split(unit.Text, "\n") {
		if imports.IsComment(line) {
			continue
		}
		for _, m := range typedRepo.FindAllStringSubmatchIndex(line, -1) {
			repo := line[m[2]:m[3]]
			if iPrefixed.MatchString(repo) {
				continue
			}
			out = append(out, &domain.RepositoryPattern{
				Finding: domain.Finding{
					Type:       domain.KindRepositoryPattern,
					Severity:   domain.SeverityError,
					File:       unit.Path,
					Line:       i + 1,
					Column:     m[2] + 1,
					Message:    fmt.Sprintf("%s depends on concrete repository %s", useCase, repo),
					Suggestion: fmt.Sprintf("Depend on the domain port I%s and let the composition root inject the implementation", repo),
					ExampleFix: fmt.Sprintf("constructor(private readonly repository: I%s) {}", repo),
				},
				Rule:           domain.RuleConcreteRepositoryDep,
				RepositoryName: repo,
			})
		}
		for _, m := range newRepo.FindAllStringSubmatchIndex(line, -1) {
			repo := line[m[2]:m[3]]
			out = append(out, &domain.RepositoryPattern{
				Finding: domain.Finding{
					Type:       domain.KindRepositoryPattern,
					Severity:   domain.SeverityError,
					File:       unit.Path,
					Line:       i + 1,
					Column:     m[0] + 1,
					Message:    fmt.Sprintf("%s instantiates %s directly", useCase, repo),
					Suggestion: "Receive the repository through the constructor instead of creating it",
					ExampleFix: fmt.Sprintf("constructor(private readonly repository: I%s) {}", repo),
				},
				Rule:           domain.RuleRepositoryInstantiated,
				RepositoryName: repo,
			})
		}
	}
	return out
}

// signatureName returns the member name when line is a method or function
// property signature.
func signatureName(line string) (string, bool) {
	for _, re := range []*regexp.Regexp{methodSig, propertySig} {
		if m := re.FindStringSubmatch(line); m != nil && !notMethods[m[1]] {
			return m[1], true
		}
	}
	return "", false
}

func findORMType(line string) (int, string) {
	for _, re := range ormTypes {
		if loc := re.FindStringIndex(line); loc != nil {
			return loc[0], line[loc[0]:loc[1]]
		}
	}
	return -1, ""
}

func isDomainMethod(name string) bool {
	for _, re := range domainMethods {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
