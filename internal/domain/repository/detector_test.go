package repository_test

import (
	"testing"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byRule(vs []*domain.RepositoryPattern, rule domain.RepositoryRule) []*domain.RepositoryPattern {
	var out []*domain.RepositoryPattern
	for _, v := range vs {
		if v.Rule == rule {
			out = append(out, v)
		}
	}
	return out
}

func TestDetect_PrismaTypeInInterface(t *testing.T) {
	src := `import { Prisma } from "@prisma/client";
import { User } from "../User";

export interface IUserRepository {
  findOne(query: Prisma.UserWhereInput): Promise<User>;
  findById(id: string): Promise<User | null>;
}
`
	unit := domain.NewSourceUnit("src/domain/repositories/IUserRepository.ts", src, nil, domain.LayerDomain)
	got := repository.NewDetector().Detect(unit)

	orm := byRule(got, domain.RuleORMTypeInInterface)
	require.Len(t, orm, 1)
	assert.Equal(t, "Prisma.UserWhereInput", orm[0].ORMType)
	assert.Equal(t, "IUserRepository", orm[0].RepositoryName)
	assert.Equal(t, "findOne", orm[0].MethodName)
	assert.Equal(t, 5, orm[0].Line)
	assert.Equal(t, domain.SeverityError, orm[0].Severity)

	names := byRule(got, domain.RuleNonDomainMethodName)
	require.Len(t, names, 1)
	assert.Equal(t, "findOne", names[0].MethodName)
}

func TestDetect_DomainMethodNames(t *testing.T) {
	src := `export interface IOrderRepository {
  findById(id: OrderId): Promise<Order | null>;
  findAll(): Promise<Order[]>;
  findPendingByCustomer(customerId: CustomerId): Promise<Order[]>;
  save(order: Order): Promise<void>;
  deleteById(id: OrderId): Promise<void>;
  existsByNumber(number: string): Promise<boolean>;
  countByStatus(status: OrderStatus): Promise<number>;
  nextIdentity(): OrderId;
  // query(sql: string): Promise<unknown>;
  executeRaw(sql: string): Promise<unknown>;
  upsert: (order: Order) => Promise<void>;
}
`
	unit := domain.NewSourceUnit("src/domain/order/IOrderRepository.ts", src, nil, domain.LayerDomain)
	got := repository.NewDetector().Detect(unit)

	names := byRule(got, domain.RuleNonDomainMethodName)
	require.Len(t, names, 2)
	assert.Equal(t, "executeRaw", names[0].MethodName)
	assert.Equal(t, "upsert", names[1].MethodName)
	assert.Empty(t, byRule(got, domain.RuleORMTypeInInterface))
}

func TestDetect_ORMVocabulary(t *testing.T) {
	tests := map[string]string{
		"  find(options: FindManyOptions<User>): Promise<User[]>;":       "FindManyOptions<User>",
		"  findByQuery(qb: SelectQueryBuilder<User>): Promise<User[]>;":  "SelectQueryBuilder<User>",
		"  findByFilter(filter: FilterQuery<UserDoc>): Promise<User[]>;": "FilterQuery<UserDoc>",
		"  save(doc: HydratedDocument<User>): Promise<void>;":            "HydratedDocument<User>",
		"  saveAll(repo: Repository<User>): Promise<void>;":              "Repository<User>",
		"  withTransaction(em: EntityManager): Promise<void>;":           "EntityManager",
	}
	for line, want := range tests {
		src := "export interface IUserRepository {\n" + line + "\n}\n"
		unit := domain.NewSourceUnit("src/domain/IUserRepository.ts", src, nil, domain.LayerDomain)
		orm := byRule(repository.NewDetector().Detect(unit), domain.RuleORMTypeInInterface)
		if assert.Len(t, orm, 1, line) {
			assert.Equal(t, want, orm[0].ORMType, line)
		}
	}
}

func TestDetect_UseCaseConcreteRepository(t *testing.T) {
	src := `import { UserRepository } from "../../infrastructure/UserRepository";

export class CreateUser {
  constructor(
    private readonly users: UserRepository,
    private readonly audit: IAuditRepository,
  ) {}

  async execute() {
    const repo = new PostgresOrderRepository(pool);
  }
}
`
	unit := domain.NewSourceUnit("src/application/use-cases/CreateUser.ts", src, nil, domain.LayerApplication)
	got := repository.NewDetector().Detect(unit)

	deps := byRule(got, domain.RuleConcreteRepositoryDep)
	require.Len(t, deps, 1)
	assert.Equal(t, "UserRepository", deps[0].RepositoryName)
	assert.Equal(t, 5, deps[0].Line)
	assert.Contains(t, deps[0].ExampleFix, "IUserRepository")

	created := byRule(got, domain.RuleRepositoryInstantiated)
	require.Len(t, created, 1)
	assert.Equal(t, "PostgresOrderRepository", created[0].RepositoryName)
	assert.Equal(t, 10, created[0].Line)
}

func TestDetect_RolesOnly(t *testing.T) {
	src := `export class Thing { constructor(private readonly users: UserRepository) {} }`

	// Application file outside a use-case folder.
	unit := domain.NewSourceUnit("src/application/services/Thing.ts", src, nil, domain.LayerApplication)
	assert.Empty(t, repository.NewDetector().Detect(unit))

	// Use-case folder but not a verb+noun compound name.
	unit = domain.NewSourceUnit("src/application/use-cases/index.ts", src, nil, domain.LayerApplication)
	assert.Empty(t, repository.NewDetector().Detect(unit))
	unit = domain.NewSourceUnit("src/application/use-cases/UserDto.ts", src, nil, domain.LayerApplication)
	assert.Empty(t, repository.NewDetector().Detect(unit))

	// Repository interface outside the domain layer.
	iface := "export interface IUserRepository {\n  findOne(q: Prisma.UserWhereInput): Promise<User>;\n}\n"
	unit = domain.NewSourceUnit("src/infrastructure/IUserRepository.ts", iface, nil, domain.LayerInfrastructure)
	assert.Empty(t, repository.NewDetector().Detect(unit))
}
