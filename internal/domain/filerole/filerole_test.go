package filerole_test

import (
	"testing"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/filerole"
	"github.com/stretchr/testify/assert"
)

func TestBaseName(t *testing.T) {
	assert.Equal(t, "IUserRepository", filerole.BaseName("src/domain/IUserRepository.ts"))
	assert.Equal(t, "user.repository", filerole.BaseName(`src\infra\user.repository.ts`))
}

func TestHasFolder(t *testing.T) {
	assert.True(t, filerole.HasFolder("src/domain/Repositories/IUserRepository.ts", "repositories"))
	assert.False(t, filerole.HasFolder("src/domain/repositories.ts", "repositories"))
}

func TestIsVerbNoun(t *testing.T) {
	assert.True(t, filerole.IsVerbNoun("CreateUser"))
	assert.True(t, filerole.IsVerbNoun("PlaceOrder"))
	assert.False(t, filerole.IsVerbNoun("UserCreator"))
	assert.False(t, filerole.IsVerbNoun("Create"))
	assert.False(t, filerole.IsVerbNoun("createUser"))
	assert.False(t, filerole.IsVerbNoun("Create-User"))
}

func TestIsRepositoryInterface(t *testing.T) {
	assert.True(t, filerole.IsRepositoryInterface("src/domain/user/IUserRepository.ts", domain.LayerDomain))
	assert.True(t, filerole.IsRepositoryInterface("src/domain/repositories/user.repository.ts", domain.LayerDomain))
	assert.False(t, filerole.IsRepositoryInterface("src/domain/user/User.ts", domain.LayerDomain))
	assert.False(t, filerole.IsRepositoryInterface("src/infrastructure/IUserRepository.ts", domain.LayerInfrastructure))
}

func TestIsUseCase(t *testing.T) {
	assert.True(t, filerole.IsUseCase("src/application/use-cases/CreateUser.ts", domain.LayerApplication))
	assert.True(t, filerole.IsUseCase("src/application/usecases/user/RegisterUser.ts", domain.LayerApplication))
	assert.False(t, filerole.IsUseCase("src/application/use-cases/index.ts", domain.LayerApplication))
	assert.False(t, filerole.IsUseCase("src/application/CreateUser.ts", domain.LayerApplication))
	assert.False(t, filerole.IsUseCase("src/domain/use-cases/CreateUser.ts", domain.LayerDomain))
	assert.True(t, filerole.IsUseCase("src/application/use-cases/PlaceOrderUseCase.ts", domain.LayerApplication))
	assert.False(t, filerole.IsUseCase("src/application/use-cases/UserDto.ts", domain.LayerApplication))
	assert.False(t, filerole.IsUseCase("src/application/use-cases/OrderMapper.ts", domain.LayerApplication))
}
