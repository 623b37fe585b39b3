package layers_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/layerlint/internal/adapters/outbound/layers"
	"github.com/openkraft/layerlint/internal/domain"
)

func TestClassifier_FolderConventions(t *testing.T) {
	c, err := layers.New(nil)
	require.NoError(t, err)

	assert.Equal(t, domain.LayerDomain, c.LayerOf("src/domain/aggregates/user/User.ts"))
	assert.Equal(t, domain.LayerApplication, c.LayerOf("src/application/use-cases/CreateUser.ts"))
	assert.Equal(t, domain.LayerInfrastructure, c.LayerOf("src/infrastructure/db/PrismaUserRepository.ts"))
	assert.Equal(t, domain.LayerShared, c.LayerOf("src/shared/Result.ts"))
	assert.Equal(t, domain.LayerUnclassified, c.LayerOf("src/index.ts"))
}

func TestClassifier_OverridesWin(t *testing.T) {
	c, err := layers.New(map[string]string{
		"src/core/**":        "domain",
		"src/core/shared/**": "shared",
		"src/api/**":         "infrastructure",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LayerDomain, c.LayerOf("src/core/user/User.ts"))
	assert.Equal(t, domain.LayerShared, c.LayerOf("src/core/shared/Result.ts"), "longest pattern first")
	assert.Equal(t, domain.LayerInfrastructure, c.LayerOf("src/api/routes.ts"))
	assert.Equal(t, domain.LayerDomain, c.LayerOf("src/domain/Order.ts"), "falls back to folders")
}

func TestClassifier_UnknownLayerNameIsUnclassified(t *testing.T) {
	c, err := layers.New(map[string]string{"src/domain/legacy/**": "presentation"})
	require.NoError(t, err)

	assert.Equal(t, domain.LayerUnclassified, c.LayerOf("src/domain/legacy/Old.ts"))
	assert.Equal(t, domain.LayerDomain, c.LayerOf("src/domain/User.ts"))
}

func TestClassifier_NormalizesSeparators(t *testing.T) {
	c, err := layers.New(map[string]string{"src/core/**": "domain"})
	require.NoError(t, err)

	assert.Equal(t, domain.LayerDomain, c.LayerOf(`src\core\User.ts`))
	assert.Equal(t, domain.LayerDomain, c.LayerOf("./src/core/User.ts"))
}

func TestClassifier_ConcurrentUse(t *testing.T) {
	c, err := layers.New(nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p := fmt.Sprintf("src/domain/m%d/E%d.ts", i, j)
				assert.Equal(t, domain.LayerDomain, c.LayerOf(p))
			}
		}(i)
	}
	wg.Wait()
}
