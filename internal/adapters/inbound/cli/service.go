package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/openkraft/layerlint/internal/adapters/outbound/cache"
	"github.com/openkraft/layerlint/internal/adapters/outbound/config"
	"github.com/openkraft/layerlint/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/layerlint/internal/adapters/outbound/history"
	"github.com/openkraft/layerlint/internal/adapters/outbound/layers"
	"github.com/openkraft/layerlint/internal/adapters/outbound/parser"
	"github.com/openkraft/layerlint/internal/adapters/outbound/scanner"
	"github.com/openkraft/layerlint/internal/adapters/outbound/secrets"
	"github.com/openkraft/layerlint/internal/application"
	"github.com/openkraft/layerlint/internal/domain"
)

// newAnalyzeService wires the outbound adapters into the analysis service.
func newAnalyzeService() *application.AnalyzeService {
	return application.NewAnalyzeService(
		scanner.New(),
		parser.New(),
		secrets.New(),
		config.New(),
		newLayerClassifier,
	).
		WithCache(cache.New()).
		WithHistory(history.New()).
		WithGit(gitinfo.New()).
		WithLogger(slog.Default())
}

func newLayerClassifier(overrides map[string]string) (domain.LayerClassifier, error) {
	c, err := layers.New(overrides)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func resolvePath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absPath, nil
}
