package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/aggregate"
	"github.com/openkraft/layerlint/internal/domain/dependency"
	"github.com/openkraft/layerlint/internal/domain/duplicates"
	"github.com/openkraft/layerlint/internal/domain/framework"
	"github.com/openkraft/layerlint/internal/domain/hardcoded"
	"github.com/openkraft/layerlint/internal/domain/literal"
	"github.com/openkraft/layerlint/internal/domain/naming"
	"github.com/openkraft/layerlint/internal/domain/pattern"
	"github.com/openkraft/layerlint/internal/domain/repository"
)

// LayerClassifierFactory builds a classifier for a project's layer
// overrides.
type LayerClassifierFactory func(layers map[string]string) (domain.LayerClassifier, error)

// AnalyzeOptions narrows or tunes a single run.
type AnalyzeOptions struct {
	// Workers overrides the config; zero means config, then GOMAXPROCS.
	Workers int
	// Files restricts the run to these paths (relative to the project or
	// absolute). Files the scanner did not list are ignored.
	Files []string
	// ChangedOnly restricts the run to files git reports as changed.
	ChangedOnly bool
	// NoCache neither reads nor writes the result cache.
	NoCache bool
	// RecordHistory appends a run entry to the history store.
	RecordHistory bool
}

// AnalyzeService orchestrates the analysis pipeline:
// load config → scan → classify layers → parse and detect per file in
// parallel → merge duplicate indexes → summarize.
type AnalyzeService struct {
	scanner      domain.ProjectScanner
	parser       domain.SourceParser
	secrets      domain.SecretScanner
	configLoader domain.ConfigLoader
	layers       LayerClassifierFactory

	store   domain.ResultStore
	history domain.RunHistory
	git     domain.GitInfo
	logger  *slog.Logger
	now     func() time.Time
}

func NewAnalyzeService(
	scanner domain.ProjectScanner,
	parser domain.SourceParser,
	secrets domain.SecretScanner,
	configLoader domain.ConfigLoader,
	layers LayerClassifierFactory,
) *AnalyzeService {
	return &AnalyzeService{
		scanner:      scanner,
		parser:       parser,
		secrets:      secrets,
		configLoader: configLoader,
		layers:       layers,
		logger:       slog.Default(),
		now:          time.Now,
	}
}

// WithCache enables the per-file result cache.
func (s *AnalyzeService) WithCache(store domain.ResultStore) *AnalyzeService {
	s.store = store
	return s
}

// WithHistory enables run history.
func (s *AnalyzeService) WithHistory(history domain.RunHistory) *AnalyzeService {
	s.history = history
	return s
}

// WithGit enables commit stamping and the changed-files filter.
func (s *AnalyzeService) WithGit(git domain.GitInfo) *AnalyzeService {
	s.git = git
	return s
}

func (s *AnalyzeService) WithLogger(logger *slog.Logger) *AnalyzeService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// detectors is built once per run from the project config and shared by
// all workers. Every detector is stateless across files.
type detectors struct {
	cfg        domain.ProjectConfig
	hardcoded  *hardcoded.Detector
	dependency *dependency.Detector
	aggregate  *aggregate.Detector
	framework  *framework.Detector
	repository *repository.Detector
	naming     *naming.Detector
}

func newDetectors(cfg domain.ProjectConfig, layers domain.LayerClassifier) *detectors {
	tables := hardcoded.DefaultTables().WithConfig(cfg.Hardcoded)
	return &detectors{
		cfg:        cfg,
		hardcoded:  hardcoded.New(tables, literal.Default(), pattern.Default()),
		dependency: dependency.New(layers),
		aggregate:  aggregate.NewDetector(),
		framework:  framework.NewDetector(),
		repository: repository.NewDetector(),
		naming:     naming.NewDetector(),
	}
}

// fileResult is what one worker produces for one file.
type fileResult struct {
	path       string
	layer      domain.Layer
	violations []domain.Violation
	suppressed int
	errors     []domain.FileError
	index      *duplicates.Index
	hash       string
	fromCache  bool
	done       bool
}

// run holds the per-run state shared read-only by workers.
type run struct {
	root      string
	det       *detectors
	layers    domain.LayerClassifier
	cache     *domain.ResultCache
	cacheable bool
}

// Analyze runs every enabled detector over the project's source files.
// When ctx is cancelled no new files are scheduled; files already in
// flight finish and the partial report is returned with ctx's error.
func (s *AnalyzeService) Analyze(ctx context.Context, projectPath string, opts AnalyzeOptions) (*domain.Report, error) {
	start := s.now()

	// 0. Load config
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// 1. Scan filesystem
	scan, err := s.scanner.Scan(projectPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	// 2. Build the layer classifier from overrides
	layers, err := s.layers(cfg.Layers)
	if err != nil {
		return nil, fmt.Errorf("building layer classifier: %w", err)
	}

	// 3. Select files
	files, err := s.selectFiles(scan, opts)
	if err != nil {
		return nil, err
	}

	// 4. Load the previous results when caching is on
	r := &run{root: scan.RootPath, det: newDetectors(cfg, layers), layers: layers}
	configHash := ""
	if s.store != nil && !opts.NoCache {
		configHash, r.cache = s.loadCache(scan.RootPath, cfg)
		r.cacheable = configHash != ""
	}

	// 5. Analyze in parallel
	results, incomplete := s.analyzeFiles(ctx, r, files, s.workers(cfg, opts))

	// 6. Merge per-file indexes in path order so duplicate order is stable
	corpus := duplicates.New()
	for _, res := range results {
		if res.done {
			corpus.Merge(res.index)
		}
	}

	report := &domain.Report{
		RunID:       uuid.NewString(),
		ProjectPath: scan.RootPath,
		Timestamp:   start.UTC(),
		Incomplete:  incomplete,
	}
	if s.git != nil {
		if hash, err := s.git.CommitHash(scan.RootPath); err == nil {
			report.CommitHash = hash
		}
	}

	suppressed := 0
	for _, res := range results {
		if !res.done {
			continue
		}
		report.FilesAnalyzed++
		if res.fromCache {
			report.FromCache++
		}
		report.Errors = append(report.Errors, res.errors...)
		suppressed += res.suppressed
		for _, v := range res.violations {
			if hv, ok := v.(*domain.HardcodedValue); ok && hv.ValueKind != domain.HardcodedSecret {
				hv.CorpusCount = corpus.Count(hv.ValueKind, hv.Value)
			}
		}
		if len(res.violations) > 0 {
			report.Files = append(report.Files, domain.FileReport{
				Path:       res.path,
				Layer:      res.layer,
				Violations: res.violations,
			})
		}
	}
	report.Duplicates = corpus.Summary()
	report.Summary = domain.Summarize(report.Files)
	report.Summary.Suppressed = suppressed

	// 7. Persist cache and history; failures are logged, never fatal
	if r.cacheable {
		s.saveCache(r, configHash, results, len(opts.Files) > 0 || opts.ChangedOnly || incomplete)
	}
	if opts.RecordHistory && s.history != nil && !incomplete {
		entry := domain.RunEntry{
			RunID:      report.RunID,
			Timestamp:  report.Timestamp.Format(time.RFC3339),
			CommitHash: report.CommitHash,
			Files:      report.FilesAnalyzed,
			Total:      report.Summary.Total,
			Errors:     report.Summary.Errors,
			Warnings:   report.Summary.Warnings,
			Duplicates: report.Duplicates.Stats.DuplicateCount,
		}
		if err := s.history.Save(scan.RootPath, entry); err != nil {
			s.logger.Warn("saving run history failed", "error", err)
		}
	}

	s.logger.Info("analysis finished",
		"run_id", report.RunID,
		"files", report.FilesAnalyzed,
		"from_cache", report.FromCache,
		"violations", report.Summary.Total,
		"errors", len(report.Errors),
		"duration", s.now().Sub(start).Round(time.Millisecond),
	)

	if incomplete {
		return report, ctx.Err()
	}
	return report, nil
}

// AnalyzeFile analyzes one file in the context of its project. Duplicate
// counts only see that file.
func (s *AnalyzeService) AnalyzeFile(ctx context.Context, projectPath, file string) (*domain.Report, error) {
	return s.Analyze(ctx, projectPath, AnalyzeOptions{Files: []string{file}, NoCache: true})
}

// Config returns the effective project configuration.
func (s *AnalyzeService) Config(projectPath string) (domain.ProjectConfig, error) {
	return s.configLoader.Load(projectPath)
}

// History returns the recorded runs, oldest first.
func (s *AnalyzeService) History(projectPath string) ([]domain.RunEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}
	return s.history.Load(abs)
}

func (s *AnalyzeService) workers(cfg domain.ProjectConfig, opts AnalyzeOptions) int {
	switch {
	case opts.Workers > 0:
		return opts.Workers
	case cfg.Workers > 0:
		return cfg.Workers
	default:
		return runtime.GOMAXPROCS(0)
	}
}

// selectFiles applies the Files and ChangedOnly filters to the scan.
func (s *AnalyzeService) selectFiles(scan *domain.ScanResult, opts AnalyzeOptions) ([]string, error) {
	files := scan.SourceFiles
	if len(opts.Files) > 0 {
		files = intersect(files, normalize(scan.RootPath, opts.Files))
	}
	if opts.ChangedOnly {
		if s.git == nil {
			return nil, fmt.Errorf("changed-files filter requires git support")
		}
		changed, err := s.git.ChangedFiles(scan.RootPath)
		if err != nil {
			return nil, fmt.Errorf("listing changed files: %w", err)
		}
		files = intersect(files, changed)
	}
	return files, nil
}

func normalize(root string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if filepath.IsAbs(p) {
			if rel, err := filepath.Rel(root, p); err == nil {
				p = rel
			}
		}
		out = append(out, strings.TrimPrefix(filepath.ToSlash(p), "./"))
	}
	return out
}

func intersect(files, keep []string) []string {
	set := make(map[string]bool, len(keep))
	for _, k := range keep {
		set[k] = true
	}
	var out []string
	for _, f := range files {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

// analyzeFiles runs the bounded worker pool. Results are indexed like files
// so the caller sees them in path order regardless of completion order.
func (s *AnalyzeService) analyzeFiles(ctx context.Context, r *run, files []string, workers int) ([]fileResult, bool) {
	results := make([]fileResult, len(files))
	var g errgroup.Group
	g.SetLimit(workers)

	incomplete := false
	for i, f := range files {
		if ctx.Err() != nil {
			incomplete = true
			break
		}
		g.Go(func() error {
			results[i] = s.analyzeFile(ctx, r, f)
			return nil
		})
	}
	_ = g.Wait() // workers never fail; per-file problems land in fileResult.errors
	return results, incomplete
}

// analyzeFile reads, parses and runs every enabled detector on one file.
// In-flight work ignores cancellation so a started file always completes.
func (s *AnalyzeService) analyzeFile(ctx context.Context, r *run, rel string) fileResult {
	ctx = context.WithoutCancel(ctx)
	res := fileResult{path: rel, index: duplicates.New(), done: true}

	text, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(rel)))
	if err != nil {
		res.errors = append(res.errors, domain.FileError{Path: rel, Stage: domain.StageRead, Message: err.Error()})
		s.logger.Warn("reading file failed", "file", rel, "error", err)
		return res
	}

	if r.cacheable {
		if hash, err := s.store.Fingerprint(text); err == nil {
			res.hash = hash
			if cached, ok := r.cache.Lookup(rel, hash); ok {
				res.layer = cached.Layer
				res.violations = domain.ViolationsOf(cached.Violations)
				res.suppressed = cached.Suppressed
				res.fromCache = true
				res.index.TrackAll(hardcodedValues(res.violations))
				return res
			}
		}
	}

	res.layer = r.layers.LayerOf(rel)
	tree := s.parse(ctx, rel, text, &res)
	if tree != nil {
		defer tree.Close()
	}
	unit := domain.NewSourceUnit(rel, string(text), tree, res.layer)

	cfg := r.det.cfg
	var out []domain.Violation
	if cfg.IsDetectorEnabled(domain.KindHardcodedValue) {
		found := r.det.hardcoded.Detect(unit)
		res.suppressed = found.Suppressed
		values := found.Values
		if cfg.SecretScanEnabled() && s.secrets != nil {
			leaked := s.scanSecrets(ctx, cfg, unit, &res)
			values = append(hardcoded.DropCovered(values, leaked), leaked...)
		}
		for _, v := range values {
			out = append(out, v)
		}
	}
	if cfg.IsDetectorEnabled(domain.KindDependencyDirection) {
		for _, v := range r.det.dependency.Detect(unit) {
			out = append(out, v)
		}
	}
	if cfg.IsDetectorEnabled(domain.KindAggregateBoundary) {
		for _, v := range r.det.aggregate.Detect(unit) {
			out = append(out, v)
		}
	}
	if cfg.IsDetectorEnabled(domain.KindFrameworkLeak) {
		for _, v := range r.det.framework.Detect(unit) {
			out = append(out, v)
		}
	}
	if cfg.IsDetectorEnabled(domain.KindRepositoryPattern) {
		for _, v := range r.det.repository.Detect(unit) {
			out = append(out, v)
		}
	}
	if cfg.IsDetectorEnabled(domain.KindNamingConvention) {
		for _, v := range r.det.naming.Detect(unit) {
			out = append(out, v)
		}
	}
	domain.SortViolations(out)
	res.violations = out
	res.index.TrackAll(hardcodedValues(out))
	return res
}

// parse returns nil when the file has no usable tree. A tree with syntax
// errors counts as a parse failure; text-based detectors still run.
func (s *AnalyzeService) parse(ctx context.Context, rel string, text []byte, res *fileResult) domain.ParseTree {
	if !s.parser.Supports(rel) {
		s.logger.Debug("no parser for file", "file", rel)
		return nil
	}
	tree, err := s.parser.Parse(ctx, rel, text)
	if err == nil && tree.HasErrors() {
		tree.Close()
		tree, err = nil, fmt.Errorf("syntax errors in %s", rel)
	}
	if err != nil {
		res.errors = append(res.errors, domain.FileError{Path: rel, Stage: domain.StageParse, Message: err.Error()})
		s.logger.Warn("parsing file failed", "file", rel, "error", err)
		return nil
	}
	return tree
}

// scanSecrets treats scanner failures and timeouts as "no secrets".
func (s *AnalyzeService) scanSecrets(ctx context.Context, cfg domain.ProjectConfig, unit *domain.SourceUnit, res *fileResult) []*domain.HardcodedValue {
	sctx, cancel := context.WithTimeout(ctx, cfg.SecretTimeout())
	defer cancel()
	findings, err := s.secrets.Scan(sctx, unit.Text, unit.Path)
	if err != nil {
		res.errors = append(res.errors, domain.FileError{Path: unit.Path, Stage: domain.StageSecret, Message: err.Error()})
		s.logger.Warn("secret scan failed", "file", unit.Path, "error", err)
		return nil
	}
	return hardcoded.FromSecrets(unit.Path, findings)
}

func hardcodedValues(vs []domain.Violation) []*domain.HardcodedValue {
	var out []*domain.HardcodedValue
	for _, v := range vs {
		if hv, ok := v.(*domain.HardcodedValue); ok {
			out = append(out, hv)
		}
	}
	return out
}

// loadCache returns the config fingerprint and the previous cache when it
// was produced under the same config. An empty fingerprint disables caching
// for the run.
func (s *AnalyzeService) loadCache(root string, cfg domain.ProjectConfig) (string, *domain.ResultCache) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", nil
	}
	configHash, err := s.store.Fingerprint(data)
	if err != nil {
		s.logger.Warn("fingerprinting config failed", "error", err)
		return "", nil
	}
	cache, err := s.store.Load(root)
	if err != nil {
		s.logger.Warn("loading result cache failed; starting cold", "error", err)
		return configHash, nil
	}
	if cache.IsInvalidated(configHash) {
		return configHash, nil
	}
	return configHash, cache
}

// saveCache stores clean results. Partial runs keep the previous entries of
// files they did not visit.
func (s *AnalyzeService) saveCache(r *run, configHash string, results []fileResult, partial bool) {
	next := &domain.ResultCache{
		ProjectPath: r.root,
		ConfigHash:  configHash,
		Files:       make(map[string]domain.CachedFile),
	}
	if partial && r.cache != nil {
		for path, f := range r.cache.Files {
			next.Files[path] = f
		}
	}
	for _, res := range results {
		if !res.done || res.hash == "" || len(res.errors) > 0 {
			continue
		}
		next.Files[res.path] = domain.CachedFile{
			ContentHash: res.hash,
			Layer:       res.layer,
			Violations:  domain.RecordsOf(res.violations),
			Suppressed:  res.suppressed,
		}
	}
	if err := s.store.Save(next); err != nil {
		s.logger.Warn("saving result cache failed", "error", err)
	}
}
