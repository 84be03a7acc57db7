package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/leakscout/leakscout/internal/aggregate"
	"github.com/leakscout/leakscout/internal/findings"
	"github.com/leakscout/leakscout/internal/history"
	"github.com/leakscout/leakscout/internal/matcher"
	"github.com/leakscout/leakscout/internal/patterns"
	"github.com/leakscout/leakscout/internal/validator"
	"github.com/leakscout/leakscout/internal/walker"
	"github.com/leakscout/leakscout/pkg/shared/config"
	sharederrors "github.com/leakscout/leakscout/pkg/shared/errors"
	"github.com/leakscout/leakscout/pkg/shared/files"
)

// Scan modes. Full scans the working tree and git history, quick scans only
// the working tree, git-only scans only history.
const (
	ModeFull    = "full"
	ModeQuick   = "quick"
	ModeGitOnly = "git-only"
)

// ValidMode reports whether name is a recognized scan mode.
func ValidMode(name string) bool {
	return name == ModeFull || name == ModeQuick || name == ModeGitOnly
}

// Engine wires the walker, matcher, validator and history scanner together
// and feeds their output into a single aggregator.
type Engine struct {
	root    string
	mode    string
	cfg     *config.Config
	lib     *patterns.Library
	val     *validator.Validator
	logger  hclog.Logger
	version string
}

// fileResult is what one worker produces for one file.
type fileResult struct {
	findings   []findings.Validated
	diagnostic *findings.Diagnostic
	incomplete string
}

// New creates an Engine. The pattern library is compiled once here; a broken
// rule surfaces as a fatal SchemaError before any file is touched.
func New(root, mode string, cfg *config.Config, logger hclog.Logger, version string) (*Engine, error) {
	if !ValidMode(mode) {
		return nil, sharederrors.NewConfigurationError("unknown scan mode %q", mode)
	}
	lib, err := patterns.NewDefaultLibrary(cfg.Patterns.Overlay)
	if err != nil {
		return nil, err
	}
	logger.Info("pattern library compiled", "rules", lib.Len())

	return &Engine{
		root:    root,
		mode:    mode,
		cfg:     cfg,
		lib:     lib,
		val:     validator.New(lib, validator.TunablesFromConfig(cfg)),
		logger:  logger,
		version: version,
	}, nil
}

// Run executes the scan and returns the aggregate report. The report is
// always usable, even when Run returns an error for a budget or cancellation
// stop; only fatal configuration and schema errors return a nil report.
func (e *Engine) Run(ctx context.Context) (*aggregate.Report, error) {
	started := time.Now()

	budgetCtx := ctx
	var cancel context.CancelFunc
	if e.cfg.Scanner.WallClockBudget > 0 {
		budgetCtx, cancel = context.WithTimeout(ctx, e.cfg.Scanner.WallClockBudget)
		defer cancel()
	}

	agg := aggregate.New()

	var histResult *history.Result
	var histErr error
	var histWg sync.WaitGroup
	if e.mode == ModeFull || e.mode == ModeGitOnly {
		scanner := history.New(e.lib, e.val, e.cfg, e.logger.Named("history"))
		histWg.Add(1)
		go func() {
			defer histWg.Done()
			histResult, histErr = scanner.Scan(budgetCtx, e.root)
		}()
	}

	if e.mode == ModeFull || e.mode == ModeQuick {
		e.scanWorkingTree(budgetCtx, agg)
	}

	histWg.Wait()
	e.foldHistory(agg, histResult, histErr)

	if budgetCtx.Err() != nil && ctx.Err() == nil {
		agg.AddDiagnostic(findings.Diagnostic{
			Kind:   findings.DiagBudgetExceeded,
			Detail: fmt.Sprintf("wall-clock budget of %s exceeded, results are partial", e.cfg.Scanner.WallClockBudget),
		})
		agg.AddIncomplete("wall-clock budget exceeded before full coverage")
	}
	interrupted := ctx.Err() != nil
	if interrupted {
		agg.AddIncomplete("scan interrupted before full coverage")
	}

	meta := aggregate.Metadata{
		ScanID:     uuid.New().String(),
		Root:       e.root,
		Mode:       e.mode,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Version:    e.version,
	}
	rep := agg.Finalize(meta)
	e.logger.Info("scan complete",
		"mode", e.mode, "findings", rep.Summary.Total,
		"partial", rep.Metadata.Partial, "duration", rep.Metadata.Duration)
	return rep, nil
}

// scanWorkingTree runs the bounded worker pool over walker chunks. Workers
// match and validate; the aggregator is fed only from this goroutine, so it
// stays single-threaded.
func (e *Engine) scanWorkingTree(ctx context.Context, agg *aggregate.Aggregator) {
	w := walker.New(e.root, e.cfg, e.logger.Named("walker"))
	chunks := w.Walk(ctx)

	results := make(chan fileResult)
	var wg sync.WaitGroup
	for i := 0; i < e.cfg.Scanner.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range chunks {
				for _, path := range chunk {
					select {
					case results <- e.scanFile(ctx, path):
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		for _, f := range res.findings {
			agg.Add(f)
		}
		if res.diagnostic != nil {
			agg.AddDiagnostic(*res.diagnostic)
		}
		if res.incomplete != "" {
			agg.AddIncomplete(res.incomplete)
		}
	}

	for _, d := range w.Diagnostics() {
		agg.AddDiagnostic(d)
	}
}

// scanFile matches and validates one working-tree file.
func (e *Engine) scanFile(ctx context.Context, path string) fileResult {
	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	content, err := files.ReadFileRetry(path, 50*time.Millisecond)
	if err != nil {
		e.logger.Warn("file unreadable, skipping", "path", rel, "error", err)
		return fileResult{diagnostic: &findings.Diagnostic{
			Kind: findings.DiagReadError, Path: rel, Detail: err.Error(),
		}}
	}

	fileCtx, cancel := context.WithTimeout(ctx, e.cfg.Scanner.FileTimeout)
	defer cancel()

	role := patterns.ClassifyFile(rel)
	raws, err := matcher.Scan(fileCtx, content, rel, findings.SourceWorkingTree, e.lib, role)

	res := fileResult{}
	var timeoutErr *sharederrors.TimeoutError
	if errors.As(err, &timeoutErr) {
		// Partial findings from before the deadline are kept; the file is
		// reported incomplete, never retried.
		res.diagnostic = &findings.Diagnostic{
			Kind: findings.DiagMatchTimeout, Path: rel,
			Detail: fmt.Sprintf("matching exceeded %s", e.cfg.Scanner.FileTimeout),
		}
		res.incomplete = rel
	} else if err != nil && ctx.Err() == nil {
		res.diagnostic = &findings.Diagnostic{
			Kind: findings.DiagReadError, Path: rel, Detail: err.Error(),
		}
	}

	for _, raw := range raws {
		res.findings = append(res.findings, e.val.Validate(raw))
	}
	return res
}

// foldHistory merges the history result into the aggregate.
func (e *Engine) foldHistory(agg *aggregate.Aggregator, result *history.Result, err error) {
	if result == nil && err == nil {
		return
	}
	if err != nil {
		// History failure degrades to a diagnostic; the working-tree portion
		// of the report stays valid.
		e.logger.Error("history scan failed", "error", err)
		agg.AddDiagnostic(findings.Diagnostic{
			Kind: findings.DiagGitError, Detail: err.Error(),
		})
		agg.AddIncomplete("git history (scan failed)")
	}
	if result == nil {
		return
	}
	if result.NotApplicable {
		if e.mode == ModeGitOnly {
			agg.AddDiagnostic(findings.Diagnostic{
				Kind:   findings.DiagGitError,
				Detail: "root is not a git repository, nothing to scan in git-only mode",
			})
		}
		return
	}
	for _, f := range result.Findings {
		agg.Add(f)
	}
	for _, d := range result.Diagnostics {
		agg.AddDiagnostic(d)
	}
	if result.Shallow {
		agg.AddIncomplete(fmt.Sprintf("git history beyond shallow boundary (%d commits walked)", result.CommitsWalked))
	}
}
