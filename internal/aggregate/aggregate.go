package aggregate

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leakscout/leakscout/internal/findings"
	"github.com/leakscout/leakscout/internal/patterns"
)

// Metadata describes the scan run itself.
type Metadata struct {
	ScanID     string    `json:"scanId"`
	Root       string    `json:"root"`
	Mode       string    `json:"mode"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Duration   string    `json:"duration"`
	Partial    bool      `json:"partial"`
	// Incomplete lists paths or commits the scan could not fully cover.
	Incomplete []string `json:"incomplete,omitempty"`
	Version    string   `json:"version"`
}

// Summary holds the counts the CI gate and the report header are built from.
type Summary struct {
	Total           int            `json:"total"`
	BySeverity      map[string]int `json:"bySeverity"`
	WorkingTree     int            `json:"workingTree"`
	Historical      int            `json:"historical"`
	StillPresent    int            `json:"stillPresent"`
	HistoryOnly     int            `json:"historyOnly"`
	Baselined       int            `json:"baselined"`
	FilesAffected   int            `json:"filesAffected"`
	CommitsAffected int            `json:"commitsAffected"`
}

// Report is the aggregate scan result every output artifact renders from.
type Report struct {
	Metadata    Metadata              `json:"metadata"`
	Summary     Summary               `json:"summary"`
	Findings    []findings.Validated  `json:"findings"`
	Diagnostics []findings.Diagnostic `json:"diagnostics"`
}

// Blocking returns the findings that fail the CI gate: working-tree findings
// at CRITICAL or HIGH with confidence at least MEDIUM. Historical findings
// never block; they are remediation guidance, not a regression.
func (r *Report) Blocking() []findings.Validated {
	var blocking []findings.Validated
	for _, f := range r.Findings {
		if f.Source != findings.SourceWorkingTree || f.Baselined {
			continue
		}
		if (f.FinalSeverity == patterns.SeverityCritical || f.FinalSeverity == patterns.SeverityHigh) &&
			f.Confidence >= findings.ConfidenceMedium {
			blocking = append(blocking, f)
		}
	}
	return blocking
}

// Passed reports the CI verdict.
func (r *Report) Passed() bool {
	return len(r.Blocking()) == 0
}

// Aggregator merges working-tree and historical findings into one Report.
// It is fed by exactly one goroutine; the engine owns the results channel and
// drains it here, so no locking is needed.
type Aggregator struct {
	workingTree map[dedupKey]*findings.Validated
	historical  map[historyKey]*findings.Validated
	diagnostics []findings.Diagnostic
	incomplete  []string
}

type dedupKey struct {
	path    string
	pattern string
	text    string
}

type historyKey struct {
	commit  string
	path    string
	pattern string
	text    string
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		workingTree: make(map[dedupKey]*findings.Validated),
		historical:  make(map[historyKey]*findings.Validated),
	}
}

// Add folds one validated finding into the aggregate. Findings that collapse
// to the same dedup key keep the first-seen entry, upgraded to the higher
// severity and confidence of the pair, so merging is idempotent and
// order-insensitive in outcome.
func (a *Aggregator) Add(f findings.Validated) {
	if f.Source == findings.SourceGitHistory && f.History != nil {
		key := historyKey{
			commit:  f.History.CommitHash,
			path:    f.FilePath,
			pattern: f.PatternID,
			text:    f.MatchedText,
		}
		if existing, ok := a.historical[key]; ok {
			merge(existing, &f)
			return
		}
		stored := f
		a.historical[key] = &stored
		return
	}

	key := dedupKey{
		path:    normalizePath(f.FilePath),
		pattern: f.PatternID,
		text:    normalizeText(f.MatchedText),
	}
	if existing, ok := a.workingTree[key]; ok {
		merge(existing, &f)
		return
	}
	stored := f
	a.workingTree[key] = &stored
}

// AddDiagnostic records a recovered-error diagnostic. Diagnostics are never
// dropped, whatever the verdict.
func (a *Aggregator) AddDiagnostic(d findings.Diagnostic) {
	a.diagnostics = append(a.diagnostics, d)
}

// AddIncomplete records a path or commit the scan could not fully cover.
func (a *Aggregator) AddIncomplete(what string) {
	a.incomplete = append(a.incomplete, what)
}

// Finalize cross-links working-tree and historical findings, computes summary
// counts and ordering, and returns the Report. The aggregator must not be fed
// after Finalize.
func (a *Aggregator) Finalize(meta Metadata) *Report {
	// Cross-link on the logical secret: same path, pattern and text in both
	// the working tree and history means the secret is still present, which
	// outranks history-only for remediation priority.
	for key, hist := range a.historical {
		logical := dedupKey{
			path:    normalizePath(key.path),
			pattern: key.pattern,
			text:    normalizeText(key.text),
		}
		if current, ok := a.workingTree[logical]; ok {
			current.Correlation = findings.CorrelationStillPresent
			hist.Correlation = findings.CorrelationStillPresent
		} else {
			hist.Correlation = findings.CorrelationHistoryOnly
		}
	}

	all := make([]findings.Validated, 0, len(a.workingTree)+len(a.historical))
	for _, f := range a.workingTree {
		all = append(all, *f)
	}
	for _, f := range a.historical {
		all = append(all, *f)
	}
	sortFindings(all)

	summary := a.summarize(all)

	meta.Incomplete = append(meta.Incomplete, a.incomplete...)
	sort.Strings(meta.Incomplete)
	if len(meta.Incomplete) > 0 {
		meta.Partial = true
	}
	if meta.ScanID == "" {
		meta.ScanID = uuid.New().String()
	}
	meta.Duration = meta.FinishedAt.Sub(meta.StartedAt).Round(time.Millisecond).String()

	return &Report{
		Metadata:    meta,
		Summary:     summary,
		Findings:    all,
		Diagnostics: a.diagnostics,
	}
}

func (a *Aggregator) summarize(all []findings.Validated) Summary {
	summary := Summary{BySeverity: make(map[string]int)}
	files := make(map[string]struct{})
	commits := make(map[string]struct{})
	for _, f := range all {
		summary.Total++
		summary.BySeverity[f.FinalSeverity.String()]++
		if f.Source == findings.SourceWorkingTree {
			summary.WorkingTree++
			files[normalizePath(f.FilePath)] = struct{}{}
		} else {
			summary.Historical++
			if f.History != nil {
				commits[f.History.CommitHash] = struct{}{}
			}
		}
		switch f.Correlation {
		case findings.CorrelationStillPresent:
			if f.Source == findings.SourceWorkingTree {
				summary.StillPresent++
			}
		case findings.CorrelationHistoryOnly:
			summary.HistoryOnly++
		}
	}
	summary.FilesAffected = len(files)
	summary.CommitsAffected = len(commits)
	return summary
}

// merge keeps the first-seen finding but upgrades it when a colliding finding
// carries stronger signal. Max of severities and confidences makes the merge
// commutative, which is what dedup idempotence needs.
func merge(into, from *findings.Validated) {
	if from.FinalSeverity > into.FinalSeverity {
		into.FinalSeverity = from.FinalSeverity
	}
	if from.Confidence > into.Confidence {
		into.Confidence = from.Confidence
	}
	if into.Warning == "" {
		into.Warning = from.Warning
	}
}

// sortFindings orders severity descending, then path, then line, then pattern
// so the JSON artifact is byte-stable across runs.
func sortFindings(all []findings.Validated) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].FinalSeverity != all[j].FinalSeverity {
			return all[i].FinalSeverity > all[j].FinalSeverity
		}
		pi, pj := normalizePath(all[i].FilePath), normalizePath(all[j].FilePath)
		if pi != pj {
			return pi < pj
		}
		if all[i].LineNumber != all[j].LineNumber {
			return all[i].LineNumber < all[j].LineNumber
		}
		if all[i].PatternID != all[j].PatternID {
			return all[i].PatternID < all[j].PatternID
		}
		ci := commitOf(all[i])
		cj := commitOf(all[j])
		return ci < cj
	})
}

func commitOf(f findings.Validated) string {
	if f.History != nil {
		return f.History.CommitHash
	}
	return ""
}

func normalizePath(path string) string {
	return filepath.ToSlash(strings.TrimPrefix(path, "./"))
}

func normalizeText(text string) string {
	return strings.TrimSpace(text)
}
