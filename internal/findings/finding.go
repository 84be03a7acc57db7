package findings

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/leakscout/leakscout/internal/patterns"
)

// Source identifies where a finding's content came from.
type Source string

const (
	SourceWorkingTree Source = "working-tree"
	SourceGitHistory  Source = "git-history"
)

// Confidence is the validator's estimate that a finding is a genuine secret
// rather than a placeholder or example value.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// ParseConfidence converts a confidence name into a Confidence value.
func ParseConfidence(name string) (Confidence, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "HIGH":
		return ConfidenceHigh, nil
	case "MEDIUM":
		return ConfidenceMedium, nil
	case "LOW":
		return ConfidenceLow, nil
	default:
		return ConfidenceLow, fmt.Errorf("unknown confidence: %q", name)
	}
}

func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Confidence) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseConfidence(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Raw is an unvalidated match emitted by the pattern matcher and consumed
// immediately by the validator.
type Raw struct {
	FilePath    string `json:"file_path"`
	LineNumber  int    `json:"line_number"`
	MatchedText string `json:"matched_text"`
	// Candidate is the captured secret value when the rule isolates one,
	// otherwise equal to MatchedText. Confidence scoring runs against it.
	Candidate   string `json:"-"`
	LineContent string `json:"line_content,omitempty"`
	PatternID   string `json:"pattern_id"`
	Source      Source `json:"source"`
}

// HistoricalContext carries commit attribution for findings sourced from git
// history.
type HistoricalContext struct {
	CommitHash    string    `json:"commit_hash"`
	Author        string    `json:"author"`
	CommitDate    time.Time `json:"commit_date"`
	CommitMessage string    `json:"commit_message"`
	RefName       string    `json:"ref_name"`
}

// Correlation classifies how a finding relates to its twin in the other
// source. A secret found in both the working tree and history is a strictly
// higher remediation priority than one surviving only in history.
type Correlation string

const (
	CorrelationNone         Correlation = ""
	CorrelationStillPresent Correlation = "still-present"
	CorrelationHistoryOnly  Correlation = "history-only"
)

// Validated is a scored finding. It is immutable once computed, except for the
// Correlation field which the aggregator fills when merging sources.
type Validated struct {
	Raw

	RuleName      string            `json:"rule_name"`
	SecretType    string            `json:"secret_type"`
	Confidence    Confidence        `json:"confidence"`
	IsPlaceholder bool              `json:"is_placeholder"`
	EntropyScore  float64           `json:"entropy_score"`
	FinalSeverity patterns.Severity `json:"final_severity"`
	Warning       string            `json:"warning,omitempty"`

	Correlation Correlation        `json:"correlation,omitempty"`
	History     *HistoricalContext `json:"history,omitempty"`

	// Baselined marks a finding accepted in a previous scan. Baselined
	// findings stay in the report but never block the gate.
	Baselined bool `json:"baselined,omitempty"`
}

// Diagnostic records one recovered error or skipped input. Diagnostics are
// never dropped: operators must be able to judge scan completeness.
type Diagnostic struct {
	Kind   string `json:"kind"`
	Path   string `json:"path,omitempty"`
	Detail string `json:"detail"`
}

// Diagnostic kinds.
const (
	DiagSkippedBinary   = "skipped-binary"
	DiagSkippedTooLarge = "skipped-too-large"
	DiagSkippedExcluded = "skipped-excluded"
	DiagReadError       = "read-error"
	DiagMatchTimeout    = "match-timeout"
	DiagGitError        = "git-error"
	DiagShallowHistory  = "shallow-history"
	DiagBudgetExceeded  = "budget-exceeded"
)
