package validator

import (
	"regexp"
	"strings"

	"github.com/leakscout/leakscout/internal/findings"
	"github.com/leakscout/leakscout/internal/patterns"
	"github.com/leakscout/leakscout/pkg/shared/config"
)

// Tunables holds the confidence-scoring data that is configuration rather
// than code: the placeholder deny-list, known documentation examples, and the
// entropy thresholds per secret type.
type Tunables struct {
	PlaceholderTerms        []string
	KnownExamples           []string
	DefaultEntropyThreshold float64
	EntropyThresholds       map[string]float64
	MinSecretLength         int
}

// DefaultTunables returns the built-in scoring data.
func DefaultTunables() Tunables {
	return Tunables{
		PlaceholderTerms:        defaultPlaceholderTerms,
		KnownExamples:           defaultKnownExamples,
		DefaultEntropyThreshold: 4.5,
		EntropyThresholds: map[string]float64{
			patterns.TypeAWSAccessKey:     3.5,
			patterns.TypeStripeKey:        4.0,
			patterns.TypeAWSSecretKey:     4.3,
			patterns.TypeGitHubToken:      4.0,
			patterns.TypeUUIDKey:          3.0,
			patterns.TypeConnectionString: 3.0,
			patterns.TypeDatabaseURL:      3.0,
			patterns.TypeGenericPassword:  3.5,
			patterns.TypeGenericAPIKey:    4.0,
			patterns.TypeWebhookURL:       3.5,
			// A key block header carries no entropy of its own.
			patterns.TypePrivateKey: 0,
		},
		MinSecretLength: 8,
	}
}

// TunablesFromConfig merges configured overrides into the defaults.
func TunablesFromConfig(cfg *config.Config) Tunables {
	tun := DefaultTunables()
	if cfg == nil {
		return tun
	}
	if len(cfg.Validator.PlaceholderTerms) > 0 {
		tun.PlaceholderTerms = cfg.Validator.PlaceholderTerms
	}
	if len(cfg.Validator.KnownExamples) > 0 {
		tun.KnownExamples = cfg.Validator.KnownExamples
	}
	if cfg.Validator.DefaultEntropyThreshold > 0 {
		tun.DefaultEntropyThreshold = cfg.Validator.DefaultEntropyThreshold
	}
	for name, threshold := range cfg.Validator.EntropyThresholds {
		tun.EntropyThresholds[name] = threshold
	}
	return tun
}

// Validator scores raw findings into validated findings. Scoring is a pure
// function of the finding content: identical input always yields identical
// output, so validation is never retried.
type Validator struct {
	lib *patterns.Library
	tun Tunables
}

// New creates a Validator over the given library and tunables.
func New(lib *patterns.Library, tun Tunables) *Validator {
	return &Validator{lib: lib, tun: tun}
}

// Validate scores one raw finding. The ordered algorithm: placeholder check
// (overrides everything), format validation, entropy scoring, context check,
// severity resolution. Validation only ever downgrades: the final severity
// never exceeds the rule's base severity.
func (v *Validator) Validate(raw findings.Raw) findings.Validated {
	rule, ok := v.lib.Get(raw.PatternID)
	if !ok {
		// A finding without a rule cannot be scored; surface it at floor
		// confidence rather than dropping it.
		return findings.Validated{
			Raw:           raw,
			Confidence:    findings.ConfidenceLow,
			FinalSeverity: patterns.SeverityInfo,
		}
	}

	candidate := raw.Candidate
	if candidate == "" {
		candidate = raw.MatchedText
	}
	entropy := ShannonEntropy(candidate)

	validated := findings.Validated{
		Raw:          raw,
		RuleName:     rule.Name,
		SecretType:   rule.SecretType,
		EntropyScore: entropy,
		Warning:      rule.Warning,
	}

	// Step 1: placeholder check. A textually obvious placeholder must never
	// surface above INFO, even if coincidentally high-entropy.
	if v.isPlaceholder(candidate) {
		validated.IsPlaceholder = true
		validated.Confidence = findings.ConfidenceLow
		validated.FinalSeverity = patterns.SeverityInfo
		return validated
	}

	confidence := findings.ConfidenceHigh

	// Step 2: format validation for secret types with a structural shape.
	if !formatValid(rule.SecretType, candidate) {
		confidence = downgrade(confidence)
	}

	// Step 3: entropy scoring against the secret-type threshold.
	if entropy < v.entropyThreshold(rule.SecretType) {
		confidence = downgrade(confidence)
	}

	// Step 4: context check for comments and documentation-flavored paths.
	if isCommentedOut(raw.LineContent) || isDocPath(raw.FilePath) || patterns.ClassifyFile(raw.FilePath) == patterns.RoleDocs {
		confidence = downgrade(confidence)
	}

	// Step 5: severity resolution.
	validated.Confidence = confidence
	validated.FinalSeverity = patterns.MinSeverity(rule.BaseSeverity, severityCeiling(confidence))
	return validated
}

func (v *Validator) isPlaceholder(candidate string) bool {
	if len(candidate) < v.tun.MinSecretLength {
		return true
	}
	for _, known := range v.tun.KnownExamples {
		if candidate == known {
			return true
		}
	}
	for _, term := range v.tun.PlaceholderTerms {
		if containsTerm(candidate, term) {
			return true
		}
	}
	for _, re := range defaultPlaceholderFormats {
		if re.MatchString(candidate) {
			return true
		}
	}
	return false
}

func (v *Validator) entropyThreshold(secretType string) float64 {
	if threshold, ok := v.tun.EntropyThresholds[secretType]; ok {
		return threshold
	}
	return v.tun.DefaultEntropyThreshold
}

func downgrade(c findings.Confidence) findings.Confidence {
	if c > findings.ConfidenceLow {
		return c - 1
	}
	return findings.ConfidenceLow
}

// severityCeiling caps severity by confidence: HIGH confidence preserves the
// base severity, MEDIUM caps at HIGH, LOW caps at INFO.
func severityCeiling(c findings.Confidence) patterns.Severity {
	switch c {
	case findings.ConfidenceHigh:
		return patterns.SeverityCritical
	case findings.ConfidenceMedium:
		return patterns.SeverityHigh
	default:
		return patterns.SeverityInfo
	}
}

// Structural shape checks per secret type. A mismatch does not reject the
// finding, it only lowers confidence: generic rules legitimately match values
// outside the canonical shape.
var (
	awsAccessKeyShape = regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`)
	awsSecretKeyShape = regexp.MustCompile(`^[A-Za-z0-9/+=]{40}$`)
	base64KeyShape    = regexp.MustCompile(`^[A-Za-z0-9+/_=-]{16,}$`)
	uuidShape         = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	jwtShape          = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)
	stripeKeyShape    = regexp.MustCompile(`^(?:sk|pk)_(?:live|test)_[0-9a-zA-Z]{24,}$`)
	githubTokenShape  = regexp.MustCompile(`^(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{36,}$`)
)

func formatValid(secretType, candidate string) bool {
	switch secretType {
	case patterns.TypeAWSAccessKey:
		return awsAccessKeyShape.MatchString(candidate)
	case patterns.TypeAWSSecretKey:
		return awsSecretKeyShape.MatchString(candidate)
	case patterns.TypeBase64Key:
		return base64KeyShape.MatchString(candidate)
	case patterns.TypeUUIDKey:
		return uuidShape.MatchString(candidate)
	case patterns.TypeJWT:
		return jwtShape.MatchString(candidate)
	case patterns.TypeStripeKey:
		return stripeKeyShape.MatchString(candidate)
	case patterns.TypeGitHubToken:
		return githubTokenShape.MatchString(candidate)
	case patterns.TypePrivateKey:
		return strings.Contains(candidate, "PRIVATE KEY")
	default:
		// No structural shape known for this type.
		return true
	}
}
