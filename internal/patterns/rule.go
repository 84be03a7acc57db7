package patterns

import "regexp"

// Secret type identifiers used by the validator to pick structural format
// checks and entropy thresholds.
const (
	TypeAWSAccessKey     = "aws-access-key"
	TypeAWSSecretKey     = "aws-secret-key"
	TypeAzureConnString  = "azure-connection-string"
	TypeAzureClientCreds = "azure-client-credentials"
	TypeBase64Key        = "base64-key"
	TypeConnectionString = "connection-string"
	TypeDatabaseURL      = "database-url"
	TypeGenericAPIKey    = "generic-api-key"
	TypeGenericPassword  = "generic-password"
	TypeGitHubToken      = "github-token"
	TypeJWT              = "jwt"
	TypePrivateKey       = "private-key"
	TypeRegistryCred     = "registry-credential"
	TypeStripeKey        = "stripe-key"
	TypeUUIDKey          = "uuid-key"
	TypeWebhookURL       = "webhook-url"
)

// Rule is a single named detection rule. Rules are immutable after library
// construction and shared freely without locking.
type Rule struct {
	ID           string
	Name         string
	Regexp       *regexp.Regexp
	SecretType   string
	BaseSeverity Severity
	// ContextHints restricts a rule to files of the named roles. An empty
	// list means the rule applies everywhere.
	ContextHints []FileRole
	// Warning is an optional remediation note surfaced in reports.
	Warning string
}

// AppliesTo reports whether the rule should run against a file of the given role.
func (r *Rule) AppliesTo(role FileRole) bool {
	if len(r.ContextHints) == 0 {
		return true
	}
	for _, hint := range r.ContextHints {
		if hint == role {
			return true
		}
	}
	return false
}

// Spec is the uncompiled form of a rule, as written in the built-in catalog
// and in YAML overlay files.
type Spec struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Pattern      string   `yaml:"pattern"`
	SecretType   string   `yaml:"secret_type"`
	Severity     string   `yaml:"severity"`
	ContextHints []string `yaml:"context_hints,omitempty"`
	Warning      string   `yaml:"warning,omitempty"`
}
