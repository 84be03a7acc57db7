package patterns

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	scanerrors "github.com/leakscout/leakscout/pkg/shared/errors"
)

func TestNewDefaultLibraryCompiles(t *testing.T) {
	lib, err := NewDefaultLibrary("")
	if err != nil {
		t.Fatalf("default library failed to compile: %v", err)
	}
	if lib.Len() == 0 {
		t.Fatal("default library is empty")
	}
	if _, ok := lib.Get("aws-access-key-id"); !ok {
		t.Fatal("expected aws-access-key-id rule in default catalog")
	}
}

func TestNewLibraryRejectsDuplicateID(t *testing.T) {
	specs := []Spec{
		{ID: "dup", Name: "a", Pattern: "abc", SecretType: "generic-api-key", Severity: "HIGH"},
		{ID: "dup", Name: "b", Pattern: "def", SecretType: "generic-api-key", Severity: "HIGH"},
	}
	_, err := NewLibrary(specs)
	var schemaErr *scanerrors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError for duplicate id, got %v", err)
	}
}

func TestNewLibraryRejectsBadRegex(t *testing.T) {
	specs := []Spec{
		{ID: "bad", Name: "bad", Pattern: "([unclosed", SecretType: "generic-api-key", Severity: "HIGH"},
	}
	if _, err := NewLibrary(specs); err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestNewLibraryRejectsBadSeverity(t *testing.T) {
	specs := []Spec{
		{ID: "bad-sev", Name: "bad", Pattern: "abc", SecretType: "generic-api-key", Severity: "EXTREME"},
	}
	if _, err := NewLibrary(specs); err == nil {
		t.Fatal("expected error for unknown severity")
	}
}

func TestNewLibraryRejectsNestedQuantifier(t *testing.T) {
	specs := []Spec{
		{ID: "backtrack", Name: "bad", Pattern: "(a+)+b", SecretType: "generic-api-key", Severity: "HIGH"},
	}
	if _, err := NewLibrary(specs); err == nil {
		t.Fatal("expected error for nested quantifier pattern")
	}
}

func TestNewLibraryRejectsEmptyCatalog(t *testing.T) {
	_, err := NewLibrary(nil)
	var schemaErr *scanerrors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError for empty catalog, got %v", err)
	}
}

func TestRulesForFiltersByRole(t *testing.T) {
	specs := []Spec{
		{ID: "everywhere", Name: "a", Pattern: "abc", SecretType: "generic-api-key", Severity: "HIGH"},
		{ID: "compose-only", Name: "b", Pattern: "def", SecretType: "generic-api-key", Severity: "HIGH", ContextHints: []string{"compose"}},
	}
	lib, err := NewLibrary(specs)
	if err != nil {
		t.Fatalf("library failed to compile: %v", err)
	}

	source := lib.RulesFor(RoleSourceCode)
	if len(source) != 1 || source[0].ID != "everywhere" {
		t.Fatalf("expected only unhinted rule for source role, got %d rules", len(source))
	}
	compose := lib.RulesFor(RoleCompose)
	if len(compose) != 2 {
		t.Fatalf("expected both rules for compose role, got %d", len(compose))
	}
}

func TestOverlayExtendsCatalog(t *testing.T) {
	dir := t.TempDir()
	overlay := filepath.Join(dir, "extra.yml")
	content := `rules:
  - id: internal-token
    name: Internal service token
    pattern: "ISVC-[0-9a-f]{32}"
    secret_type: generic-api-key
    severity: HIGH
`
	if err := os.WriteFile(overlay, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := NewDefaultLibrary(overlay)
	if err != nil {
		t.Fatalf("overlay load failed: %v", err)
	}
	rule, ok := lib.Get("internal-token")
	if !ok {
		t.Fatal("overlay rule missing from library")
	}
	if rule.BaseSeverity != SeverityHigh {
		t.Fatalf("expected HIGH severity, got %v", rule.BaseSeverity)
	}
}

func TestOverlayCollisionIsSchemaError(t *testing.T) {
	dir := t.TempDir()
	overlay := filepath.Join(dir, "clash.yml")
	content := `rules:
  - id: aws-access-key-id
    name: Clashing rule
    pattern: "AKIA[0-9A-Z]{16}"
    secret_type: aws-access-key
    severity: HIGH
`
	if err := os.WriteFile(overlay, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewDefaultLibrary(overlay)
	var schemaErr *scanerrors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError for overlay id collision, got %v", err)
	}
}
