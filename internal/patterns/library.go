package patterns

import (
	"fmt"
	"os"
	"regexp"

	yaml "gopkg.in/yaml.v2"

	scanerrors "github.com/leakscout/leakscout/pkg/shared/errors"
)

// Library is the immutable catalog of detection rules, built once at startup
// and shared by every component without locking.
type Library struct {
	rules map[string]*Rule
	order []string
}

// NewLibrary compiles and validates the given specs. Any malformed rule is a
// schema error and fails the whole load: a silently dropped rule would
// under-detect and make a clean result misleading.
func NewLibrary(specs []Spec) (*Library, error) {
	lib := &Library{rules: make(map[string]*Rule, len(specs))}
	for _, spec := range specs {
		rule, err := compileSpec(spec)
		if err != nil {
			return nil, err
		}
		if _, exists := lib.rules[rule.ID]; exists {
			return nil, scanerrors.NewSchemaError(rule.ID, "duplicate rule id")
		}
		lib.rules[rule.ID] = rule
		lib.order = append(lib.order, rule.ID)
	}
	if len(lib.order) == 0 {
		return nil, scanerrors.NewSchemaError("", "rule catalog is empty")
	}
	return lib, nil
}

// NewDefaultLibrary builds the library from the built-in catalog plus an
// optional YAML overlay file.
func NewDefaultLibrary(overlayPath string) (*Library, error) {
	specs := BuiltinSpecs()
	if overlayPath != "" {
		overlay, err := loadOverlay(overlayPath)
		if err != nil {
			return nil, err
		}
		specs = append(specs, overlay...)
	}
	return NewLibrary(specs)
}

// Get returns the rule with the given id.
func (l *Library) Get(id string) (*Rule, bool) {
	rule, ok := l.rules[id]
	return rule, ok
}

// All returns every rule in stable catalog order.
func (l *Library) All() []*Rule {
	rules := make([]*Rule, 0, len(l.order))
	for _, id := range l.order {
		rules = append(rules, l.rules[id])
	}
	return rules
}

// RulesFor returns the rules applicable to a file of the given role, in
// stable catalog order.
func (l *Library) RulesFor(role FileRole) []*Rule {
	var rules []*Rule
	for _, id := range l.order {
		if l.rules[id].AppliesTo(role) {
			rules = append(rules, l.rules[id])
		}
	}
	return rules
}

// Len returns the number of rules in the library.
func (l *Library) Len() int {
	return len(l.order)
}

func compileSpec(spec Spec) (*Rule, error) {
	if spec.ID == "" {
		return nil, scanerrors.NewSchemaError("", "rule id must not be empty")
	}
	if spec.Name == "" {
		return nil, scanerrors.NewSchemaError(spec.ID, "rule name must not be empty")
	}
	if spec.Pattern == "" {
		return nil, scanerrors.NewSchemaError(spec.ID, "rule pattern must not be empty")
	}
	if err := checkBacktracking(spec.Pattern); err != nil {
		return nil, scanerrors.NewSchemaError(spec.ID, "%v", err)
	}

	re, err := regexp.Compile(spec.Pattern)
	if err != nil {
		return nil, scanerrors.NewSchemaError(spec.ID, "invalid regex: %v", err)
	}

	severity, err := ParseSeverity(spec.Severity)
	if err != nil {
		return nil, scanerrors.NewSchemaError(spec.ID, "%v", err)
	}

	var hints []FileRole
	for _, hint := range spec.ContextHints {
		role, ok := ParseFileRole(hint)
		if !ok {
			return nil, scanerrors.NewSchemaError(spec.ID, "unknown context hint: %q", hint)
		}
		hints = append(hints, role)
	}

	return &Rule{
		ID:           spec.ID,
		Name:         spec.Name,
		Regexp:       re,
		SecretType:   spec.SecretType,
		BaseSeverity: severity,
		ContextHints: hints,
		Warning:      spec.Warning,
	}, nil
}

// nestedQuantifier flags a quantifier applied to a group that itself contains
// an unbounded quantifier. Go's RE2 engine is linear-time, so this is not a
// runaway risk here, but overlay files are also consumed by tooling with
// backtracking engines and the contract is enforced at load time.
var nestedQuantifier = regexp.MustCompile(`\([^()]*[*+][^()]*\)[*+]`)

func checkBacktracking(pattern string) error {
	if nestedQuantifier.MatchString(pattern) {
		return fmt.Errorf("pattern contains a nested unbounded quantifier")
	}
	return nil
}

type overlayFile struct {
	Rules []Spec `yaml:"rules"`
}

func loadOverlay(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scanerrors.NewSchemaError("", "failed to read overlay %q: %v", path, err)
	}
	var overlay overlayFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, scanerrors.NewSchemaError("", "failed to parse overlay %q: %v", path, err)
	}
	return overlay.Rules, nil
}
