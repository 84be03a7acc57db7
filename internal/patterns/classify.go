package patterns

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FileRole is a coarse classification of a file derived purely from its path.
// It replaces scattered filename string checks with one tagged value consumed
// by the walker, the matcher, and the validator.
type FileRole string

const (
	RoleSourceCode FileRole = "source"
	RoleConfig     FileRole = "config"
	RoleEnv        FileRole = "env"
	RoleCompose    FileRole = "compose"
	RolePipeline   FileRole = "pipeline"
	RoleDocs       FileRole = "docs"
	RoleUnknown    FileRole = "unknown"
)

var sourceExtensions = map[string]bool{
	".go": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".rb": true, ".java": true, ".cs": true, ".php": true,
	".c": true, ".cpp": true, ".h": true, ".rs": true, ".kt": true,
	".sh": true, ".sql": true,
}

var configExtensions = map[string]bool{
	".json": true, ".toml": true, ".ini": true, ".xml": true,
	".conf": true, ".cfg": true, ".properties": true, ".npmrc": true,
}

var docExtensions = map[string]bool{
	".md": true, ".rst": true, ".txt": true, ".adoc": true,
}

var pipelinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)azure[-_]?pipelines?\.ya?ml$`),
	regexp.MustCompile(`(?i)\.gitlab-ci\.ya?ml$`),
	regexp.MustCompile(`(?i)\.github/workflows/[^/]+\.ya?ml$`),
	regexp.MustCompile(`(?i)\.circleci/config\.ya?ml$`),
	regexp.MustCompile(`(?i)bitbucket-pipelines\.ya?ml$`),
	regexp.MustCompile(`(?i)jenkinsfile$`),
}

var composePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(^|[-_])compose(\.[^/]*)?\.ya?ml$`),
	regexp.MustCompile(`(?i)dockerfile(\.[^/]*)?$`),
}

// ClassifyFile assigns a role to the given path. The path is never read; the
// classification is a pure function of its name.
func ClassifyFile(path string) FileRole {
	normalized := filepath.ToSlash(path)
	base := strings.ToLower(filepath.Base(normalized))
	ext := strings.ToLower(filepath.Ext(base))

	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return RoleEnv
	}
	for _, re := range pipelinePatterns {
		if re.MatchString(normalized) {
			return RolePipeline
		}
	}
	for _, re := range composePatterns {
		if re.MatchString(base) {
			return RoleCompose
		}
	}
	if docExtensions[ext] {
		return RoleDocs
	}
	if configExtensions[ext] || ext == ".yml" || ext == ".yaml" {
		return RoleConfig
	}
	if sourceExtensions[ext] {
		return RoleSourceCode
	}
	return RoleUnknown
}

// ParseFileRole converts a role name from an overlay file into a FileRole.
func ParseFileRole(name string) (FileRole, bool) {
	switch FileRole(strings.ToLower(strings.TrimSpace(name))) {
	case RoleSourceCode:
		return RoleSourceCode, true
	case RoleConfig:
		return RoleConfig, true
	case RoleEnv:
		return RoleEnv, true
	case RoleCompose:
		return RoleCompose, true
	case RolePipeline:
		return RolePipeline, true
	case RoleDocs:
		return RoleDocs, true
	case RoleUnknown:
		return RoleUnknown, true
	default:
		return RoleUnknown, false
	}
}

// sensitivePathPatterns lists path shapes that historically carry credentials.
// The history scanner targets these to bound the cost of walking every blob
// of every commit.
var sensitivePathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.env(\.[^/]*)?$`),
	regexp.MustCompile(`(?i)appsettings(\.[^/]*)?\.json$`),
	regexp.MustCompile(`(?i)web\.config$`),
	regexp.MustCompile(`(?i)[^/]*\.pubxml$`),
	regexp.MustCompile(`(?i)azure[-_]?pipelines?\.ya?ml$`),
	regexp.MustCompile(`(?i)local\.settings\.json$`),
	regexp.MustCompile(`(?i)azuredeploy\.parameters\.(json|ya?ml)$`),
	regexp.MustCompile(`(?i)[^/]*\.publishsettings$`),
	regexp.MustCompile(`(?i)(^|[-_/])compose(\.[^/]*)?\.ya?ml$`),
	regexp.MustCompile(`(?i)dockerfile(\.[^/]*)?$`),
	regexp.MustCompile(`(?i)\.dockerconfigjson$`),
	regexp.MustCompile(`(?i)\.docker/config\.json$`),
	regexp.MustCompile(`(?i)\.gitlab-ci\.ya?ml$`),
	regexp.MustCompile(`(?i)\.github/workflows/[^/]+\.ya?ml$`),
	regexp.MustCompile(`(?i)\.circleci/config\.ya?ml$`),
	regexp.MustCompile(`(?i)bitbucket-pipelines\.ya?ml$`),
	regexp.MustCompile(`(?i)credentials\.json$`),
	regexp.MustCompile(`(?i)secrets?\.(json|ya?ml)$`),
	regexp.MustCompile(`(?i)[^/]*\.tfvars$`),
	regexp.MustCompile(`(?i)(^|/)id_(rsa|dsa|ecdsa|ed25519)$`),
	regexp.MustCompile(`(?i)\.npmrc$`),
	regexp.MustCompile(`(?i)\.pypirc$`),
	regexp.MustCompile(`(?i)[^/]*\.(pem|key|pfx|p12|cer)$`),
	regexp.MustCompile(`(?i)\.vercel/[^/]*\.json$`),
	regexp.MustCompile(`(?i)\.netlify/[^/]*\.json$`),
}

// SensitivePath reports whether a path matches the history-scan target list.
func SensitivePath(path string) bool {
	normalized := filepath.ToSlash(path)
	for _, re := range sensitivePathPatterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}
