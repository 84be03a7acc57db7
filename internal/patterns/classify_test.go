package patterns

import "testing"

func TestClassifyFile(t *testing.T) {
	cases := []struct {
		path string
		want FileRole
	}{
		{"src/main.go", RoleSourceCode},
		{"web/app.tsx", RoleSourceCode},
		{".env", RoleEnv},
		{".env.production", RoleEnv},
		{"config/appsettings.json", RoleConfig},
		{"settings.ini", RoleConfig},
		{"docker-compose.yml", RoleCompose},
		{"compose.override.yaml", RoleCompose},
		{"Dockerfile", RoleCompose},
		{"Dockerfile.prod", RoleCompose},
		{"azure-pipelines.yml", RolePipeline},
		{".github/workflows/ci.yaml", RolePipeline},
		{".gitlab-ci.yml", RolePipeline},
		{"Jenkinsfile", RolePipeline},
		{"README.md", RoleDocs},
		{"docs/setup.rst", RoleDocs},
		{"data.bin", RoleUnknown},
	}
	for _, tc := range cases {
		if got := ClassifyFile(tc.path); got != tc.want {
			t.Errorf("ClassifyFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestSensitivePath(t *testing.T) {
	sensitive := []string{
		".env",
		"backend/.env.local",
		"config/appsettings.json",
		"docker-compose.yml",
		"deploy/secrets.yaml",
		"terraform.tfvars",
		"id_rsa",
	}
	for _, path := range sensitive {
		if !SensitivePath(path) {
			t.Errorf("SensitivePath(%q) = false, want true", path)
		}
	}

	benign := []string{
		"README.md",
		"src/components/Button.tsx",
		"assets/logo.png",
	}
	for _, path := range benign {
		if SensitivePath(path) {
			t.Errorf("SensitivePath(%q) = true, want false", path)
		}
	}
}
