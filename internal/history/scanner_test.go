package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-hclog"

	"github.com/leakscout/leakscout/internal/findings"
	"github.com/leakscout/leakscout/internal/patterns"
	"github.com/leakscout/leakscout/internal/validator"
	"github.com/leakscout/leakscout/pkg/shared/config"
)

const plantedSecret = "AWS_SECRET_ACCESS_KEY=wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY\n"

func testScanner(t *testing.T) *Scanner {
	t.Helper()
	lib, err := patterns.NewDefaultLibrary("")
	if err != nil {
		t.Fatalf("default library failed to compile: %v", err)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Scanner.Workers = 2
	val := validator.New(lib, validator.DefaultTunables())
	return New(lib, val, cfg, hclog.NewNullLogger())
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, content, message string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatal(err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}
	return hash.String()
}

func removeFile(t *testing.T, repo *git.Repository, dir, name, message string) {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Remove(name); err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}
}

func TestScanFindsDeletedSecret(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}

	commitFile(t, repo, dir, "README.md", "# demo\n", "initial commit")
	secretCommit := commitFile(t, repo, dir, ".env", plantedSecret, "add env file")
	removeFile(t, repo, dir, ".env", "remove env file")

	result, err := testScanner(t).Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("history scan failed: %v", err)
	}
	if result.NotApplicable {
		t.Fatal("repository reported as not applicable")
	}
	if result.CommitsWalked != 3 {
		t.Fatalf("commits walked = %d, want 3", result.CommitsWalked)
	}

	var matched []findings.Validated
	for _, f := range result.Findings {
		if f.PatternID == "aws-secret-access-key" {
			matched = append(matched, f)
		}
	}
	if len(matched) != 1 {
		t.Fatalf("expected exactly 1 aws-secret-access-key finding, got %d", len(matched))
	}

	f := matched[0]
	if f.Source != findings.SourceGitHistory {
		t.Fatalf("source = %v, want git-history", f.Source)
	}
	if f.History == nil {
		t.Fatal("historical context missing")
	}
	if f.History.CommitHash != secretCommit {
		t.Fatalf("commit hash = %s, want %s", f.History.CommitHash, secretCommit)
	}
	if f.History.CommitMessage != "add env file" {
		t.Fatalf("commit message = %q", f.History.CommitMessage)
	}
	if f.FinalSeverity != patterns.SeverityCritical {
		t.Fatalf("final severity = %v, want CRITICAL", f.FinalSeverity)
	}
	if f.FilePath != ".env" {
		t.Fatalf("file path = %q, want .env", f.FilePath)
	}
}

func TestScanSkipsNonSensitivePaths(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, dir, "notes.md", plantedSecret, "add notes")

	result, err := testScanner(t).Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("history scan failed: %v", err)
	}
	if len(result.Findings) != 0 {
		t.Fatalf("non-sensitive path produced %d findings", len(result.Findings))
	}
	if result.FilesScanned != 0 {
		t.Fatalf("files scanned = %d, want 0", result.FilesScanned)
	}
}

func TestScanNonRepositoryIsNotApplicable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plain.txt"), []byte("no repo here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := testScanner(t).Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("expected nil error for non-repository, got %v", err)
	}
	if !result.NotApplicable {
		t.Fatal("non-repository not reported as not applicable")
	}
	if len(result.Findings) != 0 || len(result.Diagnostics) != 0 {
		t.Fatal("non-repository produced findings or diagnostics")
	}
}

func TestScanVisitsEachCommitOnce(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, dir, ".env", plantedSecret, "add env file")

	head, err := repo.Head()
	if err != nil {
		t.Fatal(err)
	}
	// A second branch aliasing the same history must not double the walk.
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature"),
		Hash:   head.Hash(),
		Create: true,
	}); err != nil {
		t.Fatal(err)
	}

	result, err := testScanner(t).Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("history scan failed: %v", err)
	}
	if result.CommitsWalked != 1 {
		t.Fatalf("commits walked = %d, want 1 despite 2 refs", result.CommitsWalked)
	}
	if result.RefsWalked < 2 {
		t.Fatalf("refs walked = %d, want at least 2", result.RefsWalked)
	}
}
