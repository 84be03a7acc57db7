package history

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/hashicorp/go-hclog"

	"github.com/leakscout/leakscout/internal/findings"
	"github.com/leakscout/leakscout/internal/matcher"
	"github.com/leakscout/leakscout/internal/patterns"
	"github.com/leakscout/leakscout/internal/validator"
	"github.com/leakscout/leakscout/pkg/shared/config"
)

// Result is the outcome of a history scan. NotApplicable is set when the root
// is not a git repository at all, which is not an error. Shallow marks partial
// coverage on shallow clones; the report states the depth actually walked.
type Result struct {
	Findings      []findings.Validated
	Diagnostics   []findings.Diagnostic
	NotApplicable bool
	Shallow       bool
	CommitsWalked int
	RefsWalked    int
	FilesScanned  int
}

// Scanner walks every commit reachable from any local ref and re-runs the
// matcher and validator against historical blob content. Secrets deleted from
// the working tree but still reachable in history are its whole purpose.
type Scanner struct {
	lib         *patterns.Library
	validator   *validator.Validator
	logger      hclog.Logger
	workers     int
	fileTimeout time.Duration
	maxFileSize int64
}

// New creates a history Scanner.
func New(lib *patterns.Library, val *validator.Validator, cfg *config.Config, logger hclog.Logger) *Scanner {
	return &Scanner{
		lib:         lib,
		validator:   val,
		logger:      logger,
		workers:     cfg.Scanner.Workers,
		fileTimeout: cfg.Scanner.FileTimeout,
		maxFileSize: cfg.Walker.MaxFileSize,
	}
}

// blobJob is one historical file to match, with its commit attribution.
type blobJob struct {
	path    string
	content []byte
	context findings.HistoricalContext
}

// Scan traverses all reachable commits under root.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	result := &Result{}

	repo, err := git.PlainOpen(root)
	if err == git.ErrRepositoryNotExists {
		s.logger.Info("root is not a git repository, history scan not applicable", "root", root)
		result.NotApplicable = true
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %q: %w", root, err)
	}

	if shallows, err := repo.Storer.Shallow(); err == nil && len(shallows) > 0 {
		result.Shallow = true
		result.Diagnostics = append(result.Diagnostics, findings.Diagnostic{
			Kind:   findings.DiagShallowHistory,
			Detail: fmt.Sprintf("shallow clone: history truncated at %d graft point(s), coverage is partial", len(shallows)),
		})
	}

	jobs := make(chan blobJob)
	results := make(chan []findings.Validated)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- s.scanBlob(ctx, job)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var walkErr error
	go func() {
		defer close(jobs)
		walkErr = s.walkRefs(ctx, repo, jobs, result)
	}()

	for validated := range results {
		result.Findings = append(result.Findings, validated...)
	}

	if walkErr != nil {
		return result, walkErr
	}
	s.logger.Info("history scan finished",
		"refs", result.RefsWalked, "commits", result.CommitsWalked,
		"files", result.FilesScanned, "findings", len(result.Findings))
	return result, nil
}

// walkRefs visits every commit reachable from any local ref exactly once. The
// visited set is keyed by commit hash, so revisit detection is O(1) no matter
// how many branches alias the same ancestry.
func (s *Scanner) walkRefs(ctx context.Context, repo *git.Repository, jobs chan<- blobJob, result *Result) error {
	refs, err := repo.References()
	if err != nil {
		return fmt.Errorf("failed to list references: %w", err)
	}

	visited := make(map[plumbing.Hash]struct{})

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		if !name.IsBranch() && !name.IsTag() && !name.IsRemote() {
			return nil
		}
		result.RefsWalked++

		tip, err := s.resolveCommit(repo, ref.Hash())
		if err != nil {
			s.recordGitDiag(result, "resolve", ref.Hash().String(), err)
			return nil
		}
		s.walkAncestry(ctx, tip, name.Short(), visited, jobs, result)
		return nil
	})
	return err
}

// walkAncestry does an iterative depth-first walk from tip, dispatching the
// files each unvisited commit touched.
func (s *Scanner) walkAncestry(ctx context.Context, tip *object.Commit, refName string, visited map[plumbing.Hash]struct{}, jobs chan<- blobJob, result *Result) {
	stack := []*object.Commit{tip}
	for len(stack) > 0 {
		if ctx.Err() != nil {
			return
		}
		commit := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[commit.Hash]; seen {
			continue
		}
		visited[commit.Hash] = struct{}{}
		result.CommitsWalked++

		s.dispatchCommit(ctx, commit, refName, jobs, result)

		for i := 0; i < commit.NumParents(); i++ {
			if _, seen := visited[commit.ParentHashes[i]]; seen {
				continue
			}
			parent, err := commit.Parent(i)
			if err != nil {
				// Corrupt or missing object: skip it, keep walking. A shallow
				// clone also lands here for commits past the graft point.
				s.recordGitDiag(result, "load-commit", commit.ParentHashes[i].String(), err)
				continue
			}
			stack = append(stack, parent)
		}
	}
}

// dispatchCommit extracts the blobs the commit touched, filtered to sensitive
// paths, and hands them to the matching workers.
func (s *Scanner) dispatchCommit(ctx context.Context, commit *object.Commit, refName string, jobs chan<- blobJob, result *Result) {
	tree, err := commit.Tree()
	if err != nil {
		s.recordGitDiag(result, "load-tree", commit.Hash.String(), err)
		return
	}

	paths, err := s.touchedPaths(commit, tree)
	if err != nil {
		s.recordGitDiag(result, "diff", commit.Hash.String(), err)
		return
	}

	for _, path := range paths {
		if !patterns.SensitivePath(path) {
			continue
		}
		file, err := tree.File(path)
		if err != nil {
			s.recordGitDiag(result, "load-blob", commit.Hash.String()+":"+path, err)
			continue
		}
		if file.Size > s.maxFileSize {
			result.Diagnostics = append(result.Diagnostics, findings.Diagnostic{
				Kind: findings.DiagSkippedTooLarge, Path: path,
				Detail: fmt.Sprintf("historical blob at %s exceeds size ceiling", shortHash(commit.Hash)),
			})
			continue
		}
		content, err := file.Contents()
		if err != nil {
			s.recordGitDiag(result, "read-blob", commit.Hash.String()+":"+path, err)
			continue
		}
		if isBinaryContent(content) {
			continue
		}

		result.FilesScanned++
		job := blobJob{
			path:    path,
			content: []byte(content),
			context: findings.HistoricalContext{
				CommitHash:    commit.Hash.String(),
				Author:        fmt.Sprintf("%s <%s>", commit.Author.Name, commit.Author.Email),
				CommitDate:    commit.Author.When,
				CommitMessage: strings.TrimSpace(commit.Message),
				RefName:       refName,
			},
		}
		select {
		case jobs <- job:
		case <-ctx.Done():
			return
		}
	}
}

// touchedPaths returns the paths the commit added or modified relative to its
// first parent; a root commit touches its whole tree.
func (s *Scanner) touchedPaths(commit *object.Commit, tree *object.Tree) ([]string, error) {
	if commit.NumParents() == 0 {
		var paths []string
		err := tree.Files().ForEach(func(f *object.File) error {
			paths = append(paths, f.Name)
			return nil
		})
		return paths, err
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			continue
		}
		if action == merkletrie.Insert || action == merkletrie.Modify {
			paths = append(paths, change.To.Name)
		}
	}
	return paths, nil
}

// scanBlob runs one historical blob through the matcher and validator exactly
// as a working-tree file, then attaches commit attribution.
func (s *Scanner) scanBlob(ctx context.Context, job blobJob) []findings.Validated {
	fileCtx, cancel := context.WithTimeout(ctx, s.fileTimeout)
	defer cancel()

	role := patterns.ClassifyFile(job.path)
	raws, err := matcher.Scan(fileCtx, job.content, job.path, findings.SourceGitHistory, s.lib, role)
	if err != nil {
		s.logger.Warn("historical blob scan incomplete", "path", job.path, "commit", job.context.CommitHash, "error", err)
	}

	validated := make([]findings.Validated, 0, len(raws))
	for _, raw := range raws {
		finding := s.validator.Validate(raw)
		historical := job.context
		finding.History = &historical
		validated = append(validated, finding)
	}
	return validated
}

// resolveCommit follows an annotated tag to its commit when needed.
func (s *Scanner) resolveCommit(repo *git.Repository, hash plumbing.Hash) (*object.Commit, error) {
	commit, err := repo.CommitObject(hash)
	if err == nil {
		return commit, nil
	}
	tag, tagErr := repo.TagObject(hash)
	if tagErr != nil {
		return nil, err
	}
	return tag.Commit()
}

func (s *Scanner) recordGitDiag(result *Result, op, object string, err error) {
	s.logger.Warn("history traversal diagnostic", "op", op, "object", object, "error", err)
	result.Diagnostics = append(result.Diagnostics, findings.Diagnostic{
		Kind:   findings.DiagGitError,
		Path:   object,
		Detail: fmt.Sprintf("%s: %v", op, err),
	})
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:8]
}

func isBinaryContent(content string) bool {
	limit := len(content)
	if limit > 8192 {
		limit = 8192
	}
	return strings.IndexByte(content[:limit], 0) >= 0
}
