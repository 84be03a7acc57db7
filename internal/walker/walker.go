package walker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/leakscout/leakscout/internal/findings"
	"github.com/leakscout/leakscout/pkg/shared/config"
)

const sniffSize = 8192

// Walker enumerates scannable files under a root path. Enumeration is lazy:
// candidates are emitted in chunks as the tree is traversed, and a fresh call
// to Walk restarts from the beginning.
type Walker struct {
	root     string
	excluded map[string]bool
	maxSize  int64
	chunk    int
	logger   hclog.Logger

	diags []findings.Diagnostic
}

// New creates a Walker for the given root.
func New(root string, cfg *config.Config, logger hclog.Logger) *Walker {
	excluded := make(map[string]bool, len(cfg.Walker.ExcludedDirs))
	for _, dir := range cfg.Walker.ExcludedDirs {
		excluded[dir] = true
	}
	return &Walker{
		root:     root,
		excluded: excluded,
		maxSize:  cfg.Walker.MaxFileSize,
		chunk:    cfg.Scanner.ChunkSize,
		logger:   logger,
	}
}

// Walk traverses the tree and sends chunks of candidate paths on the returned
// channel. The channel is closed when traversal finishes or ctx is cancelled.
// Skipped files are recorded as diagnostics, available via Diagnostics after
// the channel is drained.
func (w *Walker) Walk(ctx context.Context) <-chan []string {
	out := make(chan []string)
	w.diags = nil

	go func() {
		defer close(out)

		var pending []string
		flush := func() bool {
			if len(pending) == 0 {
				return true
			}
			select {
			case out <- pending:
				pending = nil
				return true
			case <-ctx.Done():
				return false
			}
		}

		err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				w.record(findings.DiagReadError, path, err.Error())
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != w.root && w.excluded[d.Name()] {
					w.record(findings.DiagSkippedExcluded, path, "excluded directory")
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			if ok := w.admit(path, d); ok {
				pending = append(pending, path)
				if len(pending) >= w.chunk {
					if !flush() {
						return ctx.Err()
					}
				}
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			w.logger.Error("tree traversal aborted", "root", w.root, "error", err)
		}
		flush()
	}()

	return out
}

// Diagnostics returns the skips recorded during the last Walk. Valid once the
// walk channel has been drained.
func (w *Walker) Diagnostics() []findings.Diagnostic {
	return w.diags
}

// admit applies the size ceiling and binary sniff to one candidate.
func (w *Walker) admit(path string, d fs.DirEntry) bool {
	info, err := d.Info()
	if err != nil {
		w.record(findings.DiagReadError, path, err.Error())
		return false
	}
	if info.Size() > w.maxSize {
		w.record(findings.DiagSkippedTooLarge, path, fmt.Sprintf("%d bytes exceeds ceiling of %d", info.Size(), w.maxSize))
		return false
	}

	head, err := readHead(path)
	if err != nil {
		// one retry on transient I/O before giving up on the file
		time.Sleep(50 * time.Millisecond)
		head, err = readHead(path)
		if err != nil {
			w.record(findings.DiagReadError, path, err.Error())
			return false
		}
	}
	if IsBinary(head) {
		w.record(findings.DiagSkippedBinary, path, "binary content detected")
		return false
	}
	return true
}

func (w *Walker) record(kind, path, detail string) {
	w.logger.Debug("path skipped", "path", path, "reason", kind, "detail", detail)
	w.diags = append(w.diags, findings.Diagnostic{Kind: kind, Path: path, Detail: detail})
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return head[:n], nil
}

// IsBinary reports whether the given head bytes look like binary content: a
// NUL byte anywhere, or a majority of bytes outside the printable range.
func IsBinary(head []byte) bool {
	if len(head) == 0 {
		return false
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return true
	}
	nonText := 0
	for _, b := range head {
		if b < 0x07 || (b > 0x0d && b < 0x20) {
			nonText++
		}
	}
	return nonText*2 > len(head)
}
