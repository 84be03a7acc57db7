package matcher

import (
	"context"
	"sort"
	"strings"

	"github.com/leakscout/leakscout/internal/findings"
	"github.com/leakscout/leakscout/internal/patterns"

	scanerrors "github.com/leakscout/leakscout/pkg/shared/errors"
)

const (
	// maxPreview bounds the stored match text so one match cannot capture
	// unrelated adjacent secrets.
	maxPreview = 100
	// maxLineContext bounds the stored surrounding line.
	maxLineContext = 200
)

// Scan applies every applicable rule of the library to content and returns the
// raw findings in ascending line order. The context carries the per-file match
// deadline: on expiry the findings collected so far are returned together with
// a timeout error, and the caller marks the file scan-incomplete.
func Scan(ctx context.Context, content []byte, path string, source findings.Source, lib *patterns.Library, role patterns.FileRole) ([]findings.Raw, error) {
	text := string(content)
	index := newLineIndex(text)

	var raws []findings.Raw
	for _, rule := range lib.RulesFor(role) {
		if err := ctx.Err(); err != nil {
			sortByLine(raws)
			return raws, scanerrors.NewTimeoutError(path)
		}

		for _, match := range rule.Regexp.FindAllStringSubmatchIndex(text, -1) {
			start, end := match[0], match[1]
			matched := truncate(text[start:end], maxPreview)

			candidate := matched
			if len(match) >= 4 && match[2] >= 0 {
				candidate = truncate(text[match[2]:match[3]], maxPreview)
			}

			line := index.lineAt(start)
			raws = append(raws, findings.Raw{
				FilePath:    path,
				LineNumber:  line,
				MatchedText: matched,
				Candidate:   candidate,
				LineContent: truncate(strings.TrimSpace(index.lineText(text, line)), maxLineContext),
				PatternID:   rule.ID,
				Source:      source,
			})
		}
	}

	sortByLine(raws)
	return raws, nil
}

func sortByLine(raws []findings.Raw) {
	sort.SliceStable(raws, func(i, j int) bool {
		return raws[i].LineNumber < raws[j].LineNumber
	})
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// lineIndex maps byte offsets to line numbers via newline offsets computed
// once per file, instead of re-reading per match.
type lineIndex struct {
	// starts[i] is the byte offset where line i+1 begins.
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// lineAt returns the 1-based line number containing the given byte offset.
func (l *lineIndex) lineAt(offset int) int {
	line := sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})
	return line
}

// lineText returns the text of the given 1-based line, without the newline.
func (l *lineIndex) lineText(text string, line int) string {
	if line < 1 || line > len(l.starts) {
		return ""
	}
	start := l.starts[line-1]
	end := len(text)
	if line < len(l.starts) {
		end = l.starts[line] - 1
	}
	return text[start:end]
}
