package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leakscout/leakscout/internal/engine"
	"github.com/leakscout/leakscout/pkg/shared/files"
)

// validateScanArgs validates the arguments provided to the scan command and
// returns the absolute scan root. With no argument the current directory is
// scanned.
func validateScanArgs(opts *RunOptionsScan, args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("at most one target path may be specified")
	}
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	if !engine.ValidMode(opts.Mode) {
		return "", fmt.Errorf("invalid mode %q: must be one of full, quick, git-only", opts.Mode)
	}

	if opts.Workers < 0 {
		return "", fmt.Errorf("the 'workers' flag must be a positive integer")
	}

	target, err := files.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("cannot resolve target path: %w", err)
	}
	root, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("cannot resolve target path: %w", err)
	}
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("the target path does not exist: %v", target)
	}
	if err != nil {
		return "", fmt.Errorf("cannot stat target path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("the target path must be a directory: %v", target)
	}

	if opts.Overlay != "" {
		opts.Overlay, err = files.ExpandPath(opts.Overlay)
		if err != nil {
			return "", fmt.Errorf("cannot resolve patterns file: %w", err)
		}
		if err := files.ValidatePath(opts.Overlay); err != nil {
			return "", fmt.Errorf("patterns file is not accessible: %v", opts.Overlay)
		}
	}

	if opts.Baseline != "" {
		opts.Baseline, err = files.ExpandPath(opts.Baseline)
		if err != nil {
			return "", fmt.Errorf("cannot resolve baseline file: %w", err)
		}
		if err := files.ValidatePath(opts.Baseline); err != nil {
			return "", fmt.Errorf("baseline file is not accessible: %v", opts.Baseline)
		}
	}

	return root, nil
}
