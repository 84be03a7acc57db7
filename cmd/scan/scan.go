package scan

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leakscout/leakscout/cmd/version"
	"github.com/leakscout/leakscout/internal/baseline"
	"github.com/leakscout/leakscout/internal/engine"
	"github.com/leakscout/leakscout/internal/report"
	"github.com/leakscout/leakscout/pkg/shared/config"
	sharederrors "github.com/leakscout/leakscout/pkg/shared/errors"
	"github.com/leakscout/leakscout/pkg/shared/files"
	"github.com/leakscout/leakscout/pkg/shared/logger"
)

// cancellation grace before a partial report is forced out
const shutdownGrace = 5 * time.Second

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	Mode      string
	Workers   int
	Overlay   string
	Baseline  string
	OutputDir string
	Timeout   time.Duration
	Budget    time.Duration
	NoReport  bool
}

var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Full scan (working tree and git history) of the current directory
  leakscout scan .

  # Quick scan, working tree only
  leakscout scan --mode quick /path/to/project

  # History only, with a custom pattern overlay
  leakscout scan --mode git-only --patterns extra-rules.yml /path/to/project

  # CI usage: exit code 1 when blocking findings exist
  leakscout scan --mode full --budget 10m .`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--mode full|quick|git-only] [--workers N] [--patterns PATH] [PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Scan a directory tree and its git history for hardcoded secrets",
	RunE:                  runScanCommand,
}

func init() {
	ScanCmd.Flags().StringVarP(&scanOptions.Mode, "mode", "m", engine.ModeFull, "scan mode: full, quick or git-only")
	ScanCmd.Flags().IntVarP(&scanOptions.Workers, "workers", "j", 0, "number of concurrent file workers (default from config)")
	ScanCmd.Flags().StringVarP(&scanOptions.Overlay, "patterns", "p", "", "YAML file with additional detection rules")
	ScanCmd.Flags().StringVar(&scanOptions.Baseline, "baseline", "", "findings artifact from a previous scan; accepted findings never block the gate")
	ScanCmd.Flags().DurationVar(&scanOptions.Timeout, "file-timeout", 0, "per-file matching timeout (default from config)")
	ScanCmd.Flags().DurationVar(&scanOptions.Budget, "budget", 0, "wall-clock budget for the whole scan (default from config)")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputDir, "output-dir", "o", "", "directory for report files (default: the scanned path)")
	ScanCmd.Flags().BoolVar(&scanOptions.NoReport, "no-report", false, "skip writing report files, only set the exit code")
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(AppConfig, "core-scan")

	root, err := validateScanArgs(&scanOptions, args)
	if err != nil {
		log.Error("invalid scan arguments", "error", err)
		return err
	}
	applyOverrides(AppConfig, &scanOptions)

	eng, err := engine.New(root, scanOptions.Mode, AppConfig, log, version.CoreVersion)
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-sig
		log.Warn("interrupt received, finishing with a partial report", "grace", shutdownGrace)
		cancel()
		// a second signal or an expired grace period ends the process hard
		select {
		case <-sig:
		case <-time.After(shutdownGrace):
		}
		os.Exit(2)
	}()

	rep, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	if scanOptions.Baseline != "" {
		base, err := baseline.Load(scanOptions.Baseline)
		if err != nil {
			return sharederrors.NewConfigurationError("cannot load baseline: %v", err)
		}
		rep.Summary.Baselined = base.Apply(rep.Findings)
		log.Info("baseline applied", "entries", base.Len(), "suppressed", rep.Summary.Baselined)
	}

	if !scanOptions.NoReport {
		outDir := root
		if scanOptions.OutputDir != "" {
			outDir = scanOptions.OutputDir
			if err := files.CreateFolderIfNotExists(outDir); err != nil {
				return sharederrors.NewConfigurationError("cannot use output directory: %v", err)
			}
		}
		writer := report.New(outDir, AppConfig, log.Named("report"))
		if err := writer.WriteAll(rep); err != nil {
			return err
		}
	}

	if blocking := rep.Blocking(); len(blocking) > 0 {
		for _, f := range blocking {
			log.Error("blocking finding",
				"rule", f.PatternID, "path", f.FilePath, "line", f.LineNumber,
				"severity", f.FinalSeverity, "confidence", f.Confidence)
		}
		return sharederrors.NewGateError(len(blocking))
	}
	if rep.Metadata.Partial {
		log.Warn("scan was partial, absence of findings is not conclusive")
	}
	return nil
}

// applyOverrides folds flag values over the loaded config.
func applyOverrides(cfg *config.Config, opts *RunOptionsScan) {
	if opts.Workers > 0 {
		cfg.Scanner.Workers = opts.Workers
	}
	if opts.Timeout > 0 {
		cfg.Scanner.FileTimeout = opts.Timeout
	}
	if opts.Budget > 0 {
		cfg.Scanner.WallClockBudget = opts.Budget
	}
	if opts.Overlay != "" {
		cfg.Patterns.Overlay = opts.Overlay
	}
}
