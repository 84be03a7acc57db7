package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leakscout/leakscout/cmd/scan"
	"github.com/leakscout/leakscout/cmd/version"
	"github.com/leakscout/leakscout/pkg/shared/config"
	sharederrors "github.com/leakscout/leakscout/pkg/shared/errors"
)

// Exit codes. CI pipelines key off these: only a clean gate exits zero.
const (
	ExitOK    = 0
	ExitGate  = 1
	ExitFatal = 2
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "leakscout [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Leakscout finds hardcoded secrets in source trees and git history.",
		Long: `Leakscout scans a repository for hardcoded credentials: API keys, tokens,
	connection strings and private keys, in the working tree and in every commit
	reachable from any ref. Findings are validated for confidence and written as
	JSON, markdown and SARIF reports.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional, built-in defaults apply)")
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		var gateErr *sharederrors.GateError
		if errors.As(err, &gateErr) {
			return ExitGate
		}
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return ExitFatal
	}
	return ExitOK
}

func initConfig() {
	var err error

	if cfgFile != "" {
		if err := config.ValidateConfigPath(cfgFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(ExitFatal)
		}
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(ExitFatal)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFatal)
	}

	scan.Init(AppConfig)
	version.Init(AppConfig)
}
