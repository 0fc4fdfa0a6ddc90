// Command wasmi runs a compiled WebAssembly module, per spec.md §6's
// external-interfaces description of the CLI surface. Built on cobra/pflag
// (grounded on moby-moby and grafana-k6, both cobra-based CLIs — see
// DESIGN.md) in place of wazero's stdlib-flag-based cmd/wazero/wazero.go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliFlags struct {
	dirs            []string
	envs            []string
	tcpListen       string
	invoke          string
	fuel            int64
	compilationMode string
	verbose         bool
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:           "wasmi <path> [args...]",
		Short:         "Translate and run a WebAssembly module",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMain(cmd, args, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.dirs, "dir", nil,
		"WASI preopen directory (accepted for CLI surface parity; a no-op "+
			"since this engine carries no WASI host bindings — see spec.md §1's "+
			"scope note and DESIGN.md)")
	cmd.Flags().StringArrayVar(&flags.envs, "env", nil,
		"environment variable K=V for the guest (no-op; see --dir)")
	cmd.Flags().StringVar(&flags.tcpListen, "tcplisten", "",
		"preopened TCP listener address (no-op; see --dir)")
	cmd.Flags().StringVar(&flags.invoke, "invoke", "",
		`exported function to call (default "" or "_start")`)
	cmd.Flags().Int64Var(&flags.fuel, "fuel", -1,
		"fuel budget for the call; a negative value disables fuel metering")
	cmd.Flags().StringVar(&flags.compilationMode, "compilation-mode", "eager",
		"eager|lazy-translation|lazy")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"enable debug-level logging")

	return cmd
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func printErr(cmd *cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), "wasmi:", err)
}
