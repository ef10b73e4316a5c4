package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"kernelsym/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "kernelsym",
	Short: "Recognise OpenCL builtin calls from their mangled symbols",
	Long: `kernelsym decodes mangled OpenCL C function symbols, classifies them
against a builtin catalog and reports parameter shapes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError ends the process with code after the command already reported
// the problem itself.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("catalog", "", "catalog file (.toml or .mp); default is the embedded table")
	rootCmd.PersistentFlags().String("config", "", "path to kernelsym.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "ring", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "kernelsym:", err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
