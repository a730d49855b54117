package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lector/internal/version"
)

// errFindings signals exit status 1 without an error message: the report
// already told the user what is left.
var errFindings = errors.New("suggestions remain")

var rootCmd = &cobra.Command{
	Use:   "lector",
	Short: "Spell and style checker for doc comments and markdown",
	Long: `lector extracts doc comments from source files and prose from markdown,
checks it for spelling mistakes, applies corrections and rewraps overlong
comment paragraphs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.String(false)

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(reflowCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to lector.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress the summary and progress output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("jobs", 0, "max files processed in parallel (0=config or GOMAXPROCS)")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI (auto|on|off)")
	rootCmd.PersistentFlags().String("format", "pretty", "output format (pretty|json)")
	rootCmd.PersistentFlags().String("path-mode", "as-is", "how to print file paths (as-is|absolute|relative|basename)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|run|file|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("exec-trace", "", "write a runtime execution trace to this file")
}

func main() {
	os.Exit(execute())
}

func execute() int {
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFindings):
		return 1
	}
	fmt.Fprintf(os.Stderr, "lector: %v\n", err)
	return 2
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
