package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"arrowc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:               "arrowc",
	Short:             "Arrow function compiler and closure inspector",
	Long:              `arrowc lowers arrow functions to closure objects, checks them against their contracts and runs the result`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

// cleanups run after the command finishes, in reverse order.
var cleanups []func()

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(contractsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics per file (default from arrowc.toml, else 100)")
	pf.String("format", "pretty", "diagnostic format (pretty|short|json)")
	pf.Int("jobs", 0, "files compiled in parallel (0 = number of CPUs)")
	pf.Bool("no-cache", false, "do not read or write the contract cache")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "", "trace format (text|ndjson|auto)")
	pf.String("trace-sink", "stream", "trace sinks (stream,ring,log)")
	pf.String("log-level", "warning", "log level (none|critical|error|warning|notice|info|debug)")
	pf.String("log-file", "", "log file (default stderr)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}

func main() {
	err := rootCmd.Execute()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func getString(cmd *cobra.Command, name string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}

func getBool(cmd *cobra.Command, name string) (bool, error) {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}

func getInt(cmd *cobra.Command, name string) (int, error) {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}
