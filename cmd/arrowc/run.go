package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"arrowc/internal/driver"
	"arrowc/internal/trace"
	"arrowc/internal/vm"
)

var runCmd = &cobra.Command{
	Use:   "run [file] [-- args...]",
	Short: "Compile a file and run its entry function",
	Long: `Compile a file, or the project entry, and invoke its entry function.
Arguments after the file are passed to the entry: integers, floating point
numbers, true and false are converted, anything else is a string.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("main", "", "entry function or Class.method (default from arrowc.toml, else main)")
	runCmd.Flags().Int("max-depth", 0, "maximum call depth (0 = default)")
}

func runRun(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	entry, err := getString(cmd, "main")
	if err != nil {
		return err
	}
	maxDepth, err := getInt(cmd, "max-depth")
	if err != nil {
		return err
	}

	var path string
	switch {
	case len(args) > 0:
		path, args = args[0], args[1:]
	case s.manifest.EntryPath() != "":
		path = s.manifest.EntryPath()
	default:
		return fmt.Errorf("no file given and no [package].entry configured")
	}
	if entry == "" {
		entry = "main"
		if s.manifest != nil && s.manifest.Config.Package.Main != "" {
			entry = s.manifest.Config.Package.Main
		}
	}

	u, err := driver.CompileFile(path, s.driverOptions())
	if err != nil {
		return err
	}
	s.saveCache()
	if err := report(cmd, s, []*driver.Unit{u}); err != nil {
		return err
	}
	if u.Failed() {
		return failure([]*driver.Unit{u})
	}

	span := trace.Begin(s.tracer, trace.ScopeDriver, "run", 0)
	m := vm.New(u.HIR, vm.Options{
		Out:      cmd.OutOrStdout(),
		MaxDepth: maxDepth,
		Tracer:   s.tracer,
		Parent:   span.ID(),
	})
	result, err := m.Call(entry, parseArgs(args)...)
	span.End(entry)
	if err != nil {
		var fault *vm.Fault
		if errors.As(err, &fault) {
			fmt.Fprint(cmd.ErrOrStderr(), fault.FormatWithFiles(u.FileSet))
			return fmt.Errorf("%s: %s", entry, fault.Code.ID())
		}
		return err
	}
	if !result.IsNull() {
		fmt.Fprintln(cmd.OutOrStdout(), result.String())
	}
	return nil
}

func parseArgs(args []string) []vm.Value {
	vals := make([]vm.Value, len(args))
	for i, a := range args {
		vals[i] = parseArg(a)
	}
	return vals
}

// parseArg converts a command line argument: int when it fits 32 bits,
// long when it fits 64, double for other numbers, bool for true and false.
func parseArg(a string) vm.Value {
	if n, err := strconv.ParseInt(a, 10, 64); err == nil {
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return vm.Int32(n)
		}
		return vm.Long(n)
	}
	if f, err := strconv.ParseFloat(a, 64); err == nil {
		return vm.Double(f)
	}
	switch a {
	case "true":
		return vm.Bool(true)
	case "false":
		return vm.Bool(false)
	}
	return vm.String(a)
}
