package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"arrowc/internal/driver"
	"arrowc/internal/hir"
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Compile files and emit the lowered program",
	Long:  `Compile the given files, or every source of the project, and write the lowered closures and classes of each`,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("emit", "hir", "what to write (hir|none)")
	buildCmd.Flags().StringP("out", "o", "", "directory for <name>.hir files (default stdout)")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	emit, err := getString(cmd, "emit")
	if err != nil {
		return err
	}
	if emit != "hir" && emit != "none" {
		return fmt.Errorf("invalid emit mode: %q (expected: hir|none)", emit)
	}
	outDir, err := getString(cmd, "out")
	if err != nil {
		return err
	}
	uiFlag, err := getString(cmd, "ui")
	if err != nil {
		return err
	}
	useUI, err := resolveUIMode(uiFlag, s)
	if err != nil {
		return err
	}
	files, err := resolveFiles(s, args)
	if err != nil {
		return err
	}

	var units []*driver.Unit
	if useUI {
		units, err = compileWithUI(cmd.Context(), "building", files, s.driverOptions())
	} else {
		units, err = driver.CompileFiles(cmd.Context(), files, s.driverOptions())
	}
	if err != nil {
		return err
	}
	s.saveCache()
	if err := report(cmd, s, units); err != nil {
		return err
	}
	if emit == "hir" {
		for _, u := range units {
			if u.Failed() {
				continue
			}
			if err := emitHIR(cmd.OutOrStdout(), outDir, u); err != nil {
				return err
			}
		}
	}
	return failure(units)
}

func emitHIR(stdout io.Writer, outDir string, u *driver.Unit) error {
	if outDir == "" {
		return hir.Dump(stdout, u.HIR)
	}
	path := dumpPath(outDir, u.Path)
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("emit %s: %w", path, err)
	}
	if err := hir.Dump(f, u.HIR); err != nil {
		f.Close()
		return fmt.Errorf("emit %s: %w", path, err)
	}
	return f.Close()
}
