package main

import (
	"github.com/spf13/cobra"

	"arrowc/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Compile files and report diagnostics",
	Long:  `Compile the given files, or every source of the project, and report diagnostics without running anything`,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	files, err := resolveFiles(s, args)
	if err != nil {
		return err
	}
	units, err := driver.CompileFiles(cmd.Context(), files, s.driverOptions())
	if err != nil {
		return err
	}
	s.saveCache()
	if err := report(cmd, s, units); err != nil {
		return err
	}
	return failure(units)
}
