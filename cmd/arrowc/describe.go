package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arrowc/internal/closure"
	"arrowc/internal/driver"
	"arrowc/internal/ui"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Show the captures and contract of every closure in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().Bool("fingerprint", false, "print the fingerprint of each description")
}

type describeJSON struct {
	closure.Description
	Fingerprint string `json:"fingerprint,omitempty"`
}

func runDescribe(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	withFP, err := getBool(cmd, "fingerprint")
	if err != nil {
		return err
	}
	u, err := driver.CompileFile(args[0], s.driverOptions())
	if err != nil {
		return err
	}
	s.saveCache()
	if u.Failed() {
		if err := report(cmd, s, []*driver.Unit{u}); err != nil {
			return err
		}
		return failure([]*driver.Unit{u})
	}

	descs := u.Describe()
	fps := make([]string, len(descs))
	if withFP {
		for i, d := range descs {
			if fps[i], err = d.Fingerprint(); err != nil {
				return fmt.Errorf("%s: %w", d.Name, err)
			}
		}
	}

	out := cmd.OutOrStdout()
	if s.format == "json" {
		docs := make([]describeJSON, len(descs))
		for i, d := range descs {
			docs[i] = describeJSON{Description: d, Fingerprint: fps[i]}
		}
		return writeJSON(out, docs)
	}
	if len(descs) == 0 {
		if !s.quiet {
			fmt.Fprintf(out, "%s: no closures\n", u.Path)
		}
		return nil
	}
	fmt.Fprintln(out, ui.ClosureTable(descs))
	if withFP {
		for i, d := range descs {
			fmt.Fprintf(out, "%s  %s\n", fps[i], d.Name)
		}
	}
	return nil
}
