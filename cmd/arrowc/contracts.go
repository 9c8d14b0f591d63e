package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arrowc/internal/contract"
	"arrowc/internal/driver"
	"arrowc/internal/types"
	"arrowc/internal/ui"
)

var contractsCmd = &cobra.Command{
	Use:   "contracts [file]",
	Short: "List the call contracts known to the compiler",
	Long: `List the built-in call contracts, or with a file, every contract the file
declares or synthesizes in addition to them`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContracts,
}

func init() {
	contractsCmd.Flags().String("flavor", "", "only list contracts of this flavor (cataloged|declared|synthesized)")
}

type contractJSON struct {
	Name      string `json:"name"`
	Method    string `json:"method"`
	Signature string `json:"signature"`
	Flavor    string `json:"flavor"`
}

func runContracts(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	flavor, err := getString(cmd, "flavor")
	if err != nil {
		return err
	}
	switch flavor {
	case "", contract.Cataloged.String(), contract.Declared.String(), contract.Synthesized.String():
	default:
		return fmt.Errorf("invalid flavor: %q (expected: cataloged|declared|synthesized)", flavor)
	}

	var reg *contract.Registry
	if len(args) == 1 {
		u, err := driver.CompileFile(args[0], s.driverOptions())
		if err != nil {
			return err
		}
		s.saveCache()
		if u.Registry() == nil {
			if err := report(cmd, s, []*driver.Unit{u}); err != nil {
				return err
			}
			return failure([]*driver.Unit{u})
		}
		reg = u.Registry()
	} else {
		reg = contract.NewRegistry(types.NewInterner())
		s.cache.Seed(reg)
	}

	var list []*contract.Contract
	for _, c := range reg.All() {
		if flavor == "" || c.Flavor.String() == flavor {
			list = append(list, c)
		}
	}

	out := cmd.OutOrStdout()
	if s.format == "json" {
		docs := make([]contractJSON, len(list))
		for i, c := range list {
			docs[i] = contractJSON{Name: c.Name, Method: c.Method, Signature: c.Signature(reg.Interner()), Flavor: c.Flavor.String()}
		}
		return writeJSON(out, docs)
	}
	fmt.Fprintln(out, ui.ContractTable(reg, list))
	return nil
}
