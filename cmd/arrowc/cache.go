package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arrowc/internal/contract"
	"arrowc/internal/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the contract cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the synthesized contracts remembered by the cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := settingsFrom(cmd)
		if s.cache == nil {
			return fmt.Errorf("contract cache is disabled")
		}
		out := cmd.OutOrStdout()
		keys := s.cache.Keys()
		if s.format == "json" {
			return writeJSON(out, map[string]any{"dir": s.cache.Dir(), "keys": keys})
		}
		if !s.quiet {
			fmt.Fprintf(out, "%s: %d contracts\n", s.cache.Dir(), len(keys))
		}
		reg := contract.NewRegistry(types.NewInterner())
		s.cache.Seed(reg)
		for _, c := range reg.Synthesized() {
			fmt.Fprintf(out, "%-24s %s\n", c.Name, c.Signature(reg.Interner()))
		}
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the contract cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := settingsFrom(cmd)
		if s.cache == nil {
			return nil
		}
		if err := s.cache.Drop(); err != nil {
			return err
		}
		if !s.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", s.cache.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}
