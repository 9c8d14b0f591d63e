package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arrowc/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show arrowc build information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipProject: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := settingsFrom(cmd)
		if s.format == "json" {
			return writeJSON(cmd.OutOrStdout(), versionPayload{
				Tool:      "arrowc",
				Version:   version.Version,
				GitCommit: version.GitCommit,
				BuildDate: version.BuildDate,
			})
		}
		fmt.Fprint(cmd.OutOrStdout(), version.Info())
		return nil
	},
}
