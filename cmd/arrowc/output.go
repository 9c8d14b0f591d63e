package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"arrowc/internal/closure"
	"arrowc/internal/diagfmt"
	"arrowc/internal/driver"
	"arrowc/internal/observ"
	"arrowc/internal/project"
	"arrowc/internal/ui"
)

// unitJSON is one file of --format=json output.
type unitJSON struct {
	File        string                    `json:"file"`
	OK          bool                      `json:"ok"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	Closures    []closure.Description     `json:"closures,omitempty"`
	Timings     *observ.Report            `json:"timings,omitempty"`
}

// resolveFiles returns args, or every source of the project when args is
// empty.
func resolveFiles(s *settings, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if s.manifest == nil {
		return nil, fmt.Errorf("no input files and no %s found", project.ManifestName)
	}
	files, err := project.ListSources(s.manifest.Root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files under %s", project.SourceExt, s.manifest.Root)
	}
	return files, nil
}

// report prints diagnostics of every unit in the selected format, then
// timings and the summary line.
func report(cmd *cobra.Command, s *settings, units []*driver.Unit) error {
	out := cmd.OutOrStdout()
	if s.format == "json" {
		return writeJSON(out, unitsJSON(s, units))
	}
	for _, u := range units {
		if u.Bag.Len() == 0 {
			continue
		}
		switch s.format {
		case "short":
			diagfmt.Short(out, u.Bag, u.FileSet)
		default:
			diagfmt.Pretty(out, u.Bag, u.FileSet, diagfmt.PrettyOpts{Color: s.color, Context: 1, ShowNotes: true})
		}
	}
	printTimings(cmd.ErrOrStderr(), s, units)
	if !s.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Summary(units))
	}
	return nil
}

func unitsJSON(s *settings, units []*driver.Unit) []unitJSON {
	docs := make([]unitJSON, 0, len(units))
	for _, u := range units {
		doc := unitJSON{
			File:        u.Path,
			OK:          !u.Failed(),
			Diagnostics: diagfmt.BuildOutput(u.Bag, u.FileSet, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, Max: s.maxDiagnostics}),
			Closures:    u.Describe(),
		}
		if s.timings && u.Timer != nil {
			r := u.Timer.Report()
			doc.Timings = &r
		}
		docs = append(docs, doc)
	}
	return docs
}

func printTimings(w io.Writer, s *settings, units []*driver.Unit) {
	if !s.timings {
		return
	}
	for _, u := range units {
		if u.Timer == nil {
			continue
		}
		fmt.Fprintf(w, "%s\n%s", u.Path, u.Timer.Summary())
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// failure turns failed units into the command error.
func failure(units []*driver.Unit) error {
	if n := driver.Failed(units); n > 0 {
		if n == 1 && len(units) == 1 {
			return fmt.Errorf("%s: compilation failed", units[0].Path)
		}
		return fmt.Errorf("%d of %d files failed", n, len(units))
	}
	return nil
}

// dumpPath is where build --out writes the HIR of path.
func dumpPath(outDir, path string) string {
	base := filepath.Base(path)
	return filepath.Join(outDir, base[:len(base)-len(filepath.Ext(base))]+".hir")
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
