package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"arrowc/internal/driver"
	"arrowc/internal/project"
	"arrowc/internal/trace"
)

var log = commonlog.GetLogger("arrowc")

// settings is the resolved configuration of one invocation: flags win over
// arrowc.toml, which wins over the defaults.
type settings struct {
	manifest       *project.Manifest
	color          bool
	quiet          bool
	timings        bool
	format         string
	maxDiagnostics int
	jobs           int
	cache          *driver.ContractCache
	tracer         trace.Tracer
}

type settingsKey struct{}

func settingsFrom(cmd *cobra.Command) *settings {
	if s, ok := cmd.Context().Value(settingsKey{}).(*settings); ok {
		return s
	}
	return &settings{format: "pretty", maxDiagnostics: 100, tracer: trace.Nop}
}

func (s *settings) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		Jobs:           s.jobs,
		EnableTimings:  s.timings,
		Tracer:         s.tracer,
		Cache:          s.cache,
	}
}

// skipProject marks commands that must work outside of a valid project.
const skipProject = "skip-project"

// prepare runs before every command: it configures logging, loads the
// manifest, sets up tracing and opens the contract cache.
func prepare(cmd *cobra.Command, _ []string) error {
	if err := setupLogging(cmd); err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProfiling)
	s := &settings{tracer: trace.Nop}
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}

	cfg := project.Defaults()
	if cmd.Annotations[skipProject] == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		m, ok, err := project.Load(wd)
		if err != nil {
			return err
		}
		if ok {
			s.manifest = m
			cfg = m.Config
			log.Debugf("manifest %s", m.Path)
		}
	}

	colorFlag, err := getString(cmd, "color")
	if err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		s.color = true
	case "off":
	case "auto":
		s.color = isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid color mode: %q (expected: auto|on|off)", colorFlag)
	}
	color.NoColor = !s.color

	if s.quiet, err = getBool(cmd, "quiet"); err != nil {
		return err
	}
	if s.timings, err = getBool(cmd, "timings"); err != nil {
		return err
	}
	if s.format, err = getString(cmd, "format"); err != nil {
		return err
	}
	switch s.format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("invalid format: %q (expected: pretty|short|json)", s.format)
	}

	s.maxDiagnostics = cfg.Build.MaxDiagnostics
	if cmd.Flags().Changed("max-diagnostics") {
		if s.maxDiagnostics, err = getInt(cmd, "max-diagnostics"); err != nil {
			return err
		}
	}
	s.jobs = cfg.Build.Jobs
	if cmd.Flags().Changed("jobs") {
		if s.jobs, err = getInt(cmd, "jobs"); err != nil {
			return err
		}
	}

	cleanup, tracer, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, cleanup)
	s.tracer = tracer

	noCache, err := getBool(cmd, "no-cache")
	if err != nil {
		return err
	}
	if !noCache && cfg.Build.Cache {
		s.cache = openCache(s.manifest)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), settingsKey{}, s))
	return nil
}

// openCache opens the project cache, or the user cache outside a project.
// A cache that cannot be opened is reported and compilation goes on
// without it.
func openCache(m *project.Manifest) *driver.ContractCache {
	var dir string
	if m != nil {
		dir = m.CachePath()
	} else {
		base, err := driver.DefaultCacheDir("arrowc")
		if err != nil {
			log.Warningf("contract cache disabled: %s", err)
			return nil
		}
		dir = base
	}
	cache, err := driver.OpenContractCache(dir)
	if err != nil {
		log.Warningf("contract cache disabled: %s", err)
		return nil
	}
	return cache
}

// saveCache persists what the invocation synthesized.
func (s *settings) saveCache() {
	if err := s.cache.Save(); err != nil {
		log.Warningf("save contract cache: %s", err)
	}
}
