package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// SourceExt is the extension of arrowc source files.
const SourceExt = ".arrow"

// Manifest is a decoded arrowc.toml together with where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of arrowc.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Trace   TraceConfig   `toml:"trace"`
}

type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Entry is the file `arrowc run` compiles, relative to the root.
	Entry string `toml:"entry"`
	// Main is the function or Class.method `arrowc run` invokes.
	Main string `toml:"main"`
}

type BuildConfig struct {
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"`
	Cache          bool   `toml:"cache"`
	CacheDir       string `toml:"cache_dir"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// Defaults returns the configuration used when no manifest exists or a key
// is absent.
func Defaults() Config {
	return Config{
		Package: PackageConfig{Version: "0.1.0", Main: "main"},
		Build: BuildConfig{
			MaxDiagnostics: 100,
			Cache:          true,
			CacheDir:       filepath.Join(".arrowc", "cache"),
		},
		Trace: TraceConfig{Level: "off", Format: "text"},
	}
}

// Load finds arrowc.toml from startDir upwards and decodes it. ok is false
// when there is no manifest.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes the manifest at path. Keys the file does not define
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	def := Defaults()
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	keep := func(dst *string, val string, key ...string) {
		if !meta.IsDefined(key...) {
			*dst = val
		}
	}
	keep(&cfg.Package.Version, def.Package.Version, "package", "version")
	keep(&cfg.Package.Main, def.Package.Main, "package", "main")
	keep(&cfg.Build.CacheDir, def.Build.CacheDir, "build", "cache_dir")
	keep(&cfg.Trace.Level, def.Trace.Level, "trace", "level")
	keep(&cfg.Trace.Format, def.Trace.Format, "trace", "format")
	if !meta.IsDefined("build", "max_diagnostics") {
		cfg.Build.MaxDiagnostics = def.Build.MaxDiagnostics
	}
	if !meta.IsDefined("build", "cache") {
		cfg.Build.Cache = def.Build.Cache
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := semver.NewVersion(c.Package.Version); err != nil {
		return fmt.Errorf("[package].version %q: %w", c.Package.Version, err)
	}
	if c.Package.Entry != "" && filepath.Ext(c.Package.Entry) != SourceExt {
		return fmt.Errorf("[package].entry must be a %s file", SourceExt)
	}
	if c.Build.MaxDiagnostics < 0 {
		return fmt.Errorf("[build].max_diagnostics must not be negative")
	}
	if c.Build.Jobs < 0 {
		return fmt.Errorf("[build].jobs must not be negative")
	}
	switch c.Trace.Format {
	case "text", "ndjson", "auto":
	default:
		return fmt.Errorf("[trace].format %q (expected text|ndjson|auto)", c.Trace.Format)
	}
	return nil
}

// JobCount is the configured parallelism; 0 means GOMAXPROCS.
func (c BuildConfig) JobCount() int {
	if c.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Jobs
}

// EntryPath is the absolute path of [package].entry, or "" when unset.
func (m *Manifest) EntryPath() string {
	if m == nil || m.Config.Package.Entry == "" {
		return ""
	}
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Package.Entry))
}

// CachePath is the absolute cache directory.
func (m *Manifest) CachePath() string {
	dir := m.Config.Build.CacheDir
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, dir)
}

// ListSources returns the sorted .arrow files under dir, skipping hidden
// directories such as the cache.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == SourceExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}
