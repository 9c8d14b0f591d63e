package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"arrowc/internal/contract"
	"arrowc/internal/version"
)

// Current schema version; increment when cachePayload changes.
const contractCacheSchema uint16 = 1

const contractCacheFile = "contracts.mp"

// ContractCache remembers the structural keys of synthesized contracts
// across runs. Each unit's registry is seeded from it, so every shape seen
// before is registered under the same name before lowering starts.
// Safe for concurrent use; a nil cache does nothing.
type ContractCache struct {
	mu    sync.RWMutex
	dir   string
	keys  map[string]struct{}
	dirty bool
}

// cachePayload is the on-disk form.
type cachePayload struct {
	Schema   uint16
	Compiler string
	Keys     []string
}

// DefaultCacheDir is $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenContractCache opens or creates the cache in dir. A cache written
// with another schema or by an incompatible compiler version starts empty.
func OpenContractCache(dir string) (*ContractCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("contract cache: %w", err)
	}
	c := &ContractCache{dir: dir, keys: make(map[string]struct{})}
	var p cachePayload
	ok, err := c.read(&p)
	if err != nil {
		return nil, fmt.Errorf("contract cache: %w", err)
	}
	if ok && p.Schema == contractCacheSchema && version.Compatible(p.Compiler) {
		for _, k := range p.Keys {
			c.keys[k] = struct{}{}
		}
	} else if ok {
		c.dirty = true
	}
	return c, nil
}

func (c *ContractCache) path() string {
	return filepath.Join(c.dir, contractCacheFile)
}

func (c *ContractCache) read(out *cachePayload) (bool, error) {
	f, err := os.Open(c.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		// A torn or foreign file is rebuilt on the next Save.
		return true, nil
	}
	return true, nil
}

// Dir is the cache directory.
func (c *ContractCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Keys returns the cached keys, sorted.
func (c *ContractCache) Keys() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.keys))
	for k := range c.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Seed preloads every cached key into reg and returns how many were
// registered. Keys reg cannot parse are skipped.
func (c *ContractCache) Seed(reg *contract.Registry) int {
	n := 0
	for _, k := range c.Keys() {
		if _, ok := reg.Preload(k); ok {
			n++
		}
	}
	return n
}

// Record adds the synthesized contracts of reg and returns how many keys
// were new.
func (c *ContractCache) Record(reg *contract.Registry) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, con := range reg.Synthesized() {
		if _, ok := c.keys[con.Key]; ok {
			continue
		}
		c.keys[con.Key] = struct{}{}
		n++
	}
	if n > 0 {
		c.dirty = true
	}
	return n
}

// Save writes the cache when it changed. The file is replaced atomically.
func (c *ContractCache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	payload := cachePayload{Schema: contractCacheSchema, Compiler: version.Version}
	for k := range c.keys {
		payload.Keys = append(payload.Keys, k)
	}
	slices.Sort(payload.Keys)

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, c.path()); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Drop forgets every key and removes the file.
func (c *ContractCache) Drop() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = make(map[string]struct{})
	c.dirty = false
	if err := os.Remove(c.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
