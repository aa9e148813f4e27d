// Package config loads irpack.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"irpack/internal/blobstore"
	"irpack/internal/ir"
	"irpack/internal/irser"
	"irpack/internal/trace"
)

// FileName is the configuration file looked up by Find.
const FileName = "irpack.toml"

var (
	// ErrUnknownKey reports keys the file sets that irpack does not know.
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrInvalidValue reports a key with an unusable value.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Codec is the [codec] section.
type Codec struct {
	MaxDepth int `toml:"max_depth"`
}

// Store is the [store] section. A relative path is taken relative to the
// configuration file.
type Store struct {
	Kind string `toml:"kind"`
	Path string `toml:"path"`
}

// Trace is the [trace] section.
type Trace struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

// Config is the whole file.
type Config struct {
	Codec Codec `toml:"codec"`
	Store Store `toml:"store"`
	Trace Trace `toml:"trace"`

	// Dir is the directory of the loaded file, empty for defaults.
	Dir string `toml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Codec: Codec{MaxDepth: irser.DefaultMaxDepth},
		Store: Store{Kind: blobstore.KindDisk, Path: ".irpack"},
		Trace: Trace{Level: trace.LevelOff.String(), Mode: trace.ModeStream.String(), Output: "-", RingSize: 4096},
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := checkKeys(meta); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse reads configuration text over the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := checkKeys(meta); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func checkKeys(meta toml.MetaData) error {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Codec.MaxDepth < 0 {
		return fmt.Errorf("%w: codec.max_depth %d is negative", ErrInvalidValue, c.Codec.MaxDepth)
	}
	switch c.Store.Kind {
	case blobstore.KindMemory, blobstore.KindDisk, blobstore.KindSQLite:
	default:
		return fmt.Errorf("%w: store.kind %q (expected: memory|disk|sqlite)", ErrInvalidValue, c.Store.Kind)
	}
	if c.Store.Kind != blobstore.KindMemory && c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is required for %s stores", ErrInvalidValue, c.Store.Kind)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("%w: trace.level: %v", ErrInvalidValue, err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("%w: trace.mode: %v", ErrInvalidValue, err)
	}
	if c.Trace.RingSize < 0 {
		return fmt.Errorf("%w: trace.ring_size %d is negative", ErrInvalidValue, c.Trace.RingSize)
	}
	return nil
}

// CodecOptions maps the [codec] section onto codec options.
func (c Config) CodecOptions(builtins []ir.Declaration) irser.Options {
	return irser.Options{MaxDepth: c.Codec.MaxDepth, Builtins: builtins}
}

// TraceConfig maps the [trace] section onto a tracer configuration.
func (c Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}, nil
}

// StorePath returns the store location, resolved against Dir.
func (c Config) StorePath() string {
	p := c.Store.Path
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// OpenStore opens the configured blob store.
func (c Config) OpenStore() (blobstore.Store, error) {
	return blobstore.Open(c.Store.Kind, c.StorePath())
}

// Find walks up from startDir to locate irpack.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads the explicit path if given, else the nearest irpack.toml
// above startDir, else the defaults.
func Resolve(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
