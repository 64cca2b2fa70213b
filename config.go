package ostar

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Option configures session
type Option func(*config)

type config struct {
	name       string
	logger     *slog.Logger
	output     io.Writer
	loader     Loader
	searchPath []string
	modules    []string
	preload    []string
	maxSteps   uint64
	bindings   map[string]interface{}
	engine     EngineFunc
}

func newConfig(opts []Option) *config {
	c := &config{
		name:   "main",
		output: os.Stdout,
		engine: NewStarlark,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if c.loader == nil {
		c.loader = FileLoader{Paths: c.searchPath}
	}
	return c
}

// WithName sets session name, used in logs and script backtraces
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithLogger sets logger for the session
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithOutput sets writer for script print output, default is os.Stdout
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithLoader sets script loader. It overrides WithSearchPath.
func WithLoader(l Loader) Option {
	return func(c *config) { c.loader = l }
}

// WithSearchPath sets directories searched for relative script paths
func WithSearchPath(paths ...string) Option {
	return func(c *config) { c.searchPath = append(c.searchPath, paths...) }
}

// WithModules requires gems when session is created
func WithModules(names ...string) Option {
	return func(c *config) { c.modules = append(c.modules, names...) }
}

// WithPreload executes script files when session is created
func WithPreload(paths ...string) Option {
	return func(c *config) { c.preload = append(c.preload, paths...) }
}

// WithMaxSteps limits number of steps for each script execution
func WithMaxSteps(n uint64) Option {
	return func(c *config) { c.maxSteps = n }
}

// WithBindings binds values when session is created. Go maps are lifted
// into mappings.
func WithBindings(bindings map[string]interface{}) Option {
	return func(c *config) {
		if c.bindings == nil {
			c.bindings = make(map[string]interface{}, len(bindings))
		}
		for k, v := range bindings {
			c.bindings[k] = v
		}
	}
}

// WithEngine sets engine factory, default is NewStarlark
func WithEngine(fn EngineFunc) Option {
	return func(c *config) { c.engine = fn }
}

func (c *config) bindingNames() []string {
	names := make([]string, 0, len(c.bindings))
	for name := range c.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config is session declaration of a manifest
type Config struct {
	Name       string                 `yaml:"name"`
	SearchPath []string               `yaml:"search_path"`
	Modules    []string               `yaml:"modules"`
	Preload    []string               `yaml:"preload"`
	MaxSteps   uint64                 `yaml:"max_steps"`
	Bindings   map[string]interface{} `yaml:"bindings"`
}

// Options returns session options for the declaration
func (c Config) Options() []Option {
	opts := []Option{WithName(c.Name)}
	if len(c.SearchPath) > 0 {
		opts = append(opts, WithSearchPath(c.SearchPath...))
	}
	if len(c.Modules) > 0 {
		opts = append(opts, WithModules(c.Modules...))
	}
	if len(c.Preload) > 0 {
		opts = append(opts, WithPreload(c.Preload...))
	}
	if c.MaxSteps > 0 {
		opts = append(opts, WithMaxSteps(c.MaxSteps))
	}
	if len(c.Bindings) > 0 {
		opts = append(opts, WithBindings(c.Bindings))
	}
	return opts
}

// Manifest declares sessions of a registry
type Manifest struct {
	Sessions []Config `yaml:"sessions"`
}

// ParseManifest decodes YAML manifest. Unknown fields are errors.
func ParseManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Sessions))
	for i, s := range m.Sessions {
		if s.Name == "" {
			return nil, fmt.Errorf("manifest: session %d has no name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("manifest: session '%s': %w", s.Name, ErrSessionExists)
		}
		seen[s.Name] = true
	}
	return &m, nil
}

// LoadManifest reads YAML manifest file
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	return ParseManifest(f)
}
