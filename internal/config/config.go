// Package config loads and validates the declarative mapping configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration marks configuration-class failures: an unreadable or
// unparsable config file, an invalid template entry, a bad skip pattern.
var ErrConfiguration = errors.New("configuration error")

// Error wraps ErrConfiguration with context about what was wrong.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return ErrConfiguration }

// Config is the parsed mapping configuration.
type Config struct {
	API       API       `yaml:"api"`
	Output    Output    `yaml:"output"`
	Templates Templates `yaml:"templates"`
	Skip      Skip      `yaml:"skip"`

	// Map is the path of the persisted generation map file.
	Map string `yaml:"map"`
}

type API struct {
	BaseURL string `yaml:"base_url"`

	// TokenEnv names the environment variable the API credential is read
	// from. Defaults to FIELDSMITH_API_TOKEN.
	TokenEnv string `yaml:"token_env"`
}

type Output struct {
	// Dir is the root the generated artifacts are written under.
	Dir string `yaml:"dir"`

	// Namespace becomes a subdirectory of Dir and is handed to templates.
	Namespace string `yaml:"namespace"`

	// Extension is appended to the derived class name, e.g. ".php".
	Extension string `yaml:"extension"`
}

type Templates struct {
	// Root is the directory template paths are resolved against. A root
	// ending in ".zip" is treated as a bundle and extracted before use.
	Root string `yaml:"root"`

	Entries []TemplateEntry `yaml:"entries"`
}

// TemplateEntry declares one template and the fields or field types it
// governs.
type TemplateEntry struct {
	Name        string   `yaml:"name"`
	Path        string   `yaml:"path"`
	LoadOptions bool     `yaml:"load_options"`
	Fields      []string `yaml:"fields"`
	Types       []string `yaml:"types"`
}

type Skip struct {
	Fields       []ToggleRule  `yaml:"fields"`
	Types        []ToggleRule  `yaml:"types"`
	TypePatterns []PatternRule `yaml:"type_patterns"`
}

// ToggleRule suppresses generation for one exact field id or type id. A rule
// can be declared then disabled without deleting it.
type ToggleRule struct {
	ID      string `yaml:"id"`
	Enabled *bool  `yaml:"enabled"`
}

// On reports whether the rule is active. Rules are enabled unless the
// configuration says otherwise.
func (r ToggleRule) On() bool { return r.Enabled == nil || *r.Enabled }

// PatternRule suppresses generation for every type id matching Pattern.
type PatternRule struct {
	Pattern string `yaml:"pattern"`
	Enabled *bool  `yaml:"enabled"`
}

func (r PatternRule) On() bool { return r.Enabled == nil || *r.Enabled }

// Report accumulates the outcome of a configuration pass. Problems do not
// stop the pass; the caller inspects HasProblems to decide exit status.
type Report struct {
	Warnings []string
	problems error
}

func (r *Report) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Report) Problemf(format string, args ...any) {
	r.problems = multierr.Append(r.problems, &Error{Msg: fmt.Sprintf(format, args...)})
}

// Problems returns every recorded problem as one aggregate error, or nil.
func (r *Report) Problems() error { return r.problems }

func (r *Report) HasProblems() bool { return r.problems != nil }

// DefaultMapPath is used when the configuration does not name a map file.
const DefaultMapPath = ".fieldsmith/map.yaml"

const defaultTokenEnv = "FIELDSMITH_API_TOKEN"

// Load reads and parses the configuration at path. A missing or unparsable
// file is fatal; entry-level validation problems are recorded on the
// returned Report and the rest of the configuration remains usable.
func Load(path string) (*Config, *Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &Error{Msg: fmt.Sprintf("reading config %s: %v", path, err)}
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, &Error{Msg: fmt.Sprintf("parsing config %s: %v", path, err)}
	}

	rep := &Report{}
	cfg.applyDefaults()
	cfg.validate(rep)
	return &cfg, rep, nil
}

func (c *Config) applyDefaults() {
	if c.Map == "" {
		c.Map = DefaultMapPath
	}
	if c.API.TokenEnv == "" {
		c.API.TokenEnv = defaultTokenEnv
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "generated"
	}
}

func (c *Config) validate(rep *Report) {
	if c.API.BaseURL == "" {
		rep.Problemf("api.base_url is required")
	}
	if c.Templates.Root == "" {
		rep.Problemf("templates.root is required")
	}
	for _, t := range c.Skip.TypePatterns {
		if t.Pattern == "" {
			rep.Problemf("skip.type_patterns entry has an empty pattern")
		}
	}
}

// Token reads the API credential from the configured environment variable.
func (c *Config) Token() string {
	return os.Getenv(c.API.TokenEnv)
}
