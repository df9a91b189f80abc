// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package config defines the settings of the jsift command-line tool, which
// may be read from a YAML file and overridden by flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/jsift"
	yaml "github.com/goccy/go-yaml"
)

var (
	// ErrConflictingModes is reported if both yield-each modes are set.
	ErrConflictingModes = errors.New("each_value and each_entry are mutually exclusive")

	// ErrChunkSize is reported for a chunk size that is not positive.
	ErrChunkSize = errors.New("chunk_size must be positive")
)

// Config holds the settings for a scan. The zero value of each field means
// the setting is not set. A path "$" denotes the root.
type Config struct {
	Take      []string `yaml:"take"`       // paths to include (default all)
	EachValue string   `yaml:"each_value"` // yield each element of the array at this path
	EachEntry string   `yaml:"each_entry"` // yield each member of the object at this path
	ChunkSize int      `yaml:"chunk_size"` // read size in bytes
	Sample    string   `yaml:"sample"`     // file of sample JSON to check paths against
}

// Default returns the default settings.
func Default() *Config { return &Config{ChunkSize: jsift.DefaultChunkSize} }

// Load reads a YAML configuration from the named file. Unknown keys are
// reported as errors. An empty file yields an empty Config.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a YAML configuration from r.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Override replaces the settings of c with those set in o. Setting either
// yield-each mode in o clears both modes of c first.
func (c *Config) Override(o *Config) {
	if len(o.Take) != 0 {
		c.Take = o.Take
	}
	if o.EachValue != "" || o.EachEntry != "" {
		c.EachValue, c.EachEntry = o.EachValue, o.EachEntry
	}
	if o.ChunkSize != 0 {
		c.ChunkSize = o.ChunkSize
	}
	if o.Sample != "" {
		c.Sample = o.Sample
	}
}

// Validate reports an error if c is not a usable configuration.
func (c *Config) Validate() error {
	if c.EachValue != "" && c.EachEntry != "" {
		return ErrConflictingModes
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w, got %d", ErrChunkSize, c.ChunkSize)
	}
	for _, p := range c.paths() {
		if _, err := jsift.ParsePath(p); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) paths() []string {
	ps := c.Take
	if c.EachValue != "" {
		ps = append(ps[:len(ps):len(ps)], c.EachValue)
	}
	if c.EachEntry != "" {
		ps = append(ps[:len(ps):len(ps)], c.EachEntry)
	}
	return ps
}

// Apply configures s with the paths and yield mode of c.
func (c *Config) Apply(s *jsift.Scanner) error {
	for _, p := range c.Take {
		if err := s.Take(p); err != nil {
			return err
		}
	}
	switch {
	case c.EachValue != "":
		return s.YieldEachValue(c.EachValue)
	case c.EachEntry != "":
		return s.YieldEachEntry(c.EachEntry)
	}
	return nil
}

// Paths returns the full paths selected by c: the yield-each path if one is
// set, and each Take path relative to it.
func (c *Config) Paths() ([]jsift.PathSpec, error) {
	var base jsift.PathSpec
	var out []jsift.PathSpec
	if each := c.EachValue + c.EachEntry; each != "" {
		p, err := jsift.ParsePath(each)
		if err != nil {
			return nil, err
		}
		base = p
		out = append(out, p)
	}
	for _, t := range c.Take {
		p, err := jsift.ParsePath(t)
		if err != nil {
			return nil, err
		}
		out = append(out, base.Join(p))
	}
	return out, nil
}

// Bind registers flags on fs that store their values in c.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.Var((*pathsFlag)(&c.Take), "take", "Include this path in the output (repeatable)")
	fs.StringVar(&c.EachValue, "each-value", "", "Yield each element of the array at this path")
	fs.StringVar(&c.EachEntry, "each-entry", "", "Yield each [key, value] member of the object at this path")
	fs.IntVar(&c.ChunkSize, "chunk-size", 0, "Read input in chunks of this many bytes")
	fs.StringVar(&c.Sample, "sample", "", "Check paths against the sample JSON in this file")
}

// pathsFlag implements flag.Value for repeated path flags.
type pathsFlag []string

func (p *pathsFlag) String() string { return strings.Join(*p, ",") }

func (p *pathsFlag) Set(s string) error {
	if _, err := jsift.ParsePath(s); err != nil {
		return err
	}
	*p = append(*p, s)
	return nil
}
