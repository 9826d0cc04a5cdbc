package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/kootenpv/dumps"
)

// Config is the YAML form of the encoder options. Empty fields keep the
// library defaults.
type Config struct {
	Indent   int    `yaml:"indent"`
	Pretty   bool   `yaml:"pretty"`
	Bytes    string `yaml:"bytes"`
	Datetime string `yaml:"datetime"`
	Keys     string `yaml:"keys"`
	Floats   string `yaml:"floats"`
	MaxDepth int    `yaml:"max_depth"`
}

// LoadConfig reads a YAML config file. Unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()
	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Options converts the config into encoder options.
func (c Config) Options() (dumps.Options, error) {
	opts := dumps.Options{Indent: c.Indent, Pretty: c.Pretty, MaxDepth: c.MaxDepth}
	if c.Indent < 0 {
		return opts, errors.Newf("indent must not be negative, got %d", c.Indent)
	}
	if c.Bytes != "" {
		m, ok := dumps.ParseBytesMode(c.Bytes)
		if !ok {
			return opts, errors.Newf("unknown bytes mode %q", c.Bytes)
		}
		opts.Bytes = m
	}
	if c.Datetime != "" {
		m, ok := dumps.ParseDatetimeMode(c.Datetime)
		if !ok {
			return opts, errors.Newf("unknown datetime mode %q", c.Datetime)
		}
		opts.Datetime = m
	}
	switch strings.ToLower(c.Keys) {
	case "", "stringify":
	case "reject":
		opts.Keys = dumps.KeyReject
	default:
		return opts, errors.Newf("unknown key policy %q", c.Keys)
	}
	switch strings.ToLower(c.Floats) {
	case "", "reject":
	case "null":
		opts.Floats = dumps.FloatNull
	case "literal":
		opts.Floats = dumps.FloatLiteral
	default:
		return opts, errors.Newf("unknown float policy %q", c.Floats)
	}
	return opts, nil
}

// optionFlags mirrors Config on the command line. Flags override the config
// file only when given.
type optionFlags struct {
	cfg Config
}

func (o *optionFlags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&o.cfg.Indent, "indent", "i", 0, "spaces per nesting level (0: compact)")
	fs.BoolVarP(&o.cfg.Pretty, "pretty", "p", false, "indent with two spaces")
	fs.StringVar(&o.cfg.Bytes, "bytes", "", "byte strings: reject, utf8, ascii, base64")
	fs.StringVar(&o.cfg.Datetime, "datetime", "", `date/times: iso8601, reject, or a strftime pattern such as "%Y-%m-%d"`)
	fs.StringVar(&o.cfg.Keys, "keys", "", "non-text keys: stringify, reject")
	fs.StringVar(&o.cfg.Floats, "floats", "", "NaN and infinities: reject, null, literal")
	fs.IntVar(&o.cfg.MaxDepth, "max-depth", 0, "nesting limit (0: default, <0: unlimited)")
}

func (o *optionFlags) apply(fs *pflag.FlagSet, cfg *Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "indent":
			cfg.Indent = o.cfg.Indent
		case "pretty":
			cfg.Pretty = o.cfg.Pretty
		case "bytes":
			cfg.Bytes = o.cfg.Bytes
		case "datetime":
			cfg.Datetime = o.cfg.Datetime
		case "keys":
			cfg.Keys = o.cfg.Keys
		case "floats":
			cfg.Floats = o.cfg.Floats
		case "max-depth":
			cfg.MaxDepth = o.cfg.MaxDepth
		}
	})
}
