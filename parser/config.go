package parser

import (
	"io"

	"github.com/npillmayer/lcfrs/estimate"
	"github.com/npillmayer/lcfrs/grammar"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config collects the settings for parsing with a grammar. A typical
// YAML document looks like this:
//
//    estimates: bitset
//    maxlen: 30
//    maxpops: 1000000
//    debinarize: true
//
type Config struct {
	Estimates  estimate.Kind `yaml:"estimates"`  // off, length or bitset
	MaxLen     int           `yaml:"maxlen"`     // horizon of estimates
	MaxPops    int           `yaml:"maxpops"`    // 0 is unbounded
	Debinarize bool          `yaml:"debinarize"` // strip artificial labels from derivations
}

// Defaults for zero values of a Config.
const (
	DefaultEstimates = estimate.Len
	DefaultMaxLen    = 25
)

// DefaultConfig returns a configuration with default values.
func DefaultConfig() Config {
	return Config{Estimates: DefaultEstimates, MaxLen: DefaultMaxLen}
}

// LoadConfig reads a configuration from YAML. Unknown fields are an error.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "cannot read parser configuration")
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) normalize() error {
	if cfg.Estimates == "" {
		cfg.Estimates = DefaultEstimates
	}
	k, err := estimate.ParseKind(string(cfg.Estimates))
	if err != nil {
		return err
	}
	cfg.Estimates = k
	if cfg.MaxLen == 0 {
		cfg.MaxLen = DefaultMaxLen
	}
	if cfg.MaxLen < 0 || cfg.MaxPops < 0 {
		return errors.Errorf("negative limits in configuration: maxlen=%d, maxpops=%d",
			cfg.MaxLen, cfg.MaxPops)
	}
	return nil
}

// Options returns the parser options for cfg.
func (cfg Config) Options() []Option {
	return []Option{WithMaxPops(cfg.MaxPops), WithDebinarize(cfg.Debinarize)}
}

// Setup computes the heuristic for g as configured. The heuristic may be
// shared between all parsers for g.
func Setup(g *grammar.Grammar, cfg Config) (estimate.Heuristic, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	tracer().Infof("grammar: %d clauses; %s", len(g.Clauses()), g.Stats())
	return estimate.Build(g, cfg.Estimates, cfg.MaxLen)
}
