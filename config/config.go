// Package config loads solver hyperparameters the way the teacher's
// reinforcement package loads training config: an outer viper-read YAML
// document wrapping an inner spec re-marshalled and unmarshalled with
// yaml.v3, plus a generic key/value hyperparameter list for the odds and
// ends that don't deserve their own struct field.
package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// outerConfig mirrors the teacher's OuterConfig: a "kind" selector plus an
// opaque "def" payload, so a config file can in principle carry more than
// one kind of spec without committing to its shape up front.
type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// HyperParameter is one named floating-point knob.
type HyperParameter struct {
	Key string  `yaml:"key"`
	Val float64 `yaml:"val"`
}

// SolverConfig holds the fuzzing core's tunables plus the ambient
// dashboard/worker settings main.go wires up.
type SolverConfig struct {
	// HyperParams are the knobs the core reads by name: "max_size",
	// "weight_precision", "reweight_frequency".
	HyperParams []HyperParameter `mapstructure:"hyperParams"`
	// Workers is the number of puzzles solved concurrently; zero means
	// runtime.NumCPU().
	Workers int `mapstructure:"workers"`
	// SolveDeadline describes when to give up on a puzzle session. Only its
	// "duration" key (a time.ParseDuration string) is read; other keys,
	// such as a fixed deadline, are ignored.
	SolveDeadline map[string]string `mapstructure:"solveDeadline"`
}

// GetHyperParamOrDefault looks up a named hyperparameter, or returns
// defaultVal if it isn't present.
func (cfg *SolverConfig) GetHyperParamOrDefault(param string, defaultVal float64) float64 {
	for _, kvp := range cfg.HyperParams {
		if kvp.Key == param {
			return kvp.Val
		}
	}
	return defaultVal
}

// WithSolveDeadline returns ctx wrapped with the configured deadline, if
// one is specified; otherwise it returns a cancellable context with no
// deadline.
func (cfg *SolverConfig) WithSolveDeadline(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if val, ok := cfg.SolveDeadline["duration"]; ok {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return nil, nil, err
		}
		innerCtx, cancel := context.WithTimeout(ctx, duration)
		return innerCtx, cancel, nil
	}
	defaultCtx, cancel := context.WithCancel(ctx)
	return defaultCtx, cancel, nil
}

// FromYaml reads path via viper, re-marshals the "def" payload, and
// unmarshals it into a SolverConfig with yaml.v3.
func FromYaml(path string) (*SolverConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outer := &outerConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, err
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, err
	}

	inner := &SolverConfig{}
	if err := yaml.Unmarshal(spec, inner); err != nil {
		return nil, err
	}
	return inner, nil
}

// Default hyperparameter names and fallback values, used when a config
// file omits them or none was supplied at all.
const (
	HyperParamMaxSize           = "max_size"
	HyperParamWeightPrecision   = "weight_precision"
	HyperParamReweightFrequency = "reweight_frequency"

	DefaultMaxSize           = 1024.0
	DefaultWeightPrecision   = 16.0
	DefaultReweightFrequency = 32.0
)

// Default returns a SolverConfig with no hyperparameters set, so every
// GetHyperParamOrDefault call falls through to its caller-supplied default.
func Default() *SolverConfig {
	return &SolverConfig{}
}
