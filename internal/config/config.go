// Package config loads run parameters from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"sann/internal/anneal"
	"sann/internal/metrics"
	"sann/internal/perturb"
	"sann/internal/stitch"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is wrapped by every FieldError.
var ErrInvalid = errors.New("invalid configuration")

// FieldError reports a missing or unusable key.
type FieldError struct {
	Field   string
	Problem string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Problem)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }

// File is the decoded parameters file.
type File struct {
	Params         anneal.Params
	Recorders      []string
	OutputFilePath string

	Seed        int64
	Steps       int
	Engine      anneal.Engine
	RecordEvery int
}

// Load reads and parses path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return Parse(data)
}

// Parse decodes a parameters document and validates it.
func Parse(data []byte) (File, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return File{}, fmt.Errorf("config: decode: %w", err)
	}

	f := File{Params: anneal.DefaultParams(), Seed: 1, RecordEvery: 1}
	p := &f.Params
	req := required{raw: raw}
	p.InitialRadius = req.number("initial_radius")
	p.InitialThickness = req.number("initial_thickness")
	p.InitialNumPoints = req.integer("initial_num_points")
	p.InitialTemperature = req.number("initial_temperature")
	p.CompressionFactor = req.number("compression_factor")
	p.SoftnessFactor = req.number("softness_factor")
	p.HowSmooth = req.integer("how_smooth")
	p.MaxMergeStepsAway = req.integer("max_merge_steps_away")
	p.NodeAdditionThreshold = req.number("node_addition_threshold")
	p.NodeDeletionThreshold = req.number("node_deletion_threshold")
	p.LowHigh = req.pair("low_high")
	p.TemperatureParam = req.number("temperature_param")
	f.Recorders = req.list("recorders")
	f.OutputFilePath = req.text("output_file_path")
	if req.err != nil {
		return File{}, req.err
	}

	if v, ok := raw["seed"]; ok {
		n, ok := asInt64(v)
		if !ok {
			return File{}, &FieldError{Field: "seed", Problem: "expected an integer"}
		}
		f.Seed = n
	}
	if v, ok := raw["steps"]; ok {
		n, ok := asInt(v)
		if !ok {
			return File{}, &FieldError{Field: "steps", Problem: "expected an integer"}
		}
		f.Steps = n
	}
	if v, ok := raw["record_every"]; ok {
		n, ok := asInt(v)
		if !ok {
			return File{}, &FieldError{Field: "record_every", Problem: "expected an integer"}
		}
		f.RecordEvery = n
	}
	if v, ok := raw["stitch_strategy"]; ok {
		name, ok := asString(v)
		if !ok {
			return File{}, &FieldError{Field: "stitch_strategy", Problem: "expected a string"}
		}
		s, err := stitch.ParseStrategy(name)
		if err != nil {
			return File{}, &FieldError{Field: "stitch_strategy", Problem: err.Error()}
		}
		p.Stitch = s
	}
	if v, ok := raw["engine"]; ok {
		name, ok := asString(v)
		if !ok {
			return File{}, &FieldError{Field: "engine", Problem: "expected a string"}
		}
		e, err := anneal.ParseEngine(name)
		if err != nil {
			return File{}, &FieldError{Field: "engine", Problem: err.Error()}
		}
		f.Engine = e
	}
	if v, ok := raw["propagation"]; ok {
		name, ok := asString(v)
		if !ok {
			return File{}, &FieldError{Field: "propagation", Problem: "expected a string"}
		}
		m, err := perturb.ParsePropagation(name)
		if err != nil {
			return File{}, &FieldError{Field: "propagation", Problem: err.Error()}
		}
		p.Propagation = m
	}
	if v, ok := raw["check_merges"]; ok {
		b, ok := v.(bool)
		if !ok {
			return File{}, &FieldError{Field: "check_merges", Problem: "expected a boolean"}
		}
		p.CheckMerges = b
	}

	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks ranges and cross-field constraints.
func (f File) Validate() error {
	if err := ValidateParams(f.Params); err != nil {
		return err
	}
	switch {
	case f.Steps < 0:
		return &FieldError{Field: "steps", Problem: "must not be negative"}
	case f.RecordEvery < 1:
		return &FieldError{Field: "record_every", Problem: "must be at least 1"}
	}
	if _, err := metrics.Resolve(f.Recorders); err != nil {
		return &FieldError{Field: "recorders", Problem: err.Error()}
	}
	if len(f.Recorders) > 0 && f.OutputFilePath == "" {
		return &FieldError{Field: "output_file_path", Problem: "required when recorders are set"}
	}
	return nil
}

// ValidateParams checks the annealer parameters on their own, for callers
// that assemble them from flags rather than a file.
func ValidateParams(p anneal.Params) error {
	switch {
	case p.InitialRadius <= 0:
		return &FieldError{Field: "initial_radius", Problem: "must be positive"}
	case p.InitialThickness <= 0 || p.InitialThickness >= p.InitialRadius:
		return &FieldError{Field: "initial_thickness", Problem: "must lie strictly between 0 and initial_radius"}
	case p.InitialNumPoints < 3:
		return &FieldError{Field: "initial_num_points", Problem: "must be at least 3"}
	case p.CompressionFactor <= 0:
		return &FieldError{Field: "compression_factor", Problem: "must be positive"}
	case p.HowSmooth < 0:
		return &FieldError{Field: "how_smooth", Problem: "must not be negative"}
	case p.MaxMergeStepsAway < 1:
		return &FieldError{Field: "max_merge_steps_away", Problem: "must be at least 1"}
	case p.NodeDeletionThreshold <= 0:
		return &FieldError{Field: "node_deletion_threshold", Problem: "must be positive"}
	case p.NodeAdditionThreshold <= p.NodeDeletionThreshold:
		return &FieldError{Field: "node_addition_threshold", Problem: "must exceed node_deletion_threshold"}
	case p.LowHigh[0] < 0 || p.LowHigh[0] > p.LowHigh[1]:
		return &FieldError{Field: "low_high", Problem: "need 0 <= low <= high"}
	}
	return nil
}

// required pulls mandatory keys, remembering the first failure.
type required struct {
	raw map[string]any
	err error
}

func (r *required) get(key string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.raw[key]
	if !ok {
		r.err = &FieldError{Field: key, Problem: "missing"}
	}
	return v, ok
}

func (r *required) fail(key, want string) {
	r.err = &FieldError{Field: key, Problem: "expected " + want}
}

func (r *required) number(key string) float64 {
	v, ok := r.get(key)
	if !ok {
		return 0
	}
	f, ok := asFloat64(v)
	if !ok {
		r.fail(key, "a number")
	}
	return f
}

func (r *required) integer(key string) int {
	v, ok := r.get(key)
	if !ok {
		return 0
	}
	n, ok := asInt(v)
	if !ok {
		r.fail(key, "an integer")
	}
	return n
}

func (r *required) text(key string) string {
	v, ok := r.get(key)
	if !ok {
		return ""
	}
	s, ok := asString(v)
	if !ok {
		r.fail(key, "a string")
	}
	return s
}

func (r *required) list(key string) []string {
	v, ok := r.get(key)
	if !ok {
		return nil
	}
	ss, ok := asStrings(v)
	if !ok {
		r.fail(key, "an array of strings")
	}
	return ss
}

func (r *required) pair(key string) [2]float64 {
	v, ok := r.get(key)
	if !ok {
		return [2]float64{}
	}
	xs, ok := v.([]any)
	if !ok || len(xs) != 2 {
		r.fail(key, "a two-element array")
		return [2]float64{}
	}
	lo, okLo := asFloat64(xs[0])
	hi, okHi := asFloat64(xs[1])
	if !okLo || !okHi {
		r.fail(key, "two numbers")
	}
	return [2]float64{lo, hi}
}
