package fold

import (
	"errors"
	"strconv"
	"strings"

	"sann/internal/anneal"
	"sann/internal/config"
	"sann/internal/perturb"
	"sann/internal/stitch"
)

// Config controls a folding run.
type Config struct {
	Seed   int64
	Engine anneal.Engine
	Params anneal.Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:   1337,
		Engine: anneal.CloneCommit,
		Params: anneal.DefaultParams(),
	}
}

var keys = []string{
	"seed", "engine", "stitch_strategy", "propagation", "check_merges",
	"initial_radius", "initial_thickness", "initial_num_points", "initial_temperature",
	"compression_factor", "softness_factor", "how_smooth", "max_merge_steps_away",
	"node_addition_threshold", "node_deletion_threshold", "low_high", "temperature_param",
}

// IsKey reports whether FromMap and Apply understand key.
func IsKey(key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// FromMap populates the config from a string map (flag-style key/value
// pairs) on top of the defaults.
func FromMap(cfg map[string]string) (Config, error) {
	return Apply(DefaultConfig(), cfg)
}

// Apply overlays the keys of cfg onto c. A value that does not parse, or a
// merged result that fails config.ValidateParams, is reported as a
// *config.FieldError and c is returned unchanged.
func Apply(c Config, cfg map[string]string) (Config, error) {
	if len(cfg) == 0 {
		return c, nil
	}
	out := c
	p := &out.Params
	var err error
	set := func(key string, fn func(string) error) {
		v, ok := cfg[key]
		if !ok || err != nil {
			return
		}
		if e := fn(strings.TrimSpace(v)); e != nil {
			err = &config.FieldError{Field: key, Problem: e.Error()}
		}
	}

	set("seed", func(v string) (e error) { out.Seed, e = strconv.ParseInt(v, 10, 64); return })
	set("engine", func(v string) (e error) { out.Engine, e = anneal.ParseEngine(v); return })
	set("stitch_strategy", func(v string) (e error) { p.Stitch, e = stitch.ParseStrategy(v); return })
	set("propagation", func(v string) (e error) { p.Propagation, e = perturb.ParsePropagation(v); return })
	set("check_merges", func(v string) (e error) { p.CheckMerges, e = strconv.ParseBool(v); return })
	set("initial_radius", floatInto(&p.InitialRadius))
	set("initial_thickness", floatInto(&p.InitialThickness))
	set("initial_num_points", intInto(&p.InitialNumPoints))
	set("initial_temperature", floatInto(&p.InitialTemperature))
	set("compression_factor", floatInto(&p.CompressionFactor))
	set("softness_factor", floatInto(&p.SoftnessFactor))
	set("how_smooth", intInto(&p.HowSmooth))
	set("max_merge_steps_away", intInto(&p.MaxMergeStepsAway))
	set("node_addition_threshold", floatInto(&p.NodeAdditionThreshold))
	set("node_deletion_threshold", floatInto(&p.NodeDeletionThreshold))
	set("low_high", func(v string) (e error) { p.LowHigh, e = parsePair(v); return })
	set("temperature_param", floatInto(&p.TemperatureParam))
	if err != nil {
		return c, err
	}
	if err := config.ValidateParams(out.Params); err != nil {
		return c, err
	}
	return out, nil
}

// ToMap renders c with the keys FromMap reads, so that FromMap(ToMap(c))
// reproduces c.
func ToMap(c Config) map[string]string {
	p := c.Params
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return map[string]string{
		"seed":                    strconv.FormatInt(c.Seed, 10),
		"engine":                  c.Engine.String(),
		"stitch_strategy":         p.Stitch.String(),
		"propagation":             p.Propagation.String(),
		"check_merges":            strconv.FormatBool(p.CheckMerges),
		"initial_radius":          f(p.InitialRadius),
		"initial_thickness":       f(p.InitialThickness),
		"initial_num_points":      strconv.Itoa(p.InitialNumPoints),
		"initial_temperature":     f(p.InitialTemperature),
		"compression_factor":      f(p.CompressionFactor),
		"softness_factor":         f(p.SoftnessFactor),
		"how_smooth":              strconv.Itoa(p.HowSmooth),
		"max_merge_steps_away":    strconv.Itoa(p.MaxMergeStepsAway),
		"node_addition_threshold": f(p.NodeAdditionThreshold),
		"node_deletion_threshold": f(p.NodeDeletionThreshold),
		"low_high":                f(p.LowHigh[0]) + "," + f(p.LowHigh[1]),
		"temperature_param":       f(p.TemperatureParam),
	}
}

func floatInto(dst *float64) func(string) error {
	return func(v string) (err error) {
		*dst, err = strconv.ParseFloat(v, 64)
		return err
	}
}

func intInto(dst *int) func(string) error {
	return func(v string) (err error) {
		*dst, err = strconv.Atoi(v)
		return err
	}
}

// parsePair reads "lo,hi".
func parsePair(v string) ([2]float64, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return [2]float64{}, errors.New("expected lo,hi")
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return [2]float64{}, err
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{lo, hi}, nil
}
