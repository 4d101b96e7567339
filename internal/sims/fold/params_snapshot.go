package fold

import (
	"strconv"

	"sann/internal/core"
)

// Parameters implements core.ParametersProvider.
func (s *Sim) Parameters() core.ParameterSnapshot {
	p := s.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "Run",
			Params: []core.Parameter{
				int64Param("seed", "Seed", s.cfg.Seed),
				choiceParam("engine", "Engine", s.cfg.Engine.String()),
				choiceParam("stitch_strategy", "Stitching", p.Stitch.String()),
				choiceParam("propagation", "Propagation", p.Propagation.String()),
				choiceParam("check_merges", "Checked merges", strconv.FormatBool(p.CheckMerges)),
			},
		},
		{
			Name: "Initial annulus",
			Params: []core.Parameter{
				floatParam("initial_radius", "Radius", p.InitialRadius),
				floatParam("initial_thickness", "Thickness", p.InitialThickness),
				intParam("initial_num_points", "Points", p.InitialNumPoints),
				floatParam("initial_gray_matter_area", "Target band area", p.InitialGrayMatterArea()),
			},
			Summary: "Applied on reset.",
		},
		{
			Name: "Perturbation",
			Params: []core.Parameter{
				floatParam("compression_factor", "Compression", p.CompressionFactor),
				intParam("how_smooth", "Smoothing reach", p.HowSmooth),
				floatParam("perturb_low", "Magnitude low", p.LowHigh[0]),
				floatParam("perturb_high", "Magnitude high", p.LowHigh[1]),
			},
		},
		{
			Name: "Topology",
			Params: []core.Parameter{
				floatParam("node_addition_threshold", "Split above", p.NodeAdditionThreshold),
				floatParam("node_deletion_threshold", "Merge below", p.NodeDeletionThreshold),
				intParam("max_merge_steps_away", "Merge reach", p.MaxMergeStepsAway),
			},
		},
		{
			Name: "Schedule",
			Params: []core.Parameter{
				floatParam("initial_temperature", "Initial T", p.InitialTemperature),
				floatParam("temperature_param", "Slope", p.TemperatureParam),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values the HUD may change while running.
func (s *Sim) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "compression_factor", Label: "Compression", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, HasMin: true},
		{Key: "how_smooth", Label: "Smoothing reach", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
		{Key: "perturb_low", Label: "Magnitude low", Type: core.ParamTypeFloat, Step: 0.0005, Min: 0, HasMin: true},
		{Key: "perturb_high", Label: "Magnitude high", Type: core.ParamTypeFloat, Step: 0.0005, Min: 0, HasMin: true},
		{Key: "node_addition_threshold", Label: "Split above", Type: core.ParamTypeFloat, Step: 0.01, Min: 0.01, HasMin: true},
		{Key: "node_deletion_threshold", Label: "Merge below", Type: core.ParamTypeFloat, Step: 0.005, Min: 0.001, HasMin: true},
		{Key: "max_merge_steps_away", Label: "Merge reach", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 20, HasMin: true, HasMax: true},
		{Key: "temperature_param", Label: "Slope", Type: core.ParamTypeFloat, Step: 0.0001},
	}
}

// SetIntParameter updates an integer control. It reports whether the value
// was accepted.
func (s *Sim) SetIntParameter(key string, value int) bool {
	p := &s.cfg.Params
	switch key {
	case "how_smooth":
		if value < 0 {
			return false
		}
		p.HowSmooth = value
	case "max_merge_steps_away":
		if value < 1 {
			return false
		}
		p.MaxMergeStepsAway = value
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating point control. Values that would
// leave the thresholds or magnitudes inconsistent are refused.
func (s *Sim) SetFloatParameter(key string, value float64) bool {
	p := &s.cfg.Params
	switch key {
	case "compression_factor":
		if value <= 0 {
			return false
		}
		p.CompressionFactor = value
	case "perturb_low":
		if value < 0 || value > p.LowHigh[1] {
			return false
		}
		p.LowHigh[0] = value
	case "perturb_high":
		if value < p.LowHigh[0] {
			return false
		}
		p.LowHigh[1] = value
	case "node_addition_threshold":
		if value <= p.NodeDeletionThreshold {
			return false
		}
		p.NodeAdditionThreshold = value
	case "node_deletion_threshold":
		if value <= 0 || value >= p.NodeAdditionThreshold {
			return false
		}
		p.NodeDeletionThreshold = value
	case "temperature_param":
		p.TemperatureParam = value
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'g', 6, 64),
	}
}

func choiceParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeChoice,
		Value: value,
	}
}
