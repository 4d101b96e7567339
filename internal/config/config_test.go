package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sann/internal/anneal"
	"sann/internal/perturb"
	"sann/internal/stitch"
)

const sample = `
initial_radius = 1.0
initial_thickness = 0.2
initial_num_points = 60
initial_temperature = 0
compression_factor = 1.0
softness_factor = 0.5
how_smooth = 3
max_merge_steps_away = 3
node_addition_threshold = 0.2
node_deletion_threshold = 0.04
low_high = [0.001, 0.01]
temperature_param = 0.0
recorders = ["energy", "outer perimeter", "K"]
output_file_path = "run.csv"
`

func TestParseSample(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	p := f.Params
	if p.InitialNumPoints != 60 || p.InitialTemperature != 0 || p.HowSmooth != 3 {
		t.Fatalf("unexpected params %+v", p)
	}
	if p.LowHigh != [2]float64{0.001, 0.01} {
		t.Fatalf("low_high %v", p.LowHigh)
	}
	if len(f.Recorders) != 3 || f.Recorders[2] != "K" || f.OutputFilePath != "run.csv" {
		t.Fatalf("recording settings %+v", f)
	}
	if f.Seed != 1 || f.RecordEvery != 1 || f.Engine != anneal.CloneCommit || p.Stitch != stitch.Dijkstra {
		t.Fatalf("optional defaults not applied: %+v", f)
	}
}

func TestParseOptionalKeys(t *testing.T) {
	doc := sample + `
seed = 77
steps = 5000
record_every = 10
stitch_strategy = "greedy"
engine = "revert"
`
	f, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if f.Seed != 77 || f.Steps != 5000 || f.RecordEvery != 10 {
		t.Fatalf("run keys %+v", f)
	}
	if f.Params.Stitch != stitch.Greedy || f.Engine != anneal.MutateRevert {
		t.Fatalf("strategy/engine %v/%v", f.Params.Stitch, f.Engine)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(string) string
		field string
	}{
		{"missing", func(s string) string { return strings.Replace(s, "how_smooth = 3\n", "", 1) }, "how_smooth"},
		{"wrong type", func(s string) string {
			return strings.Replace(s, "initial_num_points = 60", `initial_num_points = "sixty"`, 1)
		}, "initial_num_points"},
		{"thick band", func(s string) string {
			return strings.Replace(s, "initial_thickness = 0.2", "initial_thickness = 1.5", 1)
		}, "initial_thickness"},
		{"inverted magnitudes", func(s string) string {
			return strings.Replace(s, "[0.001, 0.01]", "[0.5, 0.01]", 1)
		}, "low_high"},
		{"short pair", func(s string) string {
			return strings.Replace(s, "[0.001, 0.01]", "[0.001]", 1)
		}, "low_high"},
		{"unknown recorder", func(s string) string {
			return strings.Replace(s, `"K"`, `"curvature"`, 1)
		}, "recorders"},
		{"thresholds", func(s string) string {
			return strings.Replace(s, "node_addition_threshold = 0.2", "node_addition_threshold = 0.01", 1)
		}, "node_addition_threshold"},
		{"strategy", func(s string) string { return s + "stitch_strategy = \"random\"\n" }, "stitch_strategy"},
		{"propagation", func(s string) string { return s + "propagation = \"pull\"\n" }, "propagation"},
		{"check_merges", func(s string) string { return s + "check_merges = \"yes\"\n" }, "check_merges"},
	}
	for _, c := range cases {
		_, err := Parse([]byte(c.edit(sample)))
		if err == nil {
			t.Fatalf("%s: expected an error", c.name)
		}
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Field != c.field {
			t.Fatalf("%s: got %v, want field %s", c.name, err, c.field)
		}
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: error does not wrap ErrInvalid", c.name)
		}
	}
}

func TestParsePropagationKeys(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if f.Params.Propagation != perturb.Stitched || !f.Params.CheckMerges {
		t.Fatalf("defaults %v/%v", f.Params.Propagation, f.Params.CheckMerges)
	}
	f, err = Parse([]byte(sample + "propagation = \"push\"\ncheck_merges = false\n"))
	if err != nil {
		t.Fatal(err)
	}
	if f.Params.Propagation != perturb.Pushed || f.Params.CheckMerges {
		t.Fatalf("overrides %v/%v", f.Params.Propagation, f.Params.CheckMerges)
	}
}

func TestValidateParams(t *testing.T) {
	if err := ValidateParams(anneal.DefaultParams()); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
	p := anneal.DefaultParams()
	p.NodeDeletionThreshold = 0.5
	err := ValidateParams(p)
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "node_addition_threshold" {
		t.Fatalf("got %v, want a node_addition_threshold error", err)
	}
}

func TestParseRejectsBadTOML(t *testing.T) {
	if _, err := Parse([]byte("initial_radius = = 1")); err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parameters.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Params.InitialRadius != 1 {
		t.Fatalf("radius %v", f.Params.InitialRadius)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
