package record

import (
	"encoding/json"
	"time"

	"sann/internal/anneal"
)

// runPayload is the stored form of a Run's non-key fields.
type runPayload struct {
	Sim     string        `json:"sim"`
	Seed    int64         `json:"seed"`
	Metrics []string      `json:"metrics"`
	Params  anneal.Params `json:"params"`
	Started time.Time     `json:"started"`
}

func encodeRun(r Run) ([]byte, error) {
	return json.Marshal(runPayload{
		Sim:     r.Sim,
		Seed:    r.Seed,
		Metrics: r.Metrics,
		Params:  r.Params,
		Started: r.Started,
	})
}

func decodeRun(id string, data []byte) (Run, error) {
	var p runPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return Run{}, err
	}
	return Run{
		ID:      id,
		Sim:     p.Sim,
		Seed:    p.Seed,
		Metrics: p.Metrics,
		Params:  p.Params,
		Started: p.Started,
	}, nil
}

func encodeValues(v []float64) ([]byte, error) {
	return json.Marshal(v)
}

func decodeValues(data []byte) ([]float64, error) {
	var v []float64
	err := json.Unmarshal(data, &v)
	return v, err
}

func encodeShape(s Shape) ([]byte, error) {
	return json.Marshal(s)
}

func decodeShape(data []byte) (Shape, error) {
	var s Shape
	err := json.Unmarshal(data, &s)
	return s, err
}
