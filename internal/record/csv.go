package record

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVRecorder writes one row per sample under a "timestep,<names>" header.
type CSVRecorder struct {
	w     *csv.Writer
	names []string
}

// NewCSVRecorder writes the header to w.
func NewCSVRecorder(w io.Writer, names []string) (*CSVRecorder, error) {
	r := &CSVRecorder{w: csv.NewWriter(w), names: append([]string(nil), names...)}
	header := append([]string{"timestep"}, names...)
	if err := r.w.Write(header); err != nil {
		return nil, err
	}
	return r, nil
}

// Record appends a row.
func (r *CSVRecorder) Record(s Sample) error {
	row := make([]string, 0, len(s.Values)+1)
	row = append(row, strconv.FormatUint(s.Timestep, 10))
	for _, v := range s.Values {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return r.w.Write(row)
}

// Flush pushes buffered rows to the underlying writer.
func (r *CSVRecorder) Flush() error {
	r.w.Flush()
	return r.w.Error()
}
