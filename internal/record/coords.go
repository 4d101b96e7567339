package record

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"sann/internal/geometry"
)

// Coordinate dump file names inside the dump directory.
const (
	OuterCoordsFile = "dados_out.csv"
	InnerCoordsFile = "dados_in.csv"
	HullCoordsFile  = "dados_ext.csv"
)

// WriteCoords writes the outer boundary, the inner boundary and the convex
// hull to three "x,y" CSV files in dir, replacing earlier dumps. The
// directory is created if needed.
func WriteCoords(dir string, outer, inner, hull []geometry.Point) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	files := []struct {
		name string
		pts  []geometry.Point
	}{
		{OuterCoordsFile, outer},
		{InnerCoordsFile, inner},
		{HullCoordsFile, hull},
	}
	for _, f := range files {
		if err := writePoints(filepath.Join(dir, f.name), f.pts); err != nil {
			return err
		}
	}
	return nil
}

func writePoints(path string, pts []geometry.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y"}); err != nil {
		f.Close()
		return err
	}
	for _, p := range pts {
		row := []string{strconv.FormatFloat(p.X, 'g', -1, 64), strconv.FormatFloat(p.Y, 'g', -1, 64)}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
