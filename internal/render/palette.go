package render

import (
	"image/color"

	"github.com/crazy3lf/colorconv"
)

// HueRamp returns n colours spread once around the hue wheel at the given
// saturation, value and alpha. Used to tell neighbouring stitch lines apart.
func HueRamp(n int, saturation, value float64, alpha uint8) []color.RGBA {
	if n <= 0 {
		return nil
	}
	out := make([]color.RGBA, n)
	for i := range out {
		hue := 360 * float64(i) / float64(n)
		r, g, b, err := colorconv.HSVToRGB(hue, saturation, value)
		if err != nil {
			out[i] = color.RGBA{A: alpha}
			continue
		}
		out[i] = color.RGBA{R: r, G: g, B: b, A: alpha}
	}
	return out
}
