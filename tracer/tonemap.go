package tracer

import "github.com/chewxy/math32"

const invGamma = 1.0 / 2.2

// Map a linear HDR channel value to an 8-bit sRGB-ish value using an
// exponential exposure curve followed by gamma correction.
func ToneMap(c, exposure float32) uint8 {
	if !(c > 0) {
		return 0
	}

	mapped := 1.0 - math32.Exp(-c*exposure)
	mapped = math32.Pow(mapped, invGamma) * 255
	if mapped >= 255 {
		return 255
	}
	return uint8(mapped)
}
