package utils

import (
	"fmt"
	"math"
)

// goldenRatioConjugate steps the hue wheel so consecutive buckets get
// visually distinct colors regardless of how many buckets there are.
const goldenRatioConjugate = 0.6180339887498949

const (
	bucketSaturation = 0.65
	bucketLightness  = 0.55
)

// BucketColors returns n deterministic hex colors for an ordered set of
// display buckets. The same n always yields the same palette.
func BucketColors(n int) []string {
	colors := make([]string, 0, n)
	hue := 0.0
	for range n {
		colors = append(colors, hslToHex(hue, bucketSaturation, bucketLightness))
		hue = math.Mod(hue+goldenRatioConjugate, 1)
	}
	return colors
}

// BucketColor returns the color of the i-th bucket without materializing
// the whole palette.
func BucketColor(i int) string {
	hue := math.Mod(float64(i)*goldenRatioConjugate, 1)
	return hslToHex(hue, bucketSaturation, bucketLightness)
}

func hslToHex(h, s, l float64) string {
	r, g, b := hslToRGB(h, s, l)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r := hueToChannel(p, q, h+1.0/3.0)
	g := hueToChannel(p, q, h)
	b := hueToChannel(p, q, h-1.0/3.0)

	return uint8(math.Round(r * 255)), uint8(math.Round(g * 255)), uint8(math.Round(b * 255))
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
