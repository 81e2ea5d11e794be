package audio

import "math"

// DefaultHeadroomDB is the margin left below full scale when leveling,
// matching the loudness target used for every stored recording.
const DefaultHeadroomDB = 0.1

// NormalizePeak scales samples so the loudest one sits headroomDB below
// full scale. Quiet dictations are boosted and clipping-hot ones are
// attenuated; silence is returned unchanged.
func NormalizePeak(samples []int16, headroomDB float64) []int16 {
	peak := 0
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return samples
	}

	target := math.MaxInt16 * math.Pow(10, -headroomDB/20)
	gain := target / float64(peak)

	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * gain)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		}
		if v < math.MinInt16 {
			v = math.MinInt16
		}
		out[i] = int16(v)
	}
	return out
}
