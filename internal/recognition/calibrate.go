package recognition

import (
	"math"
	"time"
)

// noiseFloor estimates ambient noise as the RMS amplitude of the leading
// window of samples. Dictations open with a moment of room tone before
// speech, so the first half second approximates the noise level of the
// whole segment. Short segments use whatever audio they have.
func noiseFloor(samples []int16, sampleRate int, window time.Duration) int {
	n := int(window.Milliseconds()) * sampleRate / 1000
	if n > len(samples) {
		n = len(samples)
	}
	if n <= 0 {
		return 0
	}

	var sum float64
	for _, s := range samples[:n] {
		v := float64(s)
		sum += v * v
	}
	return int(math.Sqrt(sum / float64(n)))
}
