package audio

import (
	"fmt"
	"time"
)

// DefaultSampleRate matches the rate used by common audio analysis tooling
const DefaultSampleRate = 22050

// Waveform is a mono sample buffer with values in [-1, 1]
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the length of the waveform
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(w.Samples)) / float64(w.SampleRate) * float64(time.Second))
}

// Empty returns true if the waveform holds no samples
func (w *Waveform) Empty() bool {
	return w == nil || len(w.Samples) == 0
}

// Downmix averages interleaved multi-channel samples into a mono buffer
func Downmix(interleaved []float64, channels int) ([]float64, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if channels == 1 {
		return interleaved, nil
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono, nil
}

// Resample converts the waveform to targetRate using linear interpolation.
// A targetRate of 0 or equal to the current rate returns the waveform unchanged.
func (w *Waveform) Resample(targetRate int) *Waveform {
	if targetRate <= 0 || targetRate == w.SampleRate || len(w.Samples) == 0 {
		return w
	}

	ratio := float64(w.SampleRate) / float64(targetRate)
	n := (len(w.Samples)*targetRate + w.SampleRate - 1) / w.SampleRate
	out := make([]float64, n)
	last := len(w.Samples) - 1
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			out[i] = w.Samples[last]
			continue
		}
		frac := pos - float64(j)
		out[i] = w.Samples[j]*(1-frac) + w.Samples[j+1]*frac
	}

	return &Waveform{Samples: out, SampleRate: targetRate}
}
