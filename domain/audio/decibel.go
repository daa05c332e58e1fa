package audio

import "math"

// Decibel scaling defaults
const (
	DefaultAmin  = 1e-5
	DefaultTopDB = 80.0
)

// ToDecibels converts magnitudes to decibels referenced to the loudest cell.
// Values below -topDB are clipped; topDB <= 0 disables clipping.
func (s *Spectrogram) ToDecibels(amin, topDB float64) *Spectrogram {
	if amin <= 0 {
		amin = DefaultAmin
	}

	ref := amin
	for _, row := range s.Values {
		for _, v := range row {
			if v > ref {
				ref = v
			}
		}
	}
	refDB := 20 * math.Log10(ref)

	out := &Spectrogram{
		Values:     make([][]float64, len(s.Values)),
		Times:      append([]float64(nil), s.Times...),
		SampleRate: s.SampleRate,
		NFFT:       s.NFFT,
	}
	for f, row := range s.Values {
		db := make([]float64, len(row))
		for i, v := range row {
			db[i] = 20*math.Log10(math.Max(amin, v)) - refDB
			if topDB > 0 && db[i] < -topDB {
				db[i] = -topDB
			}
		}
		out.Values[f] = db
	}
	return out
}

// Pool reduces the number of time frames to at most maxFrames by taking the
// per-bin maximum over consecutive groups of frames. Times become group means.
func (s *Spectrogram) Pool(maxFrames int) *Spectrogram {
	if maxFrames <= 0 || s.Frames() <= maxFrames {
		return s
	}

	group := (s.Frames() + maxFrames - 1) / maxFrames
	n := (s.Frames() + group - 1) / group
	out := &Spectrogram{
		Values:     make([][]float64, n),
		Times:      make([]float64, n),
		SampleRate: s.SampleRate,
		NFFT:       s.NFFT,
	}

	for g := 0; g < n; g++ {
		lo := g * group
		hi := min(lo+group, s.Frames())

		row := append([]float64(nil), s.Values[lo]...)
		var t float64
		for f := lo; f < hi; f++ {
			for i, v := range s.Values[f] {
				if v > row[i] {
					row[i] = v
				}
			}
			t += s.Times[f]
		}
		out.Values[g] = row
		out.Times[g] = t / float64(hi-lo)
	}
	return out
}
