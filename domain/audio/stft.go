package audio

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// STFT defaults
const (
	DefaultNFFT      = 2048
	DefaultHopLength = 512
)

// STFTConfig holds the window/hop configuration of the transform
type STFTConfig struct {
	NFFT      int
	HopLength int
}

// DefaultSTFTConfig returns the fixed configuration used for spectrograms
func DefaultSTFTConfig() STFTConfig {
	return STFTConfig{NFFT: DefaultNFFT, HopLength: DefaultHopLength}
}

// Validate checks the configuration is usable
func (c STFTConfig) Validate() error {
	if c.NFFT < 4 || c.NFFT%2 != 0 {
		return fmt.Errorf("n_fft must be an even number >= 4, got %d", c.NFFT)
	}
	if c.HopLength <= 0 {
		return fmt.Errorf("hop length must be positive, got %d", c.HopLength)
	}
	return nil
}

// Spectrogram is a time-frequency matrix indexed [frame][bin]
type Spectrogram struct {
	// Values holds magnitudes (or decibels after ToDecibels)
	Values [][]float64

	// Times holds the center time in seconds of each frame
	Times []float64

	SampleRate int
	NFFT       int
}

// Frames returns the number of time frames
func (s *Spectrogram) Frames() int {
	return len(s.Values)
}

// Bins returns the number of frequency bins per frame
func (s *Spectrogram) Bins() int {
	if len(s.Values) == 0 {
		return 0
	}
	return len(s.Values[0])
}

// Frequency returns the center frequency in Hz of a bin
func (s *Spectrogram) Frequency(bin int) float64 {
	return float64(bin) * float64(s.SampleRate) / float64(s.NFFT)
}

// Compute runs a centered short-time Fourier transform over the waveform.
// Frames use a periodic Hann window and the signal is zero padded by NFFT/2
// on both sides, giving 1 + len/hop frames of NFFT/2+1 magnitude bins.
func Compute(w *Waveform, cfg STFTConfig) (*Spectrogram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w.Empty() {
		return nil, fmt.Errorf("cannot transform empty waveform")
	}

	pad := cfg.NFFT / 2
	padded := make([]float64, len(w.Samples)+2*pad)
	copy(padded[pad:], w.Samples)

	frames := 1 + len(w.Samples)/cfg.HopLength
	win := periodicHann(cfg.NFFT)
	fft := fourier.NewFFT(cfg.NFFT)

	seq := make([]float64, cfg.NFFT)
	coeffs := make([]complex128, cfg.NFFT/2+1)
	spec := &Spectrogram{
		Values:     make([][]float64, frames),
		Times:      make([]float64, frames),
		SampleRate: w.SampleRate,
		NFFT:       cfg.NFFT,
	}

	for f := 0; f < frames; f++ {
		start := f * cfg.HopLength
		for i := range seq {
			seq[i] = padded[start+i] * win[i]
		}
		coeffs = fft.Coefficients(coeffs, seq)

		row := make([]float64, len(coeffs))
		for i, c := range coeffs {
			row[i] = cmplx.Abs(c)
		}
		spec.Values[f] = row
		spec.Times[f] = float64(start) / float64(w.SampleRate)
	}

	return spec, nil
}

// periodicHann returns the periodic (DFT-even) Hann window of length n
func periodicHann(n int) []float64 {
	w := make([]float64, n+1)
	for i := range w {
		w[i] = 1
	}
	return window.Hann(w)[:n]
}
