// Package fft provides the 2D complex transforms that take evolved spectra
// back to the spatial domain.
//
// Three interchangeable backends implement [Transformer]:
//
//   - butterfly: precomputed bit-reversal + twiddle network (default)
//   - dsp: github.com/mjibson/go-dsp/fft
//   - gonum: gonum.org/v1/gonum/dsp/fourier
//
// All backends use the unnormalized inverse x[n] = Σ X[k]·e^{+2πi·kn/N} and
// the matching unnormalized forward transform, operate in place, and are safe
// for concurrent use by several cascades of the same resolution.
package fft
