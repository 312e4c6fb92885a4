// Package spectrum turns wind and fetch settings into an evolving
// frequency-domain ocean surface.
//
// The pipeline is:
//
//   - [Derive]: display settings → physical JONSWAP/Wendt coefficients
//   - [Generate]: noise + coefficients + band → initial spectrum h0(k)
//   - [Evolve]: h0(k) + time → packed displacement and derivative spectra
//
// # Spectral Model
//
// The energy spectrum is JONSWAP with a TMA finite-depth correction, blended
// between a cos² base spreading and a normalized cos-2s spreading whose power
// widens with swell. Short waves are faded by exp(-fade²·k²). Two wave
// systems (local wind sea and swell) are blended by Constants.Lambda.
//
// # Packing
//
// Each [Evolved] grid carries two real fields: A + i·B. Because both A and B
// have Hermitian spectra, one inverse FFT yields A in the real part and B in
// the imaginary part.
package spectrum
