// Package analysis provides spectral and parameter-sweep tools for buoy
// series and wave settings.
//
//   - [PowerSpectrum]: one-sided power spectrum of a height series
//   - [PeakPeriod]: period of the dominant spectral line
//   - [Sweep]: measure a quantity across a range of one wave parameter
//
// # Peak Period
//
// A buoy in a fully developed sea should oscillate near the spectral peak:
//
//	period, err := analysis.PeakPeriod(result.Buoys[0], cfg.Dt)
//	expected := 2 * math.Pi / spectrum.Derive(settings.Local, settings.G).PeakOmega
package analysis
