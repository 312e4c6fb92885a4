package spectrum

import "math"

// Frequency is the finite-depth dispersion relation ω(k).
func Frequency(k, g, depth float64) float64 {
	return math.Sqrt(g * k * math.Tanh(math.Min(k*depth, 20)))
}

// FrequencyDerivative returns dω/dk.
func FrequencyDerivative(k, g, depth float64) float64 {
	th := math.Tanh(math.Min(k*depth, 20))
	ch := math.Cosh(k * depth)
	return g * (depth*k/ch/ch + th) / Frequency(k, g, depth) / 2
}

// TMACorrection attenuates the spectrum in shallow water.
func TMACorrection(omega, g, depth float64) float64 {
	omegaH := omega * math.Sqrt(depth/g)
	if omegaH <= 1 {
		return 0.5 * omegaH * omegaH
	}
	if omegaH < 2 {
		return 1 - 0.5*(2-omegaH)*(2-omegaH)
	}
	return 1
}

// JONSWAP is the one-dimensional energy spectrum S(ω) with TMA correction.
func JONSWAP(omega, g, depth float64, p Parameters) float64 {
	sigma := 0.09
	if omega <= p.PeakOmega {
		sigma = 0.07
	}
	d := omega - p.PeakOmega
	r := math.Exp(-d * d / 2 / sigma / sigma / p.PeakOmega / p.PeakOmega)
	inv := 1 / omega
	peakOverOmega := p.PeakOmega / omega
	return p.Scale * TMACorrection(omega, g, depth) * p.Alpha * g * g *
		math.Pow(inv, 5) * math.Exp(-1.25*math.Pow(peakOverOmega, 4)) *
		math.Pow(math.Abs(p.Gamma), r)
}

// spreadPower is the cos-2s exponent as a function of ω/ωp.
func spreadPower(omega, peakOmega float64) float64 {
	ratio := math.Abs(omega / peakOmega)
	if omega > peakOmega {
		return 9.77 * math.Pow(ratio, -2.5)
	}
	return 6.97 * math.Pow(ratio, 5)
}

// normalisationFactor makes the cos-2s spreading integrate to one over θ.
func normalisationFactor(s float64) float64 {
	s2 := s * s
	s3 := s2 * s
	s4 := s3 * s
	if s < 5 {
		return -0.000564*s4 + 0.00776*s3 - 0.044*s2 + 0.192*s + 0.163
	}
	return -4.80e-08*s4 + 1.07e-05*s3 - 9.53e-04*s2 + 5.90e-02*s + 3.93e-01
}

func cosine2s(theta, s float64) float64 {
	return normalisationFactor(s) * math.Pow(math.Abs(math.Cos(0.5*theta)), 2*s)
}

// DirectionalSpread returns D(θ, ω) for a wave travelling at angle theta.
func DirectionalSpread(theta, omega float64, p Parameters) float64 {
	s := spreadPower(omega, p.PeakOmega) +
		16*math.Tanh(math.Min(omega/p.PeakOmega, 20))*p.Swell*p.Swell
	rel := theta - p.Angle
	base := 2 / math.Pi * math.Cos(rel) * math.Cos(rel)
	return base + (cosine2s(rel, s)-base)*p.SpreadBlend
}

// ShortWavesFade suppresses wave numbers above 1/fade.
func ShortWavesFade(k float64, p Parameters) float64 {
	return math.Exp(-p.ShortWavesFade * p.ShortWavesFade * k * k)
}

// Density is the blended directional spectrum at wave vector (kx, kz).
// Systems with zero weight or zero scale contribute nothing.
func Density(kx, kz float64, c Constants, params [2]Parameters) float64 {
	k := math.Hypot(kx, kz)
	if k == 0 {
		return 0
	}
	omega := Frequency(k, c.G, c.Depth)
	theta := math.Atan2(kz, kx)
	weights := c.Weights()

	s := 0.0
	for i, p := range params {
		if weights[i] == 0 || p.Scale == 0 {
			continue
		}
		s += weights[i] * JONSWAP(omega, c.G, c.Depth, p) *
			DirectionalSpread(theta, omega, p) * ShortWavesFade(k, p)
	}
	return s
}
