package grid

import (
	"fmt"
	"math"
	"math/bits"
)

// Complex is a square row-major grid of complex samples. Data[y*Size+x].
type Complex struct {
	Size int
	Data []complex128
}

func NewComplex(size int) Complex {
	return Complex{Size: size, Data: make([]complex128, size*size)}
}

func (g Complex) At(x, y int) complex128 { return g.Data[y*g.Size+x] }

func (g Complex) Set(x, y int, v complex128) { g.Data[y*g.Size+x] = v }

func (g Complex) Row(y int) []complex128 { return g.Data[y*g.Size : (y+1)*g.Size] }

func (g Complex) Clone() Complex {
	c := Complex{Size: g.Size, Data: make([]complex128, len(g.Data))}
	copy(c.Data, g.Data)
	return c
}

func (g Complex) Zero() {
	for i := range g.Data {
		g.Data[i] = 0
	}
}

// Real returns the real part of every sample.
func (g Complex) Real() []float64 {
	out := make([]float64, len(g.Data))
	for i, v := range g.Data {
		out[i] = real(v)
	}
	return out
}

// MaxImag returns the largest absolute imaginary component.
func (g Complex) MaxImag() float64 {
	m := 0.0
	for _, v := range g.Data {
		if a := math.Abs(imag(v)); a > m {
			m = a
		}
	}
	return m
}

// IsHermitian reports whether g[-k] == conj(g[k]) for every cell within tol.
func (g Complex) IsHermitian(tol float64) bool {
	n := g.Size
	for y := 0; y < n; y++ {
		my := Mirror(y, n)
		for x := 0; x < n; x++ {
			a := g.At(x, y)
			b := g.At(Mirror(x, n), my)
			if math.Abs(real(a)-real(b)) > tol || math.Abs(imag(a)+imag(b)) > tol {
				return false
			}
		}
	}
	return true
}

func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns log2(n) for a power of two n.
func Log2(n int) int {
	return bits.Len(uint(n)) - 1
}

// CheckSize validates a grid resolution.
func CheckSize(n int) error {
	if n < 2 || !IsPowerOfTwo(n) {
		return fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, n)
	}
	return nil
}

// FrequencyIndex maps an FFT-order index to its signed wave number.
func FrequencyIndex(i, n int) int {
	if i < n/2 {
		return i
	}
	return i - n
}

// Mirror returns the index of the -k partner of index i.
func Mirror(i, n int) int {
	return (n - i) % n
}

// IsNyquist reports whether index i is the unmatched n = -N/2 line.
func IsNyquist(i, n int) bool {
	return i == n/2
}
