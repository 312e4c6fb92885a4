// Package noise produces and caches the Gaussian seed fields shared by
// every cascade of a resolution.
package noise

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/wavesim/internal/grid"
)

// Field is a square grid of independent complex standard-normal samples.
// It is never mutated after creation.
type Field struct {
	Size int
	Seed int64
	Data []complex64
}

// Name is the store key for a field of the given size.
func Name(size int) string {
	return fmt.Sprintf("GaussianNoiseTexture%dx%d", size, size)
}

// DeriveSeed mixes the base seed with the resolution so each size gets its
// own deterministic stream.
func DeriveSeed(base int64, size int) int64 {
	return int64(uint64(base) ^ uint64(size)*0x9E3779B97F4A7C15)
}

// Generate synthesizes a size×size field with the Box-Muller transform.
func Generate(size int, seed int64) (*Field, error) {
	if err := grid.CheckSize(size); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	data := make([]complex64, size*size)
	for i := range data {
		re := normal(rng)
		im := normal(rng)
		data[i] = complex(float32(re), float32(im))
	}
	return &Field{Size: size, Seed: seed, Data: data}, nil
}

func normal(rng *rand.Rand) float64 {
	u1 := uniform(rng)
	u2 := uniform(rng)
	return math.Cos(2*math.Pi*u1) * math.Sqrt(-2*math.Log(u2))
}

// uniform draws from the open interval (0, 1).
func uniform(rng *rand.Rand) float64 {
	for {
		if u := rng.Float64(); u > 0 {
			return u
		}
	}
}

// Encode serializes the samples as little-endian float32 pairs.
func (f *Field) Encode() []byte {
	buf := make([]byte, len(f.Data)*8)
	for i, v := range f.Data {
		binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(real(v)))
		binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(imag(v)))
	}
	return buf
}

// Decode is the inverse of Encode.
func Decode(size int, seed int64, blob []byte) (*Field, error) {
	if err := grid.CheckSize(size); err != nil {
		return nil, err
	}
	if len(blob) != size*size*8 {
		return nil, fmt.Errorf("noise: blob has %d bytes, want %d for size %d", len(blob), size*size*8, size)
	}
	data := make([]complex64, size*size)
	for i := range data {
		re := math.Float32frombits(binary.LittleEndian.Uint32(blob[i*8:]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(blob[i*8+4:]))
		data[i] = complex(re, im)
	}
	return &Field{Size: size, Seed: seed, Data: data}, nil
}
