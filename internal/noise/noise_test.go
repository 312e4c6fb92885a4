package noise

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/monitoring"
)

func TestGenerateIsStandardNormal(t *testing.T) {
	f, err := Generate(128, 42)
	require.NoError(t, err)
	require.Len(t, f.Data, 128*128)

	var sum, sumSq float64
	for _, v := range f.Data {
		for _, x := range []float64{float64(real(v)), float64(imag(v))} {
			sum += x
			sumSq += x * x
		}
	}
	n := float64(2 * len(f.Data))
	mean := sum / n
	variance := sumSq/n - mean*mean

	assert.InDelta(t, 0, mean, 0.02)
	assert.InDelta(t, 1, variance, 0.03)
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(16, 7)
	require.NoError(t, err)
	b, err := Generate(16, 7)
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)

	c, err := Generate(16, 8)
	require.NoError(t, err)
	assert.NotEqual(t, a.Data, c.Data)
}

func TestGenerateRejectsNonPowerOfTwo(t *testing.T) {
	_, err := Generate(100, 1)
	assert.True(t, errors.Is(err, grid.ErrNotPowerOfTwo))
}

func TestEncodeDecode(t *testing.T) {
	f, err := Generate(8, 3)
	require.NoError(t, err)
	g, err := Decode(8, 3, f.Encode())
	require.NoError(t, err)
	assert.Equal(t, f.Data, g.Data)

	_, err = Decode(8, 3, f.Encode()[:10])
	assert.Error(t, err)
}

func TestSourceCachesBySize(t *testing.T) {
	src := NewSource(1, nil)
	ctx := context.Background()

	a, err := src.Get(ctx, 32)
	require.NoError(t, err)
	b, err := src.Get(ctx, 32)
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := src.Get(ctx, 64)
	require.NoError(t, err)
	assert.Equal(t, 64, c.Size)
	assert.ElementsMatch(t, []int{32, 64}, src.Cached())
}

func TestSourceConcurrentGet(t *testing.T) {
	src := NewSource(1, nil)
	var wg sync.WaitGroup
	results := make([]*Field, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := src.Get(context.Background(), 64)
			assert.NoError(t, err)
			results[i] = f
		}(i)
	}
	wg.Wait()
	for _, f := range results {
		assert.Same(t, results[0], f)
	}
}

func TestSourcePrefersStore(t *testing.T) {
	store := NewMemoryStore()
	stored, err := Generate(16, 999)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), Name(16), stored))

	f, err := NewSource(1, store).Get(context.Background(), 16)
	require.NoError(t, err)
	assert.Equal(t, int64(999), f.Seed)
}

func TestSourcePersistsOnMiss(t *testing.T) {
	store := NewMemoryStore()
	f, err := NewSource(5, store).Get(context.Background(), 16)
	require.NoError(t, err)

	saved, err := store.Load(context.Background(), Name(16), 16)
	require.NoError(t, err)
	assert.Equal(t, f.Data, saved.Data)
}

type failingStore struct{}

func (failingStore) Load(context.Context, string, int) (*Field, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) Save(context.Context, string, *Field) error {
	return errors.New("disk on fire")
}

func TestSourceToleratesStoreErrors(t *testing.T) {
	monitoring.SetLogger(nil)
	defer monitoring.SetLogger(nil)

	f, err := NewSource(5, failingStore{}).Get(context.Background(), 16)
	require.NoError(t, err)
	assert.Equal(t, DeriveSeed(5, 16), f.Seed)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	monitoring.SetLogger(nil)
	path := filepath.Join(t.TempDir(), "noise.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = store.Load(ctx, Name(16), 16)
	assert.ErrorIs(t, err, ErrNotFound)

	f, err := Generate(16, 11)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, Name(16), f))
	require.NoError(t, store.Save(ctx, Name(16), f))

	got, err := store.Load(ctx, Name(16), 16)
	require.NoError(t, err)
	assert.Equal(t, f.Data, got.Data)
	assert.Equal(t, int64(11), got.Seed)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "GaussianNoiseTexture16x16", entries[0].Name)
}

func TestSQLiteStoreReopen(t *testing.T) {
	monitoring.SetLogger(nil)
	path := filepath.Join(t.TempDir(), "noise.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	f, err := Generate(8, 2)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), Name(8), f))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.Load(context.Background(), Name(8), 8)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(float64(real(got.Data[0]))))
	assert.Equal(t, f.Data, got.Data)
}
