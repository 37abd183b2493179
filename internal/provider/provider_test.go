package provider

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantworks/plantation-cli/internal/model"
	"github.com/verdantworks/plantation-cli/internal/raster"
)

func TestRandomProvider_Ranges(t *testing.T) {
	p := NewRandom(rand.New(rand.NewSource(3)))

	for i := 0; i < 200; i++ {
		f, err := p.Factors(context.Background(), model.Coordinate{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, f.Vegetation, 0.4)
		assert.LessOrEqual(t, f.Vegetation, 0.9)
		assert.GreaterOrEqual(t, f.Water, 0.3)
		assert.LessOrEqual(t, f.Water, 0.8)
		assert.GreaterOrEqual(t, f.Soil, 0.4)
		assert.LessOrEqual(t, f.Soil, 0.9)
	}
}

func TestRandomProvider_SeededDeterminism(t *testing.T) {
	a := NewRandom(rand.New(rand.NewSource(11)))
	b := NewRandom(rand.New(rand.NewSource(11)))

	fa, err := a.Factors(context.Background(), model.Coordinate{})
	require.NoError(t, err)
	fb, err := b.Factors(context.Background(), model.Coordinate{})
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestRasterProvider_VegetationFromScore(t *testing.T) {
	g := raster.New(10, 10)
	for i := range g.Values {
		g.Values[i] = 60
	}

	center := model.Coordinate{Lat: 5, Lon: 5}
	p := NewRaster(g, center, 0.01, rand.New(rand.NewSource(1)))

	f, err := p.Factors(context.Background(), center)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, f.Vegetation, 1e-9)
	assert.GreaterOrEqual(t, f.Water, 0.4)
	assert.LessOrEqual(t, f.Water, 0.8)
	assert.GreaterOrEqual(t, f.Soil, 0.5)
	assert.LessOrEqual(t, f.Soil, 0.9)
}

func TestRasterProvider_VegetationClamped(t *testing.T) {
	g := raster.New(4, 4)
	for i := range g.Values {
		g.Values[i] = 250 // out-of-contract score, vegetation still capped at 1
	}

	p := NewRaster(g, model.Coordinate{}, 0.01, rand.New(rand.NewSource(1)))
	f, err := p.Factors(context.Background(), model.Coordinate{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.Vegetation)
}

func TestRasterProvider_InvalidGrid(t *testing.T) {
	bad := &raster.Grid{Width: 3, Height: 3, Values: []float64{1}}
	p := NewRaster(bad, model.Coordinate{}, 0.01, nil)

	_, err := p.Factors(context.Background(), model.Coordinate{})
	require.Error(t, err)
	assert.ErrorIs(t, err, raster.ErrInvalidGrid)
}

func TestRasterProvider_EdgeCoordinateClamped(t *testing.T) {
	g := raster.New(10, 10)
	g.Set(9, 9, 100)

	center := model.Coordinate{}
	p := NewRaster(g, center, 0.01, rand.New(rand.NewSource(1)))

	// Far outside the footprint still resolves to the nearest edge pixel.
	f, err := p.Factors(context.Background(), model.Coordinate{Lat: 1, Lon: 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.Vegetation)
}
