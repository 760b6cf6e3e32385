package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticEmbedderIsDeterministic(t *testing.T) {
	e := NewStaticEmbedder()
	v1, err := e.Embed(context.Background(), []string{"search web"})
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), []string{"search web"})
	require.NoError(t, err)
	require.Equal(t, v1, v2)
}

func TestStaticEmbedderReturnsOneVectorPerInput(t *testing.T) {
	e := NewStaticEmbedder()
	vectors, err := e.Embed(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, v := range vectors {
		require.Len(t, v, StaticDimensions)
	}
}

func TestStaticEmbedderEmptyTextIsZeroVector(t *testing.T) {
	e := NewStaticEmbedder()
	vectors, err := e.Embed(context.Background(), []string{"   "})
	require.NoError(t, err)
	for _, f := range vectors[0] {
		require.Zero(t, f)
	}
}

func TestStaticEmbedderDifferentTextsDiffer(t *testing.T) {
	e := NewStaticEmbedder()
	vectors, err := e.Embed(context.Background(), []string{"get_forecast", "web_search"})
	require.NoError(t, err)
	require.NotEqual(t, vectors[0], vectors[1])
}

func TestStaticEmbedderDimensionsAndModelName(t *testing.T) {
	e := NewStaticEmbedder()
	require.Equal(t, StaticDimensions, e.Dimensions())
	require.Equal(t, "static", e.ModelName())
}
