package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-tracker/internal/catalog"
	"book-tracker/internal/config"
)

func TestNewSearcher(t *testing.T) {
	ctx := context.Background()

	s, err := NewSearcher(ctx, &config.Config{CatalogProvider: config.CatalogOpenLibrary, UserAgent: "test"})
	require.NoError(t, err)
	assert.IsType(t, &catalog.OpenLibrary{}, s)

	s, err = NewSearcher(ctx, &config.Config{CatalogProvider: config.CatalogGoogle})
	require.NoError(t, err)
	assert.IsType(t, &catalog.GoogleBooks{}, s)

	_, err = NewSearcher(ctx, &config.Config{CatalogProvider: "amazon"})
	assert.Error(t, err)
}
