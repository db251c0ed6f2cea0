package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogSnapshot_DeduplicatesProducts(t *testing.T) {
	crisps := Product{ID: 3, Name: "Crisps", Price: decimal.NewFromInt(1), Barcodes: []string{"5000"}}
	categories := []Category{
		{ID: 0, Name: "All", Products: []Product{crisps, {ID: 4, Name: "Apple", Price: decimal.NewFromInt(1)}}},
		{ID: 7, Name: "Snacks", Products: []Product{crisps}},
	}

	snap := NewCatalogSnapshot(12, categories, time.Unix(0, 0))

	require.Len(t, snap.Products, 2)
	assert.Len(t, snap.Categories, 2)
	assert.Equal(t, int64(12), snap.BranchID)

	p, ok := snap.FindByBarcode("5000")
	require.True(t, ok)
	assert.Equal(t, "Crisps", p.Name)

	_, ok = snap.FindProduct(99)
	assert.False(t, ok)
}

func TestCatalogSnapshot_Fresh(t *testing.T) {
	captured := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	snap := NewCatalogSnapshot(1, nil, captured)

	assert.True(t, snap.Fresh(captured.Add(4*time.Minute), 5*time.Minute))
	assert.False(t, snap.Fresh(captured.Add(5*time.Minute), 5*time.Minute))
	assert.False(t, snap.Fresh(captured.Add(6*time.Minute), 5*time.Minute))

	var missing *CatalogSnapshot
	assert.False(t, missing.Fresh(captured, time.Hour))
	_, ok := missing.FindProduct(1)
	assert.False(t, ok)
}
