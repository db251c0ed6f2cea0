package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"category_id"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image,omitempty"`
	Barcodes    []string        `json:"barcodes,omitempty"`
}

// CatalogSnapshot is the full catalog of one branch as captured at CapturedAt.
type CatalogSnapshot struct {
	BranchID   int64      `json:"branch_id"`
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
	CapturedAt time.Time  `json:"captured_at"`
}

// NewCatalogSnapshot flattens the products of every category into Products,
// keeping the first occurrence of a product listed under several categories.
func NewCatalogSnapshot(branchID int64, categories []Category, capturedAt time.Time) *CatalogSnapshot {
	if categories == nil {
		categories = []Category{}
	}
	products := []Product{}
	seen := make(map[int64]bool)
	for _, c := range categories {
		for _, p := range c.Products {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			products = append(products, p)
		}
	}
	return &CatalogSnapshot{
		BranchID:   branchID,
		Categories: categories,
		Products:   products,
		CapturedAt: capturedAt,
	}
}

func (s *CatalogSnapshot) FindProduct(id int64) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s *CatalogSnapshot) FindByBarcode(code string) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	for _, p := range s.Products {
		for _, b := range p.Barcodes {
			if b == code {
				return p, true
			}
		}
	}
	return Product{}, false
}

// Fresh reports whether the snapshot is younger than ttl at now.
func (s *CatalogSnapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return s != nil && now.Sub(s.CapturedAt) < ttl
}
