package services

import (
	"canteen-pos/models"
	"context"
	"log"
	"strings"
)

type CartService struct {
	state  *State
	ledger Ledger
	logger *log.Logger
}

func NewCartService(state *State, ledger Ledger, logger *log.Logger) *CartService {
	return &CartService{state: state, ledger: ledger, logger: logger}
}

func (s *CartService) View() (models.CartView, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, err := s.state.requireSessionLocked(); err != nil {
		return models.CartView{}, err
	}
	return s.state.cart.View(), nil
}

// AddItem adds one unit of a product from the loaded catalog.
func (s *CartService) AddItem(productID int64) (models.CartView, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if err := s.state.requireCartEditableLocked(); err != nil {
		return models.CartView{}, err
	}
	product, ok := s.state.catalog.FindProduct(productID)
	if !ok {
		return models.CartView{}, models.NewError(models.ErrNotFound, "product not found in catalog")
	}
	if err := s.state.cart.AddItem(product); err != nil {
		return models.CartView{}, err
	}
	return s.state.cart.View(), nil
}

// AddByBarcode resolves a scanned code against the loaded catalog first and
// falls back to the ledger's barcode lookup.
func (s *CartService) AddByBarcode(ctx context.Context, code string) (models.Product, models.CartView, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Product{}, models.CartView{}, models.NewError(models.ErrValidation, "barcode is required")
	}

	s.state.mu.Lock()
	if err := s.state.requireCartEditableLocked(); err != nil {
		s.state.mu.Unlock()
		return models.Product{}, models.CartView{}, err
	}
	product, ok := s.state.catalog.FindByBarcode(code)
	s.state.mu.Unlock()

	if !ok {
		var err error
		product, err = s.ledger.ProductByBarcode(ctx, code)
		if err != nil {
			s.logger.Printf("barcode %s lookup failed: %v", code, err)
			return models.Product{}, models.CartView{}, err
		}
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if err := s.state.requireCartEditableLocked(); err != nil {
		return models.Product{}, models.CartView{}, err
	}
	if err := s.state.cart.AddItem(product); err != nil {
		return models.Product{}, models.CartView{}, err
	}
	return product, s.state.cart.View(), nil
}

func (s *CartService) IncrementItem(productID int64) (models.CartView, error) {
	return s.mutate(func(c *models.Cart) { c.IncrementItem(productID) })
}

func (s *CartService) DecrementItem(productID int64) (models.CartView, error) {
	return s.mutate(func(c *models.Cart) { c.DecrementItem(productID) })
}

func (s *CartService) RemoveItem(productID int64) (models.CartView, error) {
	return s.mutate(func(c *models.Cart) { c.RemoveItem(productID) })
}

func (s *CartService) Clear() (models.CartView, error) {
	return s.mutate(func(c *models.Cart) { c.Clear() })
}

func (s *CartService) mutate(fn func(c *models.Cart)) (models.CartView, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if err := s.state.requireCartEditableLocked(); err != nil {
		return models.CartView{}, err
	}
	fn(s.state.cart)
	return s.state.cart.View(), nil
}
