package services

import (
	"canteen-pos/models"
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger is the remote catalog and balance service.
type Ledger interface {
	StaffBranches(ctx context.Context, staffID, pin string) ([]models.Branch, error)
	BranchCatalog(ctx context.Context, branchID int64) ([]models.Category, error)
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryProducts(ctx context.Context, categoryID, branchID int64) ([]models.Product, error)
	StudentBalance(ctx context.Context, cardID string) (decimal.Decimal, error)
	ProductByBarcode(ctx context.Context, code string) (models.Product, error)
	PostTransaction(ctx context.Context, posting models.LedgerPosting) error
}

// State is the terminal's application state. Every service holds the same
// *State and mutates it only under mu; no network call is made while mu is held.
type State struct {
	mu       sync.Mutex
	session  *models.Session
	pending  *models.PendingLogin
	cart     *models.Cart
	catalog  *models.CatalogSnapshot
	checkout *models.CheckoutAttempt
}

func NewState() *State {
	return &State{
		cart:     models.NewCart(),
		checkout: &models.CheckoutAttempt{State: models.CheckoutIdle},
	}
}

var errNoSession = models.NewError(models.ErrAuthentication, "no active session, please log in")

func (s *State) requireSessionLocked() (*models.Session, error) {
	if s.session == nil {
		if s.pending != nil {
			return nil, models.NewError(models.ErrValidation, "please select a branch")
		}
		return nil, errNoSession
	}
	return s.session, nil
}

// requireCartEditableLocked guards cart mutations.
func (s *State) requireCartEditableLocked() error {
	if _, err := s.requireSessionLocked(); err != nil {
		return err
	}
	if s.checkout.InProgress() {
		return models.NewError(models.ErrValidation, "checkout in progress")
	}
	return nil
}

// resetLocked drops everything tied to the current session.
func (s *State) resetLocked() {
	s.session = nil
	s.pending = nil
	s.cart.Clear()
	s.catalog = nil
	s.checkout = &models.CheckoutAttempt{State: models.CheckoutIdle}
}
