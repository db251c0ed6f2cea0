package services

import (
	"canteen-pos/models"
	"canteen-pos/repositories"
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	mu sync.Mutex

	branches    []models.Branch
	branchesErr error
	catalog     []models.Category
	catalogErr  error
	categories  []models.Category
	products    map[int64][]models.Product
	balances    map[string]decimal.Decimal
	barcodes    map[string]models.Product
	postErr     error

	catalogCalls int
	productCalls int
	balanceCalls int
	barcodeCalls int
	postings     []models.LedgerPosting
}

func (f *fakeLedger) StaffBranches(_ context.Context, staffID, pin string) ([]models.Branch, error) {
	if f.branchesErr != nil {
		return nil, f.branchesErr
	}
	return f.branches, nil
}

func (f *fakeLedger) BranchCatalog(_ context.Context, branchID int64) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls++
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeLedger) Categories(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls++
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.categories, nil
}

func (f *fakeLedger) CategoryProducts(_ context.Context, categoryID, branchID int64) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productCalls++
	return f.products[categoryID], nil
}

func (f *fakeLedger) StudentBalance(_ context.Context, cardID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls++
	balance, ok := f.balances[cardID]
	if !ok {
		return decimal.Zero, models.NewError(models.ErrNotFound, "no student associated with that card")
	}
	return balance, nil
}

func (f *fakeLedger) ProductByBarcode(_ context.Context, code string) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.barcodeCalls++
	p, ok := f.barcodes[code]
	if !ok {
		return models.Product{}, models.NewError(models.ErrNotFound, "no product found for barcode "+code)
	}
	return p, nil
}

func (f *fakeLedger) PostTransaction(_ context.Context, posting models.LedgerPosting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return f.postErr
	}
	f.postings = append(f.postings, posting)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(session models.Session) (string, error) {
	return "token-" + session.ID, nil
}

type failingCache struct{}

func (failingCache) Get(context.Context, int64) (*models.CatalogSnapshot, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) Set(context.Context, *models.CatalogSnapshot) error {
	return errors.New("connection refused")
}

var (
	sandwich = models.Product{ID: 1, Name: "Sandwich", Price: decimal.RequireFromString("5.00"), CategoryID: 3}
	juice    = models.Product{ID: 2, Name: "Juice", Price: decimal.RequireFromString("2.50"), CategoryID: 4, Barcodes: []string{"111"}}
	water    = models.Product{ID: 5, Name: "Water", Price: decimal.Zero, CategoryID: 4}
)

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		branches: []models.Branch{{ID: 12, Name: "North"}},
		catalog: []models.Category{
			{ID: 0, Name: "All", Products: []models.Product{sandwich, juice, water}},
			{ID: 3, Name: "Food", Products: []models.Product{sandwich}},
			{ID: 4, Name: "Drinks", Products: []models.Product{juice, water}},
		},
		balances: map[string]decimal.Decimal{"CARD-1": decimal.RequireFromString("20.00")},
		barcodes: map[string]models.Product{},
	}
}

type terminal struct {
	ledger   *fakeLedger
	cache    *repositories.MemoryCatalogCache
	history  *HistoryService
	sessions *SessionService
	catalog  *CatalogService
	cart     *CartService
	checkout *CheckoutService
	clock    *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTerminal(t *testing.T, ledger *fakeLedger) *terminal {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	clock := &fakeClock{now: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)}

	state := NewState()
	cache := repositories.NewMemoryCatalogCache()
	history := NewHistoryService(nil, logger)
	history.now = clock.Now

	tm := &terminal{
		ledger:   ledger,
		cache:    cache,
		history:  history,
		sessions: NewSessionService(state, ledger, fakeTokens{}, logger),
		catalog:  NewCatalogService(state, ledger, cache, CatalogModeCombined, 5*time.Minute, logger),
		cart:     NewCartService(state, ledger, logger),
		checkout: NewCheckoutService(state, ledger, history, CheckoutConfig{CashAccountID: "cashcashcash", Currency: "QR "}, logger),
		clock:    clock,
	}
	tm.sessions.now = clock.Now
	tm.catalog.now = clock.Now
	tm.checkout.now = clock.Now
	return tm
}

// loggedIn returns a terminal with an active session and a loaded catalog.
func loggedIn(t *testing.T) *terminal {
	t.Helper()
	tm := newTerminal(t, newFakeLedger())
	result, err := tm.sessions.Login(context.Background(), "42", "1234")
	require.NoError(t, err)
	require.Equal(t, models.LoginActive, result.Status)
	_, err = tm.catalog.Load(context.Background(), false)
	require.NoError(t, err)
	return tm
}

// fillCart adds Sandwich x2 and Juice x1, a total of 12.50.
func fillCart(t *testing.T, tm *terminal) {
	t.Helper()
	for _, id := range []int64{sandwich.ID, sandwich.ID, juice.ID} {
		_, err := tm.cart.AddItem(id)
		require.NoError(t, err)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
