package services

import (
	"canteen-pos/models"
	"canteen-pos/repositories"
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	CatalogModeCombined    = "combined"
	CatalogModePerCategory = "per-category"
)

type CatalogService struct {
	state  *State
	ledger Ledger
	cache  repositories.CatalogCache
	mode   string
	ttl    time.Duration
	logger *log.Logger
	now    func() time.Time
	sfg    singleflight.Group
}

func NewCatalogService(state *State, ledger Ledger, cache repositories.CatalogCache, mode string, ttl time.Duration, logger *log.Logger) *CatalogService {
	if mode != CatalogModePerCategory {
		mode = CatalogModeCombined
	}
	return &CatalogService{
		state:  state,
		ledger: ledger,
		cache:  cache,
		mode:   mode,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Load loads the catalog of the session's branch into the terminal state.
// On failure the in-memory catalog is left empty.
func (s *CatalogService) Load(ctx context.Context, refresh bool) (*models.CatalogSnapshot, error) {
	s.state.mu.Lock()
	session, err := s.state.requireSessionLocked()
	if err != nil {
		s.state.mu.Unlock()
		return nil, err
	}
	sessionID, branchID := session.ID, session.BranchID
	s.state.mu.Unlock()

	snapshot, loadErr := s.LoadBranch(ctx, branchID, refresh)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	// The session ended or changed while the fetch was in flight.
	if s.state.session == nil || s.state.session.ID != sessionID {
		return nil, models.NewError(models.ErrValidation, "session changed while loading the catalog")
	}
	if loadErr != nil {
		s.state.catalog = nil
		return nil, loadErr
	}
	s.state.catalog = snapshot
	return snapshot, nil
}

// LoadBranch returns the cached snapshot for branchID when it is younger than
// the TTL, and otherwise fetches, caches and returns a fresh one.
func (s *CatalogService) LoadBranch(ctx context.Context, branchID int64, refresh bool) (*models.CatalogSnapshot, error) {
	if !refresh {
		if cached := s.readCache(ctx, branchID); cached.Fresh(s.now(), s.ttl) {
			return cached, nil
		}
	}

	v, err, _ := s.sfg.Do(strconv.FormatInt(branchID, 10), func() (interface{}, error) {
		categories, err := s.fetch(ctx, branchID)
		if err != nil {
			return nil, err
		}
		snapshot := models.NewCatalogSnapshot(branchID, categories, s.now())
		s.writeCache(ctx, snapshot)
		return snapshot, nil
	})
	if err != nil {
		s.logger.Printf("catalog load for branch %d failed: %v", branchID, err)
		return nil, err
	}
	return v.(*models.CatalogSnapshot), nil
}

func (s *CatalogService) fetch(ctx context.Context, branchID int64) ([]models.Category, error) {
	if s.mode == CatalogModeCombined {
		return s.ledger.BranchCatalog(ctx, branchID)
	}

	categories, err := s.ledger.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if strings.EqualFold(strings.TrimSpace(c.Name), "all") {
			continue
		}
		products, err := s.ledger.CategoryProducts(ctx, c.ID, branchID)
		if err != nil {
			return nil, err
		}
		c.Products = products
		out = append(out, c)
	}
	return out, nil
}

func (s *CatalogService) readCache(ctx context.Context, branchID int64) *models.CatalogSnapshot {
	snapshot, err := s.cache.Get(ctx, branchID)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Printf("could not read catalog cache for branch %d: %v", branchID, models.WrapError(models.ErrPersistence, "cache read", err))
		}
		return nil
	}
	return snapshot
}

func (s *CatalogService) writeCache(ctx context.Context, snapshot *models.CatalogSnapshot) {
	if err := s.cache.Set(ctx, snapshot); err != nil {
		s.logger.Printf("could not write catalog cache for branch %d: %v", snapshot.BranchID, models.WrapError(models.ErrPersistence, "cache write", err))
	}
}

// Snapshot returns the catalog currently loaded for the session, or nil.
func (s *CatalogService) Snapshot() *models.CatalogSnapshot {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.catalog
}

// Products lists loaded products sorted by name, limited to categoryID when
// it is non-zero.
func (s *CatalogService) Products(categoryID int64) ([]models.Product, error) {
	s.state.mu.Lock()
	if _, err := s.state.requireSessionLocked(); err != nil {
		s.state.mu.Unlock()
		return nil, err
	}
	catalog := s.state.catalog
	s.state.mu.Unlock()

	products := []models.Product{}
	if catalog == nil {
		return products, nil
	}
	for _, p := range catalog.Products {
		if categoryID == 0 || p.CategoryID == categoryID {
			products = append(products, p)
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}
