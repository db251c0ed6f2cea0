package libs

import (
	"bytes"
	"canteen-pos/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// LedgerClient talks to the remote catalog and student ledger service.
type LedgerClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ledger responded %d", e.Code)
	}
	return fmt.Sprintf("ledger responded %d: %s", e.Code, e.Body)
}

func NewLedgerClient(baseURL string, timeout time.Duration) *LedgerClient {
	return NewLedgerClientWithHTTP(baseURL, &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

func NewLedgerClientWithHTTP(baseURL string, httpClient *http.Client) *LedgerClient {
	settings := gobreaker.Settings{
		Name:        "ledger",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
		// Client errors are answers, not outages.
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.Code < 500
			}
			return err == nil
		},
	}
	return &LedgerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

type remoteBranch struct {
	BranchID   int64  `json:"branchId"`
	BranchName string `json:"branchName"`
}

type remoteProduct struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	UnitPrice   decimal.NullDecimal `json:"unitPrice"`
	Price       decimal.NullDecimal `json:"price"`
	CategoryID  int64               `json:"categoryId"`
	Description *string             `json:"description"`
	ImageURL    *string             `json:"imageURL"`
	Barcodes    []string            `json:"barcodes"`
}

type remoteCategory struct {
	ID           int64           `json:"id"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Products     []remoteProduct `json:"products"`
}

func (p remoteProduct) normalize() models.Product {
	price := decimal.Zero
	if p.UnitPrice.Valid {
		price = p.UnitPrice.Decimal
	} else if p.Price.Valid {
		price = p.Price.Decimal
	}
	product := models.Product{
		ID:         p.ID,
		Name:       p.Name,
		Price:      price,
		CategoryID: p.CategoryID,
		Barcodes:   p.Barcodes,
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	if product.Barcodes == nil {
		product.Barcodes = []string{}
	}
	return product
}

func normalizeProducts(in []remoteProduct) []models.Product {
	out := make([]models.Product, 0, len(in))
	for _, p := range in {
		out = append(out, p.normalize())
	}
	return out
}

// StaffBranches authenticates a staff member and returns the branches they
// are assigned to.
func (c *LedgerClient) StaffBranches(ctx context.Context, staffID, pin string) ([]models.Branch, error) {
	query := url.Values{}
	query.Set("employeeId", staffID)
	query.Set("pin", pin)

	body, err := c.do(ctx, http.MethodGet, "/staff-branches", query, nil)
	if err != nil {
		return nil, classify(err, models.ErrAuthentication, "invalid credentials")
	}

	var remote []remoteBranch
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &remote); err != nil {
			return nil, models.WrapError(models.ErrNetwork, "unexpected staff-branches response", err)
		}
	}
	branches := make([]models.Branch, 0, len(remote))
	for _, b := range remote {
		branches = append(branches, models.Branch{ID: b.BranchID, Name: b.BranchName})
	}
	return branches, nil
}

// BranchCatalog fetches all categories of a branch with their products in one call.
func (c *LedgerClient) BranchCatalog(ctx context.Context, branchID int64) ([]models.Category, error) {
	body, err := c.do(ctx, http.MethodGet, "/branch-categories-products/"+strconv.FormatInt(branchID, 10), nil, nil)
	if err != nil {
		return nil, classify(err, models.ErrNetwork, "failed to fetch products for this branch")
	}

	var remote []remoteCategory
	if err := json.Unmarshal(body, &remote); err != nil {
		return nil, models.WrapError(models.ErrNetwork, "catalog response was not in the expected format", err)
	}
	categories := make([]models.Category, 0, len(remote))
	for _, rc := range remote {
		categories = append(categories, models.Category{
			ID:       rc.CategoryID,
			Name:     rc.CategoryName,
			Products: normalizeProducts(rc.Products),
		})
	}
	return categories, nil
}

// Categories lists categories without products.
func (c *LedgerClient) Categories(ctx context.Context) ([]models.Category, error) {
	body, err := c.do(ctx, http.MethodGet, "", nil, nil)
	if err != nil {
		return nil, classify(err, models.ErrNetwork, "failed to fetch categories")
	}

	var remote []remoteCategory
	if err := json.Unmarshal(body, &remote); err != nil {
		return nil, models.WrapError(models.ErrNetwork, "category response was not in the expected format", err)
	}
	categories := make([]models.Category, 0, len(remote))
	for _, rc := range remote {
		id := rc.ID
		if id == 0 {
			id = rc.CategoryID
		}
		categories = append(categories, models.Category{ID: id, Name: rc.CategoryName, Products: []models.Product{}})
	}
	return categories, nil
}

func (c *LedgerClient) CategoryProducts(ctx context.Context, categoryID, branchID int64) ([]models.Product, error) {
	query := url.Values{}
	query.Set("branchId", strconv.FormatInt(branchID, 10))

	body, err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(categoryID, 10), query, nil)
	if err != nil {
		return nil, classify(err, models.ErrNetwork, fmt.Sprintf("failed to fetch products of category %d", categoryID))
	}

	var remote []remoteProduct
	if err := json.Unmarshal(body, &remote); err != nil {
		return nil, models.WrapError(models.ErrNetwork, "product response was not in the expected format", err)
	}
	return normalizeProducts(remote), nil
}

func (c *LedgerClient) StudentBalance(ctx context.Context, cardID string) (decimal.Decimal, error) {
	body, err := c.do(ctx, http.MethodGet, "/student-balance/"+url.PathEscape(cardID), nil, nil)
	if err != nil {
		return decimal.Zero, classify(err, models.ErrNotFound, "no student associated with that card")
	}

	var balance decimal.Decimal
	if err := json.Unmarshal(body, &balance); err != nil {
		return decimal.Zero, models.WrapError(models.ErrNetwork, "unexpected balance response", err)
	}
	return balance, nil
}

func (c *LedgerClient) ProductByBarcode(ctx context.Context, code string) (models.Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/product-by-barcode/"+url.PathEscape(code), nil, nil)
	if err != nil {
		return models.Product{}, classify(err, models.ErrNotFound, "no product found for barcode "+code)
	}

	var remote remoteProduct
	if err := json.Unmarshal(body, &remote); err != nil {
		return models.Product{}, models.WrapError(models.ErrNetwork, "unexpected product response", err)
	}
	return remote.normalize(), nil
}

// PostTransaction records a charge against a ledger account. Only success or
// failure is read from the response.
func (c *LedgerClient) PostTransaction(ctx context.Context, posting models.LedgerPosting) error {
	if _, err := c.do(ctx, http.MethodPost, "/student-transactions", nil, posting); err != nil {
		return classify(err, models.ErrNetwork, "failed to record transaction on the server")
	}
	return nil
}

func (c *LedgerClient) do(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request failed: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response failed: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}
		return body, nil
	})
}

// classify maps a non-2xx answer to kind and everything else to a network error.
func classify(err error, kind error, message string) error {
	var se *statusError
	if errors.As(err, &se) {
		return models.WrapError(kind, message, err)
	}
	return models.WrapError(models.ErrNetwork, "ledger service unreachable", err)
}
