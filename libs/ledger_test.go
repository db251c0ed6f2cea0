package libs

import (
	"canteen-pos/models"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, handler http.HandlerFunc) *LedgerClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewLedgerClientWithHTTP(srv.URL+"/api/CategoriesApi/", srv.Client())
}

func TestLedgerClient_StaffBranches(t *testing.T) {
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/CategoriesApi/staff-branches", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("employeeId"))
		assert.Equal(t, "1234", r.URL.Query().Get("pin"))
		w.Write([]byte(`[{"branchId":1,"branchName":"North"},{"branchId":2,"branchName":"South"}]`))
	})

	branches, err := client.StaffBranches(context.Background(), "42", "1234")
	require.NoError(t, err)
	assert.Equal(t, []models.Branch{{ID: 1, Name: "North"}, {ID: 2, Name: "South"}}, branches)
}

func TestLedgerClient_StaffBranchesRejected(t *testing.T) {
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.StaffBranches(context.Background(), "42", "0000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrAuthentication))
	assert.Equal(t, "invalid credentials", models.Message(err))
}

func TestLedgerClient_BranchCatalog(t *testing.T) {
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/CategoriesApi/branch-categories-products/12", r.URL.Path)
		w.Write([]byte(`[
			{"categoryId":3,"categoryName":"Drinks","products":[
				{"id":10,"name":"Juice","unitPrice":2.5,"categoryId":3,"description":null,"imageURL":"juice.png","barcodes":["111"]},
				{"id":11,"name":"Water","unitPrice":null,"price":1,"categoryId":3}
			]}
		]`))
	})

	categories, err := client.BranchCatalog(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, int64(3), categories[0].ID)
	assert.Equal(t, "Drinks", categories[0].Name)

	products := categories[0].Products
	require.Len(t, products, 2)
	assert.True(t, decimal.RequireFromString("2.5").Equal(products[0].Price))
	assert.Equal(t, "", products[0].Description)
	assert.Equal(t, "juice.png", products[0].ImageURL)
	assert.Equal(t, []string{"111"}, products[0].Barcodes)
	assert.True(t, decimal.NewFromInt(1).Equal(products[1].Price))
	assert.Equal(t, []string{}, products[1].Barcodes)
}

func TestLedgerClient_CategoriesAndProducts(t *testing.T) {
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/CategoriesApi":
			w.Write([]byte(`[{"id":3,"categoryName":"Drinks"},{"categoryId":4,"categoryName":"Snacks"}]`))
		case "/api/CategoriesApi/products/3":
			assert.Equal(t, "12", r.URL.Query().Get("branchId"))
			w.Write([]byte(`[{"id":10,"name":"Juice","unitPrice":2.5,"categoryId":3}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, int64(3), categories[0].ID)
	assert.Equal(t, int64(4), categories[1].ID)

	products, err := client.CategoryProducts(context.Background(), 3, 12)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Juice", products[0].Name)
}

func TestLedgerClient_CatalogServerError(t *testing.T) {
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.BranchCatalog(context.Background(), 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNetwork))
}

func TestLedgerClient_CatalogMalformed(t *testing.T) {
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"oops":true}`))
	})

	_, err := client.BranchCatalog(context.Background(), 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNetwork))
}

func TestLedgerClient_StudentBalance(t *testing.T) {
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/CategoriesApi/student-balance/CARD-1" {
			w.Write([]byte(`42.75`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	balance, err := client.StudentBalance(context.Background(), "CARD-1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("42.75").Equal(balance))

	_, err = client.StudentBalance(context.Background(), "UNKNOWN")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.Equal(t, "no student associated with that card", models.Message(err))
}

func TestLedgerClient_ProductByBarcode(t *testing.T) {
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/CategoriesApi/product-by-barcode/5000" {
			w.Write([]byte(`{"id":3,"name":"Crisps","unitPrice":1.25,"categoryId":4}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	product, err := client.ProductByBarcode(context.Background(), "5000")
	require.NoError(t, err)
	assert.Equal(t, "Crisps", product.Name)

	_, err = client.ProductByBarcode(context.Background(), "0")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestLedgerClient_PostTransaction(t *testing.T) {
	var got map[string]interface{}
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/CategoriesApi/student-transactions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.PostTransaction(context.Background(), models.LedgerPosting{
		BarcodeValue: "cashcashcash",
		Amount:       decimal.RequireFromString("12.50"),
		Note:         "Cash Purchase:\nSandwich x2 @ QR 5.00",
		Lines:        []models.LedgerLine{{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("5.00")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "cashcashcash", got["barcodeValue"])
	assert.Equal(t, "Cash Purchase:\nSandwich x2 @ QR 5.00", got["note"])
	lines := got["lines"].([]interface{})
	require.Len(t, lines, 1)
	assert.EqualValues(t, 1, lines[0].(map[string]interface{})["productId"])
}

func TestLedgerClient_PostTransactionRejected(t *testing.T) {
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("insufficient data"))
	})

	err := client.PostTransaction(context.Background(), models.LedgerPosting{BarcodeValue: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNetwork))
	assert.Equal(t, "failed to record transaction on the server", models.Message(err))
}

func TestLedgerClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewLedgerClientWithHTTP(srv.URL, srv.Client())
	srv.Close()

	_, err := client.StaffBranches(context.Background(), "1", "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNetwork))
	assert.Equal(t, "ledger service unreachable", models.Message(err))
}

func TestLedgerClient_BreakerOpensAfterOutage(t *testing.T) {
	calls := 0
	client := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 8; i++ {
		_, err := client.BranchCatalog(context.Background(), 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNetwork))
	}
	assert.Equal(t, 5, calls)
}
