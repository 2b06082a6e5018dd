package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/AaronAlejandrou/store-sicua-back/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateSaleEndpoint(t *testing.T) {
	setupDB(t)
	e := newTestApp()
	cookie := registerStore(t, e, "tienda@example.com")

	rec := doJSON(e, http.MethodPost, "/api/products", ProductRequest{
		ProductID: "P-001", Name: "Polo", Price: decimal.NewFromInt(10), Quantity: 10,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/sales", service.CreateSaleInput{
		Items: []service.SaleItemInput{
			{ProductID: "P-001", Name: "Polo", Price: decimal.NewFromInt(10), Quantity: 3},
		},
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	require.NotEmpty(t, body["sale_id"])

	// Stock went down
	rec = doJSON(e, http.MethodGet, "/api/products/P-001", nil, cookie)
	require.EqualValues(t, 7, decodeBody(t, rec)["quantity"])

	// Asking for more than remains is a conflict and deducts nothing
	rec = doJSON(e, http.MethodPost, "/api/sales", service.CreateSaleInput{
		Items: []service.SaleItemInput{
			{ProductID: "P-001", Name: "Polo", Price: decimal.NewFromInt(10), Quantity: 8},
		},
	}, cookie)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/products/P-001", nil, cookie)
	require.EqualValues(t, 7, decodeBody(t, rec)["quantity"])

	// Unknown product
	rec = doJSON(e, http.MethodPost, "/api/sales", service.CreateSaleInput{
		Items: []service.SaleItemInput{
			{ProductID: "missing", Name: "X", Price: decimal.NewFromInt(1), Quantity: 1},
		},
	}, cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Empty sale
	rec = doJSON(e, http.MethodPost, "/api/sales", service.CreateSaleInput{}, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAndInvoiceSale(t *testing.T) {
	setupDB(t)
	e := newTestApp()
	cookie := registerStore(t, e, "tienda@example.com")

	rec := doJSON(e, http.MethodPost, "/api/products", ProductRequest{
		ProductID: "P-001", Name: "Polo", Price: decimal.NewFromInt(10), Quantity: 5,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/sales", service.CreateSaleInput{
		Items: []service.SaleItemInput{
			{ProductID: "P-001", Name: "Polo", Price: decimal.NewFromInt(10), Quantity: 1},
		},
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	saleID := decodeBody(t, rec)["sale_id"].(string)

	rec = doJSON(e, http.MethodGet, "/api/sales", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var sales []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Len(t, sales, 1)
	require.Equal(t, false, sales[0]["invoiced"])

	rec = doJSON(e, http.MethodPut, "/api/sales/"+saleID+"/invoice", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["invoiced"])

	// A second invoice attempt is rejected
	rec = doJSON(e, http.MethodPut, "/api/sales/"+saleID+"/invoice", nil, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPut, "/api/sales/no-such-sale/invoice", nil, cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Other tenants cannot invoice it
	otherCookie := registerStore(t, e, "otra@example.com")
	rec = doJSON(e, http.MethodPut, "/api/sales/"+saleID+"/invoice", nil, otherCookie)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportSalesEndpoint(t *testing.T) {
	setupDB(t)
	e := newTestApp()
	cookie := registerStore(t, e, "tienda@example.com")

	rec := doJSON(e, http.MethodGet, "/api/sales/excel/export?statusFilter=todas", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "ventas_todas_")
	require.NotEmpty(t, rec.Body.Bytes())
}
