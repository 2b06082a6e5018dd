package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AaronAlejandrou/store-sicua-back/internal/excel"
	"github.com/AaronAlejandrou/store-sicua-back/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func productSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, header := range excel.ProductHeaders {
		cellRef, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cellRef, header))
	}
	for r, row := range rows {
		for c, value := range row {
			cellRef, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellRef, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func uploadFile(t *testing.T, e *echo.Echo, path string, content []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "productos.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestImportProductsEndpoint(t *testing.T) {
	setupDB(t)
	e := newTestApp()
	cookie := registerStore(t, e, "tienda@example.com")

	content := productSheet(t, [][]interface{}{
		{"P-001", "Polo", 29.90, "M", "Rojo", 1, "Polos", 10, ""},
	})

	rec := uploadFile(t, e, "/api/products/excel/import", content, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, 1, result.SuccessfulImports)
	require.Equal(t, 1, result.CategoriesCreated)

	rec = doJSON(e, http.MethodGet, "/api/products/P-001", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestImportProductsEndpointRejectsBadBatch(t *testing.T) {
	setupDB(t)
	e := newTestApp()
	cookie := registerStore(t, e, "tienda@example.com")

	content := productSheet(t, [][]interface{}{
		{"P-001", "Polo válido", 10, "", "", 1, "Polos", 5, ""},
		{"P-002", "Precio negativo", -5, "", "", 1, "Polos", 5, ""},
	})

	rec := uploadFile(t, e, "/api/products/excel/import", content, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result service.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Zero(t, result.SuccessfulImports)
	require.NotEmpty(t, result.Errors)

	// Nothing was written, not even the valid row
	rec = doJSON(e, http.MethodGet, "/api/products/P-001", nil, cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportProductsEndpointRejectsNonSpreadsheet(t *testing.T) {
	setupDB(t)
	e := newTestApp()
	cookie := registerStore(t, e, "tienda@example.com")

	rec := uploadFile(t, e, "/api/products/excel/import", []byte("not an xlsx"), cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportProductsEndpointRequiresFile(t *testing.T) {
	setupDB(t)
	e := newTestApp()
	cookie := registerStore(t, e, "tienda@example.com")

	rec := doJSON(e, http.MethodPost, "/api/products/excel/import", nil, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportProductsEndpoint(t *testing.T) {
	setupDB(t)
	e := newTestApp()
	cookie := registerStore(t, e, "tienda@example.com")

	rec := doJSON(e, http.MethodGet, "/api/products/excel/export", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "inventario_")
}

func TestDownloadTemplateEndpoint(t *testing.T) {
	setupDB(t)
	e := newTestApp()
	cookie := registerStore(t, e, "tienda@example.com")

	rec := doJSON(e, http.MethodGet, "/api/products/excel/template", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "plantilla_productos.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Productos")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
}
