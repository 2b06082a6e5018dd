package excel

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, header := range ProductHeaders {
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

func TestParseProducts(t *testing.T) {
	t.Parallel()

	data := buildSheet(t, [][]interface{}{
		{"P-001", "Polo básico", 29.90, "M", "Rojo", 1, "Polos", 10, "Sicua"},
		{"P-002", "Pantalón", 59.5, "", "", 2, "", 4, ""},
	})

	rows, parseErrors, err := ParseProducts(bytes.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, parseErrors)
	require.Len(t, rows, 2)

	first := rows[0]
	require.Equal(t, 2, first.RowNumber)
	require.Equal(t, "P-001", first.ProductID)
	require.Equal(t, "Polo básico", first.Name)
	require.True(t, first.Price.Equal(decimal.NewFromFloat(29.90)))
	require.NotNil(t, first.Talla)
	require.Equal(t, "M", *first.Talla)
	require.NotNil(t, first.Color)
	require.Equal(t, "Rojo", *first.Color)
	require.Equal(t, 1, first.CategoryNumber)
	require.Equal(t, 10, first.Stock)
	require.NotNil(t, first.Brand)

	second := rows[1]
	require.Nil(t, second.Talla)
	require.Nil(t, second.Color)
	require.Nil(t, second.CategoryName)
	require.Nil(t, second.Brand)
}

func TestParseProductsSkipsBlankRows(t *testing.T) {
	t.Parallel()

	data := buildSheet(t, [][]interface{}{
		{"P-001", "Polo", 10, "", "", 1, "", 5, ""},
		{"", "", "", "", "", "", "", "", ""},
		{"P-002", "Gorra", 15, "", "", 1, "", 3, ""},
	})

	rows, parseErrors, err := ParseProducts(bytes.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, parseErrors)
	require.Len(t, rows, 2)
	require.Equal(t, "P-002", rows[1].ProductID)
	require.Equal(t, 4, rows[1].RowNumber)
}

func TestParseProductsCollectsRowErrors(t *testing.T) {
	t.Parallel()

	data := buildSheet(t, [][]interface{}{
		{"", "Sin ID", 10, "", "", 1, "", 5, ""},
		{"P-002", "", 10, "", "", 1, "", 5, ""},
		{"P-003", "Precio malo", "abc", "", "", 1, "", 5, ""},
		{"P-004", "Sin categoría", 10, "", "", "", "", 5, ""},
		{"P-005", "Stock malo", 10, "", "", 1, "", "mucho", ""},
		{"P-006", "Válido", 10, "", "", 1, "", 5, ""},
	})

	rows, parseErrors, err := ParseProducts(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "P-006", rows[0].ProductID)

	require.Len(t, parseErrors, 5)
	require.Contains(t, parseErrors[0], "Fila 2: Producto_ID es obligatorio")
	require.Contains(t, parseErrors[1], "Fila 3: Nombre es obligatorio")
	require.Contains(t, parseErrors[2], "Fila 4: Precio inválido")
	require.Contains(t, parseErrors[3], "Fila 5: Categoria_Numero")
	require.Contains(t, parseErrors[4], "Fila 6: Stock")
}

func TestParseProductsRejectsNonSpreadsheet(t *testing.T) {
	t.Parallel()

	_, _, err := ParseProducts(bytes.NewReader([]byte("this is not an xlsx file")))
	require.Error(t, err)
}

func TestWriteProductsRoundTrip(t *testing.T) {
	t.Parallel()

	talla := "M"
	color := "Azul"
	brand := "Sicua"
	in := []ProductRow{
		{
			ProductID:      "P-001",
			Name:           "Polo básico",
			Price:          decimal.NewFromFloat(29.90),
			Talla:          &talla,
			Color:          &color,
			CategoryNumber: 1,
			Stock:          10,
			Brand:          &brand,
		},
	}

	data, err := WriteProducts(in)
	require.NoError(t, err)

	out, parseErrors, err := ParseProducts(bytes.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, parseErrors)
	require.Len(t, out, 1)
	require.Equal(t, "P-001", out[0].ProductID)
	require.True(t, out[0].Price.Equal(decimal.NewFromFloat(29.90)))
	require.Equal(t, "M", *out[0].Talla)
	require.Equal(t, "Azul", *out[0].Color)
	require.Equal(t, 10, out[0].Stock)
}

func TestTemplateHasHeadersAndSampleRow(t *testing.T) {
	t.Parallel()

	data, err := Template()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Productos")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	require.Equal(t, ProductHeaders, rows[0][:len(ProductHeaders)])
	require.Equal(t, "EXAMPLE-001", rows[1][0])
}

func TestWriteSales(t *testing.T) {
	t.Parallel()

	data, err := WriteSales([]SaleRow{
		{
			SaleID:     "sale-1",
			Date:       "2026-08-30 12:00",
			ClientDNI:  "12345678",
			ClientName: "Ana",
			Products:   "2x Polo básico",
			Total:      decimal.NewFromFloat(59.80),
			Invoiced:   true,
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ventas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, SalesHeaders, rows[0][:len(SalesHeaders)])
	require.Equal(t, "sale-1", rows[1][0])
	require.Equal(t, "Sí", rows[1][6])
}

func TestBuildAndSplitSizeField(t *testing.T) {
	t.Parallel()

	str := func(s string) *string { return &s }

	tests := []struct {
		name  string
		talla *string
		color *string
		want  *string
	}{
		{"both parts", str("M"), str("Rojo"), str("M - Rojo")},
		{"talla only", str("M"), nil, str("M")},
		{"color only", nil, str("Rojo"), str("Rojo")},
		{"neither", nil, nil, nil},
		{"blank parts collapse to nil", str("  "), str(""), nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := BuildSizeField(tc.talla, tc.color)
			if tc.want == nil {
				require.Nil(t, got)
			} else {
				require.NotNil(t, got)
				require.Equal(t, *tc.want, *got)
			}
		})
	}

	talla, color := SplitSizeField(str("M - Rojo"))
	require.Equal(t, "M", *talla)
	require.Equal(t, "Rojo", *color)

	talla, color = SplitSizeField(str("M"))
	require.Equal(t, "M", *talla)
	require.Nil(t, color)

	// Ambiguous sizes stay whole in talla
	talla, color = SplitSizeField(str("M - Rojo - Oscuro"))
	require.Equal(t, "M - Rojo - Oscuro", *talla)
	require.Nil(t, color)

	talla, color = SplitSizeField(nil)
	require.Nil(t, talla)
	require.Nil(t, color)
}
