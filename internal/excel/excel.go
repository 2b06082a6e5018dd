// Package excel reads and writes the fixed spreadsheet layouts used for
// product import/export and sales export.
package excel

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Product sheet column indices (0-based)
const (
	colProductoID = iota
	colNombre
	colPrecio
	colTalla
	colColor
	colCategoriaNumero
	colCategoriaNombre
	colStock
	colMarca
)

// ProductHeaders is the fixed 9-column product sheet layout
var ProductHeaders = []string{
	"Producto_ID", "Nombre", "Precio", "Talla", "Color",
	"Categoria_Numero", "Categoria_Nombre", "Stock", "Marca",
}

// SalesHeaders is the fixed sales sheet layout
var SalesHeaders = []string{
	"Venta_ID", "Fecha", "Cliente_DNI", "Cliente_Nombre", "Productos", "Total", "Facturada",
}

// ProductRow is one parsed spreadsheet row of product data. RowNumber is the
// 1-based sheet row it came from, kept for row-indexed error reporting.
type ProductRow struct {
	RowNumber      int
	ProductID      string
	Name           string
	Price          decimal.Decimal
	Talla          *string
	Color          *string
	CategoryNumber int
	CategoryName   *string
	Stock          int
	Brand          *string
}

// SaleRow is one rendered spreadsheet row of sales data
type SaleRow struct {
	SaleID     string
	Date       string
	ClientDNI  string
	ClientName string
	Products   string
	Total      decimal.Decimal
	Invoiced   bool
}

// ParseProducts reads the first sheet of an xlsx stream into product rows.
// The header row is skipped, fully blank rows are skipped silently, and rows
// that fail to parse are collected as parse errors without aborting the rest.
func ParseProducts(r io.Reader) ([]ProductRow, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var products []ProductRow
	var parseErrors []string

	// Row 1 is the header
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		rowNumber := i + 1

		product, err := parseRow(row, rowNumber)
		if err != nil {
			parseErrors = append(parseErrors, err.Error())
			continue
		}
		products = append(products, *product)
	}

	return products, parseErrors, nil
}

func parseRow(row []string, rowNumber int) (*ProductRow, error) {
	productID := strings.TrimSpace(cell(row, colProductoID))
	if productID == "" {
		return nil, fmt.Errorf("Fila %d: Producto_ID es obligatorio", rowNumber)
	}

	name := strings.TrimSpace(cell(row, colNombre))
	if name == "" {
		return nil, fmt.Errorf("Fila %d: Nombre es obligatorio", rowNumber)
	}

	priceStr := strings.TrimSpace(cell(row, colPrecio))
	if priceStr == "" {
		return nil, fmt.Errorf("Fila %d: Precio es obligatorio", rowNumber)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("Fila %d: Precio inválido '%s'", rowNumber, priceStr)
	}

	categoryNumber, err := intCell(row, colCategoriaNumero)
	if err != nil {
		return nil, fmt.Errorf("Fila %d: Categoria_Numero es obligatorio y debe ser un número", rowNumber)
	}

	stock, err := intCell(row, colStock)
	if err != nil {
		return nil, fmt.Errorf("Fila %d: Stock es obligatorio y debe ser un número", rowNumber)
	}

	return &ProductRow{
		RowNumber:      rowNumber,
		ProductID:      productID,
		Name:           name,
		Price:          price,
		Talla:          optionalCell(row, colTalla),
		Color:          optionalCell(row, colColor),
		CategoryNumber: categoryNumber,
		CategoryName:   optionalCell(row, colCategoriaNombre),
		Stock:          stock,
		Brand:          optionalCell(row, colMarca),
	}, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func optionalCell(row []string, idx int) *string {
	v := strings.TrimSpace(cell(row, idx))
	if v == "" {
		return nil
	}
	return &v
}

func intCell(row []string, idx int) (int, error) {
	v := strings.TrimSpace(cell(row, idx))
	if v == "" {
		return 0, fmt.Errorf("empty cell")
	}
	// Numeric cells may be formatted with a decimal part
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteProducts renders product rows to an xlsx stream using the fixed layout
func WriteProducts(rows []ProductRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventario"
	f.SetSheetName(f.GetSheetName(0), sheet)

	if err := writeHeader(f, sheet, ProductHeaders); err != nil {
		return nil, err
	}

	dataStyle, err := newDataStyle(f)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := []interface{}{
			row.ProductID,
			row.Name,
			row.Price.InexactFloat64(),
			deref(row.Talla),
			deref(row.Color),
			row.CategoryNumber,
			deref(row.CategoryName),
			row.Stock,
			deref(row.Brand),
		}
		if err := writeRow(f, sheet, i+2, values, dataStyle); err != nil {
			return nil, err
		}
	}

	autoSizeColumns(f, sheet, len(ProductHeaders))
	return save(f)
}

// WriteSales renders sale rows to an xlsx stream
func WriteSales(rows []SaleRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ventas"
	f.SetSheetName(f.GetSheetName(0), sheet)

	if err := writeHeader(f, sheet, SalesHeaders); err != nil {
		return nil, err
	}

	dataStyle, err := newDataStyle(f)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		invoiced := "No"
		if row.Invoiced {
			invoiced = "Sí"
		}
		values := []interface{}{
			row.SaleID,
			row.Date,
			row.ClientDNI,
			row.ClientName,
			row.Products,
			row.Total.InexactFloat64(),
			invoiced,
		}
		if err := writeRow(f, sheet, i+2, values, dataStyle); err != nil {
			return nil, err
		}
	}

	autoSizeColumns(f, sheet, len(SalesHeaders))
	return save(f)
}

// Template builds the import template: styled headers plus one sample row
func Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Productos"
	f.SetSheetName(f.GetSheetName(0), sheet)

	if err := writeHeader(f, sheet, ProductHeaders); err != nil {
		return nil, err
	}

	sample := []interface{}{
		"EXAMPLE-001", "Nombre Ejemplo", 99.99, "XL o 32 o G", "Ejemplo Color",
		9999, "Ejemplo Categoria", 9999, "Ejemplo Marca",
	}
	if err := writeRow(f, sheet, 2, sample, 0); err != nil {
		return nil, err
	}

	autoSizeColumns(f, sheet, len(ProductHeaders))
	return save(f)
}

// BuildSizeField joins talla and color into the stored size encoding
func BuildSizeField(talla, color *string) *string {
	var parts []string
	if talla != nil && strings.TrimSpace(*talla) != "" {
		parts = append(parts, strings.TrimSpace(*talla))
	}
	if color != nil && strings.TrimSpace(*color) != "" {
		parts = append(parts, strings.TrimSpace(*color))
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, " - ")
	return &joined
}

// SplitSizeField splits a stored size back into talla and color. A size with
// more than one " - " separator is not round-trippable and goes whole into
// talla.
func SplitSizeField(size *string) (talla, color *string) {
	if size == nil || strings.TrimSpace(*size) == "" {
		return nil, nil
	}
	parts := strings.Split(*size, " - ")
	switch len(parts) {
	case 2:
		t := strings.TrimSpace(parts[0])
		c := strings.TrimSpace(parts[1])
		return &t, &c
	case 1:
		t := strings.TrimSpace(parts[0])
		return &t, nil
	default:
		whole := strings.TrimSpace(*size)
		return &whole, nil
	}
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"BDD7EE"}},
		Border: []excelize.Border{
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
		},
	})
	if err != nil {
		return err
	}
	for i, header := range headers {
		cellRef, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellRef, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellRef, cellRef, style); err != nil {
			return err
		}
	}
	return nil
}

func newDataStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
		},
	})
}

func writeRow(f *excelize.File, sheet string, rowNumber int, values []interface{}, style int) error {
	for i, value := range values {
		cellRef, err := excelize.CoordinatesToCellName(i+1, rowNumber)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellRef, value); err != nil {
			return err
		}
		if style != 0 {
			if err := f.SetCellStyle(sheet, cellRef, cellRef, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func autoSizeColumns(f *excelize.File, sheet string, count int) {
	for i := 1; i <= count; i++ {
		col, err := excelize.ColumnNumberToName(i)
		if err != nil {
			continue
		}
		// Fixed generous width; excelize has no content-based autosize
		_ = f.SetColWidth(sheet, col, col, 18)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func save(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
