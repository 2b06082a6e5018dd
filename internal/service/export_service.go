package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/AaronAlejandrou/store-sicua-back/internal/excel"
	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sales export status filter values
const (
	StatusFilterAll        = "todas"
	StatusFilterUninvoiced = "porFacturar"
	StatusFilterInvoiced   = "facturadas"
)

// Sales export date filter types
const (
	DateFilterAll   = "all"
	DateFilterRange = "dateRange"
	DateFilterMonth = "month"
)

// SalesExportFilter selects which sales end up in an export
type SalesExportFilter struct {
	DateFilterType string
	StartDate      string // YYYY-MM-DD, inclusive
	EndDate        string // YYYY-MM-DD, inclusive
	SelectedMonth  string // YYYY-MM
	StatusFilter   string
}

// ExportProducts renders all of a store's products into an xlsx stream.
// Category names are resolved through a number-to-name map built once from
// the store's categories; on duplicate numbers the first wins.
func ExportProducts(db *gorm.DB, storeID string) ([]byte, error) {
	var products []model.Product
	if err := db.Where("store_id = ?", storeID).Order("created_at").Find(&products).Error; err != nil {
		return nil, err
	}

	categories, err := GetAllCategories(db, storeID)
	if err != nil {
		return nil, err
	}
	categoryNames := make(map[int]string, len(categories))
	for _, c := range categories {
		if _, ok := categoryNames[c.CategoryNumber]; !ok {
			categoryNames[c.CategoryNumber] = c.Name
		}
	}

	rows := make([]excel.ProductRow, 0, len(products))
	for _, p := range products {
		talla, color := excel.SplitSizeField(p.Size)

		var categoryNumber int
		var categoryName *string
		if p.CategoryNumber != nil {
			categoryNumber = *p.CategoryNumber
			if name, ok := categoryNames[*p.CategoryNumber]; ok {
				categoryName = &name
			}
		}

		rows = append(rows, excel.ProductRow{
			ProductID:      p.ID,
			Name:           p.Name,
			Price:          p.Price,
			Talla:          talla,
			Color:          color,
			CategoryNumber: categoryNumber,
			CategoryName:   categoryName,
			Stock:          p.Quantity,
			Brand:          p.Brand,
		})
	}

	zap.L().Info("Exporting products to Excel",
		zap.String("store_id", storeID),
		zap.Int("count", len(rows)))
	return excel.WriteProducts(rows)
}

// ExportSales renders a filtered view of a store's sales into an xlsx stream.
// A sale whose date cannot be matched against the filter is excluded, never
// an aborting error.
func ExportSales(db *gorm.DB, storeID string, filter SalesExportFilter) ([]byte, error) {
	sales, err := GetAllSales(db, storeID)
	if err != nil {
		return nil, err
	}

	var rows []excel.SaleRow
	for _, sale := range sales {
		if !matchesStatusFilter(sale, filter.StatusFilter) {
			continue
		}
		if !matchesDateFilter(sale, filter) {
			continue
		}
		rows = append(rows, toSaleRow(sale))
	}

	zap.L().Info("Exporting sales to Excel",
		zap.String("store_id", storeID),
		zap.Int("total", len(sales)),
		zap.Int("after_filters", len(rows)))
	return excel.WriteSales(rows)
}

func matchesStatusFilter(sale model.Sale, statusFilter string) bool {
	switch statusFilter {
	case StatusFilterUninvoiced:
		return !sale.Invoiced
	case StatusFilterInvoiced:
		return sale.Invoiced
	default:
		return true
	}
}

func matchesDateFilter(sale model.Sale, filter SalesExportFilter) bool {
	switch filter.DateFilterType {
	case DateFilterRange:
		saleDate := sale.Date.Format("2006-01-02")
		if filter.StartDate != "" {
			start, err := time.Parse("2006-01-02", filter.StartDate)
			if err != nil {
				return false
			}
			if saleDate < start.Format("2006-01-02") {
				return false
			}
		}
		if filter.EndDate != "" {
			end, err := time.Parse("2006-01-02", filter.EndDate)
			if err != nil {
				return false
			}
			if saleDate > end.Format("2006-01-02") {
				return false
			}
		}
		return true
	case DateFilterMonth:
		if filter.SelectedMonth == "" {
			return true
		}
		month, err := time.Parse("2006-01", filter.SelectedMonth)
		if err != nil {
			return false
		}
		return sale.Date.Year() == month.Year() && sale.Date.Month() == month.Month()
	default:
		return true
	}
}

func toSaleRow(sale model.Sale) excel.SaleRow {
	var products []string
	for _, item := range sale.Items {
		products = append(products, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}

	var dni, name string
	if sale.ClientDNI != nil {
		dni = *sale.ClientDNI
	}
	if sale.ClientName != nil {
		name = *sale.ClientName
	}

	return excel.SaleRow{
		SaleID:     sale.ID,
		Date:       sale.Date.Format("2006-01-02 15:04"),
		ClientDNI:  dni,
		ClientName: name,
		Products:   strings.Join(products, ", "),
		Total:      sale.Total,
		Invoiced:   sale.Invoiced,
	}
}
