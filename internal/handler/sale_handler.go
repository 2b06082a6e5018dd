package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AaronAlejandrou/store-sicua-back/internal/middleware"
	"github.com/AaronAlejandrou/store-sicua-back/internal/service"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/database"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/logger"
	"github.com/AaronAlejandrou/store-sicua-back/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListSales retrieves all sales for the current store, most recent first
func ListSales(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	sales, err := service.GetAllSales(database.GetDB(), storeID)
	if err != nil {
		log.Error("Failed to list sales",
			zap.String("store_id", storeID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve sales"})
	}

	log.Info("Sales retrieved successfully",
		zap.String("store_id", storeID),
		zap.Int("count", len(sales)))
	return c.JSON(http.StatusOK, sales)
}

// CreateSale creates a sale and deducts stock in the same transaction
func CreateSale(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var input service.CreateSaleInput
	if err := c.Bind(&input); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	sale, err := service.CreateSale(database.GetDB(), storeID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientStock):
			prometheus.InsufficientStockCounter.Inc()
			log.Warn("Sale rejected for insufficient stock",
				zap.String("store_id", storeID),
				zap.Error(err))
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			log.Warn("Sale references a missing product",
				zap.String("store_id", storeID),
				zap.Error(err))
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrValidation):
			log.Warn("Sale validation failed", zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			log.Error("Failed to create sale", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create sale"})
		}
	}

	prometheus.SalesCreatedCounter.Inc()
	return c.JSON(http.StatusCreated, sale)
}

// InvoiceSale marks a sale as invoiced. The transition is one-way.
func InvoiceSale(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	sale, err := service.MarkSaleAsInvoiced(database.GetDB(), storeID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Sale not found"})
		case errors.Is(err, service.ErrAlreadyInvoiced):
			log.Warn("Sale already invoiced",
				zap.String("sale_id", id),
				zap.String("store_id", storeID))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Sale is already invoiced"})
		default:
			log.Error("Failed to invoice sale", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to invoice sale"})
		}
	}

	prometheus.SalesInvoicedCounter.Inc()
	log.Info("Sale marked as invoiced",
		zap.String("sale_id", id),
		zap.String("store_id", storeID))
	return c.JSON(http.StatusOK, sale)
}

// ExportSales exports the store's sales, filtered by status and date, as an
// xlsx download
func ExportSales(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	filter := service.SalesExportFilter{
		DateFilterType: c.QueryParam("dateFilterType"),
		StartDate:      c.QueryParam("startDate"),
		EndDate:        c.QueryParam("endDate"),
		SelectedMonth:  c.QueryParam("selectedMonth"),
		StatusFilter:   c.QueryParam("statusFilter"),
	}
	if filter.DateFilterType == "" {
		filter.DateFilterType = service.DateFilterAll
	}
	if filter.StatusFilter == "" {
		filter.StatusFilter = service.StatusFilterAll
	}

	data, err := service.ExportSales(database.GetDB(), storeID, filter)
	if err != nil {
		log.Error("Failed to export sales",
			zap.String("store_id", storeID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export sales"})
	}

	prometheus.RecordExcelExport("sales")
	filename := salesExportFilename(filter)
	log.Info("Sales exported to Excel",
		zap.String("store_id", storeID),
		zap.String("filename", filename))

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

func salesExportFilename(filter service.SalesExportFilter) string {
	name := "ventas"
	switch {
	case filter.DateFilterType == service.DateFilterRange && filter.StartDate != "" && filter.EndDate != "":
		name += "_" + filter.StartDate + "_al_" + filter.EndDate
	case filter.DateFilterType == service.DateFilterMonth && filter.SelectedMonth != "":
		name += "_" + filter.SelectedMonth
	default:
		name += "_todas"
	}
	if filter.StatusFilter != service.StatusFilterAll {
		name += "_" + filter.StatusFilter
	}
	return name + "_" + time.Now().Format("20060102_150405") + ".xlsx"
}
