package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AaronAlejandrou/store-sicua-back/internal/excel"
	"github.com/AaronAlejandrou/store-sicua-back/internal/middleware"
	"github.com/AaronAlejandrou/store-sicua-back/internal/service"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/database"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/logger"
	"github.com/AaronAlejandrou/store-sicua-back/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportProductsFromExcel runs the two-phase product import from an uploaded
// xlsx file. Either every row is imported or none are.
func ImportProductsFromExcel(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warn("Missing file in import request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read uploaded file"})
	}
	defer file.Close()

	log.Info("Starting Excel import",
		zap.String("store_id", storeID),
		zap.String("filename", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size))

	result, err := service.ImportProducts(database.GetDB(), storeID, file)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			prometheus.RecordExcelImport("invalid_file")
			log.Warn("Excel file could not be processed", zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		prometheus.RecordExcelImport("error")
		log.Error("Excel import failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Excel import failed"})
	}

	if len(result.Errors) > 0 {
		prometheus.RecordExcelImport("rejected")
		log.Warn("Excel import rejected by validation",
			zap.String("store_id", storeID),
			zap.Int("errors", len(result.Errors)))
		// The batch is reported back with its errors; nothing was written
		return c.JSON(http.StatusUnprocessableEntity, result)
	}

	prometheus.RecordExcelImport("success")
	prometheus.ExcelImportedRowsCounter.Add(float64(result.SuccessfulImports))
	prometheus.CategoriesCreatedCounter.Add(float64(result.CategoriesCreated))

	log.Info("Excel import completed",
		zap.String("store_id", storeID),
		zap.Int("successful_imports", result.SuccessfulImports),
		zap.Int("categories_created", result.CategoriesCreated))
	return c.JSON(http.StatusOK, result)
}

// ExportProductsToExcel exports all of the store's products as an xlsx download
func ExportProductsToExcel(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	data, err := service.ExportProducts(database.GetDB(), storeID)
	if err != nil {
		log.Error("Failed to export products",
			zap.String("store_id", storeID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export products"})
	}

	prometheus.RecordExcelExport("products")
	filename := fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// DownloadExcelTemplate serves the import template with headers and a sample row
func DownloadExcelTemplate(c echo.Context) error {
	log := logger.FromContext(c)

	data, err := excel.Template()
	if err != nil {
		log.Error("Failed to generate Excel template", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate template"})
	}

	prometheus.RecordExcelExport("template")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="plantilla_productos.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
