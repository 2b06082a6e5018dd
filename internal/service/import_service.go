package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/AaronAlejandrou/store-sicua-back/internal/excel"
	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImportResult reports the outcome of an Excel product import. Errors are
// row-indexed validation failures that aborted the import; warnings are
// notices from a successful import (auto-created categories, ignored names);
// parse errors are rows the parser skipped before validation ran.
type ImportResult struct {
	TotalProcessed    int      `json:"total_processed"`
	SuccessfulImports int      `json:"successful_imports"`
	CategoriesCreated int      `json:"categories_created"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
	ParseErrors       []string `json:"parse_errors"`
}

// ImportProducts runs the two-phase, all-or-nothing product import for a
// store. Phase 1 validates every parsed row; any error aborts with zero
// writes. Phase 2 creates missing categories and all products inside one
// transaction, so an unexpected failure rolls everything back.
func ImportProducts(db *gorm.DB, storeID string, r io.Reader) (*ImportResult, error) {
	log := zap.L()

	rows, parseErrors, err := excel.ParseProducts(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	result := &ImportResult{
		TotalProcessed: len(rows),
		Errors:         []string{},
		Warnings:       []string{},
		ParseErrors:    parseErrors,
	}

	log.Info("Parsed products from Excel file",
		zap.String("store_id", storeID),
		zap.Int("rows", len(rows)),
		zap.Int("parse_errors", len(parseErrors)))

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No se encontraron productos válidos en el archivo Excel")
		return result, nil
	}

	// Phase 1: validate every row before touching the database
	categoriesByNumber, err := loadCategoryNumbers(db, storeID)
	if err != nil {
		return nil, err
	}

	existingIDs, err := loadProductIDs(db, storeID)
	if err != nil {
		return nil, err
	}

	seenInFile := make(map[string]bool)
	for _, row := range rows {
		result.Errors = append(result.Errors, validateRow(row, categoriesByNumber, existingIDs, seenInFile)...)
		seenInFile[row.ProductID] = true
	}

	if len(result.Errors) > 0 {
		log.Warn("Excel import validation failed, nothing imported",
			zap.String("store_id", storeID),
			zap.Int("errors", len(result.Errors)))
		return result, nil
	}

	// Phase 2: every row is valid, create categories and products in one
	// transaction
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			created, warning, err := ensureCategory(tx, storeID, row, categoriesByNumber)
			if err != nil {
				return fmt.Errorf("unexpected error during import phase for row %d: %w", row.RowNumber, err)
			}
			if created {
				result.CategoriesCreated++
			}
			if warning != "" {
				result.Warnings = append(result.Warnings, warning)
			}

			categoryNumber := row.CategoryNumber
			product, err := model.NewProduct(
				row.ProductID,
				storeID,
				row.Name,
				row.Brand,
				&categoryNumber,
				excel.BuildSizeField(row.Talla, row.Color),
				row.Price,
				row.Stock,
			)
			if err != nil {
				return fmt.Errorf("unexpected error during import phase for row %d: %w", row.RowNumber, err)
			}
			if err := tx.Create(product).Error; err != nil {
				return fmt.Errorf("unexpected error during import phase for row %d: %w", row.RowNumber, err)
			}
			result.SuccessfulImports++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Excel import completed",
		zap.String("store_id", storeID),
		zap.Int("total_processed", result.TotalProcessed),
		zap.Int("successful_imports", result.SuccessfulImports),
		zap.Int("categories_created", result.CategoriesCreated))
	return result, nil
}

func loadCategoryNumbers(db *gorm.DB, storeID string) (map[int]string, error) {
	var categories []model.Category
	if err := db.Where("store_id = ?", storeID).Find(&categories).Error; err != nil {
		return nil, err
	}
	byNumber := make(map[int]string, len(categories))
	for _, c := range categories {
		byNumber[c.CategoryNumber] = c.Name
	}
	return byNumber, nil
}

func loadProductIDs(db *gorm.DB, storeID string) (map[string]bool, error) {
	var ids []string
	if err := db.Model(&model.Product{}).Where("store_id = ?", storeID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		existing[id] = true
	}
	return existing, nil
}

func validateRow(row excel.ProductRow, categoriesByNumber map[int]string, existingIDs, seenInFile map[string]bool) []string {
	var errs []string

	categoryNumber := row.CategoryNumber
	candidate := model.Product{
		ID:             row.ProductID,
		Name:           row.Name,
		Price:          row.Price,
		Quantity:       row.Stock,
		CategoryNumber: &categoryNumber,
		Brand:          row.Brand,
	}
	for _, violation := range candidate.Validate() {
		errs = append(errs, fmt.Sprintf("Fila %d: %s", row.RowNumber, violation))
	}

	if existingIDs[row.ProductID] {
		errs = append(errs, fmt.Sprintf("Fila %d: El producto con ID '%s' ya existe en la tienda", row.RowNumber, row.ProductID))
	}
	if seenInFile[row.ProductID] {
		errs = append(errs, fmt.Sprintf("Fila %d: El producto con ID '%s' está duplicado en el archivo", row.RowNumber, row.ProductID))
	}

	if _, exists := categoriesByNumber[row.CategoryNumber]; !exists {
		if row.CategoryName == nil || strings.TrimSpace(*row.CategoryName) == "" {
			errs = append(errs, fmt.Sprintf("Fila %d: Categoría %d no existe y no se proporcionó nombre para crearla", row.RowNumber, row.CategoryNumber))
		}
	}

	return errs
}

// ensureCategory creates the row's category when it is still missing. When it
// exists under a different name, the stored name wins and a warning notes the
// ignored one.
func ensureCategory(tx *gorm.DB, storeID string, row excel.ProductRow, categoriesByNumber map[int]string) (created bool, warning string, err error) {
	existingName, exists := categoriesByNumber[row.CategoryNumber]
	if exists {
		if row.CategoryName != nil && strings.TrimSpace(*row.CategoryName) != "" &&
			!strings.EqualFold(strings.TrimSpace(*row.CategoryName), existingName) {
			warning = fmt.Sprintf("Fila %d: Categoría %d ya existe con nombre '%s'. Se ignora el nombre proporcionado '%s'",
				row.RowNumber, row.CategoryNumber, existingName, *row.CategoryName)
		}
		return false, warning, nil
	}

	name := strings.TrimSpace(*row.CategoryName)
	category, err := model.NewCategory(storeID, name, row.CategoryNumber)
	if err != nil {
		return false, "", err
	}
	if err := tx.Create(category).Error; err != nil {
		return false, "", err
	}

	categoriesByNumber[row.CategoryNumber] = name
	warning = fmt.Sprintf("Fila %d: Se creó automáticamente la categoría %d - '%s'", row.RowNumber, row.CategoryNumber, name)

	zap.L().Info("Auto-created category from Excel import",
		zap.String("store_id", storeID),
		zap.Int("category_number", row.CategoryNumber),
		zap.String("name", name),
		zap.Int("row", row.RowNumber))
	return true, warning, nil
}
