package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AaronAlejandrou/store-sicua-back/internal/middleware"
	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"github.com/AaronAlejandrou/store-sicua-back/internal/service"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/database"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/logger"
	"github.com/AaronAlejandrou/store-sicua-back/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name           string `json:"name"`
	CategoryNumber int    `json:"category_number"`
}

// ListCategories retrieves all categories for the current store
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	categories, err := service.GetAllCategories(database.GetDB(), storeID)
	if err != nil {
		log.Error("Failed to retrieve categories",
			zap.String("store_id", storeID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}

	log.Info("Categories retrieved successfully",
		zap.String("store_id", storeID),
		zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a specific category by ID
func GetCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var category model.Category
	result := database.GetDB().Where("id = ? AND store_id = ?", id, storeID).First(&category)
	if result.Error != nil {
		log.Warn("Category not found",
			zap.String("category_id", id),
			zap.String("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory adds a new category for the current store
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	category, err := service.CreateCategory(database.GetDB(), storeID, req.Name, req.CategoryNumber)
	if err != nil {
		return categoryError(c, log, err)
	}

	prometheus.RecordCategoryOperation("create")
	log.Info("Category created successfully",
		zap.String("category_id", category.ID),
		zap.String("store_id", storeID),
		zap.String("name", category.Name),
		zap.Int("category_number", category.CategoryNumber))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates an existing category
func UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	category, err := service.UpdateCategory(database.GetDB(), storeID, id, req.Name, req.CategoryNumber)
	if err != nil {
		return categoryError(c, log, err)
	}

	prometheus.RecordCategoryOperation("update")
	log.Info("Category updated successfully",
		zap.String("category_id", id),
		zap.String("store_id", storeID))
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	if err := service.DeleteCategory(database.GetDB(), storeID, id); err != nil {
		return categoryError(c, log, err)
	}

	prometheus.RecordCategoryOperation("delete")
	log.Info("Category deleted successfully",
		zap.String("category_id", id),
		zap.String("store_id", storeID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}

// GetCategoryByNumber retrieves a category by its per-store number
func GetCategoryByNumber(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category number must be an integer"})
	}

	category, err := service.GetCategoryByNumber(database.GetDB(), storeID, number)
	if err != nil {
		return categoryError(c, log, err)
	}

	return c.JSON(http.StatusOK, category)
}

// NextCategoryNumber suggests the next free category number for the store
func NextCategoryNumber(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	next, err := service.NextCategoryNumber(database.GetDB(), storeID)
	if err != nil {
		log.Error("Failed to compute next category number",
			zap.String("store_id", storeID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute next category number"})
	}

	return c.JSON(http.StatusOK, echo.Map{"next_category_number": next})
}

func categoryError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	case errors.Is(err, service.ErrConflict):
		log.Warn("Category conflict", zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		log.Warn("Category validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		log.Error("Category operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Category operation failed"})
	}
}
