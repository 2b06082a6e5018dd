package handler

import (
	"net/http"
	"strconv"

	"github.com/AaronAlejandrou/store-sicua-back/internal/middleware"
	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/database"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/logger"
	"github.com/AaronAlejandrou/store-sicua-back/prometheus"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	ProductID      string          `json:"product_id,omitempty"`
	Name           string          `json:"name"`
	Brand          *string         `json:"brand,omitempty"`
	CategoryNumber *int            `json:"category_number,omitempty"`
	Size           *string         `json:"size,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
}

// ListProducts handles retrieving all products for the current store
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var products []model.Product
	result := database.GetDB().Where("store_id = ?", storeID).Order("created_at").Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products",
			zap.String("store_id", storeID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	log.Info("Products retrieved successfully",
		zap.String("store_id", storeID),
		zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var product model.Product
	result := database.GetDB().Where("id = ? AND store_id = ?", id, storeID).First(&product)
	if result.Error != nil {
		log.Warn("Product not found",
			zap.String("product_id", id),
			zap.String("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product for the current store
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	// The store may supply its own product id; generate one otherwise
	if req.ProductID == "" {
		req.ProductID = uuid.New().String()
	}

	var count int64
	database.GetDB().Model(&model.Product{}).
		Where("id = ? AND store_id = ?", req.ProductID, storeID).
		Count(&count)
	if count > 0 {
		log.Warn("Product with this ID already exists",
			zap.String("product_id", req.ProductID),
			zap.String("store_id", storeID))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Product with this ID already exists"})
	}

	product, err := model.NewProduct(req.ProductID, storeID, req.Name, req.Brand, req.CategoryNumber, req.Size, req.Price, req.Quantity)
	if err != nil {
		log.Warn("Product validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	result := database.GetDB().Create(product)
	if result.Error != nil {
		log.Error("Failed to create product",
			zap.String("product_id", req.ProductID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created successfully",
		zap.String("product_id", product.ID),
		zap.String("store_id", storeID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var product model.Product
	result := database.GetDB().Where("id = ? AND store_id = ?", id, storeID).First(&product)
	if result.Error != nil {
		log.Warn("Product not found for update",
			zap.String("product_id", id),
			zap.String("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	oldPrice := product.Price

	if err := product.ApplyUpdate(req.Name, req.Brand, req.CategoryNumber, req.Size, req.Price, req.Quantity); err != nil {
		log.Warn("Product validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	result = database.GetDB().Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated successfully",
		zap.String("product_id", id),
		zap.String("store_id", storeID),
		zap.String("old_price", oldPrice.String()),
		zap.String("new_price", product.Price.String()))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product. A product that still has stock is
// only deleted when force=true is passed.
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	force, _ := strconv.ParseBool(c.QueryParam("force"))

	var product model.Product
	result := database.GetDB().Where("id = ? AND store_id = ?", id, storeID).First(&product)
	if result.Error != nil {
		log.Warn("Product not found for deletion",
			zap.String("product_id", id),
			zap.String("store_id", storeID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	if product.Quantity > 0 && !force {
		log.Warn("Refusing to delete product with remaining stock",
			zap.String("product_id", id),
			zap.Int("quantity", product.Quantity))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Product still has stock; pass force=true to delete anyway",
		})
	}

	result = database.GetDB().Where("id = ? AND store_id = ?", id, storeID).Delete(&model.Product{})
	if result.Error != nil {
		log.Error("Failed to delete product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted successfully",
		zap.String("product_id", id),
		zap.String("store_id", storeID),
		zap.Bool("forced", force))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
