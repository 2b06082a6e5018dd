package handler

import (
	"net/http"

	"github.com/AaronAlejandrou/store-sicua-back/internal/middleware"
	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/database"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StoreConfigRequest defines the structure for store config update requests
type StoreConfigRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// GetStoreConfig returns the current store's configuration
func GetStoreConfig(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var store model.Store
	result := database.GetDB().First(&store, "id = ?", storeID)
	if result.Error != nil {
		log.Error("Store configuration not found",
			zap.String("store_id", storeID),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Store configuration not found"})
	}

	return c.JSON(http.StatusOK, store)
}

// UpdateStoreConfig updates the current store's profile fields
func UpdateStoreConfig(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req StoreConfigRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var store model.Store
	result := database.GetDB().First(&store, "id = ?", storeID)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Store configuration not found"})
	}

	// Email stays unique across stores
	if req.Email != store.Email {
		var count int64
		database.GetDB().Model(&model.Store{}).
			Where("email = ? AND id != ?", req.Email, storeID).
			Count(&count)
		if count > 0 {
			log.Warn("Email already in use", zap.String("email", req.Email))
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
	}

	if err := store.UpdateConfig(req.Name, req.Address, req.Email, req.Phone); err != nil {
		log.Warn("Store config validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if result := database.GetDB().Save(&store); result.Error != nil {
		log.Error("Failed to update store configuration",
			zap.String("store_id", storeID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update store configuration"})
	}

	log.Info("Store configuration updated", zap.String("store_id", storeID))
	return c.JSON(http.StatusOK, store)
}
