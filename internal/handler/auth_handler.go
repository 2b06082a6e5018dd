package handler

import (
	"net/http"
	"time"

	"github.com/AaronAlejandrou/store-sicua-back/internal/middleware"
	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/config"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/database"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/jwtutil"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/logger"
	"github.com/AaronAlejandrou/store-sicua-back/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var sessionCfg = &config.SessionConfig{CookieName: "session"}

// InitSession sets the session cookie configuration for the auth handlers
func InitSession(cfg *config.SessionConfig) {
	sessionCfg = cfg
	middleware.SessionCookieName = cfg.CookieName
}

// RegisterRequest is the payload for registering a new store
type RegisterRequest struct {
	StoreName    string `json:"store_name"`
	StoreAddress string `json:"store_address"`
	Email        string `json:"email"`
	StorePhone   string `json:"store_phone"`
	Password     string `json:"password"`
}

// LoginRequest is the payload for logging a store in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the payload for changing the store password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Register creates a new store tenant and opens a session for it
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		log.Warn("Incomplete registration data", zap.String("email", req.Email))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	// Check if the email is already registered
	var count int64
	database.GetDB().Model(&model.Store{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		log.Warn("Email already registered", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	store, err := model.NewStore(req.StoreName, req.StoreAddress, req.Email, req.StorePhone, req.Password)
	if err != nil {
		log.Warn("Invalid registration data", zap.Error(err))
		prometheus.RecordAuthError("invalid_store_data")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if result := database.GetDB().Create(store); result.Error != nil {
		log.Error("Failed to create store", zap.Error(result.Error))
		prometheus.RecordAuthError("store_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	if err := openSession(c, store); err != nil {
		log.Error("Failed to generate session token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session error"})
	}

	log.Info("Store registered",
		zap.String("store_id", store.ID),
		zap.String("email", store.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"store_id": store.ID,
		"name":     store.Name,
		"email":    store.Email,
		"message":  "store registered successfully",
	})
}

// Login authenticates a store and opens a session for it
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var store model.Store
	result := database.GetDB().Where("email = ?", req.Email).First(&store)
	if result.Error != nil {
		log.Warn("Store not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("store_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !store.ValidatePassword(req.Password) {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := openSession(c, &store); err != nil {
		log.Error("Failed to generate session token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session error"})
	}

	log.Info("Store logged in",
		zap.String("store_id", store.ID),
		zap.String("email", store.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"store_id": store.ID,
		"name":     store.Name,
		"email":    store.Email,
		"message":  "session started",
	})
}

// Logout clears the session cookie
func Logout(c echo.Context) error {
	log := logger.FromContext(c)
	c.SetCookie(&http.Cookie{
		Name:     sessionCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sessionCfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info("Store logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "session closed"})
}

// Status reports whether the request carries a valid session
func Status(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var store model.Store
	if result := database.GetDB().First(&store, "id = ?", storeID); result.Error != nil {
		log.Warn("Session references a missing store", zap.String("store_id", storeID))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"store_id": store.ID,
		"name":     store.Name,
		"email":    store.Email,
		"message":  "session active",
	})
}

// ChangePassword updates the authenticated store's password
func ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, ok := middleware.GetStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse change password request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var store model.Store
	if result := database.GetDB().First(&store, "id = ?", storeID); result.Error != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	if !store.ValidatePassword(req.CurrentPassword) {
		log.Warn("Current password mismatch", zap.String("store_id", storeID))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := store.SetPassword(req.NewPassword); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if result := database.GetDB().Model(&store).Update("password", store.Password); result.Error != nil {
		log.Error("Failed to update password", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update password"})
	}

	log.Info("Password changed", zap.String("store_id", storeID))
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

func openSession(c echo.Context, store *model.Store) error {
	token, err := jwtutil.GenerateToken(store.ID, store.Email, store.Name)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     sessionCfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   sessionCfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
