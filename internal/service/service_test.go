package service

import (
	"testing"

	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Store{},
		&model.Product{},
		&model.Category{},
		&model.Sale{},
		&model.SaleItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, storeID, id, name string, price float64, quantity int) *model.Product {
	t.Helper()

	p, err := model.NewProduct(id, storeID, name, nil, nil, nil, decimal.NewFromFloat(price), quantity)
	require.NoError(t, err)
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCategory(t *testing.T, db *gorm.DB, storeID, name string, number int) *model.Category {
	t.Helper()

	c, err := model.NewCategory(storeID, name, number)
	require.NoError(t, err)
	require.NoError(t, db.Create(c).Error)
	return c
}

func productQuantity(t *testing.T, db *gorm.DB, storeID, id string) int {
	t.Helper()

	var p model.Product
	require.NoError(t, db.Where("id = ? AND store_id = ?", id, storeID).First(&p).Error)
	return p.Quantity
}
