package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleItemInput is one requested line of a new sale. Name and price are the
// caller-provided snapshot values stored on the line item.
type SaleItemInput struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CreateSaleInput is the request payload for creating a sale
type CreateSaleInput struct {
	ClientDNI  *string         `json:"client_dni,omitempty"`
	ClientName *string         `json:"client_name,omitempty"`
	Items      []SaleItemInput `json:"items"`
}

// CreateSale creates a sale for a store, deducting stock for every product in
// the same transaction. Quantities are grouped and summed per product, and the
// deduction is a conditional decrement keyed on the available quantity, so two
// concurrent sales can never both pass a stale stock check.
func CreateSale(db *gorm.DB, storeID string, input CreateSaleInput) (*model.Sale, error) {
	log := zap.L()

	items := make([]model.SaleItem, 0, len(input.Items))
	for _, in := range input.Items {
		item, err := model.NewSaleItem(in.ProductID, in.Name, in.Price, in.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		items = append(items, *item)
	}

	sale, err := model.NewSale(storeID, input.ClientDNI, input.ClientName, items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Sum required quantity per product; a sale may repeat a product across lines
	required := make(map[string]int)
	for _, item := range sale.Items {
		required[item.ProductID] += item.Quantity
	}

	// Stable order keeps lock acquisition deterministic across concurrent sales
	productIDs := make([]string, 0, len(required))
	for id := range required {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, productID := range productIDs {
			needed := required[productID]
			res := tx.Model(&model.Product{}).
				Where("id = ? AND store_id = ? AND quantity >= ?", productID, storeID, needed).
				Updates(map[string]interface{}{
					"quantity":   gorm.Expr("quantity - ?", needed),
					"updated_at": time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&model.Product{}).
					Where("id = ? AND store_id = ?", productID, storeID).
					Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return fmt.Errorf("%w: product %s", ErrNotFound, productID)
				}
				return fmt.Errorf("%w: product %s requires %d units", ErrInsufficientStock, productID, needed)
			}
		}

		return tx.Create(sale).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info("Sale created",
		zap.String("sale_id", sale.ID),
		zap.String("store_id", storeID),
		zap.Int("items", len(sale.Items)),
		zap.String("total", sale.Total.String()))
	return sale, nil
}

// GetAllSales returns a store's sales, most recent first, with items loaded
func GetAllSales(db *gorm.DB, storeID string) ([]model.Sale, error) {
	var sales []model.Sale
	err := db.Preload("Items").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// MarkSaleAsInvoiced flips a sale's one-way invoiced flag
func MarkSaleAsInvoiced(db *gorm.DB, storeID, saleID string) (*model.Sale, error) {
	var sale model.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			Where("id = ? AND store_id = ?", saleID, storeID).
			First(&sale).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: sale %s", ErrNotFound, saleID)
			}
			return err
		}

		if err := sale.MarkAsInvoiced(); err != nil {
			return fmt.Errorf("%w", ErrAlreadyInvoiced)
		}

		return tx.Model(&model.Sale{}).
			Where("id = ? AND store_id = ?", saleID, storeID).
			Update("invoiced", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}
