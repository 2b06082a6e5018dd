package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in a store's inventory.
// A product id is chosen by the store and only has to be unique within it,
// so the primary key is the (id, store_id) pair.
type Product struct {
	ID             string          `json:"product_id" gorm:"primaryKey;type:varchar(100)"`
	StoreID        string          `json:"store_id" gorm:"primaryKey;type:varchar(36);index"`
	Name           string          `json:"name" gorm:"type:varchar(255);not null"`
	Brand          *string         `json:"brand,omitempty" gorm:"type:varchar(100)"`
	CategoryNumber *int            `json:"category_number,omitempty"`
	Size           *string         `json:"size,omitempty" gorm:"type:varchar(120)"`
	Price          decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Quantity       int             `json:"quantity" gorm:"not null;default:0"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewProduct builds a validated product for a store
func NewProduct(id, storeID, name string, brand *string, categoryNumber *int, size *string, price decimal.Decimal, quantity int) (*Product, error) {
	p := &Product{
		ID:             strings.TrimSpace(id),
		StoreID:        storeID,
		Name:           strings.TrimSpace(name),
		Brand:          brand,
		CategoryNumber: categoryNumber,
		Size:           size,
		Price:          price,
		Quantity:       quantity,
	}
	if errs := p.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid product: %s", strings.Join(errs, "; "))
	}
	return p, nil
}

// Validate checks the product field invariants and returns every violation found
func (p *Product) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, "product id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "product name is required")
	}
	if p.Price.IsNegative() {
		errs = append(errs, "price cannot be negative")
	}
	if p.Quantity < 0 {
		errs = append(errs, "quantity cannot be negative")
	}
	if p.CategoryNumber != nil && *p.CategoryNumber <= 0 {
		errs = append(errs, "category number must be positive")
	}
	return errs
}

// ApplyUpdate replaces the mutable fields and re-validates the invariants
func (p *Product) ApplyUpdate(name string, brand *string, categoryNumber *int, size *string, price decimal.Decimal, quantity int) error {
	updated := *p
	updated.Name = strings.TrimSpace(name)
	updated.Brand = brand
	updated.CategoryNumber = categoryNumber
	updated.Size = size
	updated.Price = price
	updated.Quantity = quantity
	if errs := updated.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid product: %s", strings.Join(errs, "; "))
	}
	*p = updated
	return nil
}

// HasEnoughStock reports whether the product can cover the required quantity
func (p *Product) HasEnoughStock(required int) bool {
	return p.Quantity >= required
}

// ReduceStock deducts stock, failing when the deduction would go below zero
func (p *Product) ReduceStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity to reduce must be positive")
	}
	if p.Quantity < quantity {
		return fmt.Errorf("insufficient stock: available %d, required %d", p.Quantity, quantity)
	}
	p.Quantity -= quantity
	return nil
}
