package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItem is one line of a sale. It snapshots the product name and price at
// sale time; the product id is a reference, not a live foreign key.
type SaleItem struct {
	ID        uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	SaleID    string          `json:"-" gorm:"type:varchar(36);index;not null"`
	ProductID string          `json:"product_id" gorm:"type:varchar(100);not null"`
	Name      string          `json:"name" gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:numeric(14,2);not null"`
}

// NewSaleItem builds a validated line item with its subtotal computed
func NewSaleItem(productID, name string, price decimal.Decimal, quantity int) (*SaleItem, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("sale item product id is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("sale item name is required")
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("sale item price cannot be negative")
	}
	if quantity < 1 {
		return nil, fmt.Errorf("sale item quantity must be at least 1")
	}
	return &SaleItem{
		ProductID: strings.TrimSpace(productID),
		Name:      strings.TrimSpace(name),
		Price:     price,
		Quantity:  quantity,
		Subtotal:  price.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Sale represents a completed sale transaction for a store. The total is
// always recomputed from the items and never settable on its own.
type Sale struct {
	ID         string          `json:"sale_id" gorm:"primaryKey;type:varchar(36)"`
	StoreID    string          `json:"store_id" gorm:"type:varchar(36);index;not null"`
	ClientDNI  *string         `json:"client_dni,omitempty" gorm:"type:varchar(30)"`
	ClientName *string         `json:"client_name,omitempty" gorm:"type:varchar(255)"`
	Date       time.Time       `json:"date"`
	Items      []SaleItem      `json:"items" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Total      decimal.Decimal `json:"total" gorm:"type:numeric(14,2);not null"`
	Invoiced   bool            `json:"invoiced" gorm:"not null;default:false"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewSale builds a validated sale from its line items
func NewSale(storeID string, clientDNI, clientName *string, items []SaleItem) (*Sale, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("sale must have at least one item")
	}
	now := time.Now()
	s := &Sale{
		ID:         uuid.New().String(),
		StoreID:    storeID,
		ClientDNI:  clientDNI,
		ClientName: clientName,
		Date:       now,
		Items:      items,
		Invoiced:   false,
		CreatedAt:  now,
	}
	s.recalculateTotal()
	return s, nil
}

// AddItem appends a line item and recomputes the total
func (s *Sale) AddItem(item SaleItem) {
	s.Items = append(s.Items, item)
	s.recalculateTotal()
}

func (s *Sale) recalculateTotal() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal)
	}
	s.Total = total
}

// MarkAsInvoiced flips the one-way invoiced flag. A second call always fails.
func (s *Sale) MarkAsInvoiced() error {
	if s.Invoiced {
		return fmt.Errorf("sale is already invoiced")
	}
	s.Invoiced = true
	return nil
}

// CanBeInvoiced reports whether the sale is eligible for invoicing
func (s *Sale) CanBeInvoiced() bool {
	return !s.Invoiced && len(s.Items) > 0
}
