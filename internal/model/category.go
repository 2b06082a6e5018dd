package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category represents a per-store product category. Both the name and the
// number are unique within a store, never across stores.
type Category struct {
	ID             string    `json:"category_id" gorm:"primaryKey;type:varchar(36)"`
	StoreID        string    `json:"store_id" gorm:"type:varchar(36);index;uniqueIndex:idx_categories_store_number;uniqueIndex:idx_categories_store_name"`
	Name           string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_store_name"`
	CategoryNumber int       `json:"category_number" gorm:"not null;uniqueIndex:idx_categories_store_number"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewCategory builds a validated category with a generated id
func NewCategory(storeID, name string, categoryNumber int) (*Category, error) {
	c := &Category{
		ID:             uuid.New().String(),
		StoreID:        storeID,
		Name:           strings.TrimSpace(name),
		CategoryNumber: categoryNumber,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the category field invariants
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	if len(c.Name) > 100 {
		return fmt.Errorf("category name cannot exceed 100 characters")
	}
	if c.CategoryNumber <= 0 {
		return fmt.Errorf("category number must be positive")
	}
	return nil
}

// Rename updates name and number, re-validating the invariants
func (c *Category) Rename(name string, categoryNumber int) error {
	prevName, prevNumber := c.Name, c.CategoryNumber
	c.Name = strings.TrimSpace(name)
	c.CategoryNumber = categoryNumber
	if err := c.Validate(); err != nil {
		c.Name, c.CategoryNumber = prevName, prevNumber
		return err
	}
	return nil
}
