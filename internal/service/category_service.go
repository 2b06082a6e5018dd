package service

import (
	"fmt"

	"github.com/AaronAlejandrou/store-sicua-back/internal/model"
	"gorm.io/gorm"
)

// CreateCategory creates a category, enforcing per-store uniqueness of both
// the category number and the name.
func CreateCategory(db *gorm.DB, storeID, name string, categoryNumber int) (*model.Category, error) {
	var count int64
	if err := db.Model(&model.Category{}).
		Where("store_id = ? AND category_number = ?", storeID, categoryNumber).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: category number %d already exists for this store", ErrConflict, categoryNumber)
	}

	if err := db.Model(&model.Category{}).
		Where("store_id = ? AND name = ?", storeID, name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: category name '%s' already exists for this store", ErrConflict, name)
	}

	category, err := model.NewCategory(storeID, name, categoryNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category, enforcing uniqueness excluding itself
func UpdateCategory(db *gorm.DB, storeID, categoryID, name string, categoryNumber int) (*model.Category, error) {
	var category model.Category
	if err := db.Where("id = ? AND store_id = ?", categoryID, storeID).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, categoryID)
		}
		return nil, err
	}

	var count int64
	if err := db.Model(&model.Category{}).
		Where("store_id = ? AND category_number = ? AND id != ?", storeID, categoryNumber, categoryID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: category number %d already exists for this store", ErrConflict, categoryNumber)
	}

	if err := db.Model(&model.Category{}).
		Where("store_id = ? AND name = ? AND id != ?", storeID, name, categoryID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: category name '%s' already exists for this store", ErrConflict, name)
	}

	if err := category.Rename(name, categoryNumber); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetAllCategories lists a store's categories
func GetAllCategories(db *gorm.DB, storeID string) ([]model.Category, error) {
	var categories []model.Category
	if err := db.Where("store_id = ?", storeID).Order("category_number").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryByNumber fetches a store's category by its number
func GetCategoryByNumber(db *gorm.DB, storeID string, categoryNumber int) (*model.Category, error) {
	var category model.Category
	err := db.Where("store_id = ? AND category_number = ?", storeID, categoryNumber).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: category number %d", ErrNotFound, categoryNumber)
		}
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a store's category
func DeleteCategory(db *gorm.DB, storeID, categoryID string) error {
	res := db.Where("id = ? AND store_id = ?", categoryID, storeID).Delete(&model.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: category %s", ErrNotFound, categoryID)
	}
	return nil
}

// NextCategoryNumber suggests max(existing)+1 for a store, starting at 1.
// Advisory only; callers may pick any unused number instead.
func NextCategoryNumber(db *gorm.DB, storeID string) (int, error) {
	var next int
	err := db.Model(&model.Category{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(MAX(category_number), 0) + 1").
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}
