package repository

import (
	"gorm.io/gorm"

	"go-almacen/internal/model"
)

type CategoryRepository interface {
	Register(tx *gorm.DB, name string) error
	FindAllNames() ([]string, error)
	Count() (int64, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

// Register adds the category to the distinct set. Idempotent: an already
// registered name is left alone.
func (r *categoryRepo) Register(tx *gorm.DB, name string) error {
	if tx == nil {
		tx = r.db
	}
	var category model.Category
	return tx.Where(model.Category{Name: name}).FirstOrCreate(&category).Error
}

func (r *categoryRepo) FindAllNames() ([]string, error) {
	var names []string
	err := r.db.Model(&model.Category{}).Order("name ASC").Pluck("name", &names).Error
	return names, err
}

func (r *categoryRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.Category{}).Count(&n).Error
	return n, err
}
