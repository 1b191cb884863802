package repository

import (
	"errors"

	"gorm.io/gorm"

	"go-almacen/internal/model"
)

// SearchCriterion selects which field FindBy matches against.
type SearchCriterion string

const (
	ByCode     SearchCriterion = "code"     // exact match
	ByName     SearchCriterion = "name"     // case-sensitive substring
	ByCategory SearchCriterion = "category" // exact match
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindByCode(tx *gorm.DB, code string) (*model.Product, error)
	FindAll() ([]model.Product, error)
	FindBy(criterion SearchCriterion, value string) ([]model.Product, error)
	Update(tx *gorm.DB, product *model.Product) (bool, error)
	DeleteByCode(code string) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// Create inserts the product. A UNIQUE violation on code surfaces as
// model.ErrDuplicateCode.
func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ErrDuplicateCode
		}
		return err
	}
	return nil
}

// FindByCode returns the product or (nil, nil) when the code is unknown.
// Absence is an expected answer here, not a fault. Pass a tx when reading
// inside a transaction: the pool holds a single connection, so going
// through r.db mid-transaction would block.
func (r *productRepo) FindByCode(tx *gorm.DB, code string) (*model.Product, error) {
	if tx == nil {
		tx = r.db
	}
	var product model.Product
	err := tx.First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("code ASC").Find(&products).Error
	return products, err
}

// FindBy searches by the given criterion. Name matching uses instr so the
// substring comparison stays case-sensitive (SQLite LIKE is not for
// ASCII). An unknown criterion yields an empty result, not an error.
func (r *productRepo) FindBy(criterion SearchCriterion, value string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Order("code ASC")

	switch criterion {
	case ByCode:
		q = q.Where("code = ?", value)
	case ByName:
		q = q.Where("instr(name, ?) > 0", value)
	case ByCategory:
		q = q.Where("category = ?", value)
	default:
		return []model.Product{}, nil
	}

	err := q.Find(&products).Error
	return products, err
}

// Update overwrites every mutable column keyed by code and reports whether
// a row was touched. Save is not used here so the row is addressed by its
// code, matching the contract.
func (r *productRepo) Update(tx *gorm.DB, product *model.Product) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.Model(&model.Product{}).
		Where("code = ?", product.Code).
		Updates(map[string]interface{}{
			"name":           product.Name,
			"purchase_price": product.PurchasePrice,
			"sale_price":     product.SalePrice,
			"current_stock":  product.CurrentStock,
			"min_stock":      product.MinStock,
			"category":       product.Category,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) DeleteByCode(code string) (bool, error) {
	res := r.db.Where("code = ?", code).Delete(&model.Product{})
	return res.RowsAffected > 0, res.Error
}
