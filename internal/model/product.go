package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"go-almacen/pkg/validator"
)

// Product is a tracked inventory item. Prices are decimals (two-decimal
// display at the edges), stock counters are plain integers. ID is the
// autoincrement identity assigned by the store.
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`
	CurrentStock  int             `gorm:"not null" json:"current_stock" validate:"gte=0"`
	MinStock      int             `gorm:"not null" json:"min_stock" validate:"gte=0"`
	Category      string          `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
}

// NewProduct validates and builds a product. String fields are trimmed;
// empty code/name/category and negative prices or stocks are rejected
// before anything touches the database.
func NewProduct(code, name string, purchasePrice, salePrice decimal.Decimal, currentStock, minStock int, category string) (*Product, error) {
	p := &Product{
		Code:          strings.TrimSpace(code),
		Name:          strings.TrimSpace(name),
		PurchasePrice: purchasePrice,
		SalePrice:     salePrice,
		CurrentStock:  currentStock,
		MinStock:      minStock,
		Category:      strings.TrimSpace(category),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the construction invariants.
func (p *Product) Validate() error {
	if errs := validator.ValidateStruct(p); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: campo '%s' no cumple '%s'", ErrValidation, first.FailedField, first.Tag)
	}
	// validator tags cannot look inside decimal.Decimal
	if p.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: el precio de compra no puede ser negativo", ErrValidation)
	}
	if p.SalePrice.IsNegative() {
		return fmt.Errorf("%w: el precio de venta no puede ser negativo", ErrValidation)
	}
	return nil
}

// NeedsRestock reports whether the product is at or below its restock
// threshold.
func (p *Product) NeedsRestock() bool {
	return p.CurrentStock <= p.MinStock
}

// ProductUpdate carries the optional fields EditProduct may change.
// A nil slot means "leave as is".
type ProductUpdate struct {
	Name          *string
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
	MinStock      *int
	Category      *string
}

// Apply copies the valid, present fields onto the product. Malformed
// individual fields (blank strings, negative numbers) are skipped
// silently; the edit succeeds with whatever remains.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.PurchasePrice != nil && !u.PurchasePrice.IsNegative() {
		p.PurchasePrice = *u.PurchasePrice
	}
	if u.SalePrice != nil && !u.SalePrice.IsNegative() {
		p.SalePrice = *u.SalePrice
	}
	if u.MinStock != nil && *u.MinStock >= 0 {
		p.MinStock = *u.MinStock
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) != "" {
		p.Category = strings.TrimSpace(*u.Category)
	}
}
