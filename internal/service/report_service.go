package service

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"go-almacen/internal/model"
	"go-almacen/internal/repository"
)

// LossTotals accumulates one loss bucket. Value is quantity times the
// product's current purchase price; movements whose product has been
// deleted count quantity but no value.
type LossTotals struct {
	Quantity int
	Value    decimal.Decimal
}

// ReturnTotals accumulates all DEVOLUCION movements, valued at the
// current sale price.
type ReturnTotals struct {
	Quantity int
	Value    decimal.Decimal
}

// SellerRank is one best-seller entry: product snapshot name and total
// quantity issued.
type SellerRank struct {
	Code     string
	Name     string
	Quantity int
}

// GeneralReport is the dashboard snapshot.
type GeneralReport struct {
	ProductCount   int
	CategoryCount  int
	InventoryValue decimal.Decimal
	LowStockCount  int
	MovementCount  int64
}

// ReportService derives aggregates from products and the movement log.
// Every call reads fresh state; nothing is cached between calls.
type ReportService interface {
	LowStockProducts() ([]model.Product, error)
	LossSummary() (map[model.LossType]LossTotals, error)
	ReturnSummary() (ReturnTotals, error)
	BestSellers(top int) ([]SellerRank, error)
	InventoryValue() (decimal.Decimal, error)
	Generate() (*GeneralReport, error)
}

type reportService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	categoryRepo repository.CategoryRepository
}

func NewReportService(
	pRepo repository.ProductRepository,
	mRepo repository.MovementRepository,
	cRepo repository.CategoryRepository,
) ReportService {
	return &reportService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		categoryRepo: cRepo,
	}
}

// LowStockProducts returns the products at or below their restock
// threshold, ordered by code.
func (s *reportService) LowStockProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	low := make([]model.Product, 0)
	for _, p := range products {
		if p.NeedsRestock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// LossSummary buckets PERDIDA movements into the four fixed subtypes by
// the uppercased tag inside the stored reason; the first matching tag
// wins and unmatched movements are dropped from the totals. The map is
// built fresh on every call and always carries all four keys.
func (s *reportService) LossSummary() (map[model.LossType]LossTotals, error) {
	buckets := make(map[model.LossType]LossTotals, 4)
	for _, t := range model.LossTypes() {
		buckets[t] = LossTotals{Value: decimal.Zero}
	}

	losses, err := s.movementRepo.FindByKind(model.KindLoss, 0)
	if err != nil {
		return nil, err
	}

	for _, m := range losses {
		var matched model.LossType
		for _, t := range model.LossTypes() {
			if strings.Contains(m.ReasonText(), strings.ToUpper(string(t))) {
				matched = t
				break
			}
		}
		if matched == "" {
			continue
		}

		totals := buckets[matched]
		totals.Quantity += m.Quantity

		product, err := s.productRepo.FindByCode(nil, m.ProductCode)
		if err != nil {
			return nil, err
		}
		if product != nil {
			totals.Value = totals.Value.Add(product.PurchasePrice.Mul(decimal.NewFromInt(int64(m.Quantity))))
		}
		buckets[matched] = totals
	}

	return buckets, nil
}

// ReturnSummary totals every DEVOLUCION movement, valued at the current
// sale price of the product; a deleted product contributes quantity only.
func (s *reportService) ReturnSummary() (ReturnTotals, error) {
	totals := ReturnTotals{Value: decimal.Zero}

	returns, err := s.movementRepo.FindByKind(model.KindReturn, 0)
	if err != nil {
		return totals, err
	}

	for _, m := range returns {
		totals.Quantity += m.Quantity

		product, err := s.productRepo.FindByCode(nil, m.ProductCode)
		if err != nil {
			return totals, err
		}
		if product != nil {
			totals.Value = totals.Value.Add(product.SalePrice.Mul(decimal.NewFromInt(int64(m.Quantity))))
		}
	}

	return totals, nil
}

// BestSellers accumulates issued quantity per product code over all
// SALIDA movements and returns the top entries, largest first. Ties break
// by product code ascending so the ranking is deterministic.
func (s *reportService) BestSellers(top int) ([]SellerRank, error) {
	issues, err := s.movementRepo.FindByKind(model.KindIssue, 0)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*SellerRank)
	for _, m := range issues {
		r, ok := byCode[m.ProductCode]
		if !ok {
			r = &SellerRank{Code: m.ProductCode, Name: m.ProductName}
			byCode[m.ProductCode] = r
		}
		r.Quantity += m.Quantity
	}

	ranks := make([]SellerRank, 0, len(byCode))
	for _, r := range byCode {
		ranks = append(ranks, *r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Quantity != ranks[j].Quantity {
			return ranks[i].Quantity > ranks[j].Quantity
		}
		return ranks[i].Code < ranks[j].Code
	})

	if top > 0 && top < len(ranks) {
		ranks = ranks[:top]
	}
	return ranks, nil
}

// InventoryValue sums purchase price times current stock over all
// products.
func (s *reportService) InventoryValue() (decimal.Decimal, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return decimal.Zero, err
	}
	return inventoryValue(products), nil
}

func inventoryValue(products []model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.CurrentStock))))
	}
	return total
}

// Generate builds the general snapshot in one pass over the products plus
// the two counters.
func (s *reportService) Generate() (*GeneralReport, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.Count()
	if err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.Count()
	if err != nil {
		return nil, err
	}

	low := 0
	for _, p := range products {
		if p.NeedsRestock() {
			low++
		}
	}

	return &GeneralReport{
		ProductCount:   len(products),
		CategoryCount:  int(categories),
		InventoryValue: inventoryValue(products),
		LowStockCount:  low,
		MovementCount:  movements,
	}, nil
}
