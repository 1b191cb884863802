package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-almacen/internal/model"
	"go-almacen/internal/repository"
	"go-almacen/pkg/logger"
)

// InventoryService is the business layer over products and the movement
// log. Every stock mutation and its paired movement insert run inside one
// database transaction, so the stock counter and the log cannot diverge.
type InventoryService interface {
	AddProduct(product *model.Product, responsible string) error
	EditProduct(code string, changes model.ProductUpdate) (*model.Product, error)
	RemoveProduct(code string) (*model.Product, error)
	GetProduct(code string) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	SearchProducts(criterion repository.SearchCriterion, value string) ([]model.Product, error)
	ListCategories() ([]string, error)

	ReceiveStock(code string, quantity int, responsible string) (*model.Product, error)
	IssueStock(code string, quantity int, responsible string) (*model.Product, error)
	ReturnStock(code string, quantity int, reason, responsible string) (*model.Product, error)
	RecordLoss(code string, quantity int, lossType model.LossType, reason, responsible string) (*model.Product, error)

	History(limit int) ([]model.Movement, error)
	MovementsByKind(kind model.MovementKind, limit int) ([]model.Movement, error)
	LossMovements(filter model.LossType) ([]model.Movement, error)
	UndoLastOperation() (*model.Movement, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
	log          *logger.Logger
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	mRepo repository.MovementRepository,
	cRepo repository.CategoryRepository,
	db *gorm.DB,
	log *logger.Logger,
) InventoryService {
	return &inventoryService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		categoryRepo: cRepo,
		db:           db,
		log:          log,
	}
}

// AddProduct persists the product, registers its category and, when the
// initial stock is positive, logs a synthetic ENTRADA movement for it.
func (s *inventoryService) AddProduct(product *model.Product, responsible string) error {
	if err := product.Validate(); err != nil {
		return err
	}

	var opening *model.Movement
	if product.CurrentStock > 0 {
		m, err := model.NewMovement(model.KindReceipt, product.Code, product.Name, product.CurrentStock, responsible, "")
		if err != nil {
			return err
		}
		opening = m
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return err
		}
		if err := s.categoryRepo.Register(tx, product.Category); err != nil {
			return err
		}
		if opening != nil {
			if err := s.movementRepo.Create(tx, opening); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("code", product.Code).Str("name", product.Name).
		Int("stock", product.CurrentStock).Msg("producto agregado")
	return nil
}

// EditProduct loads the product and applies the fields present and valid
// in changes; malformed slots are skipped, not rejected.
func (s *inventoryService) EditProduct(code string, changes model.ProductUpdate) (*model.Product, error) {
	product, err := s.productRepo.FindByCode(nil, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	changes.Apply(product)

	ok, err := s.productRepo.Update(nil, product)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("error al actualizar el producto %s", code)
	}

	s.log.Info().Str("code", code).Msg("producto actualizado")
	return product, nil
}

// RemoveProduct deletes by code and returns the removed product. The
// movement history is left intact: orphaned references keep the audit
// trail readable.
func (s *inventoryService) RemoveProduct(code string) (*model.Product, error) {
	product, err := s.productRepo.FindByCode(nil, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	ok, err := s.productRepo.DeleteByCode(code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("error al eliminar el producto %s", code)
	}

	s.log.Info().Str("code", code).Str("name", product.Name).Msg("producto eliminado")
	return product, nil
}

func (s *inventoryService) GetProduct(code string) (*model.Product, error) {
	return s.productRepo.FindByCode(nil, code)
}

func (s *inventoryService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) SearchProducts(criterion repository.SearchCriterion, value string) ([]model.Product, error) {
	return s.productRepo.FindBy(criterion, value)
}

func (s *inventoryService) ListCategories() ([]string, error) {
	return s.categoryRepo.FindAllNames()
}

// ReceiveStock adds quantity to the product's stock and logs an ENTRADA.
// There is no upper bound.
func (s *inventoryService) ReceiveStock(code string, quantity int, responsible string) (*model.Product, error) {
	return s.applyMovement(code, quantity, func(p *model.Product) (*model.Movement, error) {
		p.CurrentStock += quantity
		return model.NewMovement(model.KindReceipt, p.Code, p.Name, quantity, responsible, "")
	})
}

// IssueStock subtracts quantity, refusing to drive the stock negative,
// and logs a SALIDA.
func (s *inventoryService) IssueStock(code string, quantity int, responsible string) (*model.Product, error) {
	return s.applyMovement(code, quantity, func(p *model.Product) (*model.Movement, error) {
		if p.CurrentStock < quantity {
			return nil, fmt.Errorf("%w: %d", model.ErrInsufficientStock, p.CurrentStock)
		}
		p.CurrentStock -= quantity
		return model.NewMovement(model.KindIssue, p.Code, p.Name, quantity, responsible, "")
	})
}

// ReturnStock adds quantity back and logs a DEVOLUCION; the reason is
// mandatory (enforced by the movement constructor).
func (s *inventoryService) ReturnStock(code string, quantity int, reason, responsible string) (*model.Product, error) {
	return s.applyMovement(code, quantity, func(p *model.Product) (*model.Movement, error) {
		p.CurrentStock += quantity
		return model.NewMovement(model.KindReturn, p.Code, p.Name, quantity, responsible, reason)
	})
}

// RecordLoss subtracts quantity, refusing to drive the stock negative,
// and logs a PERDIDA whose reason carries the subtype tag.
func (s *inventoryService) RecordLoss(code string, quantity int, lossType model.LossType, reason, responsible string) (*model.Product, error) {
	return s.applyMovement(code, quantity, func(p *model.Product) (*model.Movement, error) {
		if p.CurrentStock < quantity {
			return nil, fmt.Errorf("%w: %d", model.ErrInsufficientStock, p.CurrentStock)
		}
		p.CurrentStock -= quantity
		return model.NewLossMovement(p.Code, p.Name, quantity, responsible, lossType, reason)
	})
}

// applyMovement is the shared mutation path: load the product, let mutate
// adjust the in-memory stock and build the movement record, then persist
// both in one transaction.
func (s *inventoryService) applyMovement(code string, quantity int, mutate func(*model.Product) (*model.Movement, error)) (*model.Product, error) {
	product, err := s.productRepo.FindByCode(nil, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	movement, err := mutate(product)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.productRepo.Update(tx, product)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("error al actualizar el producto %s", code)
		}
		return s.movementRepo.Create(tx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("kind", string(movement.Kind)).Str("code", code).
		Int("quantity", quantity).Int("stock", product.CurrentStock).
		Msg("movimiento registrado")
	return product, nil
}

// History returns the most recent movements; limit <= 0 means all.
func (s *inventoryService) History(limit int) ([]model.Movement, error) {
	return s.movementRepo.FindAll(limit)
}

func (s *inventoryService) MovementsByKind(kind model.MovementKind, limit int) ([]model.Movement, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento inválido", model.ErrValidation)
	}
	return s.movementRepo.FindByKind(kind, limit)
}

// LossMovements lists PERDIDA movements, optionally only those whose
// reason carries the given subtype.
func (s *inventoryService) LossMovements(filter model.LossType) ([]model.Movement, error) {
	losses, err := s.movementRepo.FindByKind(model.KindLoss, 0)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return losses, nil
	}

	tag := strings.ToUpper(string(filter))
	filtered := make([]model.Movement, 0, len(losses))
	for _, m := range losses {
		if strings.Contains(m.ReasonText(), tag) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// UndoLastOperation pops the last-inserted movement and reverses its stock
// effect. Everything runs in one transaction, so a reversal that cannot be
// applied (product gone, stock would go negative) leaves the log intact.
func (s *inventoryService) UndoLastOperation() (*model.Movement, error) {
	var undone *model.Movement

	err := s.db.Transaction(func(tx *gorm.DB) error {
		movement, err := s.movementRepo.PopMostRecent(tx)
		if err != nil {
			return err
		}
		if movement == nil {
			return model.ErrNothingToUndo
		}

		product, err := s.productRepo.FindByCode(tx, movement.ProductCode)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: el producto ya no existe", model.ErrNotFound)
		}

		if movement.Kind.Adds() {
			// reversing an addition subtracts, which can under-run
			if product.CurrentStock < movement.Quantity {
				return model.ErrInsufficientStockToUndo
			}
			product.CurrentStock -= movement.Quantity
		} else {
			product.CurrentStock += movement.Quantity
		}

		ok, err := s.productRepo.Update(tx, product)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("error al actualizar el producto %s", product.Code)
		}

		undone = movement
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("kind", string(undone.Kind)).Str("code", undone.ProductCode).
		Int("quantity", undone.Quantity).Msg("operación cancelada")
	return undone, nil
}
