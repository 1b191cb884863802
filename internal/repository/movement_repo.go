package repository

import (
	"errors"

	"gorm.io/gorm"

	"go-almacen/internal/model"
)

type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.Movement) error
	FindAll(limit int) ([]model.Movement, error)
	FindByKind(kind model.MovementKind, limit int) ([]model.Movement, error)
	PopMostRecent(tx *gorm.DB) (*model.Movement, error)
	Count() (int64, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(tx *gorm.DB, movement *model.Movement) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(movement).Error
}

// list orders newest first. Equal timestamps (second precision) fall back
// to insertion identity so the order is deterministic.
func (r *movementRepo) list(q *gorm.DB, limit int) ([]model.Movement, error) {
	var movements []model.Movement
	q = q.Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&movements).Error
	return movements, err
}

// FindAll returns movements newest first; limit <= 0 means no cap.
func (r *movementRepo) FindAll(limit int) ([]model.Movement, error) {
	return r.list(r.db.Model(&model.Movement{}), limit)
}

func (r *movementRepo) FindByKind(kind model.MovementKind, limit int) ([]model.Movement, error) {
	return r.list(r.db.Model(&model.Movement{}).Where("kind = ?", kind), limit)
}

// PopMostRecent deletes and returns the movement with the highest id, the
// last inserted row regardless of timestamp. Returns (nil, nil) on an
// empty log. This is the undo primitive, not a query.
func (r *movementRepo) PopMostRecent(tx *gorm.DB) (*model.Movement, error) {
	if tx == nil {
		tx = r.db
	}
	var movement model.Movement
	err := tx.Order("id DESC").First(&movement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Delete(&model.Movement{}, movement.ID).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *movementRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.Movement{}).Count(&n).Error
	return n, err
}
