package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
)

// Scope narrows a query
type Scope = func(*gorm.DB) *gorm.DB

// Store is the CRUD core shared by the entity repositories. T must embed BaseModel.
// Removed rows are invisible to every method.
type Store[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// Conn returns a session bound to ctx
func (s *Store[T]) Conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store[T]) Create(ctx context.Context, v *T) error {
	return s.db.WithContext(ctx).Create(v).Error
}

// FindByID returns gorm.ErrRecordNotFound for missing or removed rows
func (s *Store[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var v T
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store[T]) Update(ctx context.Context, v *T) error {
	return s.db.WithContext(ctx).Save(v).Error
}

// Delete soft deletes; a missing row yields gorm.ErrRecordNotFound
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	var v T
	result := s.db.WithContext(ctx).Delete(&v, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page, newest first, and the total matching count
func (s *Store[T]) List(ctx context.Context, p pagination.Params, scopes ...Scope) ([]*T, int64, error) {
	var model T
	query := s.db.WithContext(ctx).Model(&model).Scopes(scopes...)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*T
	if err := query.Order("id DESC").Scopes(p.Scope()).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Like matches column against a substring
func Like(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(column+" LIKE ?", "%"+value+"%")
	}
}

// Eq matches column exactly when value is non-nil
func Eq[V any](column string, value *V) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == nil {
			return db
		}
		return db.Where(column+" = ?", *value)
	}
}

// EqString matches column exactly when value is non-empty
func EqString(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}
