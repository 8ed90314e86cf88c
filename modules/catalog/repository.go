package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/catalog-service/domain/product"
	"gorm.io/gorm"
)

// ErrNotFound is returned by repositories when no row matches the id.
var ErrNotFound = errors.New("product not found")

// ProductRepository defines the storage operations the catalog service needs.
type ProductRepository interface {
	// Create inserts a new product and fills in its store-assigned fields.
	Create(ctx context.Context, p *product.Product) error
	// CountAvailable returns the number of products with available=true.
	CountAvailable(ctx context.Context) (int64, error)
	// ListAvailable returns available products in insertion order.
	ListAvailable(ctx context.Context, offset, limit int) ([]product.Product, error)
	// FindByID returns a product regardless of availability.
	FindByID(ctx context.Context, id int64) (*product.Product, error)
	// FindAvailableByID returns a product only if it is available.
	FindAvailableByID(ctx context.Context, id int64) (*product.Product, error)
	// Update applies the patch and refreshes updated_at.
	Update(ctx context.Context, id int64, patch product.Patch) (*product.Product, error)
	// MarkUnavailable sets available=false and refreshes updated_at.
	MarkUnavailable(ctx context.Context, id int64) (*product.Product, error)
	// Delete physically removes a product.
	Delete(ctx context.Context, id int64) error
}

// GormRepository provides product storage through GORM.
type GormRepository struct {
	db *gorm.DB
}

// Compile-time interface check.
var _ ProductRepository = (*GormRepository)(nil)

// NewGormRepository creates a new GORM-backed product repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create saves a new product to the database.
func (r *GormRepository) Create(ctx context.Context, p *product.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// CountAvailable counts products that are not soft-deleted.
func (r *GormRepository) CountAvailable(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&product.Product{}).
		Where("available = ?", true).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count available products: %w", err)
	}
	return total, nil
}

// ListAvailable returns one page of available products ordered by id.
func (r *GormRepository) ListAvailable(ctx context.Context, offset, limit int) ([]product.Product, error) {
	var products []product.Product
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("select products page: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its ID.
func (r *GormRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// FindAvailableByID retrieves a product by its ID if it has not been soft-deleted.
func (r *GormRepository) FindAvailableByID(ctx context.Context, id int64) (*product.Product, error) {
	return r.first(r.db.WithContext(ctx).Where("available = ?", true), id)
}

// Update merges the patch into the row and returns the stored result.
func (r *GormRepository) Update(ctx context.Context, id int64, patch product.Patch) (*product.Product, error) {
	cols := patch.Columns()
	cols["updated_at"] = time.Now()
	return r.updateColumns(ctx, id, cols)
}

// MarkUnavailable soft-deletes a product.
func (r *GormRepository) MarkUnavailable(ctx context.Context, id int64) (*product.Product, error) {
	return r.updateColumns(ctx, id, map[string]any{
		"available":  false,
		"updated_at": time.Now(),
	})
}

// Delete removes a product row.
func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&product.Product{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// updateColumns writes cols and reads the row back in one transaction.
func (r *GormRepository) updateColumns(ctx context.Context, id int64, cols map[string]any) (*product.Product, error) {
	var updated *product.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&product.Product{}).Where("id = ?", id).Updates(cols)
		if result.Error != nil {
			return fmt.Errorf("update product %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		p, err := r.first(tx, id)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *GormRepository) first(q *gorm.DB, id int64) (*product.Product, error) {
	var p product.Product
	if err := q.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select product %d: %w", id, err)
	}
	return &p, nil
}
