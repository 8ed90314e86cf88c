package catalog

import (
	"context"

	"github.com/example/catalog-service/domain/product"
	"github.com/shopspring/decimal"
)

// CreateInput holds the fields accepted when creating a product.
type CreateInput struct {
	Name        string
	Price       decimal.Decimal
	Stock       int
	SKU         *string
	Description string
}

// Page is one slice of the available products plus its position metadata.
type Page struct {
	Data []product.Product
	Meta product.PageMeta
}

// ProductService defines the catalog business operations.
// Every error it returns is a *product.Error.
type ProductService interface {
	// Create validates and stores a new available product.
	Create(ctx context.Context, in CreateInput) (*product.Product, error)
	// ListPage returns page (1-indexed) of available products, limit per page.
	ListPage(ctx context.Context, page, limit int) (Page, error)
	// GetOne returns a product by id. With activeOnly, soft-deleted products are not found.
	GetOne(ctx context.Context, id int64, activeOnly bool) (*product.Product, error)
	// Update merges the present patch fields into the product.
	Update(ctx context.Context, id int64, patch product.Patch) (*product.Product, error)
	// Remove soft-deletes a product. Removing twice is not an error.
	Remove(ctx context.Context, id int64) (*product.Product, error)
	// HardRemove physically deletes a product.
	HardRemove(ctx context.Context, id int64) error
}

// ProductServiceImpl implements ProductService on top of a ProductRepository.
type ProductServiceImpl struct {
	repo ProductRepository
}

// Compile-time interface check.
var _ ProductService = (*ProductServiceImpl)(nil)

// NewProductService creates a ProductService backed by repo.
func NewProductService(repo ProductRepository) ProductService {
	return &ProductServiceImpl{repo: repo}
}

// Create handles product creation.
func (s *ProductServiceImpl) Create(ctx context.Context, in CreateInput) (*product.Product, error) {
	p := &product.Product{
		Name:        in.Name,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		Description: in.Description,
		Available:   true,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, classify(err, 0, true, "failed to create product")
	}
	return p, nil
}

// ListPage handles paginated listing of available products.
func (s *ProductServiceImpl) ListPage(ctx context.Context, page, limit int) (Page, error) {
	if page < 1 {
		return Page{}, product.InvalidInput("page must be greater than or equal to 1")
	}
	if limit < 1 {
		return Page{}, product.InvalidInput("limit must be greater than or equal to 1")
	}

	total, err := s.repo.CountAvailable(ctx)
	if err != nil {
		return Page{}, classify(err, 0, false, "failed to count products")
	}

	meta := product.PageMeta{
		Page:     page,
		Total:    total,
		LastPage: product.LastPage(total, limit),
	}
	if page > meta.LastPage {
		return Page{Data: []product.Product{}, Meta: meta}, nil
	}

	products, err := s.repo.ListAvailable(ctx, product.Offset(page, limit), limit)
	if err != nil {
		return Page{}, classify(err, 0, false, "failed to list products")
	}
	if products == nil {
		products = []product.Product{}
	}
	return Page{Data: products, Meta: meta}, nil
}

// GetOne handles single product lookup.
func (s *ProductServiceImpl) GetOne(ctx context.Context, id int64, activeOnly bool) (*product.Product, error) {
	var (
		p   *product.Product
		err error
	)
	if activeOnly {
		p, err = s.repo.FindAvailableByID(ctx, id)
	} else {
		p, err = s.repo.FindByID(ctx, id)
	}
	if err != nil {
		return nil, classify(err, id, false, "failed to find product")
	}
	return p, nil
}

// Update handles partial product updates.
func (s *ProductServiceImpl) Update(ctx context.Context, id int64, patch product.Patch) (*product.Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, classify(err, id, true, "failed to update product")
	}
	return p, nil
}

// Remove handles soft deletion.
func (s *ProductServiceImpl) Remove(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.repo.MarkUnavailable(ctx, id)
	if err != nil {
		return nil, classify(err, id, true, "failed to remove product")
	}
	return p, nil
}

// HardRemove handles physical deletion.
func (s *ProductServiceImpl) HardRemove(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return classify(err, id, true, "failed to delete product")
	}
	return nil
}
