package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/catalog-service/domain/product"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// failingRepository wraps a MemoryRepository and fails selected calls.
type failingRepository struct {
	*MemoryRepository
	createErr error
	countErr  error
	listErr   error
	updateErr error
	deleteErr error
	writes    int
}

func (f *failingRepository) Create(ctx context.Context, p *product.Product) error {
	f.writes++
	if f.createErr != nil {
		return f.createErr
	}
	return f.MemoryRepository.Create(ctx, p)
}

func (f *failingRepository) CountAvailable(ctx context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.MemoryRepository.CountAvailable(ctx)
}

func (f *failingRepository) ListAvailable(ctx context.Context, offset, limit int) ([]product.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MemoryRepository.ListAvailable(ctx, offset, limit)
}

func (f *failingRepository) Update(ctx context.Context, id int64, patch product.Patch) (*product.Product, error) {
	f.writes++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.MemoryRepository.Update(ctx, id, patch)
}

func (f *failingRepository) Delete(ctx context.Context, id int64) error {
	f.writes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryRepository.Delete(ctx, id)
}

func newTestService() (ProductService, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewProductService(repo), repo
}

func mustCreate(t *testing.T, svc ProductService, name string) *product.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), CreateInput{
		Name:  name,
		Price: decimal.RequireFromString("2.50"),
		Stock: 1,
	})
	require.NoError(t, err)
	return p
}

func assertKind(t *testing.T, err error, kind product.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, product.KindOf(err), "unexpected error: %v", err)
}

func TestProductService_Create(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), CreateInput{
		Name:  "Pen",
		Price: decimal.RequireFromString("1.5"),
		Stock: 10,
	})
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.True(t, p.Available)
	assert.Equal(t, 10, p.Stock)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1.5")))
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestProductService_CreateInvalidInputNeverWrites(t *testing.T) {
	tests := []struct {
		name string
		in   CreateInput
	}{
		{"negative price", CreateInput{Name: "Pen", Price: decimal.NewFromInt(-5)}},
		{"zero price", CreateInput{Name: "Pen", Price: decimal.Zero}},
		{"too many decimals", CreateInput{Name: "Pen", Price: decimal.RequireFromString("1.23456")}},
		{"blank name", CreateInput{Name: "  ", Price: decimal.NewFromInt(1)}},
		{"negative stock", CreateInput{Name: "Pen", Price: decimal.NewFromInt(1), Stock: -1}},
		{"empty sku", CreateInput{Name: "Pen", Price: decimal.NewFromInt(1), SKU: strPtr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &failingRepository{MemoryRepository: NewMemoryRepository()}
			svc := NewProductService(repo)

			_, err := svc.Create(context.Background(), tt.in)
			assertKind(t, err, product.KindInvalidInput)
			assert.Zero(t, repo.writes)

			total, err := repo.CountAvailable(context.Background())
			require.NoError(t, err)
			assert.Zero(t, total)
		})
	}
}

func TestProductService_CreateDuplicateSKU(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := CreateInput{Name: "Pen", Price: decimal.NewFromInt(1), SKU: strPtr("PEN-1")}
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	_, err = svc.Create(ctx, in)
	assertKind(t, err, product.KindStorageConflict)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProductService_ListPageEmptyStore(t *testing.T) {
	svc, _ := newTestService()

	for _, tc := range []struct{ page, limit int }{{1, 1}, {1, 10}, {3, 5}} {
		result, err := svc.ListPage(context.Background(), tc.page, tc.limit)
		require.NoError(t, err)
		assert.Empty(t, result.Data)
		assert.NotNil(t, result.Data)
		assert.Equal(t, product.PageMeta{Page: tc.page, Total: 0, LastPage: 0}, result.Meta)
	}
}

func TestProductService_ListPage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 7; i++ {
		ids = append(ids, mustCreate(t, svc, fmt.Sprintf("p%d", i)).ID)
	}
	_, err := svc.Remove(ctx, ids[0])
	require.NoError(t, err)

	tests := []struct {
		name     string
		page     int
		limit    int
		wantIDs  []int64
		lastPage int
	}{
		{"first page", 1, 4, ids[1:5], 2},
		{"last partial page", 2, 4, ids[5:7], 2},
		{"beyond last page", 3, 4, []int64{}, 2},
		{"limit larger than total", 1, 50, ids[1:7], 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ListPage(ctx, tt.page, tt.limit)
			require.NoError(t, err)

			got := make([]int64, 0, len(result.Data))
			for _, p := range result.Data {
				assert.True(t, p.Available)
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
			assert.Equal(t, product.PageMeta{Page: tt.page, Total: 6, LastPage: tt.lastPage}, result.Meta)
		})
	}
}

func TestProductService_ListPageIsStable(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 5; i++ {
		mustCreate(t, svc, fmt.Sprintf("p%d", i))
	}

	first, err := svc.ListPage(context.Background(), 2, 2)
	require.NoError(t, err)
	second, err := svc.ListPage(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProductService_ListPageRejectsInvalidBounds(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ListPage(context.Background(), 1, 0)
	assertKind(t, err, product.KindInvalidInput)

	_, err = svc.ListPage(context.Background(), 0, 10)
	assertKind(t, err, product.KindInvalidInput)
}

func TestProductService_PenExample(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	pen, err := svc.Create(ctx, CreateInput{Name: "Pen", Price: decimal.RequireFromString("1.5"), Stock: 10})
	require.NoError(t, err)
	assert.True(t, pen.Available)
	assert.Equal(t, 10, pen.Stock)

	removed, err := svc.Remove(ctx, pen.ID)
	require.NoError(t, err)
	assert.False(t, removed.Available)

	_, err = svc.GetOne(ctx, pen.ID, true)
	assertKind(t, err, product.KindNotFound)

	found, err := svc.GetOne(ctx, pen.ID, false)
	require.NoError(t, err)
	assert.Equal(t, removed, found)
}

func TestProductService_GetOneNotFound(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.GetOne(context.Background(), 42, false)
	assert.Nil(t, p)
	assertKind(t, err, product.KindNotFound)
	assert.ErrorIs(t, err, product.NotFound(42))
	assert.Contains(t, err.Error(), "42")
}

func TestProductService_Update(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	original, err := svc.Create(ctx, CreateInput{
		Name:        "Pen",
		Price:       decimal.RequireFromString("1.5"),
		Stock:       10,
		Description: "blue",
	})
	require.NoError(t, err)

	name := "X"
	updated, err := svc.Update(ctx, original.ID, product.Patch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "X", updated.Name)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.Price.Equal(original.Price))
	assert.Equal(t, original.Stock, updated.Stock)
	assert.Equal(t, original.Description, updated.Description)
	assert.True(t, updated.Available)
	assert.False(t, updated.UpdatedAt.Before(original.UpdatedAt))
}

func TestProductService_UpdateErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "Pen")

	name := "X"
	_, err := svc.Update(ctx, p.ID+100, product.Patch{Name: &name})
	assertKind(t, err, product.KindNotFound)

	bad := decimal.NewFromInt(-1)
	_, err = svc.Update(ctx, p.ID, product.Patch{Price: &bad})
	assertKind(t, err, product.KindInvalidInput)

	found, err := svc.GetOne(ctx, p.ID, false)
	require.NoError(t, err)
	assert.True(t, found.Price.Equal(p.Price))
}

func TestProductService_RemoveIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "Pen")

	first, err := svc.Remove(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, first.Available)

	second, err := svc.Remove(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, second.Available)

	_, err = svc.Remove(ctx, 999)
	assertKind(t, err, product.KindNotFound)
}

func TestProductService_HardRemove(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "Pen")

	_, err := svc.Remove(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.HardRemove(ctx, p.ID))

	_, err = svc.GetOne(ctx, p.ID, false)
	assertKind(t, err, product.KindNotFound)

	err = svc.HardRemove(ctx, p.ID)
	assertKind(t, err, product.KindNotFound)
}

func TestProductService_ClassifiesStorageFailures(t *testing.T) {
	ctx := context.Background()
	outage := &pgconn.PgError{Code: "08006", Message: "connection failure"}
	opaque := errors.New("disk on fire")

	t.Run("write outage is a conflict", func(t *testing.T) {
		repo := &failingRepository{MemoryRepository: NewMemoryRepository(), createErr: fmt.Errorf("failed to create product: %w", outage)}
		_, err := NewProductService(repo).Create(ctx, CreateInput{Name: "Pen", Price: decimal.NewFromInt(1)})
		assertKind(t, err, product.KindStorageConflict)
	})

	t.Run("read outage is unclassified", func(t *testing.T) {
		repo := &failingRepository{MemoryRepository: NewMemoryRepository(), countErr: outage}
		_, err := NewProductService(repo).ListPage(ctx, 1, 10)
		assertKind(t, err, product.KindUnclassified)
	})

	t.Run("unknown list failure is unclassified", func(t *testing.T) {
		repo := &failingRepository{MemoryRepository: NewMemoryRepository(), listErr: opaque}
		require.NoError(t, repo.MemoryRepository.Create(ctx, &product.Product{Name: "a", Price: decimal.NewFromInt(1), Available: true}))

		_, err := NewProductService(repo).ListPage(ctx, 1, 10)
		assertKind(t, err, product.KindUnclassified)
		assert.ErrorIs(t, err, opaque)
	})

	t.Run("unique violation on update is a conflict", func(t *testing.T) {
		repo := &failingRepository{MemoryRepository: NewMemoryRepository(), updateErr: &pgconn.PgError{Code: "23505"}}
		name := "X"
		_, err := NewProductService(repo).Update(ctx, 1, product.Patch{Name: &name})
		assertKind(t, err, product.KindStorageConflict)
	})

	t.Run("delete failure is unclassified", func(t *testing.T) {
		repo := &failingRepository{MemoryRepository: NewMemoryRepository(), deleteErr: opaque}
		err := NewProductService(repo).HardRemove(ctx, 1)
		assertKind(t, err, product.KindUnclassified)
	})
}
