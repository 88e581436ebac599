package application

import (
	"context"
	"testing"

	"garde/internal/service/catalog/domain"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

type fakeRepo struct {
	products []domain.Product
}

func (f *fakeRepo) ListProducts(_ context.Context, category string) ([]domain.Product, error) {
	var result []domain.Product
	for _, p := range f.products {
		if category != "" && p.Category != category {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (f *fakeRepo) FindByID(_ context.Context, productID string) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].ProductID == productID {
			return &f.products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

type fakeRequestBook struct {
	requests []*domain.ProductRequest
	err      error
}

func (f *fakeRequestBook) Add(_ context.Context, req *domain.ProductRequest) error {
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, req)
	return nil
}

func newTestCatalogService(book *fakeRequestBook) *CatalogService {
	return NewCatalogService(&fakeRepo{}, book, nil, otel.Tracer("test"))
}

func TestSaveRequestRecordsTrimmedInput(t *testing.T) {
	book := &fakeRequestBook{}
	svc := newTestCatalogService(book)

	err := svc.SaveRequest(context.Background(), "  Huggies Size 4 ", " any scent ")
	require.NoError(t, err)

	require.Len(t, book.requests, 1)
	assert.Equal(t, "Huggies Size 4", book.requests[0].ProductName)
	assert.Equal(t, "any scent", book.requests[0].Details)
	assert.False(t, book.requests[0].RequestedAt.IsZero())
}

func TestSaveRequestMissingName(t *testing.T) {
	book := &fakeRequestBook{}
	svc := newTestCatalogService(book)

	err := svc.SaveRequest(context.Background(), "   ", "details")
	assert.ErrorIs(t, err, domain.ErrMissingRequestName)
	assert.Empty(t, book.requests)
}

func TestSaveRequestDetailsOptional(t *testing.T) {
	book := &fakeRequestBook{}
	svc := newTestCatalogService(book)

	require.NoError(t, svc.SaveRequest(context.Background(), "Baby wipes", ""))
	require.Len(t, book.requests, 1)
	assert.Empty(t, book.requests[0].Details)
}

func TestSaveRequestBookFailure(t *testing.T) {
	book := &fakeRequestBook{err: errors.New("sheets quota exceeded")}
	svc := newTestCatalogService(book)

	err := svc.SaveRequest(context.Background(), "Baby wipes", "")
	assert.Error(t, err)
}
