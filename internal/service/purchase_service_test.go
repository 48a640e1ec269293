package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tradebook/internal/billing"
	"tradebook/internal/domain"
	"tradebook/internal/service"
	"tradebook/mocks"
)

func purchaseInput() service.CreatePurchaseInput {
	return service.CreatePurchaseInput{
		Supplier:      " Surat Mills ",
		InvoiceNumber: "SM-4411",
		InvoiceDate:   "2025-06-01",
		GSTType:       domain.GSTTypeWith,
		GSTRate:       12,
		Items: []service.PurchaseItemInput{
			{ProductID: sareeID.String(), Quantity: 10, Price: dec("180.50"), Remark: " roll 1 "},
		},
	}
}

func TestPurchaseService_Create_WithGST(t *testing.T) {
	repo := new(mocks.MockPurchaseInvoiceRepo)
	products := new(mocks.MockProductRepo)
	svc := service.NewPurchaseService(repo, products)
	userID := uuid.New()

	products.On("GetByIDs", mock.Anything, []uuid.UUID{sareeID}).Return([]domain.Product{saree()}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PurchaseInvoice")).Return(nil)

	inv, err := svc.Create(context.Background(), userID, purchaseInput())

	require.NoError(t, err)
	assert.Equal(t, "Surat Mills", inv.Supplier)
	assert.True(t, inv.InvoiceDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, domain.IST)))
	assert.True(t, inv.GrossAmount.Equal(dec("1805")))
	assert.True(t, inv.GSTAmount.Equal(dec("216.6")))
	assert.True(t, inv.CGST.Equal(dec("108.3")))
	assert.True(t, inv.SGST.Equal(dec("108.3")))
	assert.True(t, inv.GrandTotal.Equal(dec("2021.6")))
	assert.Equal(t, 12, inv.GSTRate)
	assert.Equal(t, userID, inv.CreatedBy)

	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Cotton Saree", inv.Items[0].ProductName)
	assert.Equal(t, "roll 1", inv.Items[0].Remark)
	assert.True(t, inv.Items[0].LineTotal.Equal(dec("1805")))
	repo.AssertExpectations(t)
}

func TestPurchaseService_Create_WithoutGSTIgnoresRate(t *testing.T) {
	repo := new(mocks.MockPurchaseInvoiceRepo)
	products := new(mocks.MockProductRepo)
	svc := service.NewPurchaseService(repo, products)

	in := purchaseInput()
	in.GSTType = domain.GSTTypeWithout
	in.GSTRate = 7

	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	inv, err := svc.Create(context.Background(), uuid.New(), in)

	require.NoError(t, err)
	assert.Equal(t, 0, inv.GSTRate)
	assert.True(t, inv.GSTAmount.IsZero())
	assert.True(t, inv.GrandTotal.Equal(dec("1805")))
}

func TestPurchaseService_Create_ValidationIssues(t *testing.T) {
	repo := new(mocks.MockPurchaseInvoiceRepo)
	products := new(mocks.MockProductRepo)
	svc := service.NewPurchaseService(repo, products)

	in := service.CreatePurchaseInput{
		InvoiceDate: "01/06/2025",
		GSTType:     domain.GSTTypeWith,
		GSTRate:     7,
		Items: []service.PurchaseItemInput{
			{Quantity: 1, Price: dec("10")},
			{ProductID: sareeID.String(), Quantity: 0, Price: dec("10")},
		},
	}
	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)

	_, err := svc.Create(context.Background(), uuid.New(), in)

	var ve *billing.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := []string{}
	for _, is := range ve.Issues {
		fields = append(fields, is.Field)
	}
	assert.ElementsMatch(t, []string{
		"supplier", "invoice_number", "invoice_date", "gst_rate_percent",
		"items[0].product_id", "items[1].quantity",
	}, fields)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPurchaseService_Create_InvalidGSTTypeAndNoItems(t *testing.T) {
	repo := new(mocks.MockPurchaseInvoiceRepo)
	products := new(mocks.MockProductRepo)
	svc := service.NewPurchaseService(repo, products)

	in := purchaseInput()
	in.GSTType = "partial"
	in.Items = nil

	_, err := svc.Create(context.Background(), uuid.New(), in)

	assert.ErrorIs(t, err, domain.ErrNoItems)
	var ve *billing.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "INVALID_GST_TYPE", ve.Issues[0].Code)
}

func TestPurchaseService_Create_UnknownProduct(t *testing.T) {
	repo := new(mocks.MockPurchaseInvoiceRepo)
	products := new(mocks.MockProductRepo)
	svc := service.NewPurchaseService(repo, products)

	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{}, nil)

	_, err := svc.Create(context.Background(), uuid.New(), purchaseInput())

	assert.ErrorIs(t, err, billing.ErrUnknownProduct)
}

func TestPurchaseService_Create_DuplicateBill(t *testing.T) {
	repo := new(mocks.MockPurchaseInvoiceRepo)
	products := new(mocks.MockProductRepo)
	svc := service.NewPurchaseService(repo, products)

	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicatePurchaseBill)

	_, err := svc.Create(context.Background(), uuid.New(), purchaseInput())

	assert.ErrorIs(t, err, domain.ErrDuplicatePurchaseBill)
}

func TestPurchaseService_Delete_StockAlreadySold(t *testing.T) {
	repo := new(mocks.MockPurchaseInvoiceRepo)
	products := new(mocks.MockProductRepo)
	svc := service.NewPurchaseService(repo, products)

	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(domain.ErrInsufficientStock)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), domain.ErrInsufficientStock)
}

func TestPurchaseService_Create_RejectsSubPaisaPrice(t *testing.T) {
	repo := new(mocks.MockPurchaseInvoiceRepo)
	products := new(mocks.MockProductRepo)
	svc := service.NewPurchaseService(repo, products)

	in := purchaseInput()
	in.Items[0].Price = dec("180.505")
	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)

	_, err := svc.Create(context.Background(), uuid.New(), in)

	require.ErrorIs(t, err, billing.ErrTooPrecise)
	var ve *billing.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "items[0].price", ve.Issues[0].Field)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
