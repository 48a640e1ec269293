package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tradebook/internal/billing"
	"tradebook/internal/config"
	"tradebook/internal/domain"
	"tradebook/internal/port"
	"tradebook/internal/service"
	"tradebook/mocks"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func gstRate(n int) *int { return &n }

type orderFixture struct {
	orders     *mocks.MockOrderRepo
	products   *mocks.MockProductRepo
	customers  *mocks.MockCustomerRepo
	consignees *mocks.MockConsigneeRepo
	storage    *mocks.MockObjectStorage
	email      *mocks.MockEmailSender
	svc        service.OrderService
}

func newOrderFixture(withStorage bool) *orderFixture {
	f := &orderFixture{
		orders:     new(mocks.MockOrderRepo),
		products:   new(mocks.MockProductRepo),
		customers:  new(mocks.MockCustomerRepo),
		consignees: new(mocks.MockConsigneeRepo),
		storage:    new(mocks.MockObjectStorage),
		email:      new(mocks.MockEmailSender),
	}
	cfg := testS3Config()
	var storage port.ObjectStorage
	if withStorage {
		storage = f.storage
	}
	f.svc = service.NewOrderService(f.orders, f.products, f.customers, f.consignees,
		storage, f.email, &cfg, config.BillingConfig{DefaultGSTRate: 5})
	return f
}

var sareeID = uuid.MustParse("6f1c2f0e-8d8c-4a53-9a43-2b1f6a0c1a01")

func saree() domain.Product {
	return domain.Product{ID: sareeID, Name: "Cotton Saree", HSN: "5208", Price: dec("250"), Stock: 40}
}

func sareeOrderInput() service.CreateOrderInput {
	return service.CreateOrderInput{
		Firm:          "devjyoti",
		CustomerName:  "Sita Fabrics",
		CustomerPhone: "98120 00000",
		Items: []billing.LineItem{
			{ProductID: sareeID.String(), Price: dec("250"), Quantity: 4},
		},
		InvoiceDiscountPercent: dec("10"),
		WithGST:                true,
		GSTRate:                gstRate(5),
		AmountPaid:             dec("500"),
	}
}

func TestOrderService_Create_LooksUpPreviousPending(t *testing.T) {
	f := newOrderFixture(false)
	userID := uuid.New()

	f.products.On("GetByIDs", mock.Anything, []uuid.UUID{sareeID}).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, "9812000000").
		Return(&domain.Customer{Phone: "9812000000", PendingBalance: dec("200")}, nil)

	var saved *domain.Order
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.Order)
			saved.InvoiceNumber = "DJT/2025-26/0001"
		}).Return(nil)

	order, err := f.svc.Create(context.Background(), userID, sareeOrderInput())

	require.NoError(t, err)
	require.Same(t, saved, order)
	assert.Equal(t, domain.FirmDevJyoti, order.Firm)
	assert.Equal(t, "9812000000", order.CustomerPhone)
	assert.True(t, order.GrossAmount.Equal(dec("1000")))
	assert.True(t, order.DiscountAmount.Equal(dec("100")))
	assert.True(t, order.TaxableAmount.Equal(dec("900")))
	assert.True(t, order.GSTAmount.Equal(dec("45")))
	assert.True(t, order.CGST.Equal(dec("22.5")))
	assert.True(t, order.SGST.Equal(dec("22.5")))
	assert.True(t, order.GrandTotal.Equal(dec("945")))
	assert.True(t, order.PreviousPending.Equal(dec("200")))
	assert.True(t, order.AmountPaid.Equal(dec("500")))
	assert.True(t, order.CreditApplied.IsZero())
	assert.True(t, order.CarryForward.Equal(dec("645")))
	require.NotNil(t, order.ExpectedBalance)
	assert.True(t, order.ExpectedBalance.Equal(dec("200")))
	assert.Equal(t, userID, order.CreatedBy)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, sareeID, item.ProductID)
	assert.Equal(t, "Cotton Saree", item.Name)
	assert.Equal(t, "5208", item.HSN)
	assert.True(t, item.LineTotal.Equal(dec("1000")))
	f.orders.AssertExpectations(t)
}

func TestOrderService_Create_AppliesStoredCredit(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.InvoiceDiscountPercent = decimal.Zero
	in.WithGST = false
	in.AmountPaid = dec("300")

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, "9812000000").
		Return(&domain.Customer{PendingBalance: dec("-150")}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.Create(context.Background(), uuid.New(), in)

	require.NoError(t, err)
	assert.True(t, order.PreviousPending.IsZero())
	assert.True(t, order.CreditApplied.Equal(dec("150")))
	assert.True(t, order.AmountPaid.Equal(dec("300")))
	// 1000 - (300 + 150)
	assert.True(t, order.CarryForward.Equal(dec("550")))
	assert.Equal(t, 0, order.GSTRate)
	assert.True(t, order.GSTAmount.IsZero())
}

func TestOrderService_Create_OverpaymentCarriesNegative(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.WithGST = false
	in.InvoiceDiscountPercent = decimal.Zero
	in.AmountPaid = dec("1200")
	zero := decimal.Zero
	in.PreviousPending = &zero

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.Create(context.Background(), uuid.New(), in)

	require.NoError(t, err)
	assert.True(t, order.CarryForward.Equal(dec("-200")))
	f.customers.AssertNotCalled(t, "GetByPhone", mock.Anything, mock.Anything)
}

func TestOrderService_Create_OperatorOverridesPending(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	override := dec("75")
	in.PreviousPending = &override
	in.OldPendingAdjusted = dec("75")

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.Create(context.Background(), uuid.New(), in)

	require.NoError(t, err)
	assert.True(t, order.PreviousPending.Equal(dec("75")))
	// 945 + 75 - (500 + 75)
	assert.True(t, order.CarryForward.Equal(dec("445")))
	assert.Nil(t, order.ExpectedBalance)
	f.customers.AssertNotCalled(t, "GetByPhone", mock.Anything, mock.Anything)
}

func TestOrderService_Create_DefaultGSTRate(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.GSTRate = nil
	zero := decimal.Zero
	in.PreviousPending = &zero

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.Create(context.Background(), uuid.New(), in)

	require.NoError(t, err)
	assert.Equal(t, 5, order.GSTRate)
}

func TestOrderService_Create_SkipsBlankRows(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.Items = []billing.LineItem{
		{},
		{ProductID: sareeID.String(), Name: "Saree (printed)", Price: dec("100"), Quantity: 2},
		{Name: "   "},
	}
	zero := decimal.Zero
	in.PreviousPending = &zero

	f.products.On("GetByIDs", mock.Anything, []uuid.UUID{sareeID}).Return([]domain.Product{saree()}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.Create(context.Background(), uuid.New(), in)

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, sareeID, order.Items[0].ProductID)
	assert.Equal(t, "Saree (printed)", order.Items[0].Name)
	assert.True(t, order.GrossAmount.Equal(dec("200")))
}

func TestOrderService_Create_UnknownProduct(t *testing.T) {
	f := newOrderFixture(false)

	missing := uuid.New()
	in := sareeOrderInput()
	in.Items = []billing.LineItem{
		{ProductID: sareeID.String(), Price: dec("250"), Quantity: 1},
		{ProductID: missing.String(), Price: dec("10"), Quantity: 1},
		{ProductID: "not-a-uuid", Price: dec("10"), Quantity: 1},
		{Name: "Loose cloth", Price: dec("10"), Quantity: 1},
	}

	f.products.On("GetByIDs", mock.Anything, []uuid.UUID{sareeID, missing}).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := f.svc.Create(context.Background(), uuid.New(), in)

	var ve *billing.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := []string{}
	for _, is := range ve.Issues {
		fields = append(fields, is.Field)
		assert.Equal(t, "UNKNOWN_PRODUCT", is.Code)
	}
	assert.ElementsMatch(t, []string{"items[1].product_id", "items[2].product_id", "items[3].product_id"}, fields)
	assert.ErrorIs(t, err, billing.ErrUnknownProduct)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_UnsupportedGSTRate(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.GSTRate = gstRate(7)

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := f.svc.Create(context.Background(), uuid.New(), in)

	assert.ErrorIs(t, err, billing.ErrUnsupportedGSTRate)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_ExplicitZeroGSTRate(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.GSTRate = gstRate(0)

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := f.svc.Create(context.Background(), uuid.New(), in)

	assert.ErrorIs(t, err, billing.ErrUnsupportedGSTRate)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_RejectsSubPaisaDiscount(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.Items[0].DiscountPercent = dec("33.333")

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := f.svc.Create(context.Background(), uuid.New(), in)

	var ve *billing.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, "items[0].discount_percent", ve.Issues[0].Field)
	assert.Equal(t, "TOO_PRECISE", ve.Issues[0].Code)
	assert.ErrorIs(t, err, billing.ErrTooPrecise)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_RecomputesWhenBalanceMoves(t *testing.T) {
	f := newOrderFixture(false)

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, "9812000000").
		Return(&domain.Customer{PendingBalance: dec("500")}, nil).Once()
	f.customers.On("GetByPhone", mock.Anything, "9812000000").
		Return(&domain.Customer{PendingBalance: dec("600")}, nil).Once()
	f.orders.On("Create", mock.Anything, mock.Anything).Return(domain.ErrBalanceChanged).Once()
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	order, err := f.svc.Create(context.Background(), uuid.New(), sareeOrderInput())

	require.NoError(t, err)
	assert.True(t, order.PreviousPending.Equal(dec("600")))
	require.NotNil(t, order.ExpectedBalance)
	assert.True(t, order.ExpectedBalance.Equal(dec("600")))
	// 945 + 600 - 500
	assert.True(t, order.CarryForward.Equal(dec("1045")))
	f.orders.AssertNumberOfCalls(t, "Create", 2)
	f.customers.AssertNumberOfCalls(t, "GetByPhone", 2)
}

func TestOrderService_Create_GivesUpWhenBalanceKeepsMoving(t *testing.T) {
	f := newOrderFixture(false)

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, mock.Anything).
		Return(&domain.Customer{PendingBalance: dec("500")}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(domain.ErrBalanceChanged)

	_, err := f.svc.Create(context.Background(), uuid.New(), sareeOrderInput())

	assert.ErrorIs(t, err, domain.ErrBalanceChanged)
	f.orders.AssertNumberOfCalls(t, "Create", 3)
}

func TestOrderService_Create_CollectsPartyAndConsigneeIssues(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.CustomerPhone = "12345"
	in.CustomerGSTIN = "bad"
	in.ConsigneeID = uuid.NewString()

	f.consignees.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := f.svc.Create(context.Background(), uuid.New(), in)

	var ve *billing.ValidationError
	require.True(t, errors.As(err, &ve))
	codes := map[string]string{}
	for _, is := range ve.Issues {
		codes[is.Field] = is.Code
	}
	assert.Equal(t, "INVALID_PHONE", codes["customer_phone"])
	assert.Equal(t, "INVALID_GSTIN", codes["customer_gstin"])
	assert.Equal(t, "UNKNOWN_CONSIGNEE", codes["consignee_id"])
}

func TestOrderService_Create_SnapshotsConsignee(t *testing.T) {
	f := newOrderFixture(false)

	cid := uuid.New()
	in := sareeOrderInput()
	in.ConsigneeID = cid.String()
	zero := decimal.Zero
	in.PreviousPending = &zero

	f.consignees.On("GetByID", mock.Anything, cid).Return(&domain.Consignee{
		ID: cid, Name: "Sita Godown", GSTIN: "06ABCDE1234F1Z5", State: "Haryana",
	}, nil)
	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.Create(context.Background(), uuid.New(), in)

	require.NoError(t, err)
	require.NotNil(t, order.ConsigneeID)
	assert.Equal(t, cid, *order.ConsigneeID)
	assert.Equal(t, "Sita Godown", order.ConsigneeName)
	assert.Equal(t, "06ABCDE1234F1Z5", order.ConsigneeGSTIN)
}

func TestOrderService_Create_NoItems(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.Items = []billing.LineItem{{}, {}}
	zero := decimal.Zero
	in.PreviousPending = &zero

	_, err := f.svc.Create(context.Background(), uuid.New(), in)

	assert.ErrorIs(t, err, domain.ErrNoItems)
}

func TestOrderService_Create_UnknownFirm(t *testing.T) {
	f := newOrderFixture(false)

	in := sareeOrderInput()
	in.Firm = "acme"

	_, err := f.svc.Create(context.Background(), uuid.New(), in)

	assert.ErrorIs(t, err, domain.ErrUnknownFirm)
}

func TestOrderService_Create_InsufficientStock(t *testing.T) {
	f := newOrderFixture(false)

	f.products.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Product{saree()}, nil)
	f.customers.On("GetByPhone", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	f.orders.On("Create", mock.Anything, mock.Anything).
		Return(errors.Join(domain.ErrInsufficientStock, errors.New("Cotton Saree")))

	_, err := f.svc.Create(context.Background(), uuid.New(), sareeOrderInput())

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestOrderService_Preview(t *testing.T) {
	f := newOrderFixture(false)

	p, err := f.svc.Preview(context.Background(), billing.Draft{
		Items: []billing.LineItem{
			{ProductID: "p1", Price: dec("333.333"), Quantity: 3},
		},
		Policy: billing.Policy{GSTEnabled: true, GSTRatePercent: 5},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, p.Totals.GSTRatePercent)
	assert.True(t, p.Totals.GrossAmount.Equal(dec("1000")))
	assert.True(t, p.Totals.GrandTotal.Equal(dec("1050")))
	assert.Equal(t, "ONE THOUSAND FIFTY ONLY", p.AmountInWords)
}

func TestOrderService_Preview_GSTWithoutRate(t *testing.T) {
	f := newOrderFixture(false)

	_, err := f.svc.Preview(context.Background(), billing.Draft{
		Items:  []billing.LineItem{{ProductID: "p1", Price: dec("100"), Quantity: 1}},
		Policy: billing.Policy{GSTEnabled: true},
	})

	assert.ErrorIs(t, err, billing.ErrUnsupportedGSTRate)
}

func TestOrderService_RecordPayment(t *testing.T) {
	f := newOrderFixture(false)
	userID := uuid.New()

	f.orders.On("RecordPayment", mock.Anything, "DJT/2025-26/0001", dec("100.56"), userID).
		Return(&domain.Order{InvoiceNumber: "DJT/2025-26/0001", CarryForward: dec("544.44")}, nil)

	order, err := f.svc.RecordPayment(context.Background(), userID, service.PaymentInput{
		InvoiceNumber: " DJT/2025-26/0001 ",
		Amount:        dec("100.555"),
	})

	require.NoError(t, err)
	assert.True(t, order.CarryForward.Equal(dec("544.44")))
}

func TestOrderService_RecordPayment_NonPositive(t *testing.T) {
	f := newOrderFixture(false)

	for _, amt := range []string{"0", "-5"} {
		_, err := f.svc.RecordPayment(context.Background(), uuid.New(), service.PaymentInput{
			InvoiceNumber: "DJT/2025-26/0001",
			Amount:        dec(amt),
		})
		assert.ErrorIs(t, err, billing.ErrNonPositivePayment)
	}
	f.orders.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_List_RejectsUnknownFirm(t *testing.T) {
	f := newOrderFixture(false)

	_, _, err := f.svc.List(context.Background(), domain.OrderFilter{Firm: "acme"}, 0, 20)

	assert.ErrorIs(t, err, domain.ErrUnknownFirm)
}

func TestOrderService_List_NormalizesPhone(t *testing.T) {
	f := newOrderFixture(false)

	f.orders.On("List", mock.Anything, domain.OrderFilter{Firm: domain.FirmHimanshi, Phone: "9812000000"}, 0, 20).
		Return([]domain.Order{}, 0, nil)

	_, _, err := f.svc.List(context.Background(), domain.OrderFilter{Firm: domain.FirmHimanshi, Phone: "+91 9812000000"}, 0, 20)

	require.NoError(t, err)
	f.orders.AssertExpectations(t)
}

func TestOrderService_Ledger(t *testing.T) {
	f := newOrderFixture(false)

	f.customers.On("GetByPhone", mock.Anything, "9812000000").
		Return(&domain.Customer{Phone: "9812000000", Name: "Sita"}, nil)
	f.orders.On("ListAll", mock.Anything, domain.OrderFilter{Phone: "9812000000"}).Return(nil, nil)

	ledger, err := f.svc.Ledger(context.Background(), "9812000000")

	require.NoError(t, err)
	assert.Equal(t, "Sita", ledger.Customer.Name)
	assert.NotNil(t, ledger.Orders)
	assert.Empty(t, ledger.Orders)
}

func TestOrderService_Delete_RemovesPublishedPDF(t *testing.T) {
	f := newOrderFixture(true)

	id := uuid.New()
	f.orders.On("GetByID", mock.Anything, id).
		Return(&domain.Order{ID: id, InvoiceNumber: "HT/2025-26/0002", PDFKey: "invoices/himanshi/HT_2025-26_0002.pdf"}, nil)
	f.orders.On("Delete", mock.Anything, id).Return(nil)
	f.storage.On("Remove", mock.Anything, "invoices/himanshi/HT_2025-26_0002.pdf").Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), id))
	f.storage.AssertExpectations(t)
}

func TestOrderService_ExportCSV(t *testing.T) {
	f := newOrderFixture(false)

	f.orders.On("ListAll", mock.Anything, domain.OrderFilter{Firm: domain.FirmShreeSai}).Return([]domain.Order{
		{InvoiceNumber: "SST/2025-26/0001", CustomerName: "Ram", GrandTotal: dec("100"), CarryForward: decimal.Zero},
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportCSV(context.Background(), domain.OrderFilter{Firm: domain.FirmShreeSai}, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBFInvoice Number,"))
	assert.Contains(t, out, "SST/2025-26/0001")
	assert.Contains(t, out, "PAID")
}

func TestOrderService_RenderPDF_PrefersStoredCopy(t *testing.T) {
	f := newOrderFixture(true)

	id := uuid.New()
	f.orders.On("GetByID", mock.Anything, id).
		Return(&domain.Order{ID: id, Firm: domain.FirmDevJyoti, PDFKey: "invoices/devjyoti/x.pdf"}, nil)
	f.storage.On("Get", mock.Anything, "invoices/devjyoti/x.pdf").Return([]byte("%PDF-stored"), nil)

	pdf, _, err := f.svc.RenderPDF(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stored"), pdf)
}

func TestOrderService_RenderPDF_RendersWhenNotStored(t *testing.T) {
	f := newOrderFixture(false)

	id := uuid.New()
	f.orders.On("GetByID", mock.Anything, id).Return(&domain.Order{
		ID: id, Firm: domain.FirmDevJyoti, InvoiceNumber: "DJT/2025-26/0009", CustomerName: "Sita",
	}, nil)

	pdf, order, err := f.svc.RenderPDF(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Equal(t, "DJT/2025-26/0009", order.InvoiceNumber)
}

func TestOrderService_Publish_NoStorage(t *testing.T) {
	f := newOrderFixture(false)

	_, err := f.svc.Publish(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestOrderService_Publish_UploadsAndEmails(t *testing.T) {
	f := newOrderFixture(true)

	id := uuid.New()
	key := "invoices/devjyoti/DJT_2025-26_0003.pdf"
	f.orders.On("GetByID", mock.Anything, id).Return(&domain.Order{
		ID: id, Firm: domain.FirmDevJyoti, InvoiceNumber: "DJT/2025-26/0003",
		CustomerName: "Sita", CustomerEmail: "sita@shop.test",
		GrandTotal: dec("945"), CarryForward: dec("645"),
	}, nil)
	f.storage.On("Put", mock.Anything, mock.MatchedBy(func(in port.Object) bool {
		return in.Key == key && in.ContentType == "application/pdf" &&
			in.Filename == "DJT_2025-26_0003.pdf"
	})).Return(nil)
	f.orders.On("SetPDFKey", mock.Anything, id, key).Return(nil)
	f.storage.On("SignedURL", mock.Anything, key, time.Hour).Return("https://signed/inv.pdf", nil)
	f.email.On("SendInvoiceEmail", mock.Anything, "sita@shop.test", "Sita", port.InvoiceEmail{
		FirmName:      "DEV JYOTI TEXTILES",
		InvoiceNumber: "DJT/2025-26/0003",
		GrandTotal:    "945.00",
		CarryForward:  "645.00",
		InvoiceURL:    "https://signed/inv.pdf",
	}).Return(nil)

	out, err := f.svc.Publish(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "https://signed/inv.pdf", out.URL)
	assert.True(t, out.Emailed)
	f.storage.AssertExpectations(t)
	f.email.AssertExpectations(t)
}

func TestOrderService_Publish_ReusesStoredPDFAndToleratesEmailFailure(t *testing.T) {
	f := newOrderFixture(true)

	id := uuid.New()
	f.orders.On("GetByID", mock.Anything, id).Return(&domain.Order{
		ID: id, Firm: domain.FirmHimanshi, InvoiceNumber: "HT/2025-26/0001",
		CustomerEmail: "x@shop.test", PDFKey: "invoices/himanshi/HT_2025-26_0001.pdf",
	}, nil)
	f.storage.On("SignedURL", mock.Anything, "invoices/himanshi/HT_2025-26_0001.pdf", time.Hour).
		Return("https://signed/ht.pdf", nil)
	f.email.On("SendInvoiceEmail", mock.Anything, "x@shop.test", mock.Anything, mock.Anything).Return(errors.New("ses throttled"))

	out, err := f.svc.Publish(context.Background(), id)

	require.NoError(t, err)
	assert.False(t, out.Emailed)
	f.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestOrderService_Publish_UploadFailure(t *testing.T) {
	f := newOrderFixture(true)

	id := uuid.New()
	f.orders.On("GetByID", mock.Anything, id).Return(&domain.Order{ID: id, Firm: domain.FirmShreeSai, InvoiceNumber: "SST/2025-26/0001"}, nil)
	f.storage.On("Put", mock.Anything, mock.Anything).Return(errors.New("s3 down"))

	_, err := f.svc.Publish(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.orders.AssertNotCalled(t, "SetPDFKey", mock.Anything, mock.Anything, mock.Anything)
}
