package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tradebook/internal/billing"
	"tradebook/internal/domain"
	"tradebook/internal/handler"
	"tradebook/internal/port"
	"tradebook/internal/service"
	"tradebook/mocks"
)

func newProductHandler() (*handler.ProductHandler, *mocks.MockProductService) {
	mockSvc := new(mocks.MockProductService)
	return handler.NewProductHandler(mockSvc), mockSvc
}

func TestProductHandler_Create(t *testing.T) {
	h, mockSvc := newProductHandler()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.ProductInput) bool {
		return in.Name == "Banarasi Silk Saree" && in.Price.Equal(decimal.RequireFromString("1250.5")) && in.Stock == 40
	})).Return(&domain.Product{ID: uuid.New(), Name: "Banarasi Silk Saree"}, nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/products",
		`{"name":"Banarasi Silk Saree","category":"Sarees","hsn":"5407","price":"1250.50","stock":40}`)
	setAuthContext(c, uuid.New(), "admin")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestProductHandler_Create_InvalidHSN(t *testing.T) {
	h, mockSvc := newProductHandler()
	ve := &billing.ValidationError{}
	ve.AddCode("hsn", "INVALID_HSN", domain.ErrInvalidHSN)
	mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, ve)

	c, w := newJSONContext(http.MethodPost, "/api/v1/products", `{"name":"Saree","hsn":"54"}`)

	h.Create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "hsn", decodeResponse(t, w).Error.Issues[0].Field)
}

func TestProductHandler_List_Filter(t *testing.T) {
	h, mockSvc := newProductHandler()
	mockSvc.On("List", mock.Anything, port.ProductFilter{Search: "silk", Category: "Sarees"}, 0, 100).
		Return([]domain.Product{{Name: "Banarasi Silk Saree"}}, 1, nil)

	c, w := newJSONContext(http.MethodGet, "/api/v1/products?q=silk&category=Sarees", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestProductHandler_ListCategories_Empty(t *testing.T) {
	h, mockSvc := newProductHandler()
	mockSvc.On("ListCategories", mock.Anything).Return(nil, nil)

	c, w := newJSONContext(http.MethodGet, "/api/v1/products/categories", nil)

	h.ListCategories(c)

	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestProductHandler_Delete_InUse(t *testing.T) {
	h, mockSvc := newProductHandler()
	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(domain.ErrProductInUse)

	c, w := newJSONContext(http.MethodDelete, "/api/v1/products/"+id.String(), nil)
	c.AddParam("id", id.String())

	h.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func multipartContext(t *testing.T, id uuid.UUID, field string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, "saree.png")
		assert.NoError(t, err)
		_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	}
	_ = mw.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/products/"+id.String()+"/image", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	c.AddParam("id", id.String())
	return c, w
}

func TestProductHandler_UploadImage(t *testing.T) {
	h, mockSvc := newProductHandler()
	id := uuid.New()
	mockSvc.On("UploadImage", mock.Anything, mock.MatchedBy(func(in service.ImageUploadInput) bool {
		return in.ProductID == id && in.Header.Filename == "saree.png" && in.File != nil
	})).Return(&domain.Product{ID: id, ImageURL: "https://s3.example/p.png"}, nil)

	c, w := multipartContext(t, id, "file")

	h.UploadImage(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestProductHandler_UploadImage_MissingFile(t *testing.T) {
	h, mockSvc := newProductHandler()

	c, w := multipartContext(t, uuid.New(), "")

	h.UploadImage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decodeResponse(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything)
}

func TestProductHandler_UploadImage_Unsupported(t *testing.T) {
	h, mockSvc := newProductHandler()
	mockSvc.On("UploadImage", mock.Anything, mock.Anything).Return(nil, domain.ErrUnsupportedFileType)

	c, w := multipartContext(t, uuid.New(), "file")

	h.UploadImage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", decodeResponse(t, w).Error.Code)
}
