package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
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

func testS3Config() config.S3Config {
	return config.S3Config{
		Bucket:        "test-bucket",
		MaxFileSizeMB: 5,
		PresignExpiry: 3600,
	}
}

// createMultipartFile creates a fake multipart file header and content for testing.
func createMultipartFile(filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content) + 1024))
	file, _ := form.File["file"][0].Open()
	return file, form.File["file"][0]
}

// pngContent returns minimal valid PNG bytes (magic bytes).
func pngContent() []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, 100)...)
}

func TestProductService_Create_TrimsAndRoundsPrice(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	cfg := testS3Config()
	svc := service.NewProductService(repo, nil, &cfg)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "Cotton Saree" && p.Price.Equal(decimal.RequireFromString("250.13"))
	})).Return(nil)

	p, err := svc.Create(context.Background(), service.ProductInput{
		Name:     "  Cotton Saree ",
		Category: " Sarees ",
		HSN:      "5208",
		Price:    decimal.RequireFromString("250.125"),
		Stock:    40,
	})

	require.NoError(t, err)
	assert.Equal(t, "Sarees", p.Category)
	repo.AssertExpectations(t)
}

func TestProductService_Create_ValidationIssues(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	cfg := testS3Config()
	svc := service.NewProductService(repo, nil, &cfg)

	_, err := svc.Create(context.Background(), service.ProductInput{
		Name:  "Bad",
		HSN:   "52A",
		Price: decimal.NewFromInt(-1),
		Stock: -3,
	})

	var ve *billing.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := make([]string, 0, len(ve.Issues))
	for _, is := range ve.Issues {
		fields = append(fields, is.Field)
	}
	assert.ElementsMatch(t, []string{"price", "stock", "hsn"}, fields)
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
	assert.ErrorIs(t, err, domain.ErrInvalidHSN)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Create_Duplicate(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	cfg := testS3Config()
	svc := service.NewProductService(repo, nil, &cfg)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateProduct)

	_, err := svc.Create(context.Background(), service.ProductInput{Name: "Cotton Saree", Price: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrDuplicateProduct)
}

func TestProductService_GetByID_PresignsImage(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewProductService(repo, storage, &cfg)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.Product{ID: id, ImageKey: "products/x.png"}, nil)
	storage.On("SignedURL", mock.Anything, "products/x.png", time.Hour).
		Return("https://signed/x.png", nil)

	p, err := svc.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "https://signed/x.png", p.ImageURL)
}

func TestProductService_List_WithoutStorage(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	cfg := testS3Config()
	svc := service.NewProductService(repo, nil, &cfg)

	repo.On("List", mock.Anything, port.ProductFilter{Search: "saree"}, 0, 20).
		Return([]domain.Product{{Name: "Cotton Saree", ImageKey: "k"}}, 1, nil)

	products, total, err := svc.List(context.Background(), port.ProductFilter{Search: "  saree "}, 0, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, products[0].ImageURL)
}

func TestProductService_Delete_RemovesImage(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewProductService(repo, storage, &cfg)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.Product{ID: id, ImageKey: "products/old.png"}, nil)
	repo.On("Delete", mock.Anything, id).Return(nil)
	storage.On("Remove", mock.Anything, "products/old.png").Return(errors.New("s3 down"))

	assert.NoError(t, svc.Delete(context.Background(), id))
	storage.AssertExpectations(t)
}

func TestProductService_Delete_InUse(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	cfg := testS3Config()
	svc := service.NewProductService(repo, nil, &cfg)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.Product{ID: id}, nil)
	repo.On("Delete", mock.Anything, id).Return(domain.ErrProductInUse)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), domain.ErrProductInUse)
}

func TestProductService_UploadImage_Success(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewProductService(repo, storage, &cfg)

	id := uuid.New()
	file, header := createMultipartFile("saree.png", pngContent(), "image/png")
	defer file.Close()

	repo.On("GetByID", mock.Anything, id).Return(&domain.Product{ID: id, ImageKey: "products/old.png"}, nil)
	storage.On("Put", mock.Anything, mock.MatchedBy(func(in port.Object) bool {
		return in.ContentType == "image/png" &&
			strings.HasPrefix(in.Key, "products/"+id.String()+"/") && strings.HasSuffix(in.Key, ".png")
	})).Return(nil)
	repo.On("SetImageKey", mock.Anything, id, mock.AnythingOfType("string")).Return(nil)
	storage.On("Remove", mock.Anything, "products/old.png").Return(nil)
	storage.On("SignedURL", mock.Anything, mock.AnythingOfType("string"), time.Hour).
		Return("https://signed/new.png", nil)

	p, err := svc.UploadImage(context.Background(), service.ImageUploadInput{ProductID: id, File: file, Header: header})

	require.NoError(t, err)
	assert.NotEqual(t, "products/old.png", p.ImageKey)
	assert.Equal(t, "https://signed/new.png", p.ImageURL)
	repo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestProductService_UploadImage_RejectsExtension(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewProductService(repo, storage, &cfg)

	file, header := createMultipartFile("saree.gif", pngContent(), "image/gif")
	defer file.Close()

	_, err := svc.UploadImage(context.Background(), service.ImageUploadInput{ProductID: uuid.New(), File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestProductService_UploadImage_RejectsSpoofedContent(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewProductService(repo, storage, &cfg)

	file, header := createMultipartFile("saree.png", []byte("%PDF-1.4 not an image at all"), "image/png")
	defer file.Close()

	_, err := svc.UploadImage(context.Background(), service.ImageUploadInput{ProductID: uuid.New(), File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestProductService_UploadImage_NoStorage(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	cfg := testS3Config()
	svc := service.NewProductService(repo, nil, &cfg)

	_, err := svc.UploadImage(context.Background(), service.ImageUploadInput{ProductID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
