package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradebook/internal/billing"
	"tradebook/internal/config"
	"tradebook/internal/domain"
	"tradebook/internal/port"
	"tradebook/internal/validator"
)

// ProductInput is the DTO for creating or replacing a catalog product.
type ProductInput struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category"`
	HSN      string          `json:"hsn"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}

// ImageUploadInput is the DTO for product image uploads.
type ImageUploadInput struct {
	ProductID uuid.UUID
	File      multipart.File
	Header    *multipart.FileHeader
}

// ProductService defines the catalog management contract.
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter port.ProductFilter, offset, limit int) ([]domain.Product, int, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]string, error)
	UploadImage(ctx context.Context, input ImageUploadInput) (*domain.Product, error)
}

type productService struct {
	repo    port.ProductRepository
	storage port.ObjectStorage
	cfg     *config.S3Config
}

// NewProductService creates a new ProductService implementation. storage may
// be nil when no bucket is configured; image uploads then fail with
// ErrStorageUnavailable.
func NewProductService(repo port.ProductRepository, storage port.ObjectStorage, cfg *config.S3Config) ProductService {
	return &productService{repo: repo, storage: storage, cfg: cfg}
}

func validateProduct(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	input.HSN = strings.TrimSpace(input.HSN)

	ve := &billing.ValidationError{}
	if input.Price.IsNegative() {
		ve.Add("price", billing.ErrNegativePrice)
	}
	if input.Stock < 0 {
		ve.AddCode("stock", "NEGATIVE_STOCK", domain.ErrNegativeStock)
	}
	validator.CheckHSN(ve, "hsn", input.HSN)
	return ve.Err()
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProduct(&input); err != nil {
		return nil, err
	}
	p := &domain.Product{
		Name:     input.Name,
		Category: input.Category,
		HSN:      input.HSN,
		Price:    input.Price.Round(2),
		Stock:    input.Stock,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachImageURL(ctx, p)
	return p, nil
}

func (s *productService) List(ctx context.Context, filter port.ProductFilter, offset, limit int) ([]domain.Product, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	products, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range products {
		s.attachImageURL(ctx, &products[i])
	}
	return products, total, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := validateProduct(&input); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = input.Name
	p.Category = input.Category
	p.HSN = input.HSN
	p.Price = input.Price.Round(2)
	p.Stock = input.Stock
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.attachImageURL(ctx, p)
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if p.ImageKey != "" && s.storage != nil {
		if err := s.storage.Remove(ctx, p.ImageKey); err != nil {
			log.Printf("productService.Delete: failed to delete image %s: %v", p.ImageKey, err)
		}
	}
	return nil
}

func (s *productService) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *productService) UploadImage(ctx context.Context, input ImageUploadInput) (*domain.Product, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageUnavailable
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	if _, ok := domain.AllowedImageExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if input.Header.Size > s.cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	contentType := http.DetectContentType(buf[:n])
	if _, ok := domain.AllowedImageContentTypes[contentType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	p, err := s.repo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s.%s", p.ID, uuid.New(), ext)
	log.Printf("productService.UploadImage: uploading %s (%s, %d bytes) for product %s",
		input.Header.Filename, contentType, input.Header.Size, p.ID)

	err = s.storage.Put(ctx, port.Object{
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("productService.UploadImage: S3 upload failed for product %s: %v", p.ID, err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.repo.SetImageKey(ctx, p.ID, key); err != nil {
		return nil, fmt.Errorf("saving image key: %w", err)
	}
	if p.ImageKey != "" {
		if err := s.storage.Remove(ctx, p.ImageKey); err != nil {
			log.Printf("productService.UploadImage: failed to delete old image %s: %v", p.ImageKey, err)
		}
	}
	p.ImageKey = key
	s.attachImageURL(ctx, p)
	return p, nil
}

func (s *productService) attachImageURL(ctx context.Context, p *domain.Product) {
	if p.ImageKey == "" || s.storage == nil {
		return
	}
	url, err := s.storage.SignedURL(ctx, p.ImageKey, s.cfg.PresignTTL())
	if err != nil {
		log.Printf("productService: presigning image for product %s: %v", p.ID, err)
		return
	}
	p.ImageURL = url
}
