package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradebook/internal/port"
	"tradebook/internal/service"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles POST /api/v1/products
// @Summary Create a product
// @Description Add a product to the catalog (admin only). Price is rounded to paise.
// @Tags products
// @Accept json
// @Produce json
// @Param request body ProductRequest true "Product details"
// @Success 201 {object} Response{data=domain.Product} "Product created"
// @Failure 400 {object} ErrorResponseBody "Malformed request"
// @Failure 409 {object} ErrorResponseBody "Duplicate name"
// @Failure 422 {object} ErrorResponseBody "Invalid price, stock or HSN"
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, product)
}

// List handles GET /api/v1/products
// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Name search, for autocomplete"
// @Param category query string false "Exact category"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 500)" default(100)
// @Success 200 {object} Response{data=[]domain.Product,meta=PagMeta} "Catalog page"
// @Security BearerAuth
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	offset, limit := pagination(c, 100, 500)
	filter := port.ProductFilter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
	}

	products, total, err := h.productService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, products, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListCategories handles GET /api/v1/products/categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	RespondOK(c, categories)
}

// GetByID handles GET /api/v1/products/:id
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} Response{data=domain.Product} "Product"
// @Failure 404 {object} ErrorResponseBody "Product not found"
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, product)
}

// Update handles PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, product)
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "product deleted"})
}

// UploadImage handles POST /api/v1/products/:id/image
// @Summary Upload a product photo
// @Description Attach a JPG or PNG photo to a product (admin only). Replaces any previous photo.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param file formData file true "Image file (JPG, PNG)"
// @Success 200 {object} Response{data=domain.Product} "Product with image URL"
// @Failure 400 {object} ErrorResponseBody "Missing or unsupported file"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 503 {object} ErrorResponseBody "Storage not configured"
// @Security BearerAuth
// @Router /products/{id}/image [post]
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	product, err := h.productService.UploadImage(c.Request.Context(), service.ImageUploadInput{
		ProductID: id,
		File:      file,
		Header:    header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, product)
}
