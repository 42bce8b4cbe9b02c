package transport

import (
	"net/http"
	"strconv"

	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StoreProductRequest represents the product creation payload.
// Limits mirror the products and categories columns.
type StoreProductRequest struct {
	Title        string   `json:"title" validate:"required,max=255"`
	Description  string   `json:"description" validate:"required"`
	Price        *float64 `json:"price" validate:"required,gte=0,lte=9999999999.99"`
	UnitsInStock *int     `json:"unitsInStock" validate:"required,gte=0,lte=2147483647"`
	Images       []string `json:"images" validate:"required,dive,required"`
	Category     string   `json:"category" validate:"required,max=255"`
}

// UpdateProductRequest represents a partial product update; absent fields are left unchanged
type UpdateProductRequest struct {
	Title        *string  `json:"title" validate:"omitnil,min=1,max=255"`
	Description  *string  `json:"description" validate:"omitnil,min=1"`
	Price        *float64 `json:"price" validate:"omitnil,gte=0,lte=9999999999.99"`
	UnitsInStock *int     `json:"unitsInStock" validate:"omitnil,gte=0,lte=2147483647"`
	Images       []string `json:"images" validate:"omitempty,dive,required"`
	Category     *string  `json:"category" validate:"omitnil,min=1,max=255"`
}

var productSchema = middleware.Schema{
	"title":        middleware.KindString,
	"description":  middleware.KindString,
	"price":        middleware.KindNumber,
	"unitsInStock": middleware.KindInteger,
	"images":       middleware.KindStringArray,
	"category":     middleware.KindString,
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
	debug          bool
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger, debug bool) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
		debug:          debug,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Store)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.productService.List(r.Context(), service.ProductFilter{
		Search:   query.Get("search"),
		Page:     page,
		OrderBy:  query.Get("orderBy"),
		Category: query.Get("category"),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, h.debug)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Show handles GET /products/{id}
func (h *ProductHandler) Show(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Show(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, h.debug)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Store handles POST /products
func (h *ProductHandler) Store(w http.ResponseWriter, r *http.Request) {
	var req StoreProductRequest

	if err := middleware.DecodeAndValidate(r, productSchema, &req); err != nil {
		respondWithServiceError(w, h.logger, err, h.debug)
		return
	}

	product, err := h.productService.Store(r.Context(), service.StoreProductInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        *req.Price,
		UnitsInStock: *req.UnitsInStock,
		Images:       req.Images,
		Category:     req.Category,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, h.debug)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("category", req.Category),
	)

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Update handles PUT /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest

	if err := middleware.DecodeAndValidate(r, productSchema, &req); err != nil {
		respondWithServiceError(w, h.logger, err, h.debug)
		return
	}

	product, err := h.productService.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateProductInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		UnitsInStock: req.UnitsInStock,
		Images:       req.Images,
		Category:     req.Category,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, h.debug)
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, h.debug)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted"})
}
