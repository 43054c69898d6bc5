package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"brand-catalog/internal/middleware"
	"brand-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

func init() {
	middleware.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if ns, ok := field.Interface().(NullableString); ok && ns.Value != nil {
			return *ns.Value
		}
		return nil
	}, NullableString{})
}

// NullableString is a JSON string field that remembers whether it was sent.
// Absent leaves Set false; an explicit null sets Set with a nil Value.
type NullableString struct {
	Value *string
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// CreateBrandRequest represents the brand creation payload
type CreateBrandRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
}

// UpdateBrandRequest represents the partial brand update payload
type UpdateBrandRequest struct {
	Name        *string        `json:"name" validate:"omitnil,notblank,max=255"`
	Description NullableString `json:"description" validate:"omitempty,max=1000"`
}

// BrandHandler handles HTTP requests for brand operations
type BrandHandler struct {
	brandService service.BrandService
	logger       *zap.Logger
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brandService service.BrandService, logger *zap.Logger) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
		logger:       logger,
	}
}

// RegisterRoutes registers all brand routes behind authMiddleware
func (h *BrandHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/brands", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.ListBrands)
		r.With(middleware.ValidateBody[CreateBrandRequest](h.logger)).Post("/", h.CreateBrand)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.ValidateIDParam(h.logger))

			r.Get("/", h.GetBrand)
			r.With(middleware.ValidateBody[UpdateBrandRequest](h.logger)).Put("/", h.UpdateBrand)
			r.Delete("/", h.DeleteBrand)
		})
	})
}

// ListBrands handles GET /brands
func (h *BrandHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.brandService.ListBrands(r.Context())
	if err != nil {
		h.respondWithServiceError(w, err, http.StatusNotFound, "Failed to list brands")
		return
	}

	middleware.RespondWithSuccess(w, http.StatusOK, "Brands retrieved successfully", brands)
}

// GetBrand handles GET /brands/{id}
func (h *BrandHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id := brandID(r)

	brand, err := h.brandService.GetBrand(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, err, http.StatusNotFound, "Failed to get brand", zap.String("brand_id", id))
		return
	}

	middleware.RespondWithSuccess(w, http.StatusOK, "Brand retrieved successfully", brand)
}

// CreateBrand handles POST /brands
func (h *BrandHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	req, ok := middleware.BodyFromContext[CreateBrandRequest](r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	brand, err := h.brandService.CreateBrand(r.Context(), service.CreateBrandInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondWithServiceError(w, err, http.StatusBadRequest, "Failed to create brand", zap.String("name", req.Name))
		return
	}

	h.logger.Info("Brand created",
		zap.String("brand_id", brand.ID.String()),
		zap.String("name", brand.Name),
		zap.String("user_id", actingUser(r)),
	)
	middleware.RespondWithSuccess(w, http.StatusCreated, "Brand created successfully", brand)
}

// UpdateBrand handles PUT /brands/{id}
func (h *BrandHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id := brandID(r)

	req, ok := middleware.BodyFromContext[UpdateBrandRequest](r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	brand, err := h.brandService.UpdateBrand(r.Context(), id, service.UpdateBrandInput{
		Name:           req.Name,
		Description:    req.Description.Value,
		DescriptionSet: req.Description.Set,
	})
	if err != nil {
		// Mutating routes report a missing brand as a bad request
		h.respondWithServiceError(w, err, http.StatusBadRequest, "Failed to update brand", zap.String("brand_id", id))
		return
	}

	h.logger.Info("Brand updated",
		zap.String("brand_id", brand.ID.String()),
		zap.String("name", brand.Name),
		zap.String("user_id", actingUser(r)),
	)
	middleware.RespondWithSuccess(w, http.StatusOK, "Brand updated successfully", brand)
}

// DeleteBrand handles DELETE /brands/{id}
func (h *BrandHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id := brandID(r)

	if err := h.brandService.DeleteBrand(r.Context(), id); err != nil {
		h.respondWithServiceError(w, err, http.StatusBadRequest, "Failed to delete brand", zap.String("brand_id", id))
		return
	}

	h.logger.Info("Brand deleted",
		zap.String("brand_id", id),
		zap.String("user_id", actingUser(r)),
	)
	middleware.RespondWithSuccess(w, http.StatusOK, "Brand deleted successfully", nil)
}

// respondWithServiceError logs err and writes the matching failure envelope.
// notFoundStatus is the status used when the brand does not exist.
func (h *BrandHandler) respondWithServiceError(w http.ResponseWriter, err error, notFoundStatus int, logMessage string, fields ...zap.Field) {
	h.logger.Error(logMessage, append(fields, zap.Error(err))...)

	status, message := classifyServiceError(err, notFoundStatus)
	middleware.RespondWithError(w, status, message)
}

func classifyServiceError(err error, notFoundStatus int) (int, string) {
	var inUse *service.BrandInUseError

	switch {
	case errors.Is(err, service.ErrBrandNotFound):
		return notFoundStatus, "Brand not found"
	case errors.Is(err, service.ErrBrandAlreadyExists):
		return http.StatusBadRequest, "Brand already exists"
	case errors.Is(err, service.ErrBrandNameConflict):
		return http.StatusBadRequest, "Brand name already in use"
	case errors.As(err, &inUse):
		return http.StatusBadRequest, fmt.Sprintf("Cannot delete brand: it has %d associated product(s)", inUse.ProductCount)
	}

	message := err.Error()
	if message == "" {
		message = internalErrorMessage
	}
	return http.StatusInternalServerError, message
}

func brandID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

func actingUser(r *http.Request) string {
	userID, _ := middleware.GetUserID(r.Context())
	return userID
}
