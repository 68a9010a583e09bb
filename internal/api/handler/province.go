package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Rrens/thai-travel-share/internal/api/response"
	"github.com/Rrens/thai-travel-share/internal/domain"
)

// ProvinceHandler serves the public province catalog
type ProvinceHandler struct {
	provinceService ProvinceService
}

// NewProvinceHandler creates a new province handler
func NewProvinceHandler(provinceService ProvinceService) *ProvinceHandler {
	return &ProvinceHandler{provinceService: provinceService}
}

// List handles GET /provinces?region=&secondary_only=
func (h *ProvinceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProvinceFilter{Region: r.URL.Query().Get("region")}

	if raw := r.URL.Query().Get("secondary_only"); raw != "" {
		secondary, err := strconv.ParseBool(raw)
		if err != nil {
			response.FromError(w, r, domain.NewValidationError("secondary_only", "secondary_only must be true or false"))
			return
		}
		filter.SecondaryOnly = &secondary
	}

	list, err := h.provinceService.List(r.Context(), filter)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, list)
}

func (h *ProvinceHandler) Secondary(w http.ResponseWriter, r *http.Request) {
	result, err := h.provinceService.Secondary(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, result)
}

func (h *ProvinceHandler) Regions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.provinceService.Regions(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, regions)
}

func (h *ProvinceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "provinceID")
	if !ok {
		return
	}

	province, err := h.provinceService.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, province)
}

// TaxBenefits handles GET /provinces/{provinceID}/tax-benefits?budget=
func (h *ProvinceHandler) TaxBenefits(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "provinceID")
	if !ok {
		return
	}

	raw := r.URL.Query().Get("budget")
	if raw == "" {
		response.FromError(w, r, domain.NewValidationError("budget", "budget is required"))
		return
	}
	budget, err := decimal.NewFromString(raw)
	if err != nil {
		response.FromError(w, r, domain.NewValidationError("budget", "budget must be a number"))
		return
	}

	result, err := h.provinceService.TaxBenefits(r.Context(), id, budget)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, result)
}
