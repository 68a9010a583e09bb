package handler

import (
	"net/http"

	"github.com/Rrens/thai-travel-share/internal/api/response"
	"github.com/Rrens/thai-travel-share/internal/domain"
)

// TravelPlanHandler handles the caller's travel plans
type TravelPlanHandler struct {
	planService TravelPlanService
}

// NewTravelPlanHandler creates a new travel plan handler
func NewTravelPlanHandler(planService TravelPlanService) *TravelPlanHandler {
	return &TravelPlanHandler{planService: planService}
}

// Create handles POST /travel-plans
func (h *TravelPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	var input domain.TravelPlanCreate
	if !decode(w, r, &input) {
		return
	}

	result, err := h.planService.Create(r.Context(), caller.ID, input)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Created(w, result)
}

// List handles GET /travel-plans?status=
func (h *TravelPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.planService.List(r.Context(), caller.ID, r.URL.Query().Get("status"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, result)
}

func (h *TravelPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}
	planID, ok := uuidParam(w, r, "planID", domain.ErrTravelPlanNotFound)
	if !ok {
		return
	}

	plan, err := h.planService.Get(r.Context(), caller.ID, planID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, plan)
}

// Update applies a partial update; omitted fields keep their values
func (h *TravelPlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}
	planID, ok := uuidParam(w, r, "planID", domain.ErrTravelPlanNotFound)
	if !ok {
		return
	}

	var patch domain.TravelPlanPatch
	if !decode(w, r, &patch) {
		return
	}

	result, err := h.planService.Update(r.Context(), caller.ID, planID, patch)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, result)
}

func (h *TravelPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}
	planID, ok := uuidParam(w, r, "planID", domain.ErrTravelPlanNotFound)
	if !ok {
		return
	}

	if err := h.planService.Delete(r.Context(), caller.ID, planID); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, map[string]string{"message": "Travel plan deleted successfully"})
}

// TaxInfo handles GET /travel-plans/{planID}/tax-info
func (h *TravelPlanHandler) TaxInfo(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}
	planID, ok := uuidParam(w, r, "planID", domain.ErrTravelPlanNotFound)
	if !ok {
		return
	}

	info, err := h.planService.TaxInfo(r.Context(), caller.ID, planID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, info)
}
