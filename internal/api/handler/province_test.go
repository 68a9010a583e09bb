package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/thai-travel-share/internal/api/handler"
	"github.com/Rrens/thai-travel-share/internal/domain"
)

func provinceRoutes(h *handler.ProvinceHandler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/v1/provinces", h.List)
		r.Get("/v1/provinces/secondary", h.Secondary)
		r.Get("/v1/provinces/regions", h.Regions)
		r.Get("/v1/provinces/{provinceID}", h.Get)
		r.Get("/v1/provinces/{provinceID}/tax-benefits", h.TaxBenefits)
	}
}

func TestProvinceHandler_List(t *testing.T) {
	secondary := true

	tests := []struct {
		name           string
		query          string
		filter         *domain.ProvinceFilter
		expectedStatus int
	}{
		{"no filter", "", &domain.ProvinceFilter{}, http.StatusOK},
		{"region", "?region=North", &domain.ProvinceFilter{Region: "North"}, http.StatusOK},
		{"secondary only", "?secondary_only=true", &domain.ProvinceFilter{SecondaryOnly: &secondary}, http.StatusOK},
		{"bad flag", "?secondary_only=maybe", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provinces := new(mockProvinceService)
			if tt.filter != nil {
				provinces.On("List", mock.Anything, *tt.filter).Return(&domain.ProvinceList{TotalCount: 3}, nil)
			}
			router := newRouter(nil, provinceRoutes(handler.NewProvinceHandler(provinces)))

			rec := serve(router, makeJSONRequest(http.MethodGet, "/v1/provinces"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			provinces.AssertExpectations(t)
		})
	}
}

func TestProvinceHandler_Regions(t *testing.T) {
	provinces := new(mockProvinceService)
	provinces.On("Regions", mock.Anything).Return([]string{"Central", "North"}, nil)
	router := newRouter(nil, provinceRoutes(handler.NewProvinceHandler(provinces)))

	rec := serve(router, makeJSONRequest(http.MethodGet, "/v1/provinces/regions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var regions []string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &regions))
	assert.Equal(t, []string{"Central", "North"}, regions)
}

func TestProvinceHandler_Get(t *testing.T) {
	provinces := new(mockProvinceService)
	provinces.On("Get", mock.Anything, 1).Return(&domain.Province{ID: 1, NameEN: "Mae Hong Son"}, nil)
	provinces.On("Get", mock.Anything, 99).Return(nil, domain.ErrProvinceNotFound)
	router := newRouter(nil, provinceRoutes(handler.NewProvinceHandler(provinces)))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"existing province", "/v1/provinces/1", http.StatusOK},
		{"unknown province", "/v1/provinces/99", http.StatusNotFound},
		{"non-numeric id", "/v1/provinces/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, makeJSONRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestProvinceHandler_TaxBenefits(t *testing.T) {
	provinces := new(mockProvinceService)
	provinces.On("TaxBenefits", mock.Anything, 1, mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromInt(10000))
	})).Return(&domain.TaxBenefits{EstimatedTaxReduction: decimal.NewFromInt(1500)}, nil)
	provinces.On("TaxBenefits", mock.Anything, 1, mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.IsNegative()
	})).Return(nil, domain.NewValidationError("budget", "Budget must not be negative"))
	router := newRouter(nil, provinceRoutes(handler.NewProvinceHandler(provinces)))

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		wantField      string
	}{
		{"valid budget", "?budget=10000", http.StatusOK, ""},
		{"missing budget", "", http.StatusBadRequest, "budget"},
		{"non-numeric budget", "?budget=lots", http.StatusBadRequest, "budget"},
		{"negative budget", "?budget=-5", http.StatusBadRequest, "budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, makeJSONRequest(http.MethodGet, "/v1/provinces/1/tax-benefits"+tt.query, nil))
			assert.Equal(t, tt.expectedStatus, rec.Code)

			env := decodeEnvelope(t, rec)
			if tt.wantField != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantField, env.Error.Field)
				return
			}

			var result domain.TaxBenefits
			require.NoError(t, json.Unmarshal(env.Data, &result))
			assert.True(t, result.EstimatedTaxReduction.Equal(decimal.NewFromInt(1500)))
		})
	}
}
