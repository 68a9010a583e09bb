package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/thai-travel-share/internal/api/handler"
	"github.com/Rrens/thai-travel-share/internal/api/middleware"
	"github.com/Rrens/thai-travel-share/internal/domain"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Field   string            `json:"field"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func makeJSONRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser injects the principal the auth middleware would normally resolve
func asUser(user *domain.UserView) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(middleware.WithPrincipal(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, input domain.UserCreate) (*domain.Registration, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, token string) (*domain.TokenPair, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*domain.UserView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserView), args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, callerID, userID uuid.UUID, patch domain.UserPatch) (*domain.ProfileUpdate, error) {
	args := m.Called(ctx, callerID, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileUpdate), args.Error(1)
}

func (m *mockUserService) ChangePassword(ctx context.Context, callerID, userID uuid.UUID, input domain.PasswordChange) error {
	return m.Called(ctx, callerID, userID, input).Error(0)
}

type mockProvinceService struct{ mock.Mock }

func (m *mockProvinceService) List(ctx context.Context, filter domain.ProvinceFilter) (*domain.ProvinceList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProvinceList), args.Error(1)
}

func (m *mockProvinceService) Secondary(ctx context.Context) (*domain.SecondaryProvinces, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SecondaryProvinces), args.Error(1)
}

func (m *mockProvinceService) Regions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockProvinceService) Get(ctx context.Context, id int) (*domain.Province, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Province), args.Error(1)
}

func (m *mockProvinceService) TaxBenefits(ctx context.Context, id int, budget decimal.Decimal) (*domain.TaxBenefits, error) {
	args := m.Called(ctx, id, budget)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxBenefits), args.Error(1)
}

type mockTravelPlanService struct{ mock.Mock }

func (m *mockTravelPlanService) Create(ctx context.Context, ownerID uuid.UUID, input domain.TravelPlanCreate) (*domain.TravelPlanCreation, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelPlanCreation), args.Error(1)
}

func (m *mockTravelPlanService) List(ctx context.Context, ownerID uuid.UUID, status string) (*domain.TravelPlanList, error) {
	args := m.Called(ctx, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelPlanList), args.Error(1)
}

func (m *mockTravelPlanService) Get(ctx context.Context, ownerID, planID uuid.UUID) (*domain.TravelPlanDetail, error) {
	args := m.Called(ctx, ownerID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelPlanDetail), args.Error(1)
}

func (m *mockTravelPlanService) Update(ctx context.Context, ownerID, planID uuid.UUID, patch domain.TravelPlanPatch) (*domain.TravelPlanUpdate, error) {
	args := m.Called(ctx, ownerID, planID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelPlanUpdate), args.Error(1)
}

func (m *mockTravelPlanService) Delete(ctx context.Context, ownerID, planID uuid.UUID) error {
	return m.Called(ctx, ownerID, planID).Error(0)
}

func (m *mockTravelPlanService) TaxInfo(ctx context.Context, ownerID, planID uuid.UUID) (*domain.TravelPlanTaxInfo, error) {
	args := m.Called(ctx, ownerID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelPlanTaxInfo), args.Error(1)
}

var (
	_ handler.AuthService       = (*mockAuthService)(nil)
	_ handler.UserService       = (*mockUserService)(nil)
	_ handler.ProvinceService   = (*mockProvinceService)(nil)
	_ handler.TravelPlanService = (*mockTravelPlanService)(nil)
)

func newRouter(user *domain.UserView, mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(asUser(user))
	mount(r)
	return r
}
