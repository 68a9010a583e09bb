package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rrens/thai-travel-share/internal/api/middleware"
	"github.com/Rrens/thai-travel-share/internal/api/response"
	"github.com/Rrens/thai-travel-share/internal/domain"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt limits passwords in bytes, not characters
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

// AuthService is what the user handler needs for account access
type AuthService interface {
	Register(ctx context.Context, input domain.UserCreate) (*domain.Registration, error)
	Login(ctx context.Context, input domain.UserLogin) (*domain.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

// UserService manages user profiles
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.UserView, error)
	UpdateProfile(ctx context.Context, callerID, userID uuid.UUID, patch domain.UserPatch) (*domain.ProfileUpdate, error)
	ChangePassword(ctx context.Context, callerID, userID uuid.UUID, input domain.PasswordChange) error
}

// ProvinceService serves the province catalog
type ProvinceService interface {
	List(ctx context.Context, filter domain.ProvinceFilter) (*domain.ProvinceList, error)
	Secondary(ctx context.Context) (*domain.SecondaryProvinces, error)
	Regions(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id int) (*domain.Province, error)
	TaxBenefits(ctx context.Context, id int, budget decimal.Decimal) (*domain.TaxBenefits, error)
}

// TravelPlanService manages the caller's travel plans
type TravelPlanService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input domain.TravelPlanCreate) (*domain.TravelPlanCreation, error)
	List(ctx context.Context, ownerID uuid.UUID, status string) (*domain.TravelPlanList, error)
	Get(ctx context.Context, ownerID, planID uuid.UUID) (*domain.TravelPlanDetail, error)
	Update(ctx context.Context, ownerID, planID uuid.UUID, patch domain.TravelPlanPatch) (*domain.TravelPlanUpdate, error)
	Delete(ctx context.Context, ownerID, planID uuid.UUID) error
	TaxInfo(ctx context.Context, ownerID, planID uuid.UUID) (*domain.TravelPlanTaxInfo, error)
}

// SystemService reports health, API information and statistics
type SystemService interface {
	Health(ctx context.Context) *domain.Health
	Info() *domain.APIInfo
	Stats(ctx context.Context) (*domain.Stats, error)
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler may continue.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			response.ValidationFailed(w, map[string]string{typeErr.Field: typeMessage(typeErr.Type)})
			return false
		}
		response.BadRequest(w, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			response.ValidationFailed(w, fieldErrors(validationErrors))
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}

	return true
}

func fieldErrors(validationErrors validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			fields[field] = "field is required"
		case "email":
			fields[field] = "invalid email format"
		case "min":
			fields[field] = "must be at least " + e.Param() + " characters"
		case "max":
			fields[field] = "must be at most " + e.Param() + " characters"
		case "maxbytes":
			fields[field] = "must be at most " + e.Param() + " bytes"
		case "oneof":
			fields[field] = "must be one of: " + e.Param()
		case "gt":
			fields[field] = "must be greater than " + e.Param()
		default:
			fields[field] = "validation failed on " + e.Tag()
		}
	}
	return fields
}

// typeMessage describes the JSON value a field of type t expects
func typeMessage(t reflect.Type) string {
	if t == nil {
		return "has an invalid type"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case reflect.TypeOf((*domain.Date)(nil)).Elem():
		return "must be a date in YYYY-MM-DD format"
	case reflect.TypeOf((*domain.Timestamp)(nil)).Elem():
		return "must be a YYYY-MM-DD date or an RFC 3339 timestamp"
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be a boolean"
	case reflect.Slice, reflect.Array:
		return "must be an array"
	case reflect.Map, reflect.Struct:
		return "must be an object"
	}
	return "has an invalid type"
}

// principal returns the authenticated caller. Routes using it sit behind the
// auth middleware, so a miss is reported as unauthenticated.
func principal(w http.ResponseWriter, r *http.Request) (*domain.UserView, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.FromError(w, r, domain.ErrUnauthenticated)
		return nil, false
	}
	return p, true
}

// uuidParam parses a UUID path parameter. A malformed id cannot name any
// stored resource, so it is answered with onInvalid, the same error an
// unknown id would produce.
func uuidParam(w http.ResponseWriter, r *http.Request, name string, onInvalid error) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.FromError(w, r, onInvalid)
		return uuid.Nil, false
	}
	return id, true
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		response.FromError(w, r, domain.NewValidationError(name, "invalid "+name))
		return 0, false
	}
	return id, true
}
