// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/response"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// base carries what every handler group needs to read requests and
// render failures
type base struct {
	logger *zap.Logger
}

func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	response.Error(w, r, b.logger, err)
}

// decode reads a JSON body into dst and validates it. On failure the
// response has been written and false is returned.
func (b base) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			b.fail(w, r, errors.NewBadRequestError("Request body too large"))
			return false
		}
		b.fail(w, r, errors.NewBadRequestError("Invalid JSON payload"))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			response.Invalid(w, r, fieldErrors(verrs))
			return false
		}
		b.fail(w, r, errors.NewBadRequestError(err.Error()))
		return false
	}
	return true
}

// fieldErrors maps validator failures to "json.path": "message"
func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		fields[key] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s items or characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s items or characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "is invalid"
	}
}

func currentUser(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, errors.NewUnauthorizedError("User not authenticated")
	}
	return id, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.NewBadRequestError(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

func uintParam(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewBadRequestError(fmt.Sprintf("Invalid %s", name))
	}
	return uint(id), nil
}

// intQuery returns nil when key is absent
func intQuery(q url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.NewBadRequestError(fmt.Sprintf("Query parameter %s must be an integer", key))
	}
	return &n, nil
}

func intQueryOr(q url.Values, key string, fallback int) (int, error) {
	n, err := intQuery(q, key)
	if err != nil || n == nil {
		return fallback, err
	}
	return *n, nil
}

func floatQueryOr(q url.Values, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewBadRequestError(fmt.Sprintf("Query parameter %s must be a number", key))
	}
	return f, nil
}

// listQuery splits comma separated values and repeated keys into one list
func listQuery(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
