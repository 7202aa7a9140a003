package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Request parameters are parsed from the path or query into these structs
// and checked with validator tags before the calendar's own date checks.

type gregorianDateParams struct {
	Year  int `json:"year" validate:"required,min=-4713,max=9999"`
	Month int `json:"month" validate:"required,min=1,max=12"`
	Day   int `json:"day" validate:"required,min=1,max=31"`
}

type hijriDateParams struct {
	Year  int `json:"year" validate:"required,min=-6000,max=9999"`
	Month int `json:"month" validate:"required,min=1,max=12"`
	Day   int `json:"day" validate:"required,min=1,max=30"`
}

type julianDayQuery struct {
	gregorianDateParams
	Time float64 `json:"time" validate:"gte=0,lt=1"`
}

type jdnParams struct {
	JDN float64 `json:"jdn" validate:"gte=0,lte=5373484.5"`
}

type lunationParams struct {
	N int `json:"n" validate:"min=-80000,max=100000"`
}

type yearMonthParams struct {
	Year  int `json:"year" validate:"required,min=-4713,max=9999"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

type hijriYearParams struct {
	Year int `json:"year" validate:"required,min=-6000,max=9999"`
}

// newValidator returns a validator that reports fields by their JSON names.
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

// validationFields turns validator errors into "field (rule)" strings.
// Returns nil when err is not a validation error.
func validationFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), rule))
	}
	return fields
}

// pathInt reads an integer URL parameter.
func pathInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// pathFloat reads a numeric URL parameter.
func pathFloat(r *http.Request, name string) (float64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return v, nil
}

// queryInt reads a required integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s query parameter is required", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// queryFloat reads an optional numeric query parameter.
func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return v, nil
}
