package api

import (
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"rjboard/internal/service"
)

var requestValidator = validator.New()

func init() {
	requestValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("form"); name != "" {
			return name
		}
		return strings.ToLower(field.Name)
	})
}

// validateForm checks struct validate tags and reports failures per form
// field, keyed by the field's `form` tag.
func validateForm(dst any) service.FieldErrors {
	err := requestValidator.Struct(dst)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return service.FieldErrors{"form": "Invalid request payload"}
	}

	fieldErrors := service.FieldErrors{}
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			fieldErrors[field] = "This field is required"
		case "email":
			fieldErrors[field] = "Invalid email format"
		case "min", "max":
			fieldErrors[field] = "Invalid length"
		default:
			fieldErrors[field] = "Invalid value"
		}
	}
	return fieldErrors
}

// parseRequestForm is ParseForm plus body parsing for DELETE, which
// net/http otherwise skips.
func parseRequestForm(r *http.Request) error {
	if r.Method == http.MethodDelete && r.PostForm == nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return err
		}
		r.PostForm = values
	}
	return r.ParseForm()
}

func urlInt64(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(r.PostFormValue(name)))
}

func formInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(r.PostFormValue(name)), 10, 64)
}

func queryInt64(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
