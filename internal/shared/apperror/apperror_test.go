package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"emplystack/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "already exists", http.StatusConflict)

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusConflict, httpErr.Status)
		assert.Equal(t, apperror.CodeConflict, httpErr.Code)
		assert.Equal(t, "already exists", httpErr.Message)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("service: %w", apperror.ErrNotFound)

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, apperror.CodeNotFound, httpErr.Code)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.NotContains(t, httpErr.Message, "pq")
	})
}

func TestWithCause(t *testing.T) {
	cause := errors.New("db down")
	err := apperror.ErrInternal.WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, apperror.ErrInternal.Err)
	assert.Equal(t, apperror.ErrInternal.Code, err.Code)
}

type createRequest struct {
	BasicSalary int64  `json:"basic_salary" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(apperror.FieldName)

	err := v.Struct(createRequest{Email: "x@mail.com"})
	appErr := apperror.MapValidationError(err)

	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "Basic Salary is required", appErr.Message)

	err = v.Struct(createRequest{BasicSalary: 10, Email: "nope"})
	appErr = apperror.MapValidationError(err)
	assert.Equal(t, "Email is invalid", appErr.Message)

	appErr = apperror.MapValidationError(errors.New("EOF"))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestFieldName(t *testing.T) {
	type query struct {
		Month    string `json:"month,omitempty"`
		Status   string `form:"status"`
		ID       string `uri:"id"`
		Hidden   string `json:"-" form:"hidden"`
		Untagged string
	}

	typ := reflect.TypeOf(query{})
	names := make([]string, typ.NumField())
	for i := range names {
		names[i] = apperror.FieldName(typ.Field(i))
	}

	assert.Equal(t, []string{"month", "status", "id", "", ""}, names)
}
