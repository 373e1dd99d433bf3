package companyerrors

import (
	"net/http"

	"emplystack/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)

	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)

	ErrInvalidSubscriptionEnd = apperror.New(
		apperror.CodeInvalidInput,
		"ends_at must be an RFC3339 timestamp",
		http.StatusBadRequest,
	)
)
