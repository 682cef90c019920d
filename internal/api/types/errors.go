package types

import (
	"net/http"

	appErr "github.com/projectflow/engine/pkg/errors"
)

func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	if e, ok := err.(*appErr.AppError); ok {
		return &APIError{Code: string(e.Code), Message: e.Message, Meta: e.Meta}
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
}

// HTTPStatus maps an error code to a response status. Workflow outcome
// codes deliberately map to 409/422 rather than 400 so clients can tell
// validation failures from state conflicts.
func HTTPStatus(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden, appErr.CodeRoleRequired:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict, appErr.CodeDuplicate, appErr.CodeAlreadyExists:
		return http.StatusConflict
	case appErr.CodeIneligible, appErr.CodeNotApproved, appErr.CodeNotReady, appErr.CodeInvalidTarget:
		return http.StatusUnprocessableEntity
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
