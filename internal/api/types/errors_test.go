package types

import (
	"errors"
	"net/http"
	"testing"

	appErr "github.com/projectflow/engine/pkg/errors"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code appErr.Code
		want int
	}{
		{appErr.CodeInvalid, http.StatusBadRequest},
		{appErr.CodeUnauthorized, http.StatusUnauthorized},
		{appErr.CodeForbidden, http.StatusForbidden},
		{appErr.CodeRoleRequired, http.StatusForbidden},
		{appErr.CodeNotFound, http.StatusNotFound},
		{appErr.CodeConflict, http.StatusConflict},
		{appErr.CodeDuplicate, http.StatusConflict},
		{appErr.CodeAlreadyExists, http.StatusConflict},
		{appErr.CodeIneligible, http.StatusUnprocessableEntity},
		{appErr.CodeNotApproved, http.StatusUnprocessableEntity},
		{appErr.CodeNotReady, http.StatusUnprocessableEntity},
		{appErr.CodeInvalidTarget, http.StatusUnprocessableEntity},
		{appErr.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(appErr.New(tc.code, "x")); got != tc.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}

	if got := HTTPStatus(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("plain error = %d, want 500", got)
	}
}

func TestFromAppError_CarriesMeta(t *testing.T) {
	err := appErr.New(appErr.CodeRoleRequired, "select an active role").WithMeta("redirect", "/role-selection")
	ae := FromAppError(err)
	if ae.Code != string(appErr.CodeRoleRequired) {
		t.Fatalf("code = %s", ae.Code)
	}
	if ae.Meta["redirect"] != "/role-selection" {
		t.Fatalf("meta = %v", ae.Meta)
	}
}
