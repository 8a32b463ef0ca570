package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"lion-connect-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		name string
		err  *apperror.AppError
		code int
		kind apperror.Kind
	}{
		{"bad request", apperror.BadRequest("x"), http.StatusBadRequest, apperror.KindBadRequest},
		{"unauthorized", apperror.Unauthorized("x"), http.StatusUnauthorized, apperror.KindUnauthorized},
		{"forbidden", apperror.Forbidden("x"), http.StatusForbidden, apperror.KindForbidden},
		{"not found", apperror.NotFound("x"), http.StatusNotFound, apperror.KindNotFound},
		{"conflict", apperror.Conflict("x"), http.StatusConflict, apperror.KindConflict},
		{"too many", apperror.TooManyRequests("x"), http.StatusTooManyRequests, apperror.KindTooManyRequests},
		{"internal", apperror.Internal(errors.New("db down")), http.StatusInternalServerError, apperror.KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.kind, tc.err.Kind)
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: relation users does not exist")
	err := apperror.Internal(cause)

	assert.Equal(t, "Internal Server Error", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWithStatusKeepsKind(t *testing.T) {
	base := apperror.Conflict("Match request already processed")
	rendered := base.WithStatus(http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rendered.Code)
	assert.Equal(t, apperror.KindConflict, rendered.Kind)
	assert.Equal(t, http.StatusConflict, base.Code, "original must not be mutated")
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("respond: %w", apperror.Forbidden("nope"))
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(wrapped))
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(errors.New("boom")))
}
