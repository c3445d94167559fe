package failure_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"seva/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	err := failure.BadRequestFromString("no items available")

	assert.Equal(t, "no items available", err.Error())
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestFailure_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("missing field")), wantCode: http.StatusBadRequest},
		{name: "unauthorized", err: failure.Unauthorized("missing token"), wantCode: http.StatusUnauthorized},
		{name: "forbidden", err: failure.Forbidden("wrong role"), wantCode: http.StatusForbidden},
		{name: "not found", err: failure.NotFound("listing not found"), wantCode: http.StatusNotFound},
		{name: "conflict", err: failure.Conflict("version conflict"), wantCode: http.StatusConflict},
		{name: "internal", err: failure.InternalError(errors.New("boom")), wantCode: http.StatusInternalServerError},
		{name: "plain error defaults to 500", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
		})
	}
}

func TestFailure_NilErrors(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}
