package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/xenocrm/crm-backend/internal/rules"
	"github.com/xenocrm/crm-backend/internal/services"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation error", &services.ValidationError{Reason: "bad input"}, http.StatusBadRequest},
		{"invalid rule", &rules.InvalidRuleError{Index: 0, Field: "x", Reason: "unknown field"}, http.StatusBadRequest},
		{"empty audience", services.ErrEmptyAudience, http.StatusBadRequest},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"launch in progress", services.ErrLaunchInProgress, http.StatusConflict},
		{"wrapped not found", errors.New("wrapped: " + services.ErrNotFound.Error()), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondError(c, tc.err)
			assert.Equal(t, tc.status, recorder.Code)
		})
	}
}
