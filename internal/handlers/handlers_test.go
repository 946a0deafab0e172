package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/service"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/session"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := HandlerSet{log: zerolog.Nop()}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", service.ErrValidation, http.StatusBadRequest},
		{"invalid role", service.ErrInvalidRole, http.StatusBadRequest},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthenticated", session.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"no such patient", service.ErrNoSuchPatient, http.StatusNotFound},
		{"duplicate email", service.ErrDuplicateEmail, http.StatusConflict},
		{"store unavailable", service.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"wrapped store error", errors.Join(service.ErrStoreUnavailable, errors.New("conn refused")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			h.writeError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
