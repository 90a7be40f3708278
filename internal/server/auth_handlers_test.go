package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"flappy-game/internal/database"
)

func TestRegisterErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &GameServer{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"unknown referral code", database.ErrInvalidReferral, 400, "Invalid referral code"},
		{"duplicate mobile", database.ErrUserExists, 400, "User already exists"},
		{"referral code exhausted", database.ErrReferralCodeExhausted, 500, "Error creating user"},
		{"storage failure", errors.New("connection reset"), 500, "Error creating user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			s.registerError(c, tt.err)

			require.Equal(t, tt.status, w.Code)
			require.Contains(t, w.Body.String(), tt.body)
		})
	}
}
