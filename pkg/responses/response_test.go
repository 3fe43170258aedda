package responses

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/courtsidehq/courtside/internal/apperr"
	"github.com/courtsidehq/courtside/pkg/logger"
)

func TestSendAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("internal errors go through the process logger", func(t *testing.T) {
		var buf bytes.Buffer
		prev := logger.Log
		logger.Log = zerolog.New(&buf)
		defer func() { logger.Log = prev }()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		SendAppError(c, errors.New("pg: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "An unexpected error occurred on the server")
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.Contains(t, buf.String(), "request failed")
		assert.Contains(t, buf.String(), "connection refused")
	})

	t.Run("client errors keep their message and skip the log", func(t *testing.T) {
		var buf bytes.Buffer
		prev := logger.Log
		logger.Log = zerolog.New(&buf)
		defer func() { logger.Log = prev }()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		SendAppError(c, apperr.Conflict("player belongs to another team"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "player belongs to another team")
		assert.Empty(t, buf.String())
	})
}
