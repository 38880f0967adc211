package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type promptErr struct{}

func (promptErr) Error() string { return "incomplete" }
func (promptErr) Is(target error) bool { return target == ErrStepIncomplete }
func (promptErr) Prompt() string { return "Escolha uma opção" }

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err     error
		code    int
		message string
	}{
		{fmt.Errorf("load: %w", ErrSessionNotFound), http.StatusNotFound, "Quiz session not found"},
		{ErrSnapshotNotFound, http.StatusNotFound, ""},
		{promptErr{}, http.StatusUnprocessableEntity, "Escolha uma opção"},
		{ErrStepIncomplete, http.StatusUnprocessableEntity, "Por favor, responda esta pergunta"},
		{fmt.Errorf("%w: x", ErrInvalidOption), http.StatusBadRequest, ""},
		{ErrQuizSubmitted, http.StatusConflict, ""},
		{ErrDiscountPending, http.StatusConflict, ""},
		{errors.New("kaboom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set("trace_id", "t-1")

			HandleServiceError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "t-1", body.TraceID)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestParseDateBR(t *testing.T) {
	d, ok := ParseDateBR("2026-11-01")
	require.True(t, ok)
	assert.Equal(t, "01/11/2026 00:00", FormatDisplayBR(d))

	d, ok = ParseDateBR("01/11/2026")
	require.True(t, ok)
	assert.Equal(t, 2026, d.Year())

	_, ok = ParseDateBR("amanhã")
	assert.False(t, ok)
	assert.Empty(t, FormatDisplayBR(time.Time{}))
}
