package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorEnvelope is the body of the analysis endpoint when it fails.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// PromptCarrier is implemented by errors that hold a user-facing prompt.
type PromptCarrier interface {
	Prompt() string
}

func traceIDFrom(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceIDFrom(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDFrom(c),
	})
}

func respondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDFrom(c),
		Data:    data,
	})
}

func HandleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Quiz session not found")
	case errors.Is(err, ErrSnapshotNotFound):
		RespondError(c, http.StatusNotFound, "No saved results for this client")
	case errors.Is(err, ErrStepIncomplete):
		message := "Por favor, responda esta pergunta"
		var pc PromptCarrier
		if errors.As(err, &pc) {
			message = pc.Prompt()
		}
		respondErrorWithData(c, http.StatusUnprocessableEntity, message, gin.H{"validation": err.Error()})
	case errors.Is(err, ErrInvalidQuestion),
		errors.Is(err, ErrInvalidOption),
		errors.Is(err, ErrAnswerKindMismatch),
		errors.Is(err, ErrInvalidProfile):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrQuizSubmitted),
		errors.Is(err, ErrStepUnreachable),
		errors.Is(err, ErrDiscountPending):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrDatabaseError):
		logger.Error("database error", zap.String("trace_id", traceIDFrom(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error("unhandled service error", zap.String("trace_id", traceIDFrom(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
