package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/services"
	"fitfunnel/pkg/utils"
)

type QuizController struct {
	quizService services.QuizServiceInterface
	logger      *zap.Logger
}

func NewQuizController(quizService services.QuizServiceInterface, logger *zap.Logger) *QuizController {
	return &QuizController{
		quizService: quizService,
		logger:      logger,
	}
}

// GetQuestions godoc
// @Summary List quiz questions
// @Tags Quiz
// @Produce json
// @Success 200 {object} response_models.QuizQuestionsResponse
// @Router /api/quiz/questions [get]
func (q *QuizController) GetQuestions(c *gin.Context) {
	utils.RespondSuccess(c, q.quizService.Questions(), "Questions fetched successfully")
}

// StartQuiz godoc
// @Summary Start a quiz session
// @Description Opens a new session. client_id is optional; a new one is issued when absent.
// @Tags Quiz
// @Accept json
// @Produce json
// @Param request body request_models.QuizStartRequest false "Client"
// @Success 200 {object} response_models.QuizStateResponse
// @Router /api/quiz/start [post]
func (q *QuizController) StartQuiz(c *gin.Context) {
	var req request_models.QuizStartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	state, err := q.quizService.Start(c.Request.Context(), req.ClientID)
	if err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Quiz started")
}

func (q *QuizController) GetState(c *gin.Context) {
	state, err := q.quizService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Quiz state fetched")
}

// AnswerQuestion godoc
// @Summary Answer a question
// @Tags Quiz
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body request_models.AnswerRequest true "Answer"
// @Success 200 {object} response_models.QuizStateResponse
// @Router /api/quiz/{id}/answer [post]
func (q *QuizController) AnswerQuestion(c *gin.Context) {
	var req request_models.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "question_id is required")
		return
	}

	state, err := q.quizService.Answer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Answer accepted")
}

func (q *QuizController) ToggleOption(c *gin.Context) {
	var req request_models.ToggleOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "question_id and option are required")
		return
	}

	state, err := q.quizService.Toggle(c.Request.Context(), c.Param("id"), req.QuestionID, req.Option)
	if err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Option toggled")
}

// Next godoc
// @Summary Advance the quiz
// @Description Validates the current step. May unlock the discount, show an interstitial, or submit on the last step.
// @Tags Quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response_models.QuizStateResponse
// @Failure 422 {object} utils.APIResponse
// @Router /api/quiz/{id}/next [post]
func (q *QuizController) Next(c *gin.Context) {
	state, err := q.quizService.Next(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Quiz advanced")
}

func (q *QuizController) Prev(c *gin.Context) {
	state, err := q.quizService.Prev(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Quiz moved back")
}

func (q *QuizController) GoTo(c *gin.Context) {
	var req request_models.GoToStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "step is required")
		return
	}

	state, err := q.quizService.GoTo(c.Request.Context(), c.Param("id"), *req.Step)
	if err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Step changed")
}

func (q *QuizController) AcknowledgeDiscount(c *gin.Context) {
	state, err := q.quizService.AcknowledgeDiscount(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Discount acknowledged")
}

func (q *QuizController) Restart(c *gin.Context) {
	state, err := q.quizService.Restart(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Quiz restarted")
}

func (q *QuizController) Exit(c *gin.Context) {
	if err := q.quizService.Exit(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, q.logger, err)
		return
	}
	utils.RespondSuccess(c, nil, "Quiz closed")
}
