package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitfunnel/internal/models/response_models"
	"fitfunnel/internal/repositories"
	"fitfunnel/internal/services"
	mem "fitfunnel/pkg/memcache"
	"fitfunnel/pkg/utils"
)

const analysisJSON = `{"narrative":"Ótimo ponto de partida.","recommendedPlan":"essencial","motivation":"Bora!","challenges":["rotina"],"goals":["beber água"]}`

type testServer struct {
	engine    *gin.Engine
	llm       *utils.MockTextClient
	snapshots services.SnapshotServiceInterface
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	llm := utils.NewMockTextClient()
	analysis := services.NewAnalysisService(llm, services.DefaultAnalysisOptions(), logger)
	recommender := services.NewRecommendationService()
	snapshots := services.NewSnapshotService(repositories.NewKVSnapshotRepository(mem.NewMemoryStore()), time.Hour, logger)
	quiz := services.NewQuizService(
		mem.NewMemoryStore(),
		services.DefaultCatalog(),
		recommender,
		analysis,
		snapshots,
		services.NewNotificationService(nil, logger),
		services.QuizSettings{DiscountMin: 50, DiscountMax: 100, SubmitTimeout: time.Second, SessionTTL: time.Hour, NotifyTimeout: time.Second},
		logger,
	)
	t.Cleanup(quiz.Wait)

	qc := NewQuizController(quiz, logger)
	ac := NewAnalysisController(analysis, logger)
	mc := NewMetricsController(services.NewMetricsService())
	pc := NewPlansController(recommender)
	sc := NewSnapshotController(snapshots, logger)
	hc := NewHealthController(map[string]HealthCheck{})

	r := gin.New()
	r.GET("/health", hc.Health)
	api := r.Group("/api")
	api.POST("/analysis", ac.Analyze)
	api.POST("/metrics", mc.Calculate)
	api.GET("/plans", pc.ListPlans)
	api.GET("/plans/:id", pc.GetPlan)
	api.GET("/clients/:clientId/snapshot", sc.GetSnapshot)
	q := api.Group("/quiz")
	q.GET("/questions", qc.GetQuestions)
	q.POST("/start", qc.StartQuiz)
	q.GET("/:id", qc.GetState)
	q.DELETE("/:id", qc.Exit)
	q.POST("/:id/answer", qc.AnswerQuestion)
	q.POST("/:id/toggle", qc.ToggleOption)
	q.POST("/:id/next", qc.Next)
	q.POST("/:id/prev", qc.Prev)
	q.POST("/:id/goto", qc.GoTo)
	q.POST("/:id/discount/ack", qc.AcknowledgeDiscount)
	q.POST("/:id/restart", qc.Restart)

	return &testServer{engine: r, llm: llm, snapshots: snapshots}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_FailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hc := NewHealthController(map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	r := gin.New()
	r.GET("/health", hc.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/metrics", map[string]string{"weight": "70", "height": "1,75", "age": "30", "sex": "masculino"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[response_models.MetricsResponse](t, w)
	assert.True(t, body.Data.CanCalculate)
	require.NotNil(t, body.Data.Metrics)
	assert.InDelta(t, 22.9, body.Data.Metrics.BMI, 1e-9)
	assert.InDelta(t, 1648.75, body.Data.Metrics.BMR, 1e-9)

	w = s.do(t, http.MethodPost, "/api/metrics", map[string]string{"weight": "abc", "height": "1,75"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[response_models.MetricsResponse](t, w)
	assert.False(t, body.Data.CanCalculate)
	assert.Nil(t, body.Data.Metrics)
}

func TestPlansEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/plans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	plans := decode[[]response_models.PlanResponse](t, w)
	require.Len(t, plans.Data, 3)
	assert.Equal(t, "essencial", plans.Data[0].ID)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/plans/evolucao", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/plans/premium", nil).Code)
}

func TestAnalysisEndpoint(t *testing.T) {
	s := newTestServer(t)
	profile := map[string]any{"name": "Ana", "weight": "62", "height": "165", "age": "28", "sex": "feminino", "goal": "saude"}

	s.llm.AddResponse(utils.MockTextResponse{Content: analysisJSON})
	w := s.do(t, http.MethodPost, "/api/analysis", profile)
	require.Equal(t, http.StatusOK, w.Code)
	var result response_models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "essencial", result.RecommendedPlan)
	assert.Equal(t, "Ótimo ponto de partida.", result.Narrative)

	s.llm.AddResponse(utils.MockTextResponse{Content: "não é json"})
	w = s.do(t, http.MethodPost, "/api/analysis", profile)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var env utils.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.NotEmpty(t, env.Error)
	assert.NotEmpty(t, env.Details)

	w = s.do(t, http.MethodPost, "/api/analysis", map[string]any{"name": "Ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/quiz/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	questions := decode[response_models.QuizQuestionsResponse](t, w)
	assert.Equal(t, 19, questions.Data.TotalSteps)

	w = s.do(t, http.MethodPost, "/api/quiz/start", map[string]string{"client_id": "web-1"})
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[response_models.QuizStateResponse](t, w).Data
	id := state.SessionID
	assert.Equal(t, "web-1", state.ClientID)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Por favor, responda esta pergunta", decode[any](t, w).Message)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/answer", map[string]any{"question_id": "sexo", "text": "talvez"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/answer", map[string]any{"text": "feminino"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/answer", map[string]any{"question_id": "sexo", "text": "feminino"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[response_models.QuizStateResponse](t, w).Data.StepComplete)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[response_models.QuizStateResponse](t, w).Data.CurrentStep)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/goto", map[string]int{"step": 5})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/goto", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/goto", map[string]int{"step": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[response_models.QuizStateResponse](t, w).Data.CurrentStep)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/toggle", map[string]string{"question_id": "dificuldades", "option": "constancia"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/discount/ack", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/quiz/"+id+"/restart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	restarted := decode[response_models.QuizStateResponse](t, w).Data
	assert.NotEqual(t, id, restarted.SessionID)
	assert.Equal(t, "web-1", restarted.ClientID)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/quiz/"+id, nil).Code)

	w = s.do(t, http.MethodPost, "/api/quiz/"+restarted.SessionID+"/prev", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "exited", decode[response_models.QuizStateResponse](t, w).Data.Phase)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/quiz/"+restarted.SessionID, nil).Code)
}

func TestQuizStartWithoutBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/start", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[response_models.QuizStateResponse](t, w).Data
	assert.NotEmpty(t, state.ClientID)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/quiz/"+state.SessionID, nil).Code)
}

func TestSnapshotEndpoint(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/clients/nobody/snapshot", nil).Code)

	require.NoError(t, s.snapshots.SaveDiscount(context.Background(), "c-9", 75))
	w := s.do(t, http.MethodGet, "/api/clients/c-9/snapshot", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[response_models.SnapshotResponse](t, w).Data
	assert.Equal(t, "c-9", snap.ClientID)
	require.NotNil(t, snap.Analysis)
	require.NotNil(t, snap.Analysis.Discount)
	assert.Equal(t, 75, *snap.Analysis.Discount)
}
