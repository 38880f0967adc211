package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/models/response_models"
	"fitfunnel/pkg/utils"
)

func sampleProfile() request_models.Profile {
	return request_models.Profile{
		Name:          "João",
		Sex:           "masculino",
		Age:           "30",
		Weight:        "70",
		Height:        "1,75",
		Goal:          "emagrecer",
		ActivityLevel: "moderada",
	}
}

const validAnalysis = `{
  "narrative": "Seu perfil é ótimo.",
  "recommendedPlan": "evolucao",
  "motivation": "Vamos juntos!",
  "challenges": ["tempo"],
  "goals": ["treinar 3x"]
}`

func TestAnalyze_ParsesFencedJSON(t *testing.T) {
	client := utils.NewMockTextClient(utils.MockTextResponse{Content: "```json\n" + validAnalysis + "\n```"})
	svc := NewAnalysisService(client, DefaultAnalysisOptions(), nil)

	got, err := svc.Analyze(context.Background(), sampleProfile())
	require.NoError(t, err)
	assert.Equal(t, "Seu perfil é ótimo.", got.Narrative)
	assert.Equal(t, "evolucao", got.RecommendedPlan)
	assert.Equal(t, []string{"tempo"}, got.Challenges)
	assert.Equal(t, response_models.AnalysisSourceLLM, got.Source)

	require.Equal(t, 1, client.CallCount())
	req := client.Calls[0]
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
	assert.Equal(t, 800, req.MaxTokens)
	assert.True(t, req.JSONOutput)
	assert.Contains(t, req.Prompt, "IMC: 22.9 (Peso normal)")
	assert.Contains(t, req.Prompt, "transformacao")
}

func TestAnalyze_NormalizesPlanCase(t *testing.T) {
	client := utils.NewMockTextClient(utils.MockTextResponse{Content: `{"narrative":"ok","recommendedPlan":" Essencial ","motivation":"","challenges":[],"goals":[]}`})
	got, err := NewAnalysisService(client, DefaultAnalysisOptions(), nil).Analyze(context.Background(), sampleProfile())
	require.NoError(t, err)
	assert.Equal(t, "essencial", got.RecommendedPlan)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name  string
		resp  utils.MockTextResponse
		stage string
	}{
		{"provider error", utils.MockTextResponse{Err: errors.New("boom")}, StageRequest},
		{"not json", utils.MockTextResponse{Content: "desculpe, não posso"}, StageParse},
		{"array", utils.MockTextResponse{Content: `["a"]`}, StageParse},
		{"missing field", utils.MockTextResponse{Content: `{"narrative":"x","recommendedPlan":"essencial","motivation":"y","challenges":[]}`}, StageValidate},
		{"unknown plan", utils.MockTextResponse{Content: `{"narrative":"x","recommendedPlan":"premium","motivation":"y","challenges":[],"goals":[]}`}, StageValidate},
		{"empty narrative", utils.MockTextResponse{Content: `{"narrative":"  ","recommendedPlan":"essencial","motivation":"y","challenges":[],"goals":[]}`}, StageValidate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAnalysisService(utils.NewMockTextClient(tt.resp), DefaultAnalysisOptions(), nil)
			_, err := svc.Analyze(context.Background(), sampleProfile())

			var ae *AnalysisError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.stage, ae.Stage)
		})
	}
}

func TestAnalyze_InvalidProfile(t *testing.T) {
	svc := NewAnalysisService(utils.NewMockTextClient(), DefaultAnalysisOptions(), nil)
	_, err := svc.Analyze(context.Background(), request_models.Profile{Weight: "x"})
	assert.ErrorIs(t, err, utils.ErrInvalidProfile)
}

func TestAnalyze_Disabled(t *testing.T) {
	svc := NewAnalysisService(nil, DefaultAnalysisOptions(), nil)
	_, err := svc.Analyze(context.Background(), sampleProfile())
	assert.ErrorIs(t, err, ErrAnalysisDisabled)
}

type blockingClient struct{}

func (blockingClient) GenerateText(ctx context.Context, _ utils.TextRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (blockingClient) ModelID() string { return "blocking" }

func TestAnalyze_Timeout(t *testing.T) {
	opts := DefaultAnalysisOptions()
	opts.Timeout = 20 * time.Millisecond
	svc := NewAnalysisService(blockingClient{}, opts, nil)

	_, err := svc.Analyze(context.Background(), sampleProfile())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	got := svc.AnalyzeOrFallback(context.Background(), sampleProfile())
	assert.Equal(t, response_models.AnalysisSourceFallback, got.Source)
}

func TestAnalyzeOrFallback_MockedFailure(t *testing.T) {
	client := utils.NewMockTextClient(utils.MockTextResponse{Err: errors.New("network down")})
	svc := NewAnalysisService(client, DefaultAnalysisOptions(), nil)

	got := svc.AnalyzeOrFallback(context.Background(), sampleProfile())
	assert.NotEmpty(t, got.Narrative)
	assert.True(t, IsValidPlan(got.RecommendedPlan))
	assert.Equal(t, "essencial", got.RecommendedPlan)
	assert.Equal(t, response_models.AnalysisSourceFallback, got.Source)
}

func TestFallbackAnalysis_FollowsRecommendation(t *testing.T) {
	for _, w := range []string{"45", "70", "85", "95", "110", "140"} {
		p := sampleProfile()
		p.Weight = w
		got := FallbackAnalysis(p)

		m, ok := ComputeMetricsForProfile(p)
		require.True(t, ok)
		c, _ := ParseBMICategory(m.BMICategory)

		assert.Equal(t, string(Recommend(c, ActivityModerate, GoalLoseWeight)), got.RecommendedPlan, w)
		assert.NotEmpty(t, got.Narrative)
		assert.NotEmpty(t, got.Challenges)
		assert.NotEmpty(t, got.Goals)
		assert.Contains(t, got.Narrative, "João, ")
	}
}

func TestFallbackAnalysis_WithoutMetrics(t *testing.T) {
	got := FallbackAnalysis(request_models.Profile{})
	assert.NotEmpty(t, got.Narrative)
	assert.True(t, IsValidPlan(got.RecommendedPlan))
	assert.NotEmpty(t, got.Motivation)
}
