package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/models/response_models"
	"fitfunnel/pkg/utils"
)

const (
	StageRequest  = "request"
	StageParse    = "parse"
	StageValidate = "validate"
)

var ErrAnalysisDisabled = errors.New("text generation not configured")

// AnalysisError reports which stage of an analysis call failed.
type AnalysisError struct {
	Stage string
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis %s: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

type AnalysisOptions struct {
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{Temperature: 0.3, MaxTokens: 800, Timeout: 12 * time.Second}
}

type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, profile request_models.Profile) (response_models.AnalysisResult, error)
	Fallback(profile request_models.Profile) response_models.AnalysisResult
	AnalyzeOrFallback(ctx context.Context, profile request_models.Profile) response_models.AnalysisResult
}

type AnalysisService struct {
	client utils.TextGenerationClientInterface
	opts   AnalysisOptions
	logger *zap.Logger
}

// NewAnalysisService returns a service that always falls back when client
// is nil.
func NewAnalysisService(client utils.TextGenerationClientInterface, opts AnalysisOptions, logger *zap.Logger) AnalysisServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{client: client, opts: opts, logger: logger}
}

const analysisSystemPrompt = `Você é um personal trainer e nutricionista brasileiro.
Escreva sempre em português do Brasil, com tom acolhedor e direto.
Responda APENAS com um objeto JSON válido, sem markdown e sem texto fora do JSON.`

func (s *AnalysisService) Analyze(ctx context.Context, profile request_models.Profile) (response_models.AnalysisResult, error) {
	profile, metrics := WithMetrics(profile)
	if metrics == nil {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageRequest, Err: fmt.Errorf("%w: peso e altura são obrigatórios", utils.ErrInvalidProfile)}
	}
	if s.client == nil {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageRequest, Err: ErrAnalysisDisabled}
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	raw, err := s.client.GenerateText(ctx, utils.TextRequest{
		System:      analysisSystemPrompt,
		Prompt:      BuildAnalysisPrompt(profile, *metrics),
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
		JSONOutput:  true,
	})
	if err != nil {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageRequest, Err: err}
	}

	result, err := parseAnalysis(raw)
	if err != nil {
		return response_models.AnalysisResult{}, err
	}
	result.Source = response_models.AnalysisSourceLLM
	return result, nil
}

// parseAnalysis strips fences, validates against the schema and decodes.
func parseAnalysis(raw string) (response_models.AnalysisResult, error) {
	cleaned := utils.CleanJSONResponse(raw)

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(cleaned))
	if err != nil {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageParse, Err: err}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageParse, Err: errors.New("response is not a JSON object")}
	}
	if plan, ok := obj["recommendedPlan"].(string); ok {
		obj["recommendedPlan"] = strings.ToLower(strings.TrimSpace(plan))
	}

	schema, err := analysisSchema()
	if err != nil {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageValidate, Err: err}
	}
	if err := schema.Validate(obj); err != nil {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageValidate, Err: err}
	}

	normalized, err := json.Marshal(obj)
	if err != nil {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageParse, Err: err}
	}
	var result response_models.AnalysisResult
	if err := json.Unmarshal(normalized, &result); err != nil {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageParse, Err: err}
	}
	if strings.TrimSpace(result.Narrative) == "" {
		return response_models.AnalysisResult{}, &AnalysisError{Stage: StageValidate, Err: errors.New("empty narrative")}
	}
	return result, nil
}

var analysisSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	plans := make([]string, 0, len(planOrder))
	for _, p := range planOrder {
		plans = append(plans, string(p))
	}
	enum, err := json.Marshal(plans)
	if err != nil {
		return nil, err
	}

	def := fmt.Sprintf(`{
		"type": "object",
		"required": ["narrative", "recommendedPlan", "motivation", "challenges", "goals"],
		"properties": {
			"narrative": {"type": "string", "minLength": 1},
			"recommendedPlan": {"type": "string", "enum": %s},
			"motivation": {"type": "string"},
			"challenges": {"type": "array", "items": {"type": "string"}},
			"goals": {"type": "array", "items": {"type": "string"}}
		}
	}`, enum)

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	const url = "schema://analysis_result.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "não informado"
	}
	return s
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "não informado"
	}
	return strings.Join(items, ", ")
}

// BuildAnalysisPrompt embeds the profile, the plan catalog and the BMI
// dispatch rules into the instruction sent to the model.
func BuildAnalysisPrompt(p request_models.Profile, m response_models.DerivedMetrics) string {
	var b strings.Builder

	b.WriteString("Analise o perfil abaixo e gere uma avaliação personalizada.\n\n")
	b.WriteString("PERFIL:\n")
	fmt.Fprintf(&b, "- Nome: %s\n", orDash(p.Name))
	fmt.Fprintf(&b, "- Sexo: %s\n", orDash(p.Sex))
	fmt.Fprintf(&b, "- Idade: %d anos\n", ParseAge(p.Age))
	fmt.Fprintf(&b, "- Peso: %s kg\n", p.Weight)
	fmt.Fprintf(&b, "- Altura: %s\n", p.Height)
	fmt.Fprintf(&b, "- IMC: %.1f (%s)\n", m.BMI, m.BMICategory)
	fmt.Fprintf(&b, "- Metabolismo basal: %.0f kcal/dia\n", m.BMR)
	fmt.Fprintf(&b, "- Proteína diária sugerida: %.0f g\n", m.ProteinGrams)
	fmt.Fprintf(&b, "- Água diária sugerida: %.0f ml\n", m.WaterML)
	fmt.Fprintf(&b, "- Objetivo: %s\n", orDash(p.Goal))
	fmt.Fprintf(&b, "- Nível de atividade: %s\n", orDash(p.ActivityLevel))
	fmt.Fprintf(&b, "- Frequência de treino: %s\n", orDash(p.TrainingFrequency))
	fmt.Fprintf(&b, "- Local de treino: %s\n", orDash(p.TrainingLocation))
	fmt.Fprintf(&b, "- Dificuldades: %s\n", joinOrDash(p.Challenges))
	fmt.Fprintf(&b, "- Condições de saúde: %s\n", joinOrDash(p.MedicalConditions))
	fmt.Fprintf(&b, "- Lesões: %s\n", orDash(p.Injuries))
	fmt.Fprintf(&b, "- Sono: %s\n", orDash(p.Sleep))
	fmt.Fprintf(&b, "- Alimentação: %s\n", orDash(p.Diet))
	fmt.Fprintf(&b, "- Peso desejado: %s\n", orDash(p.TargetWeight))
	fmt.Fprintf(&b, "- Prazo: %s\n", orDash(p.Deadline))
	fmt.Fprintf(&b, "- Motivações: %s\n", joinOrDash(p.Motivations))

	b.WriteString("\nPLANOS DISPONÍVEIS:\n")
	for _, id := range planOrder {
		plan := planCatalog[id]
		fmt.Fprintf(&b, "- %s (%s): %s\n", id, plan.Name, plan.Description)
	}

	b.WriteString("\nREGRAS DE RECOMENDAÇÃO POR IMC:\n")
	for c := CategoryUnderweight; c <= CategoryObesity3; c++ {
		fmt.Fprintf(&b, "- %s: %s\n", c, basePlanByCategory[c])
	}
	b.WriteString("- Suba um nível se a atividade for alta, ou se a pessoa estiver abaixo do peso e quiser ganhar massa.\n")

	b.WriteString(`
Responda com este JSON:
{
  "narrative": "análise de 3 a 5 frases sobre o perfil",
  "recommendedPlan": "essencial | evolucao | transformacao",
  "motivation": "uma frase motivacional curta",
  "challenges": ["desafio 1", "desafio 2", "desafio 3"],
  "goals": ["meta 1", "meta 2", "meta 3"]
}`)

	return b.String()
}

type fallbackCopy struct {
	narrative  string
	challenges []string
	goals      []string
}

var fallbackByCategory = map[BMICategory]fallbackCopy{
	CategoryUnderweight: {
		narrative:  "Seu IMC de %.1f indica que você está abaixo do peso. O foco agora é ganhar peso de forma saudável, com treino de força e uma alimentação que cubra suas necessidades de energia e proteína.",
		challenges: []string{"Atingir a ingestão calórica diária", "Ganhar massa sem acumular gordura", "Manter a regularidade das refeições"},
		goals:      []string{"Aumentar o consumo de proteína", "Treinar força 3 vezes por semana", "Ganhar peso de forma gradual"},
	},
	CategoryNormal: {
		narrative:  "Seu IMC de %.1f está na faixa de peso normal. Você tem uma ótima base para evoluir composição corporal, condicionamento e disposição com um treino bem estruturado.",
		challenges: []string{"Manter a constância no longo prazo", "Evoluir sem estagnar", "Equilibrar treino e rotina"},
		goals:      []string{"Melhorar a composição corporal", "Aumentar força e resistência", "Criar hábitos sustentáveis"},
	},
	CategoryOverweight: {
		narrative:  "Seu IMC de %.1f indica sobrepeso. Com ajustes na alimentação e um treino que combine força e cardio, é possível reduzir gordura de forma consistente e sem extremos.",
		challenges: []string{"Criar um déficit calórico sustentável", "Manter a motivação nas primeiras semanas", "Controlar beliscos e fins de semana"},
		goals:      []string{"Reduzir o percentual de gordura", "Treinar pelo menos 3 vezes por semana", "Melhorar a qualidade do sono"},
	},
	CategoryObesity1: {
		narrative:  "Seu IMC de %.1f está na faixa de obesidade grau 1. Um acompanhamento próximo, com treino progressivo e reeducação alimentar, vai trazer resultados seguros e duradouros.",
		challenges: []string{"Começar com segurança para as articulações", "Reorganizar a alimentação", "Manter a regularidade"},
		goals:      []string{"Perder peso de forma gradual", "Melhorar o condicionamento", "Reduzir riscos à saúde"},
	},
	CategoryObesity2: {
		narrative:  "Seu IMC de %.1f está na faixa de obesidade grau 2. O ideal é um plano completo, com acompanhamento frequente, para perder peso com segurança e proteger sua saúde.",
		challenges: []string{"Proteger articulações durante o treino", "Mudar hábitos alimentares antigos", "Manter o foco no longo prazo"},
		goals:      []string{"Reduzir peso com acompanhamento", "Aumentar a atividade diária", "Melhorar marcadores de saúde"},
	},
	CategoryObesity3: {
		narrative:  "Seu IMC de %.1f está na faixa de obesidade grau 3. Recomendamos um acompanhamento completo e próximo, idealmente junto ao seu médico, para uma transformação segura.",
		challenges: []string{"Iniciar atividade física com segurança", "Reestruturar a alimentação", "Lidar com a ansiedade por resultados"},
		goals:      []string{"Perda de peso progressiva e segura", "Ganhar mobilidade e disposição", "Acompanhamento semanal"},
	},
}

var motivationByGoal = map[Goal]string{
	GoalLoseWeight: "Cada treino te deixa mais perto da versão que você quer ver no espelho.",
	GoalGainMuscle: "Músculo se constrói com constância: um treino de cada vez.",
	GoalMaintain:   "Manter é uma conquista diária. Continue cuidando de você.",
	GoalHealth:     "Sua saúde é o melhor investimento que você pode fazer hoje.",
}

// Fallback builds a deterministic analysis from the same thresholds the
// recommendation engine uses.
func (s *AnalysisService) Fallback(profile request_models.Profile) response_models.AnalysisResult {
	return FallbackAnalysis(profile)
}

func FallbackAnalysis(profile request_models.Profile) response_models.AnalysisResult {
	goal := NormalizeGoal(profile.Goal)
	activity := NormalizeActivity(profile.ActivityLevel)

	var narrative string
	category := CategoryNormal
	if m, ok := ComputeMetricsForProfile(profile); ok {
		category, _ = ParseBMICategory(m.BMICategory)
		narrative = fmt.Sprintf(fallbackByCategory[category].narrative, m.BMI)
	} else {
		narrative = "Com base nas suas respostas, preparamos um plano para você começar com segurança e evoluir de forma consistente."
	}

	if name := strings.TrimSpace(profile.Name); name != "" {
		narrative = name + ", " + lowerFirst(narrative)
	}

	texts := fallbackByCategory[category]
	return response_models.AnalysisResult{
		Narrative:       narrative,
		RecommendedPlan: string(Recommend(category, activity, goal)),
		Motivation:      motivationByGoal[goal],
		Challenges:      append([]string(nil), texts.challenges...),
		Goals:           append([]string(nil), texts.goals...),
		Source:          response_models.AnalysisSourceFallback,
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r)
}

// AnalyzeOrFallback never fails: provider, parse and validation errors are
// logged and replaced by the local analysis.
func (s *AnalysisService) AnalyzeOrFallback(ctx context.Context, profile request_models.Profile) response_models.AnalysisResult {
	result, err := s.Analyze(ctx, profile)
	if err == nil {
		return result
	}

	var ae *AnalysisError
	stage := "unknown"
	if errors.As(err, &ae) {
		stage = ae.Stage
	}
	if errors.Is(err, ErrAnalysisDisabled) {
		s.logger.Debug("analysis provider disabled, using fallback")
	} else {
		s.logger.Warn("analysis failed, using fallback", zap.String("stage", stage), zap.Error(err))
	}
	return s.Fallback(profile)
}
