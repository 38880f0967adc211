package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/models/response_models"
	"fitfunnel/pkg/utils"
)

var ErrMailerNotConfigured = errors.New("mailer not configured")

// LeadField is one template parameter. Label is used by mailers that render
// the message themselves.
type LeadField struct {
	Key   string
	Label string
	Value string
}

// LeadParams keeps template fields in display order.
type LeadParams []LeadField

func (p LeadParams) Map() map[string]string {
	out := make(map[string]string, len(p))
	for _, f := range p {
		out[f.Key] = f.Value
	}
	return out
}

func (p LeadParams) Get(key string) string {
	for _, f := range p {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// LeadMailer delivers a captured lead to the sales inbox.
type LeadMailer interface {
	Name() string
	Configured() bool
	SendLead(ctx context.Context, params LeadParams) error
}

// isPlaceholder matches values left over from a sample .env file.
func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	if strings.HasPrefix(strings.ToUpper(v), "YOUR_") {
		return true
	}
	return strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">")
}

func anyPlaceholder(values ...string) bool {
	for _, v := range values {
		if isPlaceholder(v) {
			return true
		}
	}
	return false
}

func labelsFor(id string, values []string) string {
	q, _, ok := DefaultCatalog().Lookup(id)
	if len(values) == 0 {
		return "-"
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if ok {
			v = q.OptionLabel(v)
		}
		out = append(out, v)
	}
	return strings.Join(out, ", ")
}

func labelFor(id, value string) string {
	if value == "" {
		return "-"
	}
	if q, _, ok := DefaultCatalog().Lookup(id); ok {
		return q.OptionLabel(value)
	}
	return value
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// BuildLeadParams flattens the profile and analysis into the fixed template
// keys the email template expects.
func BuildLeadParams(p request_models.Profile, a response_models.AnalysisResult, discount *int, now time.Time) LeadParams {
	p, _ = WithMetrics(p)

	bmi := "-"
	if p.BMI != nil {
		bmi = strconv.FormatFloat(*p.BMI, 'f', 1, 64)
	}
	discountText := "-"
	if discount != nil {
		discountText = fmt.Sprintf("R$ %d", *discount)
	}
	plan := a.RecommendedPlan
	if pr, ok := planCatalog[PlanID(plan)]; ok {
		plan = pr.Name
	}

	return LeadParams{
		{"nome", "Nome", dash(p.Name)},
		{"email", "E-mail", dash(p.Email)},
		{"telefone", "Telefone", dash(p.Phone)},
		{"sexo", "Sexo", labelFor(QSex, p.Sex)},
		{"idade", "Idade", dash(p.Age)},
		{"peso", "Peso (kg)", dash(p.Weight)},
		{"altura", "Altura", dash(p.Height)},
		{"imc", "IMC", bmi},
		{"classificacao_imc", "Classificação IMC", dash(p.BMICategory)},
		{"objetivo", "Objetivo", labelFor(QGoal, p.Goal)},
		{"nivel_atividade", "Nível de atividade", labelFor(QActivity, p.ActivityLevel)},
		{"frequencia_treino", "Frequência de treino", labelFor(QFrequency, p.TrainingFrequency)},
		{"local_treino", "Local de treino", labelFor(QLocation, p.TrainingLocation)},
		{"dificuldades", "Dificuldades", labelsFor(QChallenges, p.Challenges)},
		{"condicoes_medicas", "Condições de saúde", labelsFor(QConditions, p.MedicalConditions)},
		{"lesoes", "Lesões", dash(p.Injuries)},
		{"sono", "Sono", labelFor(QSleep, p.Sleep)},
		{"alimentacao", "Alimentação", labelFor(QDiet, p.Diet)},
		{"consumo_agua", "Consumo de água", labelFor(QWater, p.WaterIntake)},
		{"clima", "Clima", labelFor(QClimate, p.Climate)},
		{"peso_desejado", "Peso desejado", dash(p.TargetWeight)},
		{"prazo", "Prazo", dash(p.Deadline)},
		{"data_inicio", "Data de início", dash(p.StartDate)},
		{"motivacao", "Motivação", labelsFor(QMotivations, p.Motivations)},
		{"analise", "Análise", dash(a.Narrative)},
		{"plano_recomendado", "Plano recomendado", dash(plan)},
		{"mensagem_motivacional", "Mensagem motivacional", dash(a.Motivation)},
		{"desafios", "Desafios", strings.Join(a.Challenges, "; ")},
		{"metas", "Metas", strings.Join(a.Goals, "; ")},
		{"desconto", "Desconto", discountText},
		{"data_envio", "Data de envio", utils.FormatDisplayBR(now)},
	}
}

type NotificationServiceInterface interface {
	Notify(ctx context.Context, profile request_models.Profile, analysis response_models.AnalysisResult, discount *int) (bool, error)
}

type NotificationService struct {
	mailer LeadMailer
	logger *zap.Logger
	now    func() time.Time
}

func NewNotificationService(mailer LeadMailer, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{mailer: mailer, logger: logger, now: time.Now}
}

// Notify reports true when the mail service accepted the lead and false,
// nil when no mailer is configured.
func (s *NotificationService) Notify(ctx context.Context, profile request_models.Profile, analysis response_models.AnalysisResult, discount *int) (bool, error) {
	if s.mailer == nil || !s.mailer.Configured() {
		s.logger.Debug("lead email skipped, mailer not configured")
		return false, nil
	}

	params := BuildLeadParams(profile, analysis, discount, s.now())
	if err := s.mailer.SendLead(ctx, params); err != nil {
		return false, fmt.Errorf("%s: %w", s.mailer.Name(), err)
	}

	s.logger.Info("lead email sent", zap.String("mailer", s.mailer.Name()), zap.String("plan", analysis.RecommendedPlan))
	return true, nil
}
