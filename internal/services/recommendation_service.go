package services

import (
	"fitfunnel/internal/models/response_models"
)

type PlanID string

const (
	PlanEssencial     PlanID = "essencial"
	PlanEvolucao      PlanID = "evolucao"
	PlanTransformacao PlanID = "transformacao"
)

// planOrder is the tier ladder, entry first.
var planOrder = []PlanID{PlanEssencial, PlanEvolucao, PlanTransformacao}

var planCatalog = map[PlanID]response_models.PlanResponse{
	PlanEssencial: {
		ID:             string(PlanEssencial),
		Name:           "Plano Essencial",
		Description:    "Treino guiado e acompanhamento mensal para criar o hábito.",
		Tier:           0,
		Price:          9700,
		Currency:       "BRL",
		DurationMonths: 1,
		Features: []string{
			"Planilha de treino personalizada",
			"Revisão mensal do treino",
			"Suporte por mensagem em dias úteis",
		},
	},
	PlanEvolucao: {
		ID:             string(PlanEvolucao),
		Name:           "Plano Evolução",
		Description:    "Treino e orientação alimentar com ajustes quinzenais.",
		Tier:           1,
		Price:          24700,
		Currency:       "BRL",
		DurationMonths: 3,
		Features: []string{
			"Tudo do Plano Essencial",
			"Orientação alimentar",
			"Ajustes a cada 15 dias",
			"Avaliação física por vídeo",
		},
	},
	PlanTransformacao: {
		ID:             string(PlanTransformacao),
		Name:           "Plano Transformação",
		Description:    "Acompanhamento completo e próximo para mudanças grandes.",
		Tier:           2,
		Price:          44700,
		Currency:       "BRL",
		DurationMonths: 6,
		Features: []string{
			"Tudo do Plano Evolução",
			"Acompanhamento semanal",
			"Chamadas individuais",
			"Suporte diário por WhatsApp",
		},
	},
}

// basePlanByCategory is the primary dispatch.
var basePlanByCategory = map[BMICategory]PlanID{
	CategoryUnderweight: PlanEssencial,
	CategoryNormal:      PlanEssencial,
	CategoryOverweight:  PlanEvolucao,
	CategoryObesity1:    PlanTransformacao,
	CategoryObesity2:    PlanTransformacao,
	CategoryObesity3:    PlanTransformacao,
}

func IsValidPlan(id string) bool {
	_, ok := planCatalog[PlanID(id)]
	return ok
}

func tierOf(id PlanID) int {
	for i, p := range planOrder {
		if p == id {
			return i
		}
	}
	return 0
}

// Recommend picks the base plan for the category and upgrades it by at most
// one tier when activity is high or an underweight profile wants muscle.
func Recommend(category BMICategory, activity ActivityLevel, goal Goal) PlanID {
	plan, ok := basePlanByCategory[category]
	if !ok {
		plan = PlanEssencial
	}

	upgrade := activity == ActivityHigh ||
		(goal == GoalGainMuscle && category == CategoryUnderweight)
	if upgrade {
		if t := tierOf(plan); t+1 < len(planOrder) {
			plan = planOrder[t+1]
		}
	}
	return plan
}

type RecommendationServiceInterface interface {
	Recommend(category BMICategory, activity ActivityLevel, goal Goal) response_models.PlanResponse
	Plans() []response_models.PlanResponse
	PlanByID(id string) (response_models.PlanResponse, bool)
}

type RecommendationService struct{}

func NewRecommendationService() RecommendationServiceInterface {
	return &RecommendationService{}
}

func (s *RecommendationService) Recommend(category BMICategory, activity ActivityLevel, goal Goal) response_models.PlanResponse {
	p, _ := s.PlanByID(string(Recommend(category, activity, goal)))
	return p
}

func (s *RecommendationService) Plans() []response_models.PlanResponse {
	out := make([]response_models.PlanResponse, 0, len(planOrder))
	for _, id := range planOrder {
		p, _ := s.PlanByID(string(id))
		out = append(out, p)
	}
	return out
}

func (s *RecommendationService) PlanByID(id string) (response_models.PlanResponse, bool) {
	p, ok := planCatalog[PlanID(id)]
	if !ok {
		return response_models.PlanResponse{}, false
	}
	p.Features = append([]string(nil), p.Features...)
	return p, true
}
