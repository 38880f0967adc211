package services

import (
	"fitfunnel/internal/models/request_models"
)

// Question ids referenced outside the catalog.
const (
	QSex          = "sexo"
	QAge          = "idade"
	QMeasures     = "medidas"
	QGoal         = "objetivo"
	QActivity     = "atividade"
	QFrequency    = "frequencia"
	QLocation     = "local_treino"
	QChallenges   = "dificuldades"
	QConditions   = "condicoes"
	QInjuries     = "lesoes"
	QSleep        = "sono"
	QDiet         = "alimentacao"
	QWater        = "agua"
	QClimate      = "clima"
	QTarget       = "meta"
	QStartDate    = "inicio"
	QMotivations  = "motivacao"
	QContact      = "contato"
	QEmail        = "email"
	DiscountAfter = QMeasures
)

func intPtr(v int) *int { return &v }

func opts(pairs ...string) []request_models.QuizOption {
	out := make([]request_models.QuizOption, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, request_models.QuizOption{Value: pairs[i], Label: pairs[i+1]})
	}
	return out
}

var quizQuestions = []request_models.QuizQuestion{
	{
		ID:       QSex,
		Question: "Qual é o seu sexo biológico?",
		Subtitle: "Usamos essa informação para calcular seu metabolismo basal",
		Type:     request_models.KindSingleSelect,
		Options:  opts("masculino", "Masculino", "feminino", "Feminino"),
		Required: true,
		Category: "personal",
	},
	{
		ID:          QAge,
		Question:    "Quantos anos você tem?",
		Type:        request_models.KindNumeric,
		Required:    true,
		Category:    "personal",
		Placeholder: "Ex: 30",
		MinValue:    intPtr(14),
		MaxValue:    intPtr(100),
	},
	{
		ID:       QMeasures,
		Question: "Qual é o seu peso e altura?",
		Subtitle: "Com esses dados calculamos seu IMC",
		Type:     request_models.KindNumericPair,
		Required: true,
		Category: "physical",
		Labels:   []string{"Peso (kg)", "Altura (m ou cm)"},
	},
	{
		ID:       QGoal,
		Question: "Qual é o seu principal objetivo?",
		Type:     request_models.KindSingleSelect,
		Options: opts(
			"emagrecer", "Emagrecer",
			"ganhar_massa", "Ganhar massa muscular",
			"manter", "Manter o peso",
			"saude", "Melhorar a saúde",
		),
		Required: true,
		Category: "goal",
	},
	{
		ID:       QActivity,
		Question: "Qual é o seu nível de atividade física?",
		Type:     request_models.KindSingleSelect,
		Options: opts(
			"baixa", "Baixa (sedentário)",
			"moderada", "Moderada (1 a 3 treinos por semana)",
			"alta", "Alta (4 ou mais treinos por semana)",
		),
		Required: true,
		Category: "physical",
	},
	{
		ID:       QFrequency,
		Question: "Quantos dias por semana você pode treinar?",
		Type:     request_models.KindSingleSelect,
		Options:  opts("1-2", "1 a 2 dias", "3-4", "3 a 4 dias", "5+", "5 dias ou mais"),
		Required: true,
		Category: "goal",
	},
	{
		ID:       QLocation,
		Question: "Onde você prefere treinar?",
		Type:     request_models.KindSingleSelect,
		Options:  opts("academia", "Academia", "casa", "Em casa", "ar_livre", "Ao ar livre"),
		Required: true,
		Category: "goal",
	},
	{
		ID:       QChallenges,
		Question: "Quais são suas maiores dificuldades?",
		Subtitle: "Selecione todas que se aplicam",
		Type:     request_models.KindMultiSelect,
		Options: opts(
			"falta_tempo", "Falta de tempo",
			"falta_motivacao", "Falta de motivação",
			"alimentacao", "Manter a alimentação",
			"constancia", "Ser constante",
			"nao_sei_treinar", "Não sei como treinar",
		),
		Required: true,
		Category: "goal",
	},
	{
		ID:       QConditions,
		Question: "Você tem alguma condição de saúde?",
		Type:     request_models.KindMultiSelect,
		Options: opts(
			"nenhuma", "Nenhuma",
			"hipertensao", "Hipertensão",
			"diabetes", "Diabetes",
			"colesterol", "Colesterol alto",
			"articulares", "Problemas articulares",
		),
		Required: true,
		Category: "medical",
	},
	{
		ID:          QInjuries,
		Question:    "Tem alguma lesão ou limitação que devemos saber?",
		Type:        request_models.KindFreeText,
		Required:    false,
		Category:    "medical",
		Placeholder: "Descreva brevemente (opcional)",
	},
	{
		ID:       QSleep,
		Question: "Quantas horas você dorme por noite?",
		Type:     request_models.KindSingleSelect,
		Options:  opts("menos_6", "Menos de 6 horas", "6-8", "Entre 6 e 8 horas", "mais_8", "Mais de 8 horas"),
		Required: true,
		Category: "lifestyle",
	},
	{
		ID:       QDiet,
		Question: "Como você descreveria sua alimentação?",
		Type:     request_models.KindSingleSelect,
		Options: opts(
			"desregrada", "Desregrada",
			"razoavel", "Razoável",
			"equilibrada", "Equilibrada",
		),
		Required: true,
		Category: "lifestyle",
	},
	{
		ID:       QWater,
		Question: "Quanta água você bebe por dia?",
		Type:     request_models.KindSingleSelect,
		Options:  opts("menos_1l", "Menos de 1 litro", "1-2l", "De 1 a 2 litros", "mais_2l", "Mais de 2 litros"),
		Required: true,
		Category: "lifestyle",
	},
	{
		ID:       QClimate,
		Question: "Como é o clima onde você mora?",
		Type:     request_models.KindSingleSelect,
		Options:  opts("quente", "Quente", "normal", "Ameno", "frio", "Frio"),
		Required: true,
		Category: "lifestyle",
	},
	{
		ID:       QTarget,
		Question: "Qual é a sua meta?",
		Type:     request_models.KindTextPair,
		Required: true,
		Category: "goal",
		Labels:   []string{"Peso desejado (kg)", "Em quanto tempo?"},
	},
	{
		ID:          QStartDate,
		Question:    "Quando você quer começar?",
		Type:        request_models.KindDate,
		Required:    true,
		Category:    "goal",
		Placeholder: "dd/mm/aaaa",
	},
	{
		ID:       QMotivations,
		Question: "O que mais te motiva?",
		Type:     request_models.KindMultiSelect,
		Options: opts(
			"saude", "Saúde",
			"estetica", "Estética",
			"autoestima", "Autoestima",
			"desempenho", "Desempenho",
			"qualidade_vida", "Qualidade de vida",
		),
		Required: true,
		Category: "goal",
	},
	{
		ID:       QContact,
		Question: "Como podemos te chamar?",
		Type:     request_models.KindTextPair,
		Required: true,
		Category: "contact",
		Labels:   []string{"Nome", "WhatsApp"},
	},
	{
		ID:          QEmail,
		Question:    "Qual é o seu melhor e-mail?",
		Subtitle:    "Enviaremos sua análise personalizada",
		Type:        request_models.KindFreeText,
		Required:    true,
		Category:    "contact",
		Placeholder: "voce@exemplo.com",
	},
}

// interstitialMessages is shown when leaving the keyed step.
var interstitialMessages = map[int]string{
	4:  "Sabia que pessoas ativas têm um metabolismo até 15% mais rápido? Estamos analisando seu perfil...",
	9:  "Condições de saúde mudam a forma de treinar. Ajustando seu plano com segurança...",
	13: "Água e sono são metade do resultado. Calculando suas necessidades diárias...",
}

// Catalog is the fixed, ordered question list. The zero value is not usable;
// use DefaultCatalog.
type Catalog struct {
	questions     []request_models.QuizQuestion
	index         map[string]int
	interstitials map[int]string
	discountStep  int
}

func NewCatalog(questions []request_models.QuizQuestion, interstitials map[int]string, discountAfter string) *Catalog {
	c := &Catalog{
		questions:     questions,
		index:         make(map[string]int, len(questions)),
		interstitials: interstitials,
		discountStep:  -1,
	}
	for i, q := range questions {
		c.index[q.ID] = i
	}
	if i, ok := c.index[discountAfter]; ok {
		c.discountStep = i
	}
	return c
}

var defaultCatalog = NewCatalog(quizQuestions, interstitialMessages, DiscountAfter)

func DefaultCatalog() *Catalog { return defaultCatalog }

func (c *Catalog) Len() int { return len(c.questions) }

func copyQuestion(q request_models.QuizQuestion) request_models.QuizQuestion {
	q.Options = append([]request_models.QuizOption(nil), q.Options...)
	q.Labels = append([]string(nil), q.Labels...)
	return q
}

// Question returns a copy of the question at step.
func (c *Catalog) Question(step int) (request_models.QuizQuestion, bool) {
	if step < 0 || step >= len(c.questions) {
		return request_models.QuizQuestion{}, false
	}
	return copyQuestion(c.questions[step]), true
}

func (c *Catalog) Lookup(id string) (request_models.QuizQuestion, int, bool) {
	i, ok := c.index[id]
	if !ok {
		return request_models.QuizQuestion{}, -1, false
	}
	return copyQuestion(c.questions[i]), i, true
}

func (c *Catalog) Questions() []request_models.QuizQuestion {
	out := make([]request_models.QuizQuestion, len(c.questions))
	for i, q := range c.questions {
		out[i] = copyQuestion(q)
	}
	return out
}

// Interstitial returns the message shown when leaving step, if any.
func (c *Catalog) Interstitial(step int) (string, bool) {
	msg, ok := c.interstitials[step]
	return msg, ok
}

// DiscountStep is the step after which the discount is unlocked, or -1.
func (c *Catalog) DiscountStep() int { return c.discountStep }
