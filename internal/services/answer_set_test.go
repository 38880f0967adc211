package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitfunnel/pkg/utils"
)

func TestNewFormState_EveryIDPresent(t *testing.T) {
	c := DefaultCatalog()
	answers := NewFormState(c).Answers()

	require.Len(t, answers, c.Len())
	for _, q := range c.Questions() {
		v, ok := answers[q.ID]
		require.True(t, ok, q.ID)
		if q.Type == "multi_select" {
			assert.NotNil(t, v.List, q.ID)
			assert.Empty(t, v.List, q.ID)
		}
	}
}

func TestFormState_UpdateAnswerIsCopyOnWrite(t *testing.T) {
	f := NewFormState(DefaultCatalog())
	before := f.Answers()

	require.NoError(t, f.UpdateAnswer(QSex, TextAnswer(" feminino ")))
	assert.Equal(t, "", before.Text(QSex))
	assert.Equal(t, "feminino", f.Answers().Text(QSex))

	snapshot := f.Answers()
	snapshot[QSex] = TextAnswer("masculino")
	assert.Equal(t, "feminino", f.Answers().Text(QSex))
}

func TestFormState_UpdateAnswerValidation(t *testing.T) {
	f := NewFormState(DefaultCatalog())

	assert.ErrorIs(t, f.UpdateAnswer("nope", TextAnswer("x")), utils.ErrInvalidQuestion)
	assert.ErrorIs(t, f.UpdateAnswer(QSex, ListAnswer("masculino")), utils.ErrAnswerKindMismatch)
	assert.ErrorIs(t, f.UpdateAnswer(QSex, TextAnswer("robô")), utils.ErrInvalidOption)
	assert.ErrorIs(t, f.UpdateAnswer(QAge, TextAnswer("7")), utils.ErrInvalidOption)
	assert.ErrorIs(t, f.UpdateAnswer(QAge, TextAnswer("abc")), utils.ErrInvalidOption)
	assert.ErrorIs(t, f.UpdateAnswer(QMeasures, PairAnswer("setenta", "1.70")), utils.ErrInvalidOption)
	assert.ErrorIs(t, f.UpdateAnswer(QStartDate, TextAnswer("amanhã")), utils.ErrInvalidOption)
	assert.ErrorIs(t, f.UpdateAnswer(QChallenges, ListAnswer("falta_tempo", "voar")), utils.ErrInvalidOption)

	require.NoError(t, f.UpdateAnswer(QAge, TextAnswer("30")))
	require.NoError(t, f.UpdateAnswer(QMeasures, PairAnswer("70", "1,75")))
	require.NoError(t, f.UpdateAnswer(QStartDate, TextAnswer("01/02/2026")))
	require.NoError(t, f.UpdateAnswer(QChallenges, ListAnswer("falta_tempo", "constancia", "falta_tempo")))
	assert.Equal(t, []string{"falta_tempo", "constancia"}, f.Answers().List(QChallenges))
}

func TestFormState_ToggleOption(t *testing.T) {
	f := NewFormState(DefaultCatalog())

	require.NoError(t, f.ToggleOption(QMotivations, "saude"))
	require.NoError(t, f.ToggleOption(QMotivations, "estetica"))
	assert.Equal(t, []string{"saude", "estetica"}, f.Answers().List(QMotivations))

	require.NoError(t, f.ToggleOption(QMotivations, "saude"))
	assert.Equal(t, []string{"estetica"}, f.Answers().List(QMotivations))

	require.NoError(t, f.ToggleOption(QMotivations, "estetica"))
	assert.Empty(t, f.Answers().List(QMotivations))
	assert.NotNil(t, f.Answers()[QMotivations].List)

	assert.ErrorIs(t, f.ToggleOption(QSex, "masculino"), utils.ErrAnswerKindMismatch)
	assert.ErrorIs(t, f.ToggleOption(QMotivations, "dinheiro"), utils.ErrInvalidOption)
	assert.ErrorIs(t, f.ToggleOption("x", "y"), utils.ErrInvalidQuestion)
}

func TestFormState_IsStepComplete(t *testing.T) {
	c := DefaultCatalog()
	f := NewFormState(c)

	_, measuresStep, _ := c.Lookup(QMeasures)
	_, injuriesStep, _ := c.Lookup(QInjuries)
	_, challengesStep, _ := c.Lookup(QChallenges)

	assert.False(t, f.IsStepComplete(0))
	assert.True(t, f.IsStepComplete(injuriesStep), "optional question")
	assert.False(t, f.IsStepComplete(-1))
	assert.False(t, f.IsStepComplete(c.Len()))

	require.NoError(t, f.UpdateAnswer(QMeasures, PairAnswer("70", "")))
	assert.False(t, f.IsStepComplete(measuresStep), "pair needs both members")
	require.NoError(t, f.UpdateAnswer(QMeasures, PairAnswer("70", "175")))
	assert.True(t, f.IsStepComplete(measuresStep))

	assert.False(t, f.IsStepComplete(challengesStep))
	require.NoError(t, f.ToggleOption(QChallenges, "constancia"))
	assert.True(t, f.IsStepComplete(challengesStep))
}

func TestFormState_FirstIncompleteStep(t *testing.T) {
	f := NewFormState(DefaultCatalog())
	assert.Equal(t, 0, f.FirstIncompleteStep())

	require.NoError(t, f.UpdateAnswer(QSex, TextAnswer("masculino")))
	assert.Equal(t, 1, f.FirstIncompleteStep())

	fillAll(t, f)
	assert.Equal(t, -1, f.FirstIncompleteStep())
}

func TestRestoreFormState_NormalizesStoredAnswers(t *testing.T) {
	stored := AnswerSet{
		QSex:        TextAnswer("masculino"),
		QChallenges: {Kind: AnswerList},
		QMeasures:   TextAnswer("wrong kind"),
		"legacy":    TextAnswer("dropped"),
	}
	answers := RestoreFormState(DefaultCatalog(), stored).Answers()

	assert.Equal(t, "masculino", answers.Text(QSex))
	assert.NotNil(t, answers[QChallenges].List)
	assert.Equal(t, AnswerPair, answers[QMeasures].Kind)
	_, ok := answers["legacy"]
	assert.False(t, ok)
}

func TestBuildProfile(t *testing.T) {
	f := NewFormState(DefaultCatalog())
	fillAll(t, f)

	p := BuildProfile(f.Answers())
	assert.Equal(t, "Maria", p.Name)
	assert.Equal(t, "maria@example.com", p.Email)
	assert.Equal(t, "70", p.Weight)
	assert.Equal(t, "1,75", p.Height)
	assert.Equal(t, []string{"constancia"}, p.Challenges)
	require.NotNil(t, p.BMI)
	assert.InDelta(t, 22.9, *p.BMI, 1e-9)
	assert.Equal(t, "Peso normal", p.BMICategory)

	m, ok := ComputeMetrics(f.Answers())
	require.True(t, ok)
	assert.Equal(t, "Peso normal", m.BMICategory)
}

func TestComputeMetrics_DecimalSeniorAge(t *testing.T) {
	f := NewFormState(DefaultCatalog())
	fillAll(t, f)
	require.NoError(t, f.UpdateAnswer(QAge, TextAnswer("70,5")))

	m, ok := ComputeMetrics(f.Answers())
	require.True(t, ok)
	assert.True(t, m.Senior)
	assert.InDelta(t, 10*70+6.25*175-5*70-161, m.BMR, 0.01)
}

func TestComputeMetrics_CannotCalculateYet(t *testing.T) {
	_, ok := ComputeMetrics(NewFormState(DefaultCatalog()).Answers())
	assert.False(t, ok)
}

// fillAll answers every required question with a valid value.
func fillAll(t *testing.T, f *FormState) {
	t.Helper()
	for id, v := range sampleAnswers() {
		require.NoError(t, f.UpdateAnswer(id, v), id)
	}
}

func sampleAnswers() map[string]AnswerValue {
	return map[string]AnswerValue{
		QSex:         TextAnswer("feminino"),
		QAge:         TextAnswer("30"),
		QMeasures:    PairAnswer("70", "1,75"),
		QGoal:        TextAnswer("emagrecer"),
		QActivity:    TextAnswer("moderada"),
		QFrequency:   TextAnswer("3-4"),
		QLocation:    TextAnswer("academia"),
		QChallenges:  ListAnswer("constancia"),
		QConditions:  ListAnswer("nenhuma"),
		QSleep:       TextAnswer("6-8"),
		QDiet:        TextAnswer("razoavel"),
		QWater:       TextAnswer("1-2l"),
		QClimate:     TextAnswer("normal"),
		QTarget:      PairAnswer("65", "3 meses"),
		QStartDate:   TextAnswer("2026-11-01"),
		QMotivations: ListAnswer("saude", "autoestima"),
		QContact:     PairAnswer("Maria", "11999990000"),
		QEmail:       TextAnswer("maria@example.com"),
	}
}
