package services

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitfunnel/internal/models/request_models"
)

func TestParseHeight(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.70", 1.70, true},
		{"1,75", 1.75, true},
		{"170", 1.70, true},
		{"175 cm", 1.75, true},
		{"3", 3, true},
		{"0", 0, false},
		{"-1.7", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHeight(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseWeight(t *testing.T) {
	w, ok := ParseWeight(" 70,5 kg ")
	require.True(t, ok)
	assert.InDelta(t, 70.5, w, 1e-9)

	_, ok = ParseWeight("NaN")
	assert.False(t, ok)
	_, ok = ParseWeight("0")
	assert.False(t, ok)
}

func TestParseAge(t *testing.T) {
	assert.Equal(t, 42, ParseAge("42"))
	assert.Equal(t, DefaultAge, ParseAge(""))
	assert.Equal(t, DefaultAge, ParseAge("trinta"))
	assert.Equal(t, DefaultAge, ParseAge("-3"))
	assert.Equal(t, 70, ParseAge("70,5"))
	assert.Equal(t, 70, ParseAge("70.0"))
	assert.Equal(t, DefaultAge, ParseAge("0,5"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func TestBMI_MetersAndCentimetersAgree(t *testing.T) {
	for _, w := range []float64{45, 70, 98.4, 130} {
		for _, hcm := range []float64{150, 165, 175, 201} {
			got, ok := BMIFromValues(w, hcm/100)
			require.True(t, ok)
			assert.InDelta(t, w/((hcm/100)*(hcm/100)), got, 1e-9)

			fromCm, ok := BMI(formatFloat(w), formatFloat(hcm))
			require.True(t, ok)
			assert.InDelta(t, got, fromCm, 1e-9)
		}
	}
}

func TestBMI_Invalid(t *testing.T) {
	_, ok := BMI("", "1.70")
	assert.False(t, ok)
	_, ok = BMI("70", "zero")
	assert.False(t, ok)
	_, ok = BMIFromValues(70, 0)
	assert.False(t, ok)
}

func TestCategorizeBMI_Boundaries(t *testing.T) {
	tests := []struct {
		bmi  float64
		age  int
		want BMICategory
	}{
		{18.49, 30, CategoryUnderweight},
		{18.5, 30, CategoryNormal},
		{24.89, 30, CategoryNormal},
		{24.9, 30, CategoryOverweight},
		{29.9, 30, CategoryObesity1},
		{34.9, 30, CategoryObesity2},
		{39.9, 30, CategoryObesity3},
		{55, 30, CategoryObesity3},
		{21.9, 70, CategoryUnderweight},
		{22, 70, CategoryNormal},
		{27, 65, CategoryOverweight},
		{30, 65, CategoryObesity1},
		{35, 65, CategoryObesity2},
		{40, 65, CategoryObesity3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeBMI(tt.bmi, tt.age), "bmi=%v age=%d", tt.bmi, tt.age)
	}
}

func TestCategorizeBMI_Monotonic(t *testing.T) {
	for _, age := range []int{30, 70} {
		prev := CategorizeBMI(10, age)
		for bmi := 10.0; bmi <= 60; bmi += 0.05 {
			cur := CategorizeBMI(bmi, age)
			assert.GreaterOrEqual(t, cur.Severity(), prev.Severity(), "bmi=%v age=%d", bmi, age)
			prev = cur
		}
	}
}

func TestParseBMICategory(t *testing.T) {
	c, ok := ParseBMICategory(" obesidade grau 2 ")
	require.True(t, ok)
	assert.Equal(t, CategoryObesity2, c)

	_, ok = ParseBMICategory("magro")
	assert.False(t, ok)
}

func TestBMR(t *testing.T) {
	assert.InDelta(t, 1648.75, BMR(70, 175, 30, SexMale), 0.01)
	assert.InDelta(t, 1482.75, BMR(70, 175, 30, SexFemale), 0.01)
	assert.InDelta(t, BMR(70, 175, 30, SexMale), BMR(70, 175, 30, SexUnknown), 0.01)
}

func TestProteinTarget_Linear(t *testing.T) {
	for _, g := range []Goal{GoalLoseWeight, GoalGainMuscle, GoalMaintain, GoalHealth} {
		for _, a := range []ActivityLevel{ActivityLow, ActivityModerate, ActivityHigh} {
			assert.InDelta(t, 2*ProteinTarget(60, g, a), ProteinTarget(120, g, a), 1e-9)
		}
	}
	assert.InDelta(t, 70*1.8, ProteinTarget(70, GoalLoseWeight, ActivityModerate), 1e-9)
	assert.InDelta(t, 70*2.4, ProteinTarget(70, GoalGainMuscle, ActivityHigh), 1e-9)
	assert.InDelta(t, 70*0.8, ProteinTarget(70, Goal("unknown"), ActivityLow), 1e-9)
}

func TestWaterTarget(t *testing.T) {
	assert.InDelta(t, 2750, WaterTarget(70, ActivityModerate, ClimateNormal), 1e-9)
	assert.InDelta(t, 70*35+500+500, WaterTarget(70, ActivityHigh, ClimateHot), 1e-9)
	assert.InDelta(t, 70*35+100-200, WaterTarget(70, ActivityLow, ClimateCold), 1e-9)
	assert.InDelta(t, 70*35, WaterTarget(70, ActivityUnknown, ClimateNormal), 1e-9)
}

func TestNormalizers(t *testing.T) {
	assert.Equal(t, SexFemale, NormalizeSex("Feminino"))
	assert.Equal(t, SexMale, NormalizeSex("masculino"))
	assert.Equal(t, SexUnknown, NormalizeSex("outro"))
	assert.Equal(t, GoalGainMuscle, NormalizeGoal("Hipertrofia"))
	assert.Equal(t, GoalHealth, NormalizeGoal(""))
	assert.Equal(t, ActivityHigh, NormalizeActivity("ALTA"))
	assert.Equal(t, ActivityUnknown, NormalizeActivity("?"))
	assert.Equal(t, ClimateHot, NormalizeClimate("quente"))
	assert.Equal(t, ClimateNormal, NormalizeClimate("temperado"))
}

func TestComputeMetricsForProfile_EndToEnd(t *testing.T) {
	m, ok := ComputeMetricsForProfile(request_models.Profile{
		Weight:        "70",
		Height:        "1,75",
		Age:           "30",
		Sex:           "masculino",
		Goal:          "emagrecer",
		ActivityLevel: "moderada",
		Climate:       "normal",
	})
	require.True(t, ok)

	assert.InDelta(t, 22.9, m.BMI, 1e-9)
	assert.Equal(t, "Peso normal", m.BMICategory)
	assert.InDelta(t, 1648.75, m.BMR, 0.01)
	assert.InDelta(t, 126.0, m.ProteinGrams, 1e-9)
	assert.InDelta(t, 2750, m.WaterML, 1e-9)
	assert.False(t, m.Senior)
}

func TestComputeMetricsForProfile_CannotCalculate(t *testing.T) {
	_, ok := ComputeMetricsForProfile(request_models.Profile{Weight: "70"})
	assert.False(t, ok)
}

func TestMetricsService_Calculate(t *testing.T) {
	svc := NewMetricsService()

	resp := svc.Calculate(request_models.MetricsRequest{Weight: "abc", Height: "170"})
	assert.False(t, resp.CanCalculate)
	assert.Nil(t, resp.Metrics)
	assert.NotEmpty(t, resp.Message)

	resp = svc.Calculate(request_models.MetricsRequest{Weight: "80", Height: "170", Age: "70"})
	require.True(t, resp.CanCalculate)
	assert.True(t, resp.Metrics.Senior)
	assert.Equal(t, "Sobrepeso", resp.Metrics.BMICategory)
}
