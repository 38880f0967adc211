package services

import (
	"math"
	"strconv"
	"strings"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/models/response_models"
)

const (
	DefaultAge = 30
	SeniorAge  = 65
)

type Sex int

const (
	SexUnknown Sex = iota
	SexMale
	SexFemale
)

type Goal string

const (
	GoalLoseWeight Goal = "emagrecer"
	GoalGainMuscle Goal = "ganhar_massa"
	GoalMaintain   Goal = "manter"
	GoalHealth     Goal = "saude"
)

type ActivityLevel string

const (
	ActivityUnknown  ActivityLevel = ""
	ActivityLow      ActivityLevel = "baixa"
	ActivityModerate ActivityLevel = "moderada"
	ActivityHigh     ActivityLevel = "alta"
)

type Climate string

const (
	ClimateNormal Climate = "normal"
	ClimateHot    Climate = "quente"
	ClimateCold   Climate = "frio"
)

// BMICategory is ordered by severity; the zero value is the lowest band.
type BMICategory int

const (
	CategoryUnderweight BMICategory = iota
	CategoryNormal
	CategoryOverweight
	CategoryObesity1
	CategoryObesity2
	CategoryObesity3
)

var categoryLabels = [...]string{
	CategoryUnderweight: "Abaixo do peso",
	CategoryNormal:      "Peso normal",
	CategoryOverweight:  "Sobrepeso",
	CategoryObesity1:    "Obesidade Grau 1",
	CategoryObesity2:    "Obesidade Grau 2",
	CategoryObesity3:    "Obesidade Grau 3",
}

func (c BMICategory) String() string {
	if c < CategoryUnderweight || c > CategoryObesity3 {
		return "Desconhecido"
	}
	return categoryLabels[c]
}

func (c BMICategory) Severity() int { return int(c) }

// ParseBMICategory maps a label back to its category. Matching ignores case
// and surrounding whitespace.
func ParseBMICategory(label string) (BMICategory, bool) {
	label = strings.TrimSpace(label)
	for i, l := range categoryLabels {
		if strings.EqualFold(l, label) {
			return BMICategory(i), true
		}
	}
	return CategoryUnderweight, false
}

// Upper bounds (exclusive) of the first five bands. Anything at or above the
// last bound is Obesidade Grau 3.
var (
	adultBMIBounds  = [5]float64{18.5, 24.9, 29.9, 34.9, 39.9}
	seniorBMIBounds = [5]float64{22, 27, 30, 35, 40}
)

// CategorizeBMI returns the first band whose upper bound is strictly greater
// than bmi. Ages of 65 and up use the senior table.
func CategorizeBMI(bmi float64, age int) BMICategory {
	bounds := adultBMIBounds
	if age >= SeniorAge {
		bounds = seniorBMIBounds
	}
	for i, upper := range bounds {
		if bmi < upper {
			return BMICategory(i)
		}
	}
	return CategoryObesity3
}

func parseDecimal(raw string, suffixes ...string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suf))
			break
		}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// ParseWeight reads kilograms. "70", "70,5" and "70.5 kg" are accepted.
func ParseWeight(raw string) (float64, bool) {
	return parseDecimal(raw, "kg")
}

// ParseHeight returns meters. Values above 3 are taken as centimeters.
func ParseHeight(raw string) (float64, bool) {
	v, ok := parseDecimal(raw, "cm", "m")
	if !ok {
		return 0, false
	}
	if v > 3 {
		v /= 100
	}
	return v, true
}

// ParseAge truncates to whole years ("70,5" is 70) and returns DefaultAge
// for anything that is not a plausible age.
func ParseAge(raw string) int {
	v, ok := parseDecimal(raw)
	if !ok {
		return DefaultAge
	}
	n := int(v)
	if n <= 0 || n > 130 {
		return DefaultAge
	}
	return n
}

func BMIFromValues(weightKg, heightM float64) (float64, bool) {
	if weightKg <= 0 || heightM <= 0 {
		return 0, false
	}
	return weightKg / (heightM * heightM), true
}

// BMI parses raw inputs; ok is false when either value is unusable.
func BMI(weight, height string) (float64, bool) {
	w, ok := ParseWeight(weight)
	if !ok {
		return 0, false
	}
	h, ok := ParseHeight(height)
	if !ok {
		return 0, false
	}
	return BMIFromValues(w, h)
}

// BMR uses Mifflin-St Jeor. Unknown sex gets the male constant.
func BMR(weightKg, heightCm float64, age int, sex Sex) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == SexFemale {
		return bmr - 161
	}
	return bmr + 5
}

var proteinBase = map[Goal]float64{
	GoalLoseWeight: 1.6,
	GoalGainMuscle: 2.0,
	GoalMaintain:   1.2,
	GoalHealth:     0.8,
}

var proteinActivityBonus = map[ActivityLevel]float64{
	ActivityLow:      0,
	ActivityModerate: 0.2,
	ActivityHigh:     0.4,
}

// ProteinMultiplier is grams of protein per kilogram of body weight.
func ProteinMultiplier(goal Goal, activity ActivityLevel) float64 {
	base, ok := proteinBase[goal]
	if !ok {
		base = proteinBase[GoalHealth]
	}
	return base + proteinActivityBonus[activity]
}

func ProteinTarget(weightKg float64, goal Goal, activity ActivityLevel) float64 {
	return weightKg * ProteinMultiplier(goal, activity)
}

const waterPerKg = 35

var waterActivityML = map[ActivityLevel]float64{
	ActivityLow:      100,
	ActivityModerate: 300,
	ActivityHigh:     500,
}

var waterClimateML = map[Climate]float64{
	ClimateHot:  500,
	ClimateCold: -200,
}

// WaterTarget is in milliliters per day.
func WaterTarget(weightKg float64, activity ActivityLevel, climate Climate) float64 {
	return weightKg*waterPerKg + waterActivityML[activity] + waterClimateML[climate]
}

func NormalizeSex(raw string) Sex {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "masculino", "homem", "m", "male":
		return SexMale
	case "feminino", "mulher", "f", "female":
		return SexFemale
	}
	return SexUnknown
}

func NormalizeGoal(raw string) Goal {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "emagrecer", "perder_peso", "perder peso", "emagrecimento":
		return GoalLoseWeight
	case "ganhar_massa", "ganhar massa", "hipertrofia", "massa":
		return GoalGainMuscle
	case "manter", "manutencao", "manutenção", "manter_peso":
		return GoalMaintain
	}
	return GoalHealth
}

func NormalizeActivity(raw string) ActivityLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "baixa", "sedentario", "sedentário", "leve", "low":
		return ActivityLow
	case "moderada", "moderado", "moderate":
		return ActivityModerate
	case "alta", "alto", "intensa", "high":
		return ActivityHigh
	}
	return ActivityUnknown
}

func NormalizeClimate(raw string) Climate {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "quente", "calor", "hot":
		return ClimateHot
	case "frio", "cold":
		return ClimateCold
	}
	return ClimateNormal
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ComputeMetricsForProfile derives every metric from the profile's raw
// answers. ok is false when weight or height cannot be used.
func ComputeMetricsForProfile(p request_models.Profile) (response_models.DerivedMetrics, bool) {
	w, ok := ParseWeight(p.Weight)
	if !ok {
		return response_models.DerivedMetrics{}, false
	}
	h, ok := ParseHeight(p.Height)
	if !ok {
		return response_models.DerivedMetrics{}, false
	}
	bmi, ok := BMIFromValues(w, h)
	if !ok {
		return response_models.DerivedMetrics{}, false
	}

	age := ParseAge(p.Age)
	goal := NormalizeGoal(p.Goal)
	activity := NormalizeActivity(p.ActivityLevel)

	return response_models.DerivedMetrics{
		BMI:          round(bmi, 1),
		BMICategory:  CategorizeBMI(bmi, age).String(),
		BMR:          round(BMR(w, h*100, age, NormalizeSex(p.Sex)), 2),
		ProteinGrams: round(ProteinTarget(w, goal, activity), 1),
		WaterML:      math.Round(WaterTarget(w, activity, NormalizeClimate(p.Climate))),
		Senior:       age >= SeniorAge,
	}, true
}

// WithMetrics returns p with BMI and BMICategory filled in when they can be
// computed.
func WithMetrics(p request_models.Profile) (request_models.Profile, *response_models.DerivedMetrics) {
	m, ok := ComputeMetricsForProfile(p)
	if !ok {
		return p, nil
	}
	bmi := m.BMI
	p.BMI = &bmi
	p.BMICategory = m.BMICategory
	return p, &m
}

type MetricsServiceInterface interface {
	Calculate(req request_models.MetricsRequest) response_models.MetricsResponse
}

type MetricsService struct{}

func NewMetricsService() MetricsServiceInterface {
	return &MetricsService{}
}

func (s *MetricsService) Calculate(req request_models.MetricsRequest) response_models.MetricsResponse {
	m, ok := ComputeMetricsForProfile(request_models.Profile{
		Weight:        req.Weight,
		Height:        req.Height,
		Age:           req.Age,
		Sex:           req.Sex,
		Goal:          req.Goal,
		ActivityLevel: req.Activity,
		Climate:       req.Climate,
	})
	if !ok {
		return response_models.MetricsResponse{
			CanCalculate: false,
			Message:      "Informe peso e altura válidos para calcular",
		}
	}
	return response_models.MetricsResponse{CanCalculate: true, Metrics: &m}
}
