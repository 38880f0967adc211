package response_models

type DerivedMetrics struct {
	BMI          float64 `json:"bmi"`
	BMICategory  string  `json:"bmi_category"`
	BMR          float64 `json:"bmr"`
	ProteinGrams float64 `json:"protein_grams"`
	WaterML      float64 `json:"water_ml"`
	Senior       bool    `json:"senior"`
}

type MetricsResponse struct {
	CanCalculate bool            `json:"can_calculate"`
	Metrics      *DerivedMetrics `json:"metrics"`
	Message      string          `json:"message,omitempty"`
}
