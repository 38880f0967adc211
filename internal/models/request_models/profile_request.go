package request_models

// Profile is the aggregate of a lead's answers that drives metrics,
// recommendation, analysis and the lead email. Numeric fields stay as the
// raw strings the user typed; BMI and BMICategory are filled in once they
// can be computed.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	Sex    string `json:"sex"`
	Age    string `json:"age"`
	Weight string `json:"weight" binding:"required"`
	Height string `json:"height" binding:"required"`

	Goal              string   `json:"goal"`
	ActivityLevel     string   `json:"activity_level"`
	TrainingFrequency string   `json:"training_frequency,omitempty"`
	TrainingLocation  string   `json:"training_location,omitempty"`
	Challenges        []string `json:"challenges,omitempty"`

	MedicalConditions []string `json:"medical_conditions,omitempty"`
	Injuries          string   `json:"injuries,omitempty"`

	Sleep       string `json:"sleep,omitempty"`
	Diet        string `json:"diet,omitempty"`
	WaterIntake string `json:"water_intake,omitempty"`
	Climate     string `json:"climate,omitempty"`

	TargetWeight string   `json:"target_weight,omitempty"`
	Deadline     string   `json:"deadline,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	Motivations  []string `json:"motivations,omitempty"`

	BMI         *float64 `json:"bmi,omitempty"`
	BMICategory string   `json:"bmi_category,omitempty"`
}

// MetricsRequest is the body of the stand-alone calculator.
type MetricsRequest struct {
	Weight   string `json:"weight"`
	Height   string `json:"height"`
	Age      string `json:"age,omitempty"`
	Sex      string `json:"sex,omitempty"`
	Goal     string `json:"goal,omitempty"`
	Activity string `json:"activity,omitempty"`
	Climate  string `json:"climate,omitempty"`
}
