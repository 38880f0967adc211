package services

import (
	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/models/response_models"
)

// BuildProfile flattens the answer set into the profile used by metrics,
// analysis and the lead email. BMI fields are filled when computable.
func BuildProfile(a AnswerSet) request_models.Profile {
	weight, height := a.Pair(QMeasures)
	target, deadline := a.Pair(QTarget)
	name, phone := a.Pair(QContact)

	p := request_models.Profile{
		Name:              name,
		Email:             a.Text(QEmail),
		Phone:             phone,
		Sex:               a.Text(QSex),
		Age:               a.Text(QAge),
		Weight:            weight,
		Height:            height,
		Goal:              a.Text(QGoal),
		ActivityLevel:     a.Text(QActivity),
		TrainingFrequency: a.Text(QFrequency),
		TrainingLocation:  a.Text(QLocation),
		Challenges:        a.List(QChallenges),
		MedicalConditions: a.List(QConditions),
		Injuries:          a.Text(QInjuries),
		Sleep:             a.Text(QSleep),
		Diet:              a.Text(QDiet),
		WaterIntake:       a.Text(QWater),
		Climate:           a.Text(QClimate),
		TargetWeight:      target,
		Deadline:          deadline,
		StartDate:         a.Text(QStartDate),
		Motivations:       a.List(QMotivations),
	}
	p, _ = WithMetrics(p)
	return p
}

// ComputeMetrics derives metrics from the current answers. ok is false
// until weight and height are usable.
func ComputeMetrics(a AnswerSet) (*response_models.DerivedMetrics, bool) {
	m, ok := ComputeMetricsForProfile(BuildProfile(a))
	if !ok {
		return nil, false
	}
	return &m, true
}
