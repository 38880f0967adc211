package services

import (
	"fmt"
	"slices"
	"time"

	"fitfunnel/internal/models/response_models"
	"fitfunnel/pkg/utils"
)

type QuizPhase string

const (
	PhaseQuestion       QuizPhase = "question"
	PhaseDiscountUnlock QuizPhase = "discount_unlock"
	PhaseInterstitial   QuizPhase = "interstitial"
	PhaseSubmitting     QuizPhase = "submitting"
	PhaseResultShown    QuizPhase = "result_shown"
	PhaseExited         QuizPhase = "exited"
)

type SubmissionStatus string

const (
	SubmissionIdle      SubmissionStatus = "idle"
	SubmissionInFlight  SubmissionStatus = "in_flight"
	SubmissionSucceeded SubmissionStatus = "succeeded"
	SubmissionFailed    SubmissionStatus = "failed"
)

// Direction only drives the front-end transition animation.
type Direction string

const (
	DirectionNone     Direction = "none"
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

type Interstitial struct {
	Step    int       `json:"step"`
	Message string    `json:"message"`
	Until   time.Time `json:"until"`
}

// QuizSession is the stored state of one run through the quiz.
type QuizSession struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	Step       int       `json:"step"`
	MaxReached int       `json:"max_reached"`
	Phase      QuizPhase `json:"phase"`
	Direction  Direction `json:"direction"`
	Answers    AnswerSet `json:"answers"`

	Discount             *int `json:"discount,omitempty"`
	DiscountAcknowledged bool `json:"discount_acknowledged"`

	ShownInterstitials []int         `json:"shown_interstitials"`
	Interstitial       *Interstitial `json:"interstitial,omitempty"`

	Submission      SubmissionStatus            `json:"submission"`
	SubmissionID    string                      `json:"submission_id,omitempty"`
	SubmissionError string                      `json:"submission_error,omitempty"`
	Result          *response_models.QuizResult `json:"result,omitempty"`
	SnapshotWritten bool                        `json:"snapshot_written"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *QuizSession) submitted() bool {
	return s.Phase == PhaseSubmitting || s.Phase == PhaseResultShown
}

func (s *QuizSession) interstitialShown(step int) bool {
	return slices.Contains(s.ShownInterstitials, step)
}

// StepIncompleteError is returned when advancing past an unanswered
// mandatory question.
type StepIncompleteError struct {
	Step       int
	QuestionID string
}

func (e *StepIncompleteError) Error() string {
	return fmt.Sprintf("step %d (%s) incomplete", e.Step, e.QuestionID)
}

func (e *StepIncompleteError) Is(target error) bool { return target == utils.ErrStepIncomplete }

func (e *StepIncompleteError) Prompt() string { return "Por favor, responda esta pergunta" }

func (s *QuizSession) view(c *Catalog, now time.Time) response_models.QuizStateResponse {
	form := RestoreFormState(c, s.Answers)
	answers := form.Answers()

	resp := response_models.QuizStateResponse{
		SessionID:    s.ID,
		ClientID:     s.ClientID,
		Phase:        string(s.Phase),
		CurrentStep:  s.Step,
		TotalSteps:   c.Len(),
		MaxReached:   s.MaxReached,
		Direction:    string(s.Direction),
		Answers:      answers.View(),
		StepComplete: form.IsStepComplete(s.Step),
		Submission:   response_models.SubmissionView{Status: string(s.Submission), Error: s.SubmissionError},
		Result:       s.Result,
	}

	if !s.submitted() && s.Phase != PhaseExited {
		if q, ok := c.Question(s.Step); ok {
			resp.Question = &q
		}
	}
	if s.Discount != nil {
		resp.Discount = &response_models.DiscountView{Amount: *s.Discount, Acknowledged: s.DiscountAcknowledged}
	}
	if s.Interstitial != nil {
		remaining := s.Interstitial.Until.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		resp.Interstitial = &response_models.InterstitialView{
			Step:        s.Interstitial.Step,
			Message:     s.Interstitial.Message,
			RemainingMS: remaining.Milliseconds(),
		}
	}
	if m, ok := ComputeMetrics(answers); ok {
		resp.Metrics = m
	}
	return resp
}
