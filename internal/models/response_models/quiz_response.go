package response_models

import (
	"fitfunnel/internal/models/request_models"
)

type QuizQuestionsResponse struct {
	Questions  []request_models.QuizQuestion `json:"questions"`
	TotalSteps int                           `json:"total_steps"`
}

// AnswerView is the wire form of one stored answer.
type AnswerView struct {
	Kind string   `json:"kind"` // "text", "list" or "pair"
	Text string   `json:"text,omitempty"`
	List []string `json:"list,omitempty"`
	Pair []string `json:"pair,omitempty"`
}

type InterstitialView struct {
	Step        int    `json:"step"`
	Message     string `json:"message"`
	RemainingMS int64  `json:"remaining_ms"`
}

type DiscountView struct {
	Amount       int  `json:"amount"`
	Acknowledged bool `json:"acknowledged"`
}

type SubmissionView struct {
	Status string `json:"status"` // "idle", "in_flight", "succeeded", "failed"
	Error  string `json:"error,omitempty"`
}

type QuizResult struct {
	Analysis AnalysisResult  `json:"analysis"`
	Plan     PlanResponse    `json:"plan"`
	Metrics  *DerivedMetrics `json:"metrics"`
	Discount *int            `json:"discount,omitempty"`
}

type QuizStateResponse struct {
	SessionID    string                       `json:"session_id"`
	ClientID     string                       `json:"client_id"`
	Phase        string                       `json:"phase"`
	CurrentStep  int                          `json:"current_step"`
	TotalSteps   int                          `json:"total_steps"`
	MaxReached   int                          `json:"max_reached"`
	Direction    string                       `json:"direction"`
	Question     *request_models.QuizQuestion `json:"question,omitempty"`
	Answers      map[string]AnswerView        `json:"answers"`
	StepComplete bool                         `json:"step_complete"`
	Discount     *DiscountView                `json:"discount,omitempty"`
	Interstitial *InterstitialView            `json:"interstitial,omitempty"`
	Submission   SubmissionView               `json:"submission"`
	Metrics      *DerivedMetrics              `json:"metrics"`
	Result       *QuizResult                  `json:"result,omitempty"`
}
