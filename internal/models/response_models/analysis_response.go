package response_models

const (
	AnalysisSourceLLM      = "llm"
	AnalysisSourceFallback = "fallback"
)

type AnalysisResult struct {
	Narrative       string   `json:"narrative"`
	RecommendedPlan string   `json:"recommendedPlan"`
	Motivation      string   `json:"motivation"`
	Challenges      []string `json:"challenges"`
	Goals           []string `json:"goals"`
	Source          string   `json:"source,omitempty"`
}
