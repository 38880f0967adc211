package response_models

import (
	"time"

	"fitfunnel/internal/models/request_models"
)

// MetricsBundle is what the results view reads back under the
// "metrics_bundle" key.
type MetricsBundle struct {
	Profile request_models.Profile `json:"profile"`
	Metrics *DerivedMetrics        `json:"metrics"`
}

// AnalysisBundle is stored under "analysis_result". Analysis stays nil
// until the quiz is submitted; the discount is written as soon as it is
// drawn.
type AnalysisBundle struct {
	Analysis *AnalysisResult `json:"analysis,omitempty"`
	Plan     *PlanResponse   `json:"plan,omitempty"`
	Discount *int            `json:"discount,omitempty"`
}

type SnapshotResponse struct {
	ClientID  string          `json:"client_id"`
	Metrics   *MetricsBundle  `json:"metrics_bundle,omitempty"`
	Analysis  *AnalysisBundle `json:"analysis_result,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}
