package response_models

type PlanResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Tier           int      `json:"tier"`            // 0 entry, 1 mid, 2 top
	Price          int64    `json:"price"`           // cents
	Currency       string   `json:"currency"`        // "BRL"
	DurationMonths int      `json:"duration_months"` // billing period
	Features       []string `json:"features"`
}
