package transport

// FunnelStage is one step of the pipeline with its active lead count.
type FunnelStage struct {
	Estagio string `json:"estagio"`
	Count   int    `json:"count"`
	// Conversion is the share of leads at or past this stage relative to
	// the funnel entry, in percent. 100 for the first stage.
	Conversion float64 `json:"conversion"`
}

type FunnelResponse struct {
	Stages []FunnelStage `json:"stages"`
	Total  int           `json:"total"`
}

type OverviewResponse struct {
	TotalActive      int            `json:"totalActive"`
	TotalArchived    int            `json:"totalArchived"`
	MergesLast30Days int            `json:"mergesLast30Days"`
	PendingReviews   int            `json:"pendingReviews"`
	AverageScore     float64        `json:"averageScore"`
	NewLast7Days     int            `json:"newLast7Days"`
	PorOrigem        map[string]int `json:"porOrigem"`
}
