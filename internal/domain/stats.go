package domain

type IncidentStats struct {
	Minutes          int              `json:"minutes"`
	ReportedInWindow int64            `json:"reported_in_window"`
	Active           int64            `json:"active"`
	ByStatus         map[Status]int64 `json:"by_status"`
	UniqueUsers      int64            `json:"unique_users"`
}

type StatsRequest struct {
	Minutes int `query:"minutes" validate:"min=1,max=1440"` // one day max
}
