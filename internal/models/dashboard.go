package models

// DashboardStats is the headline block of the dashboard
type DashboardStats struct {
	TotalJobs     int     `json:"totalJobs"`
	TotalExpenses float64 `json:"totalExpenses"`
	Delivered     int     `json:"delivered"`
	Pending       int     `json:"pending"`
}

// StageCount is one bar of the stage distribution chart
type StageCount struct {
	Stage Stage `json:"stage"`
	Count int   `json:"count"`
}

// MonthExpense is the expense total of one calendar month (IST)
type MonthExpense struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// ChartData feeds the dashboard charts
type ChartData struct {
	StageCounts       []StageCount   `json:"stageCounts"`
	MonthWiseExpenses []MonthExpense `json:"monthWiseExpenses"`
}

// JobSummary shows what a job has cost so far
type JobSummary struct {
	PartyName   string  `json:"partyName"`
	FabricType  string  `json:"fabricType"`
	Stage       Stage   `json:"stage"`
	CoatingBill float64 `json:"coatingBill"`
	WashingBill float64 `json:"washingBill"`
}
