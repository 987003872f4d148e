package http

import (
	"net/http"

	"fabric-backend/internal/handlers"
	"fabric-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Job       *handlers.JobHandler
	Expense   *handlers.ExpenseHandler
	Rate      *handlers.RateHandler
	Bill      *handlers.BillHandler
	Dashboard *handlers.DashboardHandler
	Health    *handlers.HealthHandler
	Live      http.Handler
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RequestLogger)

	// Health and metrics
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())

	api := r.PathPrefix("/api/fabric").Subrouter()
	api.HandleFunc("/", h.Health.Root).Methods("GET")

	// Jobs
	api.HandleFunc("/job", h.Job.CreateJob).Methods("POST")
	api.HandleFunc("/job/{jobId}", h.Job.GetJob).Methods("GET")
	api.HandleFunc("/scan", h.Job.Scan).Methods("POST")
	api.HandleFunc("/update-stage", h.Job.UpdateStage).Methods("POST")
	api.HandleFunc("/jobs/search", h.Job.SearchJobs).Methods("GET")
	api.HandleFunc("/summary/{jobId}", h.Dashboard.JobSummary).Methods("GET")

	// Expenses
	api.HandleFunc("/expense", h.Expense.AddExpense).Methods("POST")
	api.HandleFunc("/expenses", h.Expense.ListExpenses).Methods("GET")
	api.HandleFunc("/expenses/search", h.Expense.SearchExpenses).Methods("GET")
	api.HandleFunc("/expense/{id}", h.Expense.UpdateExpense).Methods("PUT")
	api.HandleFunc("/expense/{id}", h.Expense.DeleteExpense).Methods("DELETE")

	// Rates
	api.HandleFunc("/set-rates", h.Rate.SetRates).Methods("POST")
	api.HandleFunc("/get-rates", h.Rate.GetRates).Methods("GET")

	// Bills (by-job must be registered before the file name route)
	api.HandleFunc("/bill/by-job/{jobId}", h.Bill.GetBillByJob).Methods("GET")
	api.HandleFunc("/bill/resend/{jobId}", h.Bill.ResendBill).Methods("POST")
	api.HandleFunc("/bill/{fileName}", h.Bill.GetBill).Methods("GET")
	api.HandleFunc("/bill-link/{jobId}", h.Bill.BillLink).Methods("GET")
	api.HandleFunc("/send-bill", h.Bill.SendBill).Methods("POST")

	// Dashboard
	api.HandleFunc("/dashboard/stats", h.Dashboard.Stats).Methods("GET")
	api.HandleFunc("/dashboard/chart-data", h.Dashboard.ChartData).Methods("GET")

	if h.Live != nil {
		api.Handle("/live", h.Live)
	}

	return r
}
