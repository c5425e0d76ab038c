package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Reports
	r.HandleFunc("/api/report", deps.ReportHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/report/range", deps.ReportHandler.GetRangeReport).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/report/team", deps.ReportHandler.GetTeamReports).Methods("GET")

	// Users
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.GetActiveUsers).Methods("GET")
}
