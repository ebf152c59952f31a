package models

// DashboardStats aggregates counters for the admin dashboard.
type DashboardStats struct {
	TotalUsers         int `json:"total_users"`
	TotalTeams         int `json:"total_teams"`
	TotalEvents        int `json:"total_events"`
	TotalRegistrations int `json:"total_registrations"`
}
