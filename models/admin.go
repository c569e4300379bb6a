package models

// DashboardStats is the aggregate view served to the admin dashboard.
type DashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	TotalProviders    int64   `json:"total_providers"`
	TotalBookings     int64   `json:"total_bookings"`
	ActiveBookings    int64   `json:"active_bookings"`
	CompletedBookings int64   `json:"completed_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
}

// Pagination is the standard paging envelope for admin list endpoints.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}
