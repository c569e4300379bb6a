package models

import "time"

// ServiceProvider is the provider profile attached one-to-one to a
// User whose role is "provider".
type ServiceProvider struct {
	ID            string    `bson:"id" json:"id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	BusinessName  string    `bson:"business_name" json:"business_name"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	Services      []string  `bson:"services" json:"services"`
	HourlyRate    float64   `bson:"hourly_rate" json:"hourly_rate"`
	Rating        float64   `bson:"rating" json:"rating"`
	TotalReviews  int       `bson:"total_reviews" json:"total_reviews"`
	CompletedJobs int       `bson:"completed_jobs" json:"completed_jobs"`
	Verified      bool      `bson:"verified" json:"verified"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// OffersService reports whether the provider lists the given service
// type (case-insensitive match is done by the repository query; this
// helper is for in-memory checks).
func (p *ServiceProvider) OffersService(serviceType string) bool {
	for _, s := range p.Services {
		if s == serviceType {
			return true
		}
	}
	return false
}
