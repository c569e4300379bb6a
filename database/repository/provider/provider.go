package providerRepo

import "fundis/models"

// ProviderRepository defines persistence for provider profiles.
// Lookups return (nil, nil) when no document matches.
type ProviderRepository interface {
	Create(provider *models.ServiceProvider) error
	Update(provider *models.ServiceProvider) error
	GetByID(id string) (*models.ServiceProvider, error)
	GetByUserID(userID string) (*models.ServiceProvider, error)
	// FindVerifiedByService returns verified providers offering the
	// given service type, ordered by rating desc then completed jobs
	// desc then id asc, capped at limit.
	FindVerifiedByService(serviceType string, limit int) ([]models.ServiceProvider, error)
	IncrementCompletedJobs(id string) error
	SetVerified(id string, verified bool) error
	List(page, limit int) ([]models.ServiceProvider, int64, error)
	Count() (int64, error)
}
